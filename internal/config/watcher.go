package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDelay = 250 * time.Millisecond

// Watcher reloads a scene file whenever it is written and hands valid
// configs to a callback. Invalid edits are logged and skipped.
type Watcher struct {
	path     string
	logger   *zap.Logger
	onChange func(*Config)
	watcher  *fsnotify.Watcher
	delay    time.Duration
}

// NewWatcher watches the directory holding path, since editors often
// replace files instead of writing them in place.
func NewWatcher(path string, logger *zap.Logger, onChange func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{path: abs, logger: logger, onChange: onChange, watcher: fsw, delay: debounceDelay}, nil
}

// Run blocks until ctx is done or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			w.logger.Debug("scene file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.delay, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("scene reload rejected", zap.String("file", w.path), zap.Error(err))
		return
	}
	w.logger.Info("scene reloaded", zap.String("file", w.path), zap.String("name", cfg.Name))
	w.onChange(cfg)
}
