package scene

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/forces"
	"github.com/san-kum/forcesim/internal/sim"
)

// DragAlphaTarget keeps the layout warm while a node is held.
const DragAlphaTarget = 0.3

type Scene struct {
	Config *config.Config
	Sim    *sim.Simulation
	Graph  *Graph

	logger  *zap.Logger
	held    *sim.Node
	options options
}

type options struct {
	logger   *zap.Logger
	registry *Registry
}

type Option func(*options)

func WithLogger(l *zap.Logger) Option { return func(o *options) { o.logger = l } }

func WithRegistry(r *Registry) Option { return func(o *options) { o.registry = r } }

// Build generates the graph and registers the configured forces in order.
func Build(cfg *config.Config, opts ...Option) (*Scene, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = NewRegistry()
	}

	g, err := Generate(cfg.Graph, cfg.Seed)
	if err != nil {
		return nil, err
	}

	s := sim.New(g.Nodes, cfg.SimConfig())
	s.SetLogger(o.logger.Named("sim"))

	for _, fc := range cfg.Forces {
		f, err := o.registry.Build(fc, g)
		if err != nil {
			return nil, fmt.Errorf("force %q: %w", fc.Name, err)
		}
		if err := s.SetForce(fc.Name, f); err != nil {
			return nil, fmt.Errorf("force %q: %w", fc.Name, err)
		}
	}

	o.logger.Debug("scene built",
		zap.String("name", cfg.Name),
		zap.String("graph", cfg.Graph.Kind),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("links", len(g.Links)),
		zap.Strings("forces", s.ForceNames()))

	return &Scene{Config: cfg, Sim: s, Graph: g, logger: o.logger, options: o}, nil
}

// Links returns the links of the scene's link forces with resolved
// endpoints, for drawing.
func (s *Scene) Links() []forces.Link {
	var out []forces.Link
	for _, name := range s.Sim.ForceNames() {
		if lf, ok := s.Sim.Force(name).(*forces.LinkForce); ok {
			out = append(out, lf.Links()...)
		}
	}
	return out
}

// Presimulate runs the configured number of ticks without rendering, and
// reports how long it took.
func (s *Scene) Presimulate() time.Duration {
	start := time.Now()
	s.Sim.Tick(s.Config.Ticks)
	elapsed := time.Since(start)
	s.logger.Info("presimulated",
		zap.Int("ticks", s.Config.Ticks),
		zap.Float64("alpha", s.Sim.Alpha()),
		zap.Duration("elapsed", elapsed))
	return elapsed
}

// Run ticks in real time until the layout settles or ctx is done.
func (s *Scene) Run(ctx context.Context, interval time.Duration) error {
	return s.Sim.Run(ctx, interval)
}

// Grab picks the node nearest to (x, y) within radius, pins it where it is
// and warms the layout. The pointer node cannot be grabbed.
func (s *Scene) Grab(x, y, radius float64) (*sim.Node, bool) {
	n, ok := s.Sim.Find(x, y, radius)
	if !ok || n.Index == s.Graph.Pointer {
		return nil, false
	}
	s.Release()
	n.Pin(n.X, n.Y)
	s.held = n
	s.Sim.SetAlphaTarget(DragAlphaTarget).Restart()
	return n, true
}

// Drag moves the held node's pin.
func (s *Scene) Drag(x, y float64) bool {
	if s.held == nil {
		return false
	}
	s.held.Pin(x, y)
	return true
}

// Release unpins the held node and lets the layout cool back to the
// scene's own alpha target.
func (s *Scene) Release() {
	if s.held == nil {
		return
	}
	s.held.Unpin()
	s.held = nil
	s.Sim.SetAlphaTarget(s.Config.Alpha.Target)
}

func (s *Scene) Held() (*sim.Node, bool) { return s.held, s.held != nil }

// MovePointer moves the pointer node and keeps the layout hot around it.
// It reports false when the scene has no pointer.
func (s *Scene) MovePointer(x, y float64) bool {
	if s.Graph.Pointer < 0 {
		return false
	}
	s.Sim.Node(s.Graph.Pointer).Pin(x, y)
	s.Sim.SetAlphaTarget(max(s.Sim.AlphaTarget(), DragAlphaTarget)).Restart()
	return true
}
