package scene

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/metrics"
)

// Result summarizes one ensemble member after its ticks.
type Result struct {
	Seed      int64
	Ticks     int
	Converged bool
	EndTick   int
	Alpha     float64
	Energy    float64
	Gap       float64
	Elapsed   time.Duration
}

// Ensemble runs the same scene under consecutive seeds, one goroutine per
// member. Each member owns its simulation; the config is shared read-only.
type Ensemble struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
	opts      []Option
}

func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64, opts ...Option) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, opts: opts}
}

// chunk is how many ticks a member runs between context checks.
const chunk = 16

func (e *Ensemble) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := *e.cfg
			cfg.Seed = e.seedStart + int64(i)

			sc, err := Build(&cfg, e.opts...)
			if err != nil {
				return err
			}
			tracker := metrics.NewTracker(sc.Sim)
			sc.Sim.AddObserver(tracker)

			start := time.Now()
			for done := 0; done < cfg.Ticks; done += chunk {
				if err := ctx.Err(); err != nil {
					return err
				}
				sc.Sim.Tick(min(chunk, cfg.Ticks-done))
			}

			nodes := sc.Sim.Nodes()
			results[i] = Result{
				Seed:      cfg.Seed,
				Ticks:     sc.Sim.Ticks(),
				Converged: sc.Sim.Converged(),
				EndTick:   tracker.EndTick(),
				Alpha:     sc.Sim.Alpha(),
				Energy:    metrics.Kinetic(nodes),
				Gap:       metrics.Gap(nodes),
				Elapsed:   time.Since(start),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
