package sim

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/forcesim/internal/quadtree"
)

type Simulation struct {
	nodes      []Node
	ids        map[string]int
	forces     registry
	integrator Integrator
	index      *quadtree.Tree
	finder     *quadtree.Tree
	jitter     *Jitter
	observers  []Observer
	logger     *zap.Logger

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64
	ticks         int

	stopped atomic.Bool
}

// New creates a simulation over a copy of nodes. The caller's slice is never
// mutated; Data payloads are shared, not deep-copied.
func New(nodes []Node, cfg Config) *Simulation {
	s := &Simulation{
		integrator:    Euler{},
		index:         quadtree.New(),
		finder:        quadtree.New(),
		jitter:        NewJitter(cfg.Seed),
		observers:     make([]Observer, 0),
		logger:        zap.NewNop(),
		alpha:         cfg.Alpha,
		alphaMin:      cfg.AlphaMin,
		alphaDecay:    cfg.AlphaDecay,
		alphaTarget:   cfg.AlphaTarget,
		velocityDecay: cfg.VelocityDecay,
	}
	s.setNodes(nodes)
	return s
}

func (s *Simulation) setNodes(nodes []Node) {
	s.nodes = make([]Node, len(nodes))
	copy(s.nodes, nodes)
	place(s.nodes)
	s.ids = make(map[string]int, len(s.nodes))
	for i := range s.nodes {
		if _, dup := s.ids[s.nodes[i].ID]; !dup {
			s.ids[s.nodes[i].ID] = i
		}
	}
}

// SetNodes replaces the node set and re-initializes every registered force.
func (s *Simulation) SetNodes(nodes []Node) error {
	s.setNodes(nodes)
	for i, f := range s.forces.forces {
		if err := f.Init(s.nodes, s.jitter); err != nil {
			return fmt.Errorf("force %q: %w", s.forces.names[i], err)
		}
	}
	return nil
}

// SetForce registers f under name, replacing any previous force of that
// name in place. A nil force removes the entry.
func (s *Simulation) SetForce(name string, f Force) error {
	if f == nil {
		if s.forces.remove(name) {
			s.logger.Debug("force removed", zap.String("force", name))
		}
		return nil
	}
	if err := f.Init(s.nodes, s.jitter); err != nil {
		return fmt.Errorf("force %q: %w", name, err)
	}
	s.forces.set(name, f)
	s.logger.Debug("force registered", zap.String("force", name), zap.Int("nodes", len(s.nodes)))
	return nil
}

// Force returns the force registered under name, or nil.
func (s *Simulation) Force(name string) Force { return s.forces.get(name) }

// ForceNames lists registered forces in application order.
func (s *Simulation) ForceNames() []string {
	return append([]string(nil), s.forces.names...)
}

func (s *Simulation) SetIntegrator(in Integrator) { s.integrator = in }
func (s *Simulation) SetLogger(l *zap.Logger)     { s.logger = l }
func (s *Simulation) AddObserver(o Observer)      { s.observers = append(s.observers, o) }

// Tick advances the simulation by n steps synchronously. It ticks even when
// the simulation is stopped or converged; Stop only affects Run.
func (s *Simulation) Tick(n int) {
	for i := 0; i < n; i++ {
		s.step()
	}
}

func (s *Simulation) step() {
	s.index.Build(len(s.nodes), s.position)

	for _, f := range s.forces.forces {
		f.Apply(s.nodes, s.alpha, s.index)
	}

	friction := 1 - s.velocityDecay
	for i := range s.nodes {
		n := &s.nodes[i]
		if x, y, ok := n.Pinned(); ok {
			n.X, n.Y = x, y
			n.VX, n.VY = 0, 0
			continue
		}
		if !s.integrator.Integrate(n, friction) {
			s.logger.Warn("non-finite step discarded",
				zap.String("node", n.ID), zap.Int("tick", s.ticks))
		}
	}

	hot := s.alpha >= s.alphaMin
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
	s.ticks++

	for _, o := range s.observers {
		o.OnTick()
	}
	if hot && s.alpha < s.alphaMin {
		s.logger.Debug("layout converged", zap.Int("tick", s.ticks), zap.Float64("alpha", s.alpha))
		for _, o := range s.observers {
			o.OnEnd()
		}
	}
}

func (s *Simulation) position(i int) (float64, float64) {
	return s.nodes[i].X, s.nodes[i].Y
}

// Run ticks every interval until the layout has converged with no target
// holding it hot, Stop is called or ctx is done. A non-positive interval
// ticks back to back. Run clears a previous Stop before starting.
func (s *Simulation) Run(ctx context.Context, interval time.Duration) error {
	s.stopped.Store(false)

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if s.stopped.Load() || s.Settled() {
			return nil
		}
		if tick == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			s.step()
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			s.step()
		}
	}
}

// Stop halts Run after the current tick. State is left untouched.
func (s *Simulation) Stop() *Simulation {
	s.stopped.Store(true)
	return s
}

// Restart clears a previous Stop without touching positions or alpha.
// Pair it with SetAlphaTarget to keep the layout hot during interaction.
func (s *Simulation) Restart() *Simulation {
	s.stopped.Store(false)
	return s
}

// Reheat resets alpha to 1 and clears a previous Stop.
func (s *Simulation) Reheat() *Simulation {
	s.alpha = 1
	return s.Restart()
}

func (s *Simulation) Stopped() bool { return s.stopped.Load() }

// Converged reports whether alpha has cooled below alphaMin.
func (s *Simulation) Converged() bool { return s.alpha < s.alphaMin }

// Settled reports whether the layout has converged with no alpha target
// holding it hot, so further ticks would not move it meaningfully.
func (s *Simulation) Settled() bool { return s.Converged() && s.alphaTarget < s.alphaMin }

// Find returns the node nearest to (x, y) within radius. A non-positive or
// infinite radius searches without bound.
func (s *Simulation) Find(x, y, radius float64) (*Node, bool) {
	s.finder.Build(len(s.nodes), s.position)
	i, ok := s.finder.Find(x, y, radius)
	if !ok {
		return nil, false
	}
	return &s.nodes[i], true
}

// Nodes returns the live node slice. Entries may be modified (pins, ad-hoc
// nudges) between ticks but the slice must not be resized.
func (s *Simulation) Nodes() []Node { return s.nodes }

func (s *Simulation) Node(i int) *Node { return &s.nodes[i] }

// Lookup returns the first node with the given id.
func (s *Simulation) Lookup(id string) (*Node, bool) {
	i, ok := s.ids[id]
	if !ok {
		return nil, false
	}
	return &s.nodes[i], true
}

// Snapshot copies current positions for hand-off to another goroutine.
func (s *Simulation) Snapshot() []Point {
	pts := make([]Point, len(s.nodes))
	for i := range s.nodes {
		pts[i] = Point{X: s.nodes[i].X, Y: s.nodes[i].Y}
	}
	return pts
}

func (s *Simulation) Alpha() float64         { return s.alpha }
func (s *Simulation) AlphaMin() float64      { return s.alphaMin }
func (s *Simulation) AlphaDecay() float64    { return s.alphaDecay }
func (s *Simulation) AlphaTarget() float64   { return s.alphaTarget }
func (s *Simulation) VelocityDecay() float64 { return s.velocityDecay }
func (s *Simulation) Ticks() int             { return s.ticks }

func (s *Simulation) SetAlpha(v float64) *Simulation {
	s.alpha = v
	return s
}

func (s *Simulation) SetAlphaMin(v float64) *Simulation {
	s.alphaMin = v
	return s
}

func (s *Simulation) SetAlphaDecay(v float64) *Simulation {
	s.alphaDecay = v
	return s
}

func (s *Simulation) SetAlphaTarget(v float64) *Simulation {
	s.alphaTarget = v
	return s
}

func (s *Simulation) SetVelocityDecay(v float64) *Simulation {
	s.velocityDecay = v
	return s
}
