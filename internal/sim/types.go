package sim

import (
	"math"

	"github.com/san-kum/forcesim/internal/quadtree"
)

// Force mutates node velocities (or, for constraint forces, positions)
// once per tick. Init is called whenever the force is registered or the
// node set is replaced; setup errors such as unresolvable links surface there.
type Force interface {
	Init(nodes []Node, rnd *Jitter) error
	Apply(nodes []Node, alpha float64, idx *quadtree.Tree)
}

// ForceFunc adapts a plain function into a Force. It has full read/write
// access to the node set and runs at the same point as built-in forces.
type ForceFunc func(nodes []Node, alpha float64)

func (f ForceFunc) Init([]Node, *Jitter) error { return nil }

func (f ForceFunc) Apply(nodes []Node, alpha float64, _ *quadtree.Tree) { f(nodes, alpha) }

// Observer is notified synchronously after each tick and when alpha first
// drops below alphaMin. Notifications carry no payload; observers read the
// simulation directly.
type Observer interface {
	OnTick()
	OnEnd()
}

// Hooks is an Observer built from optional callbacks.
type Hooks struct {
	Tick func()
	End  func()
}

func (h Hooks) OnTick() {
	if h.Tick != nil {
		h.Tick()
	}
}

func (h Hooks) OnEnd() {
	if h.End != nil {
		h.End()
	}
}

// Integrator advances one free node. friction is the velocity multiplier
// for the tick. It returns false when the step would produce a non-finite
// value, in which case the node must be left at its previous position.
type Integrator interface {
	Integrate(n *Node, friction float64) bool
}

// Euler is the first-order integrator: decay velocity, then move.
type Euler struct{}

func (Euler) Integrate(n *Node, friction float64) bool {
	vx, vy := n.VX*friction, n.VY*friction
	x, y := n.X+vx, n.Y+vy
	if !isFinite(vx) || !isFinite(vy) || !isFinite(x) || !isFinite(y) {
		n.VX, n.VY = 0, 0
		return false
	}
	n.VX, n.VY = vx, vy
	n.X, n.Y = x, y
	return true
}

type Config struct {
	Alpha         float64
	AlphaMin      float64
	AlphaDecay    float64
	AlphaTarget   float64
	VelocityDecay float64
	Seed          int64
}

func DefaultConfig() Config {
	return Config{
		Alpha:         1,
		AlphaMin:      0.001,
		AlphaDecay:    1 - math.Pow(0.001, 1.0/300),
		AlphaTarget:   0,
		VelocityDecay: 0.4,
		Seed:          1,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
