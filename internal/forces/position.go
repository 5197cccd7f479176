package forces

import (
	"math"

	"github.com/san-kum/forcesim/internal/quadtree"
	"github.com/san-kum/forcesim/internal/sim"
)

// axis pulls one coordinate toward a per-node target.
type axis struct {
	target   NodeFunc
	strength NodeFunc

	targets   []float64
	strengths []float64
}

func newAxis(v float64) axis {
	return axis{target: Constant(v), strength: Constant(0.1)}
}

func (a *axis) evaluate(nodes []sim.Node) {
	a.targets = evaluate(a.targets, nodes, a.target)
	a.strengths = evaluate(a.strengths, nodes, a.strength)
}

// X pulls nodes horizontally toward a target x.
type X struct{ axis }

func NewX(x float64) *X { return &X{newAxis(x)} }

func (f *X) Target(fn NodeFunc) *X {
	f.target = fn
	return f
}

func (f *X) Strength(fn NodeFunc) *X {
	f.strength = fn
	return f
}

func (f *X) Init([]sim.Node, *sim.Jitter) error { return nil }

func (f *X) Apply(nodes []sim.Node, alpha float64, _ *quadtree.Tree) {
	f.evaluate(nodes)
	for i := range nodes {
		nodes[i].VX += (f.targets[i] - nodes[i].X) * f.strengths[i] * alpha
	}
}

// Y pulls nodes vertically toward a target y.
type Y struct{ axis }

func NewY(y float64) *Y { return &Y{newAxis(y)} }

func (f *Y) Target(fn NodeFunc) *Y {
	f.target = fn
	return f
}

func (f *Y) Strength(fn NodeFunc) *Y {
	f.strength = fn
	return f
}

func (f *Y) Init([]sim.Node, *sim.Jitter) error { return nil }

func (f *Y) Apply(nodes []sim.Node, alpha float64, _ *quadtree.Tree) {
	f.evaluate(nodes)
	for i := range nodes {
		nodes[i].VY += (f.targets[i] - nodes[i].Y) * f.strengths[i] * alpha
	}
}

// Radial pulls nodes toward a circle of the given radius around (x, y).
type Radial struct {
	x, y     float64
	radius   NodeFunc
	strength NodeFunc

	radii     []float64
	strengths []float64
}

func NewRadial(radius, x, y float64) *Radial {
	return &Radial{
		x:        x,
		y:        y,
		radius:   Constant(radius),
		strength: Constant(0.1),
	}
}

func (f *Radial) Radius(fn NodeFunc) *Radial {
	f.radius = fn
	return f
}

func (f *Radial) Strength(fn NodeFunc) *Radial {
	f.strength = fn
	return f
}

func (f *Radial) Init([]sim.Node, *sim.Jitter) error { return nil }

func (f *Radial) Apply(nodes []sim.Node, alpha float64, _ *quadtree.Tree) {
	f.radii = evaluate(f.radii, nodes, f.radius)
	f.strengths = evaluate(f.strengths, nodes, f.strength)
	for i := range nodes {
		n := &nodes[i]
		dx, dy := n.X-f.x, n.Y-f.y
		if dx == 0 {
			dx = 1e-6
		}
		if dy == 0 {
			dy = 1e-6
		}
		r := math.Sqrt(dx*dx + dy*dy)
		k := (f.radii[i] - r) * f.strengths[i] * alpha / r
		n.VX += dx * k
		n.VY += dy * k
	}
}

// Center translates all nodes so their mean position moves toward (x, y).
// It acts on positions and does not scale with alpha.
type Center struct {
	x, y     float64
	strength float64
}

func NewCenter(x, y float64) *Center {
	return &Center{x: x, y: y, strength: 1}
}

func (f *Center) Strength(v float64) *Center {
	f.strength = v
	return f
}

func (f *Center) Init([]sim.Node, *sim.Jitter) error { return nil }

func (f *Center) Apply(nodes []sim.Node, _ float64, _ *quadtree.Tree) {
	if len(nodes) == 0 {
		return
	}
	var sx, sy float64
	for i := range nodes {
		sx += nodes[i].X
		sy += nodes[i].Y
	}
	n := float64(len(nodes))
	sx = (sx/n - f.x) * f.strength
	sy = (sy/n - f.y) * f.strength
	for i := range nodes {
		nodes[i].X -= sx
		nodes[i].Y -= sy
	}
}

// Bounds keeps every node's circle inside the box, killing the velocity
// component that points outward.
func Bounds(x0, y0, x1, y1 float64) sim.ForceFunc {
	return func(nodes []sim.Node, _ float64) {
		for i := range nodes {
			n := &nodes[i]
			lo, hi := x0+n.Radius, x1-n.Radius
			if n.X+n.VX < lo {
				n.X, n.VX = lo, math.Max(n.VX, 0)
			} else if n.X+n.VX > hi {
				n.X, n.VX = hi, math.Min(n.VX, 0)
			}
			lo, hi = y0+n.Radius, y1-n.Radius
			if n.Y+n.VY < lo {
				n.Y, n.VY = lo, math.Max(n.VY, 0)
			} else if n.Y+n.VY > hi {
				n.Y, n.VY = hi, math.Min(n.VY, 0)
			}
		}
	}
}
