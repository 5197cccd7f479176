package forces

import (
	"math"

	"github.com/san-kum/forcesim/internal/sim"
)

// NodeFunc computes a per-node parameter.
type NodeFunc func(n *sim.Node, i int) float64

// LinkFunc computes a per-link parameter.
type LinkFunc func(l *Link, i int) float64

func Constant(v float64) NodeFunc {
	return func(*sim.Node, int) float64 { return v }
}

func ConstantLink(v float64) LinkFunc {
	return func(*Link, int) float64 { return v }
}

// NodeRadius reads the node's own Radius.
func NodeRadius(n *sim.Node, _ int) float64 { return n.Radius }

// ScaledRadius returns n.Radius*scale + pad.
func ScaledRadius(scale, pad float64) NodeFunc {
	return func(n *sim.Node, _ int) float64 { return n.Radius*scale + pad }
}

// evaluate fills dst with fn over nodes, growing dst as needed.
func evaluate(dst []float64, nodes []sim.Node, fn NodeFunc) []float64 {
	if cap(dst) < len(nodes) {
		dst = make([]float64, len(nodes))
	}
	dst = dst[:len(nodes)]
	for i := range nodes {
		dst[i] = fn(&nodes[i], i)
	}
	return dst
}

// separate nudges exactly-zero components apart and floors the squared
// distance, so no distance-based force divides by zero.
func separate(rnd *sim.Jitter, dx, dy, l, min2 float64) (float64, float64, float64) {
	if dx == 0 {
		dx = rnd.Next()
		l += dx * dx
	}
	if dy == 0 {
		dy = rnd.Next()
		l += dy * dy
	}
	if l < min2 {
		l = math.Sqrt(min2 * l)
	}
	return dx, dy, l
}

func growCells(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
