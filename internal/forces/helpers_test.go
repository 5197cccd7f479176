package forces

import (
	"fmt"
	"math"

	"github.com/san-kum/forcesim/internal/sim"
)

func nodesAt(pts ...[2]float64) []sim.Node {
	nodes := make([]sim.Node, len(pts))
	for i, p := range pts {
		nodes[i] = sim.Node{ID: fmt.Sprintf("n%d", i), X: p[0], Y: p[1]}
	}
	return nodes
}

func dist(a, b *sim.Node) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func minSeparation(nodes []sim.Node) float64 {
	best := math.Inf(1)
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			best = math.Min(best, dist(&nodes[i], &nodes[j]))
		}
	}
	return best
}

func allFinite(nodes []sim.Node) bool {
	for _, n := range nodes {
		for _, v := range []float64{n.X, n.Y, n.VX, n.VY} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
