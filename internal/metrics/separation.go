package metrics

import (
	"math"

	"github.com/san-kum/forcesim/internal/sim"
)

// MinSeparation is the smallest gap between two node circles at the last
// tick: distance minus both radii. Negative values mean overlap.
type MinSeparation struct {
	name    string
	current float64
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{name: "min_separation"}
}

func (m *MinSeparation) Name() string { return m.name }

func (m *MinSeparation) Observe(nodes []sim.Node, _ float64) {
	m.current = Gap(nodes)
}

func (m *MinSeparation) Value() float64 {
	if math.IsInf(m.current, 1) {
		return 0
	}
	return m.current
}

func (m *MinSeparation) Reset() { m.current = 0 }

// Gap returns the smallest circle-to-circle gap, or +Inf for fewer than two
// nodes. It is quadratic in the node count.
func Gap(nodes []sim.Node) float64 {
	best := math.Inf(1)
	for i := range nodes {
		a := &nodes[i]
		for j := i + 1; j < len(nodes); j++ {
			b := &nodes[j]
			g := math.Hypot(a.X-b.X, a.Y-b.Y) - a.Radius - b.Radius
			best = math.Min(best, g)
		}
	}
	return best
}

// Overlap is the fraction of observed ticks that were free of overlaps
// deeper than the tolerance.
type Overlap struct {
	name       string
	tolerance  float64
	violations int
	samples    int
}

func NewOverlap(tolerance float64) *Overlap {
	return &Overlap{
		name:      "overlap_free",
		tolerance: tolerance,
	}
}

func (o *Overlap) Name() string { return o.name }

func (o *Overlap) Observe(nodes []sim.Node, _ float64) {
	o.samples++
	if Gap(nodes) < -o.tolerance {
		o.violations++
	}
}

func (o *Overlap) Value() float64 {
	if o.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(o.violations)/float64(o.samples)
}

func (o *Overlap) Reset() {
	o.violations = 0
	o.samples = 0
}
