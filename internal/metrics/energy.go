package metrics

import (
	"math"

	"github.com/san-kum/forcesim/internal/sim"
)

// KineticEnergy is the total ½|v|² of the layout at the last tick. It
// falls toward zero as the layout settles.
type KineticEnergy struct {
	name    string
	current float64
	peak    float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(nodes []sim.Node, _ float64) {
	e.current = Kinetic(nodes)
	e.peak = math.Max(e.peak, e.current)
	e.samples++
}

func (e *KineticEnergy) Value() float64 { return e.current }

// Peak is the largest energy seen since the last Reset.
func (e *KineticEnergy) Peak() float64 { return e.peak }

func (e *KineticEnergy) Reset() {
	e.current = 0
	e.peak = 0
	e.samples = 0
}

func Kinetic(nodes []sim.Node) float64 {
	var sum float64
	for i := range nodes {
		sum += 0.5 * (nodes[i].VX*nodes[i].VX + nodes[i].VY*nodes[i].VY)
	}
	return sum
}

// Momentum is |Σv| over all nodes. Symmetric forces keep it at zero when
// nothing is pinned; a drift away from zero points at an asymmetric force.
type Momentum struct {
	name     string
	current  float64
	maxDrift float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(nodes []sim.Node, _ float64) {
	var px, py float64
	for i := range nodes {
		px += nodes[i].VX
		py += nodes[i].VY
	}
	m.current = math.Hypot(px, py)
	m.maxDrift = math.Max(m.maxDrift, m.current)
}

func (m *Momentum) Value() float64 { return m.current }

func (m *Momentum) MaxDrift() float64 { return m.maxDrift }

func (m *Momentum) Reset() {
	m.current = 0
	m.maxDrift = 0
}
