package metrics

import (
	"github.com/san-kum/forcesim/internal/sim"
)

// Metric accumulates a scalar over the ticks of a layout.
type Metric interface {
	Name() string
	Observe(nodes []sim.Node, alpha float64)
	Value() float64
	Reset()
}

// Source is the read side of a simulation that metrics sample from.
type Source interface {
	Nodes() []sim.Node
	Alpha() float64
	Ticks() int
}

const defaultHistory = 512

// Tracker is a sim.Observer that feeds every tick to its metrics and keeps
// a bounded history of their values for plotting.
type Tracker struct {
	src     Source
	metrics []Metric
	history map[string][]float64
	alpha   []float64
	limit   int
	endTick int
}

func NewTracker(src Source, ms ...Metric) *Tracker {
	return &Tracker{
		src:     src,
		metrics: ms,
		history: make(map[string][]float64, len(ms)),
		limit:   defaultHistory,
		endTick: -1,
	}
}

// WithLimit caps each history at n samples; older samples are dropped.
func (t *Tracker) WithLimit(n int) *Tracker {
	if n > 0 {
		t.limit = n
	}
	return t
}

func (t *Tracker) OnTick() {
	nodes, alpha := t.src.Nodes(), t.src.Alpha()
	t.alpha = t.push(t.alpha, alpha)
	for _, m := range t.metrics {
		m.Observe(nodes, alpha)
		t.history[m.Name()] = t.push(t.history[m.Name()], m.Value())
	}
}

func (t *Tracker) OnEnd() { t.endTick = t.src.Ticks() }

func (t *Tracker) push(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > t.limit {
		s = s[len(s)-t.limit:]
	}
	return s
}

func (t *Tracker) Metrics() []Metric { return t.metrics }

func (t *Tracker) History(name string) []float64 { return t.history[name] }

func (t *Tracker) Alpha() []float64 { return t.alpha }

// EndTick is the tick at which the layout last cooled below alphaMin, or -1.
func (t *Tracker) EndTick() int { return t.endTick }

// Values returns the current value of each metric keyed by name.
func (t *Tracker) Values() map[string]float64 {
	out := make(map[string]float64, len(t.metrics))
	for _, m := range t.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (t *Tracker) Reset() {
	for _, m := range t.metrics {
		m.Reset()
	}
	clear(t.history)
	t.alpha = t.alpha[:0]
	t.endTick = -1
}

// Default is the metric set the CLI records for every run.
func Default() []Metric {
	return []Metric{NewKineticEnergy(), NewMomentum(), NewMinSeparation(), NewOverlap(0.5)}
}
