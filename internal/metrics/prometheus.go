package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exports a running layout to Prometheus. It is a sim.Observer.
type Collector struct {
	TicksTotal   prometheus.Counter
	EndsTotal    prometheus.Counter
	Alpha        prometheus.Gauge
	Energy       prometheus.Gauge
	Nodes        prometheus.Gauge
	TickInterval prometheus.Histogram

	src      Source
	registry *prometheus.Registry
	last     time.Time
	now      func() time.Time
}

// NewCollector registers the layout metrics on a fresh registry.
func NewCollector(src Source) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	c := &Collector{
		src:      src,
		registry: reg,
		now:      time.Now,
	}

	c.TicksTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "forcesim_ticks_total",
		Help: "Simulation ticks executed",
	})
	c.EndsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "forcesim_ends_total",
		Help: "Times the layout cooled below alpha_min",
	})
	c.Alpha = factory.NewGauge(prometheus.GaugeOpts{
		Name: "forcesim_alpha",
		Help: "Current simulation temperature",
	})
	c.Energy = factory.NewGauge(prometheus.GaugeOpts{
		Name: "forcesim_kinetic_energy",
		Help: "Total kinetic energy of all nodes",
	})
	c.Nodes = factory.NewGauge(prometheus.GaugeOpts{
		Name: "forcesim_nodes",
		Help: "Number of nodes in the layout",
	})
	c.TickInterval = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "forcesim_tick_interval_seconds",
		Help:    "Wall time between consecutive ticks",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	return c
}

func (c *Collector) OnTick() {
	now := c.now()
	if !c.last.IsZero() {
		c.TickInterval.Observe(now.Sub(c.last).Seconds())
	}
	c.last = now

	nodes := c.src.Nodes()
	c.TicksTotal.Inc()
	c.Alpha.Set(c.src.Alpha())
	c.Energy.Set(Kinetic(nodes))
	c.Nodes.Set(float64(len(nodes)))
}

func (c *Collector) OnEnd() { c.EndsTotal.Inc() }

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
