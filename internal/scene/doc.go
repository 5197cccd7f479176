// Package scene turns a config.Config into a running layout: it generates
// the graph, builds each named force through a factory registry and wires
// them into a sim.Simulation. It also owns the interaction protocol used by
// live views (grab, drag, release) and runs seed ensembles for benchmarks.
package scene
