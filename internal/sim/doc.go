// Package sim implements the force-directed layout loop.
//
// A [Simulation] owns a copy of the caller's nodes and advances them one
// tick at a time:
//
//  1. rebuild the spatial index from current positions
//  2. apply every registered [Force] in registration order
//  3. integrate free nodes with the [Integrator]; snap pinned nodes
//  4. move alpha toward alphaTarget by alphaDecay
//  5. notify observers, and report convergence once alpha < alphaMin
//
// # Driving the loop
//
// Pre-simulate a static layout synchronously:
//
//	s := sim.New(nodes, sim.DefaultConfig())
//	_ = s.SetForce("charge", forces.NewManyBody())
//	s.Tick(300)
//
// Or let an external scheduler call Tick(1) once per frame, or use [Simulation.Run]
// for a timer-driven headless loop.
//
// # Thread Safety
//
// Simulation instances are NOT thread-safe. Ticks, pin updates and position
// reads must happen on one goroutine, or be serialized by the host. Use
// [Simulation.Snapshot] to hand positions to another goroutine. [Simulation.Stop]
// is the only method that may be called concurrently with a running tick.
package sim
