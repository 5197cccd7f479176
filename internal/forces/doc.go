// Package forces provides the built-in layout forces for [sim.Simulation]:
//
//   - [ManyBody]: Barnes-Hut approximated charge (repulsion or attraction)
//   - [LinkForce]: springs between linked nodes, normalized by degree
//   - [Collide]: iterative overlap resolution between node radii
//   - [X], [Y], [Radial]: pull toward a coordinate, line or circle
//   - [Center]: translate the layout so its mean sits on a point
//   - [Bounds]: clamp nodes into a box (a custom [sim.ForceFunc])
//
// Per-node parameters are given as accessors ([NodeFunc], [LinkFunc]) and
// re-evaluated every tick, so they may depend on the current layout.
// Setters return the receiver for chaining:
//
//	charge := forces.NewManyBody().Strength(forces.Constant(-30)).Theta(0.9)
package forces
