// Package quadtree provides the spatial index used by the layout engine.
//
// A [Tree] is rebuilt from scratch every tick. Cells live in a single
// contiguous arena and reference their children by index, so a rebuild
// reuses the previous tick's memory:
//
//   - [Tree.Build]: bulk-load n points through a position callback
//   - [Tree.Visit]: pre-order traversal with subtree pruning
//   - [Tree.VisitAfter]: post-order traversal for bottom-up aggregates
//   - [Tree.Find]: exact nearest-point query with an optional radius
//
// Points with identical coordinates share a leaf and are chained together,
// so coincident positions never cause unbounded subdivision.
package quadtree
