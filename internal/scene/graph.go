package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/forces"
	"github.com/san-kum/forcesim/internal/sim"
)

var ErrInvalidGraph = errors.New("invalid graph")

const PointerID = "pointer"

// Attrs are the per-node attributes a scene can set. They travel in
// sim.Node.Data.
type Attrs struct {
	Charge *float64
	Group  int
}

// AttrsOf returns the node's scene attributes, or the zero value.
func AttrsOf(n *sim.Node) Attrs {
	if a, ok := n.Data.(Attrs); ok {
		return a
	}
	return Attrs{}
}

// Graph is a generated node set with its links. Pointer is the index of the
// pointer node, or -1.
type Graph struct {
	Nodes   []sim.Node
	Links   []forces.Link
	Pointer int
}

// Generate builds the graph described by g. Random generators draw from a
// source seeded with seed, so equal seeds give equal graphs.
func Generate(g config.GraphConfig, seed int64) (*Graph, error) {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x6a09e667f3bcc909))

	var (
		out *Graph
		err error
	)
	switch g.Kind {
	case "file":
		out, err = fromFile(g)
	case "lattice":
		out = lattice(g)
	case "random":
		out = random(g, rng)
	case "disjoint":
		out = disjoint(g)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidGraph, g.Kind)
	}
	if err != nil {
		return nil, err
	}

	out.Pointer = -1
	if g.Pointer != nil {
		out.addPointer(*g.Pointer)
	}
	return out, nil
}

func fromFile(g config.GraphConfig) (*Graph, error) {
	out := &Graph{Nodes: make([]sim.Node, 0, len(g.Nodes))}
	for _, nc := range g.Nodes {
		n := sim.Unplaced(nc.ID)
		n.Radius = nc.Radius
		n.Data = Attrs{Charge: nc.Charge, Group: nc.Group}
		if nc.X != nil {
			n.X = *nc.X
		}
		if nc.Y != nil {
			n.Y = *nc.Y
		}
		if nc.Fixed {
			if nc.X == nil || nc.Y == nil {
				return nil, fmt.Errorf("%w: fixed node %q needs x and y", ErrInvalidGraph, nc.ID)
			}
			n.Pin(*nc.X, *nc.Y)
		}
		out.Nodes = append(out.Nodes, n)
	}
	for _, lc := range g.Edges {
		out.Links = append(out.Links, forces.Link{
			Source:   lc.Source,
			Target:   lc.Target,
			Distance: lc.Distance,
			Strength: lc.Strength,
		})
	}
	return out, nil
}

// lattice links each cell of a size×size grid to its right and lower
// neighbour.
func lattice(g config.GraphConfig) *Graph {
	n := g.Size
	out := &Graph{Nodes: make([]sim.Node, 0, n*n)}
	for i := 0; i < n*n; i++ {
		node := sim.Unplaced(strconv.Itoa(i))
		node.Radius = g.Radius
		out.Nodes = append(out.Nodes, node)

		row, col := i/n, i%n
		if col+1 < n {
			out.Links = append(out.Links, forces.LinkByIndex(i, i+1))
		}
		if row+1 < n {
			out.Links = append(out.Links, forces.LinkByIndex(i, i+n))
		}
	}
	return out
}

// random scatters Size nodes with radii in [Radius, MaxRadius] over a
// Spread-wide square centred on the origin, then adds Links distinct
// random edges. A zero spread leaves nodes unplaced.
func random(g config.GraphConfig, rng *rand.Rand) *Graph {
	n := g.Size
	out := &Graph{Nodes: make([]sim.Node, 0, n)}
	for i := 0; i < n; i++ {
		node := sim.Unplaced(strconv.Itoa(i))
		node.Radius = g.Radius
		if g.MaxRadius > g.Radius {
			node.Radius += rng.Float64() * (g.MaxRadius - g.Radius)
		}
		if g.Spread > 0 {
			node.X = (rng.Float64() - 0.5) * g.Spread
			node.Y = (rng.Float64() - 0.5) * g.Spread
		}
		if g.Groups > 0 {
			node.Data = Attrs{Group: rng.IntN(g.Groups)}
		}
		out.Nodes = append(out.Nodes, node)
	}

	want := min(g.Links, n*(n-1)/2)
	seen := make(map[[2]int]bool, want)
	for len(out.Links) < want {
		a, b := rng.IntN(n), rng.IntN(n)
		if a == b {
			continue
		}
		key := [2]int{min(a, b), max(a, b)}
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Links = append(out.Links, forces.LinkByIndex(a, b))
	}
	return out
}

// disjoint builds Size stars of Degree leaves each, one group per star.
func disjoint(g config.GraphConfig) *Graph {
	out := &Graph{}
	for s := 0; s < g.Size; s++ {
		hub := len(out.Nodes)
		node := sim.Unplaced(fmt.Sprintf("s%d", s))
		node.Radius = g.Radius
		node.Data = Attrs{Group: s}
		out.Nodes = append(out.Nodes, node)

		for l := 0; l < g.Degree; l++ {
			leaf := sim.Unplaced(fmt.Sprintf("s%d-%d", s, l))
			leaf.Radius = g.Radius
			leaf.Data = Attrs{Group: s}
			out.Links = append(out.Links, forces.LinkByIndex(hub, len(out.Nodes)))
			out.Nodes = append(out.Nodes, leaf)
		}
	}
	return out
}

// addPointer prepends a zero-radius pinned node carrying the pointer's
// charge. Index-based links shift by one.
func (g *Graph) addPointer(pc config.PointerConfig) {
	p := sim.Node{ID: PointerID, X: pc.X, Y: pc.Y}
	charge := pc.Charge
	p.Data = Attrs{Charge: &charge, Group: -1}
	p.Pin(pc.X, pc.Y)

	g.Nodes = append([]sim.Node{p}, g.Nodes...)
	for i := range g.Links {
		if l := &g.Links[i]; l.ByIndex() {
			s, t := l.Endpoints()
			shifted := forces.LinkByIndex(s+1, t+1)
			shifted.Distance, shifted.Strength = l.Distance, l.Strength
			g.Links[i] = shifted
		}
	}
	g.Pointer = 0
}
