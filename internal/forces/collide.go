package forces

import (
	"math"

	"github.com/san-kum/forcesim/internal/quadtree"
	"github.com/san-kum/forcesim/internal/sim"
)

// Collide separates overlapping nodes by moving their positions apart
// along the line between centers. Each overlapping pair is pushed apart
// by overlap*strength, split in inverse proportion to r², so a small node
// yields to a large one. Pinned nodes never move.
//
// Corrections shift positions that later pairs in the same pass depend on,
// so chained overlaps need several iterations to settle.
type Collide struct {
	radius     NodeFunc
	strength   float64
	iterations int

	radii []float64
	maxR  []float64
	tree  *quadtree.Tree
	rnd   *sim.Jitter
}

func NewCollide() *Collide {
	return &Collide{
		radius:     NodeRadius,
		strength:   1,
		iterations: 1,
		tree:       quadtree.New(),
	}
}

func (c *Collide) Radius(fn NodeFunc) *Collide {
	c.radius = fn
	return c
}

func (c *Collide) Strength(v float64) *Collide {
	c.strength = v
	return c
}

func (c *Collide) Iterations(n int) *Collide {
	c.iterations = n
	return c
}

func (c *Collide) Init(nodes []sim.Node, rnd *sim.Jitter) error {
	c.rnd = rnd
	c.radii = make([]float64, len(nodes))
	return nil
}

// Apply ignores the tick index: positions change between iterations, so the
// force maintains its own tree.
func (c *Collide) Apply(nodes []sim.Node, _ float64, _ *quadtree.Tree) {
	c.radii = evaluate(c.radii, nodes, c.radius)

	for it := 0; it < c.iterations; it++ {
		c.tree.Build(len(nodes), func(i int) (float64, float64) { return nodes[i].X, nodes[i].Y })
		c.accumulate()
		for i := range nodes {
			c.resolve(nodes, i)
		}
	}
}

func (c *Collide) accumulate() {
	c.maxR = growCells(c.maxR, c.tree.Size())
	c.tree.VisitAfter(func(id int, cell *quadtree.Cell) {
		r := 0.0
		if cell.IsLeaf() {
			c.tree.Points(id, func(i int) { r = math.Max(r, c.radii[i]) })
		} else {
			for _, ch := range cell.Children {
				if ch >= 0 {
					r = math.Max(r, c.maxR[ch])
				}
			}
		}
		c.maxR[id] = r
	})
}

func (c *Collide) resolve(nodes []sim.Node, i int) {
	n := &nodes[i]
	ri := c.radii[i]

	c.tree.Visit(func(id int, cell *quadtree.Cell) bool {
		if cell.IsLeaf() {
			c.tree.Points(id, func(j int) {
				if j > i {
					c.separatePair(n, &nodes[j], ri, c.radii[j])
				}
			})
			return false
		}
		r := ri + c.maxR[id]
		return cell.X0 > n.X+r || cell.X1 < n.X-r || cell.Y0 > n.Y+r || cell.Y1 < n.Y-r
	})
}

func (c *Collide) separatePair(a, b *sim.Node, ra, rb float64) {
	rr := ra + rb
	dx, dy := a.X-b.X, a.Y-b.Y
	l := dx*dx + dy*dy
	if l >= rr*rr {
		return
	}
	dx, dy, l = separate(c.rnd, dx, dy, l, 0)
	d := math.Sqrt(l)
	k := (rr - d) / d * c.strength
	dx, dy = dx*k, dy*k

	_, _, pa := a.Pinned()
	_, _, pb := b.Pinned()
	var wa float64
	switch {
	case pa && pb:
		return
	case pa:
		wa = 0
	case pb:
		wa = 1
	default:
		ra2, rb2 := ra*ra, rb*rb
		wa = 0.5
		if ra2+rb2 > 0 {
			wa = rb2 / (ra2 + rb2)
		}
	}

	a.X += dx * wa
	a.Y += dy * wa
	b.X -= dx * (1 - wa)
	b.Y -= dy * (1 - wa)
}
