package forces

import (
	"fmt"
	"math"
	"strconv"

	"github.com/san-kum/forcesim/internal/quadtree"
	"github.com/san-kum/forcesim/internal/sim"
)

// Link connects two nodes by id. Distance and Strength override the force
// defaults for this link when set.
type Link struct {
	Source   string
	Target   string
	Distance *float64
	Strength *float64

	byIndex        bool
	source, target int
}

// LinkByIndex builds a link that refers to nodes by position in the node
// slice rather than by id.
func LinkByIndex(source, target int) Link {
	return Link{byIndex: true, source: source, target: target}
}

// ByIndex reports whether the link was built with LinkByIndex.
func (l *Link) ByIndex() bool { return l.byIndex }

// Endpoints returns the resolved node indices. Valid after Init, or for
// index links at any time.
func (l *Link) Endpoints() (source, target int) { return l.source, l.target }

// LinkForce pulls linked nodes toward a rest distance.
type LinkForce struct {
	links      []Link
	distance   LinkFunc
	strength   LinkFunc
	iterations int

	count     []int
	bias      []float64
	distances []float64
	strengths []float64
	rnd       *sim.Jitter
}

func NewLink(links []Link) *LinkForce {
	return &LinkForce{
		links:      append([]Link(nil), links...),
		distance:   ConstantLink(30),
		iterations: 1,
	}
}

// Links returns the force's links with resolved endpoints.
func (f *LinkForce) Links() []Link { return f.links }

func (f *LinkForce) Distance(fn LinkFunc) *LinkForce {
	f.distance = fn
	return f
}

// Strength overrides the default 1/min(degree(source), degree(target)).
// A nil fn restores the default.
func (f *LinkForce) Strength(fn LinkFunc) *LinkForce {
	f.strength = fn
	return f
}

func (f *LinkForce) Iterations(n int) *LinkForce {
	f.iterations = n
	return f
}

func (f *LinkForce) Init(nodes []sim.Node, rnd *sim.Jitter) error {
	f.rnd = rnd

	ids := make(map[string]int, len(nodes))
	for i := range nodes {
		if _, dup := ids[nodes[i].ID]; dup {
			return fmt.Errorf("%w: %q", sim.ErrDuplicateNode, nodes[i].ID)
		}
		ids[nodes[i].ID] = i
	}

	resolve := func(k int, id string, index int, byIndex bool) (int, error) {
		if byIndex {
			if index < 0 || index >= len(nodes) {
				return 0, &sim.ResolveError{Link: k, ID: strconv.Itoa(index), Wrapped: sim.ErrUnknownNode}
			}
			return index, nil
		}
		i, ok := ids[id]
		if !ok {
			return 0, &sim.ResolveError{Link: k, ID: id, Wrapped: sim.ErrUnknownNode}
		}
		return i, nil
	}

	f.count = make([]int, len(nodes))
	for k := range f.links {
		l := &f.links[k]
		s, err := resolve(k, l.Source, l.source, l.byIndex)
		if err != nil {
			return err
		}
		t, err := resolve(k, l.Target, l.target, l.byIndex)
		if err != nil {
			return err
		}
		l.source, l.target = s, t
		if l.byIndex {
			l.Source, l.Target = nodes[s].ID, nodes[t].ID
		}
		f.count[s]++
		f.count[t]++
	}

	f.bias = make([]float64, len(f.links))
	for k := range f.links {
		s, t := f.links[k].source, f.links[k].target
		f.bias[k] = float64(f.count[s]) / float64(f.count[s]+f.count[t])
	}
	return nil
}

func (f *LinkForce) Apply(nodes []sim.Node, alpha float64, _ *quadtree.Tree) {
	f.evaluate()

	for it := 0; it < f.iterations; it++ {
		for k := range f.links {
			s := &nodes[f.links[k].source]
			t := &nodes[f.links[k].target]

			x := t.X + t.VX - s.X - s.VX
			if x == 0 {
				x = f.rnd.Next()
			}
			y := t.Y + t.VY - s.Y - s.VY
			if y == 0 {
				y = f.rnd.Next()
			}
			l := math.Sqrt(x*x + y*y)
			l = (l - f.distances[k]) / l * alpha * f.strengths[k]
			x, y = x*l, y*l

			b := f.bias[k]
			t.VX -= x * b
			t.VY -= y * b
			s.VX += x * (1 - b)
			s.VY += y * (1 - b)
		}
	}
}

func (f *LinkForce) evaluate() {
	n := len(f.links)
	f.distances = growCells(f.distances, n)
	f.strengths = growCells(f.strengths, n)
	for k := range f.links {
		l := &f.links[k]
		switch {
		case l.Distance != nil:
			f.distances[k] = *l.Distance
		default:
			f.distances[k] = f.distance(l, k)
		}
		switch {
		case l.Strength != nil:
			f.strengths[k] = *l.Strength
		case f.strength != nil:
			f.strengths[k] = f.strength(l, k)
		default:
			f.strengths[k] = 1 / float64(min(f.count[l.source], f.count[l.target]))
		}
	}
}
