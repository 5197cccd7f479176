package forces

import (
	"math"

	"github.com/san-kum/forcesim/internal/quadtree"
	"github.com/san-kum/forcesim/internal/sim"
)

// ManyBody applies charge between every pair of nodes. Negative strength
// repels, positive attracts. Distant clusters are approximated by their
// charge-weighted centroid once cellWidth²/distance² drops below theta².
type ManyBody struct {
	strength     NodeFunc
	theta2       float64
	distanceMin2 float64
	distanceMax2 float64

	strengths []float64
	charge    []float64
	cx, cy    []float64
	own       *quadtree.Tree
	rnd       *sim.Jitter
}

func NewManyBody() *ManyBody {
	return &ManyBody{
		strength:     Constant(-30),
		theta2:       0.81,
		distanceMin2: 1,
		distanceMax2: math.Inf(1),
	}
}

func (m *ManyBody) Strength(fn NodeFunc) *ManyBody {
	m.strength = fn
	return m
}

func (m *ManyBody) Theta(v float64) *ManyBody {
	m.theta2 = v * v
	return m
}

func (m *ManyBody) DistanceMin(v float64) *ManyBody {
	m.distanceMin2 = v * v
	return m
}

func (m *ManyBody) DistanceMax(v float64) *ManyBody {
	m.distanceMax2 = v * v
	return m
}

func (m *ManyBody) Init(nodes []sim.Node, rnd *sim.Jitter) error {
	m.rnd = rnd
	m.strengths = make([]float64, len(nodes))
	return nil
}

func (m *ManyBody) Apply(nodes []sim.Node, alpha float64, idx *quadtree.Tree) {
	if idx == nil || idx.Len() != len(nodes) {
		if m.own == nil {
			m.own = quadtree.New()
		}
		m.own.Build(len(nodes), func(i int) (float64, float64) { return nodes[i].X, nodes[i].Y })
		idx = m.own
	}

	m.strengths = evaluate(m.strengths, nodes, m.strength)
	m.accumulate(idx)
	for i := range nodes {
		m.applyTo(nodes, i, alpha, idx)
	}
}

// accumulate computes each cell's total charge and its charge-weighted
// centroid, bottom-up.
func (m *ManyBody) accumulate(idx *quadtree.Tree) {
	n := idx.Size()
	m.charge = growCells(m.charge, n)
	m.cx = growCells(m.cx, n)
	m.cy = growCells(m.cy, n)

	idx.VisitAfter(func(c int, cell *quadtree.Cell) {
		if cell.IsLeaf() {
			var q float64
			idx.Points(c, func(i int) { q += m.strengths[i] })
			x, y := idx.Position(int(cell.Point))
			m.charge[c], m.cx[c], m.cy[c] = q, x, y
			return
		}

		var q, w, x, y float64
		for _, ch := range cell.Children {
			if ch < 0 {
				continue
			}
			a := math.Abs(m.charge[ch])
			q += m.charge[ch]
			w += a
			x += a * m.cx[ch]
			y += a * m.cy[ch]
		}
		if w > 0 {
			x, y = x/w, y/w
		} else {
			x, y = (cell.X0+cell.X1)/2, (cell.Y0+cell.Y1)/2
		}
		m.charge[c], m.cx[c], m.cy[c] = q, x, y
	})
}

func (m *ManyBody) applyTo(nodes []sim.Node, i int, alpha float64, idx *quadtree.Tree) {
	n := &nodes[i]
	idx.Visit(func(c int, cell *quadtree.Cell) bool {
		q := m.charge[c]
		if q == 0 {
			return true
		}

		dx, dy := m.cx[c]-n.X, m.cy[c]-n.Y
		w := cell.Width()
		l := dx*dx + dy*dy

		if w*w/m.theta2 < l {
			if l < m.distanceMax2 {
				dx, dy, l = separate(m.rnd, dx, dy, l, m.distanceMin2)
				n.VX += dx * q * alpha / l
				n.VY += dy * q * alpha / l
			}
			return true
		}

		if !cell.IsLeaf() || l >= m.distanceMax2 {
			return false
		}

		if int(cell.Point) != i || cell.Count > 1 {
			dx, dy, l = separate(m.rnd, dx, dy, l, m.distanceMin2)
		}
		idx.Points(c, func(j int) {
			if j == i {
				return
			}
			k := m.strengths[j] * alpha / l
			n.VX += dx * k
			n.VY += dy * k
		})
		return false
	})
}
