package quadtree

import "math"

// maxDepth bounds subdivision for points that are distinct but closer
// together than float64 resolution allows to separate.
const maxDepth = 64

// Cell is a square region of the tree. A leaf holds a chain of points
// starting at Point; an internal cell holds up to four children.
type Cell struct {
	X0, Y0, X1, Y1 float64

	// Children are arena indices ordered NW, NE, SW, SE; -1 marks an
	// empty quadrant.
	Children [4]int32

	// Point is the first point of a leaf's chain, -1 for internal cells.
	Point int32

	// Count is the number of points in the cell's subtree.
	Count int
}

// IsLeaf reports whether the cell has no children.
func (c *Cell) IsLeaf() bool {
	return c.Children[0] < 0 && c.Children[1] < 0 && c.Children[2] < 0 && c.Children[3] < 0
}

// Width returns the side length of the cell.
func (c *Cell) Width() float64 { return c.X1 - c.X0 }

type Tree struct {
	cells []Cell
	next  []int32
	xs    []float64
	ys    []float64
	stack []int32
	out   []int32
}

func New() *Tree {
	return &Tree{}
}

// Build replaces the tree's contents with n points whose coordinates are
// reported by at. Points with non-finite coordinates are skipped.
func (t *Tree) Build(n int, at func(i int) (x, y float64)) {
	t.cells = t.cells[:0]
	t.xs = resize(t.xs, n)
	t.ys = resize(t.ys, n)
	if cap(t.next) < n {
		t.next = make([]int32, n)
	}
	t.next = t.next[:n]

	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for i := 0; i < n; i++ {
		x, y := at(i)
		t.xs[i], t.ys[i] = x, y
		t.next[i] = -1
		if !finite(x, y) {
			continue
		}
		x0, y0 = math.Min(x0, x), math.Min(y0, y)
		x1, y1 = math.Max(x1, x), math.Max(y1, y)
	}
	if x0 > x1 {
		return
	}

	size := math.Max(x1-x0, y1-y0)
	if size == 0 {
		size = 1
	}
	// Widen by one ulp-scale margin so the max coordinate lands strictly
	// inside the root square.
	size *= 1 + 1e-9
	t.alloc(x0, y0, x0+size, y0+size)

	for i := 0; i < n; i++ {
		if finite(t.xs[i], t.ys[i]) {
			t.insert(int32(i))
		}
	}
}

func (t *Tree) insert(i int32) {
	x, y := t.xs[i], t.ys[i]
	c := int32(0)
	for depth := 0; ; depth++ {
		cell := &t.cells[c]
		if cell.IsLeaf() {
			if cell.Point < 0 {
				cell.Point = i
				cell.Count = 1
				return
			}
			j := cell.Point
			if (t.xs[j] == x && t.ys[j] == y) || depth >= maxDepth {
				t.next[i] = j
				cell.Point = i
				cell.Count++
				return
			}
			// Push the existing chain down one level and retry.
			q := quadrant(cell, t.xs[j], t.ys[j])
			bx0, by0, bx1, by1 := childBounds(cell, q)
			count := cell.Count
			cell.Point = -1
			child := t.alloc(bx0, by0, bx1, by1)
			t.cells[child].Point = j
			t.cells[child].Count = count
			t.cells[c].Children[q] = child
			depth--
			continue
		}

		cell.Count++
		q := quadrant(cell, x, y)
		if next := cell.Children[q]; next >= 0 {
			c = next
			continue
		}
		bx0, by0, bx1, by1 := childBounds(cell, q)
		child := t.alloc(bx0, by0, bx1, by1)
		t.cells[child].Point = i
		t.cells[child].Count = 1
		t.cells[c].Children[q] = child
		return
	}
}

func (t *Tree) alloc(x0, y0, x1, y1 float64) int32 {
	t.cells = append(t.cells, Cell{
		X0: x0, Y0: y0, X1: x1, Y1: y1,
		Children: [4]int32{-1, -1, -1, -1},
		Point:    -1,
	})
	return int32(len(t.cells) - 1)
}

// Len returns the number of points the tree was built with, including
// skipped non-finite ones.
func (t *Tree) Len() int { return len(t.xs) }

// Size returns the number of cells in the arena. Per-cell aggregates can be
// stored in slices of this length and indexed by cell id.
func (t *Tree) Size() int { return len(t.cells) }

// Empty reports whether the tree holds no points.
func (t *Tree) Empty() bool { return len(t.cells) == 0 }

// Cell returns the cell with arena index c. The pointer is valid until the
// next Build.
func (t *Tree) Cell(c int) *Cell { return &t.cells[c] }

// Position returns the coordinates point i had when the tree was built.
func (t *Tree) Position(i int) (x, y float64) { return t.xs[i], t.ys[i] }

// Extent returns the root square, or zeros for an empty tree.
func (t *Tree) Extent() (x0, y0, x1, y1 float64) {
	if t.Empty() {
		return 0, 0, 0, 0
	}
	r := &t.cells[0]
	return r.X0, r.Y0, r.X1, r.Y1
}

// Points calls fn for every point chained in leaf c.
func (t *Tree) Points(c int, fn func(i int)) {
	for p := t.cells[c].Point; p >= 0; p = t.next[p] {
		fn(int(p))
	}
}

// Visit walks the tree in pre-order. When fn returns true the children of
// that cell are skipped.
func (t *Tree) Visit(fn func(c int, cell *Cell) bool) {
	if t.Empty() {
		return
	}
	stack := append(t.stack[:0], 0)
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cell := &t.cells[c]
		if fn(int(c), cell) {
			continue
		}
		for q := 3; q >= 0; q-- {
			if ch := cell.Children[q]; ch >= 0 {
				stack = append(stack, ch)
			}
		}
	}
	t.stack = stack
}

// VisitAfter walks the tree in post-order: every child is visited before
// its parent.
func (t *Tree) VisitAfter(fn func(c int, cell *Cell)) {
	if t.Empty() {
		return
	}
	stack := append(t.stack[:0], 0)
	out := t.out[:0]
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, c)
		for _, ch := range t.cells[c].Children {
			if ch >= 0 {
				stack = append(stack, ch)
			}
		}
	}
	for k := len(out) - 1; k >= 0; k-- {
		fn(int(out[k]), &t.cells[out[k]])
	}
	t.stack, t.out = stack, out
}

func quadrant(c *Cell, x, y float64) int {
	q := 0
	if x >= (c.X0+c.X1)/2 {
		q |= 1
	}
	if y >= (c.Y0+c.Y1)/2 {
		q |= 2
	}
	return q
}

func childBounds(c *Cell, q int) (x0, y0, x1, y1 float64) {
	xm, ym := (c.X0+c.X1)/2, (c.Y0+c.Y1)/2
	x0, x1 = c.X0, xm
	if q&1 != 0 {
		x0, x1 = xm, c.X1
	}
	y0, y1 = c.Y0, ym
	if q&2 != 0 {
		y0, y1 = ym, c.Y1
	}
	return
}

func finite(x, y float64) bool {
	return !math.IsNaN(x) && !math.IsNaN(y) && !math.IsInf(x, 0) && !math.IsInf(y, 0)
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
