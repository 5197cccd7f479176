package quadtree

import "math"

// Find returns the point nearest to (x, y). When radius is positive and
// finite only points strictly closer than radius are considered.
func (t *Tree) Find(x, y, radius float64) (int, bool) {
	if t.Empty() {
		return -1, false
	}

	r2 := math.Inf(1)
	sx0, sy0, sx1, sy1 := math.Inf(-1), math.Inf(-1), math.Inf(1), math.Inf(1)
	if radius > 0 && !math.IsInf(radius, 1) {
		r2 = radius * radius
		sx0, sy0, sx1, sy1 = x-radius, y-radius, x+radius, y+radius
	}

	best := -1
	stack := append(t.stack[:0], 0)
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cell := &t.cells[c]
		if cell.X0 > sx1 || cell.Y0 > sy1 || cell.X1 < sx0 || cell.Y1 < sy0 {
			continue
		}

		if !cell.IsLeaf() {
			// The quadrant containing the query is pushed last so it is
			// searched first and tightens the box early.
			near := quadrant(cell, x, y)
			for q := 0; q < 4; q++ {
				if ch := cell.Children[q]; q != near && ch >= 0 {
					stack = append(stack, ch)
				}
			}
			if ch := cell.Children[near]; ch >= 0 {
				stack = append(stack, ch)
			}
			continue
		}

		for p := cell.Point; p >= 0; p = t.next[p] {
			dx, dy := x-t.xs[p], y-t.ys[p]
			if d2 := dx*dx + dy*dy; d2 < r2 {
				r2 = d2
				best = int(p)
				d := math.Sqrt(d2)
				sx0, sy0, sx1, sy1 = x-d, y-d, x+d, y+d
			}
		}
	}
	t.stack = stack
	return best, best >= 0
}
