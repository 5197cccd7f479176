package quadtree

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(pts [][2]float64) *Tree {
	t := New()
	t.Build(len(pts), func(i int) (float64, float64) { return pts[i][0], pts[i][1] })
	return t
}

func TestBuildCountsEveryPoint(t *testing.T) {
	pts := [][2]float64{{0, 0}, {10, 10}, {10, 0}, {0, 10}, {5, 5}, {2.5, 7.5}}
	tree := build(pts)

	require.False(t, tree.Empty())
	assert.Equal(t, len(pts), tree.Cell(0).Count)

	seen := make(map[int]bool)
	tree.Visit(func(c int, cell *Cell) bool {
		if cell.IsLeaf() {
			tree.Points(c, func(i int) { seen[i] = true })
		}
		return false
	})
	assert.Len(t, seen, len(pts))
}

func TestBuildEmpty(t *testing.T) {
	tree := build(nil)
	assert.True(t, tree.Empty())
	assert.Equal(t, 0, tree.Size())

	visited := 0
	tree.Visit(func(int, *Cell) bool { visited++; return false })
	assert.Zero(t, visited)

	_, ok := tree.Find(0, 0, 0)
	assert.False(t, ok)
}

func TestCoincidentPointsShareLeaf(t *testing.T) {
	pts := [][2]float64{{3, 3}, {3, 3}, {3, 3}, {8, 1}}
	tree := build(pts)

	var chained []int
	tree.Visit(func(c int, cell *Cell) bool {
		if cell.IsLeaf() && cell.Count == 3 {
			tree.Points(c, func(i int) { chained = append(chained, i) })
		}
		return false
	})
	assert.ElementsMatch(t, []int{0, 1, 2}, chained)
}

func TestNonFinitePointsSkipped(t *testing.T) {
	pts := [][2]float64{{1, 1}, {math.NaN(), 2}, {4, math.Inf(1)}, {2, 2}}
	tree := build(pts)
	assert.Equal(t, 2, tree.Cell(0).Count)
	assert.Equal(t, 4, tree.Len())
}

func TestRebuildReusesArena(t *testing.T) {
	tree := build([][2]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}})
	first := tree.Size()
	tree.Build(1, func(int) (float64, float64) { return 5, 5 })
	assert.Equal(t, 1, tree.Size())
	assert.Less(t, tree.Size(), first)
	x0, y0, _, _ := tree.Extent()
	assert.Equal(t, 5.0, x0)
	assert.Equal(t, 5.0, y0)
}

func TestVisitAfterChildrenFirst(t *testing.T) {
	pts := [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0.1, 0.1}, {0.2, 0.15}}
	tree := build(pts)

	done := make([]bool, tree.Size())
	tree.VisitAfter(func(c int, cell *Cell) {
		for _, ch := range cell.Children {
			if ch >= 0 {
				assert.True(t, done[ch], "child %d visited after parent %d", ch, c)
			}
		}
		done[c] = true
	})
	for c, ok := range done {
		assert.True(t, ok, "cell %d not visited", c)
	}
}

func TestVisitPrunes(t *testing.T) {
	pts := [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	tree := build(pts)

	visited := 0
	tree.Visit(func(c int, cell *Cell) bool {
		visited++
		return c == 0
	})
	assert.Equal(t, 1, visited)
}

func TestFindNearest(t *testing.T) {
	pts := [][2]float64{{0, 0}, {10, 0}, {0, 10}, {10, 10}}
	tree := build(pts)

	tests := []struct {
		name   string
		x, y   float64
		radius float64
		want   int
		found  bool
	}{
		{"unbounded", 9, 8, 0, 3, true},
		{"inside radius", 1, 1, 2, 0, true},
		{"outside radius", 5, 5, 2, -1, false},
		{"infinite radius", -50, 60, math.Inf(1), 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tree.Find(tt.x, tt.y, tt.radius)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindMatchesBruteForce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	coords := gen.SliceOfN(40, gen.Float64Range(-500, 500))

	properties.Property("find returns a nearest point", prop.ForAll(
		func(xs, ys []float64, qx, qy float64) bool {
			n := len(xs)
			if len(ys) < n {
				n = len(ys)
			}
			tree := New()
			tree.Build(n, func(i int) (float64, float64) { return xs[i], ys[i] })

			got, ok := tree.Find(qx, qy, 0)
			if n == 0 {
				return !ok
			}
			best := math.Inf(1)
			for i := 0; i < n; i++ {
				best = math.Min(best, math.Hypot(qx-xs[i], qy-ys[i]))
			}
			return ok && math.Abs(math.Hypot(qx-xs[got], qy-ys[got])-best) < 1e-9
		},
		coords,
		coords,
		gen.Float64Range(-600, 600),
		gen.Float64Range(-600, 600),
	))

	properties.TestingRun(t)
}
