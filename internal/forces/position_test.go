package forces

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/forcesim/internal/sim"
)

func TestAxisPullsToTarget(t *testing.T) {
	s := sim.New(nodesAt([2]float64{100, -80}, [2]float64{-50, 40}), sim.DefaultConfig())
	require.NoError(t, s.SetForce("x", NewX(0)))
	require.NoError(t, s.SetForce("y", NewY(10)))

	s.Tick(300)
	for _, n := range s.Nodes() {
		assert.Less(t, math.Abs(n.X), 1.0, n.ID)
		assert.Less(t, math.Abs(n.Y-10), 1.0, n.ID)
	}
}

func TestAxisPerNodeTargets(t *testing.T) {
	s := sim.New(nodesAt([2]float64{0, 0}, [2]float64{0, 0}, [2]float64{0, 0}), sim.DefaultConfig())
	require.NoError(t, s.SetForce("x", NewX(0).Target(func(_ *sim.Node, i int) float64 { return float64(i) * 100 })))

	s.Tick(300)
	for i, n := range s.Nodes() {
		assert.InDelta(t, float64(i)*100, n.X, 1, n.ID)
	}
}

func TestAxisZeroStrengthStillEvaluated(t *testing.T) {
	calls := 0
	f := NewX(0).Strength(func(*sim.Node, int) float64 {
		calls++
		return 0
	})
	s := sim.New(nodesAt([2]float64{50, 0}), sim.DefaultConfig())
	require.NoError(t, s.SetForce("x", f))

	s.Tick(4)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 50.0, s.Node(0).X)
}

func TestRadialPullsOntoCircle(t *testing.T) {
	s := sim.New(nodesAt(
		[2]float64{1, 0},
		[2]float64{0, 120},
		[2]float64{-30, -30},
		[2]float64{0, 0},
	), sim.DefaultConfig())
	require.NoError(t, s.SetForce("radial", NewRadial(50, 0, 0)))

	s.Tick(300)
	for _, n := range s.Nodes() {
		assert.InDelta(t, 50, math.Hypot(n.X, n.Y), 2, n.ID)
	}
}

func TestCenterMovesMean(t *testing.T) {
	tests := []struct {
		name     string
		strength float64
		want     [2]float64
	}{
		{"full", 1, [2]float64{20, -10}},
		{"half", 0.5, [2]float64{15, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sim.New(nodesAt([2]float64{0, 0}, [2]float64{20, 20}), sim.DefaultConfig())
			require.NoError(t, s.SetForce("center", NewCenter(20, -10).Strength(tt.strength)))

			s.Tick(1)
			var mx, my float64
			for _, n := range s.Nodes() {
				mx += n.X / 2
				my += n.Y / 2
			}
			assert.InDelta(t, tt.want[0], mx, 1e-9)
			assert.InDelta(t, tt.want[1], my, 1e-9)
			assert.InDelta(t, 20*math.Sqrt2, dist(s.Node(0), s.Node(1)), 1e-9)
		})
	}
}

func TestBoundsClampsInsideBox(t *testing.T) {
	nodes := nodesAt([2]float64{200, 50}, [2]float64{50, -40}, [2]float64{50, 50})
	for i := range nodes {
		nodes[i].Radius = 5
	}
	nodes[2].VX = 80
	s := sim.New(nodes, sim.DefaultConfig())
	require.NoError(t, s.SetForce("bounds", Bounds(0, 0, 100, 100)))

	s.Tick(1)
	assert.Equal(t, 95.0, s.Node(0).X)
	assert.Equal(t, 5.0, s.Node(1).Y)
	assert.Equal(t, 95.0, s.Node(2).X)
	assert.Equal(t, 0.0, s.Node(2).VX)
}

func TestBoundsWithChargeStaysInBox(t *testing.T) {
	nodes := make([]sim.Node, 30)
	for i := range nodes {
		nodes[i] = sim.Unplaced(string(rune('a' + i)))
		nodes[i].Radius = 3
	}
	s := sim.New(nodes, sim.DefaultConfig())
	require.NoError(t, s.SetForce("charge", NewManyBody().Strength(Constant(-200))))
	require.NoError(t, s.SetForce("bounds", Bounds(-40, -40, 40, 40)))

	s.Tick(200)
	for _, n := range s.Nodes() {
		assert.GreaterOrEqual(t, n.X, -37.0-1e-9, n.ID)
		assert.LessOrEqual(t, n.X, 37.0+1e-9, n.ID)
		assert.GreaterOrEqual(t, n.Y, -37.0-1e-9, n.ID)
		assert.LessOrEqual(t, n.Y, 37.0+1e-9, n.ID)
	}
}
