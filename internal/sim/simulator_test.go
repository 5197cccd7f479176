package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/forcesim/internal/quadtree"
)

type failingForce struct{ err error }

func (f failingForce) Init([]Node, *Jitter) error            { return f.err }
func (f failingForce) Apply([]Node, float64, *quadtree.Tree) {}

type countingForce struct {
	inits, applies int
	alphas         []float64
}

func (c *countingForce) Init([]Node, *Jitter) error { c.inits++; return nil }
func (c *countingForce) Apply(_ []Node, alpha float64, idx *quadtree.Tree) {
	c.applies++
	c.alphas = append(c.alphas, alpha)
}

func TestNewCopiesNodes(t *testing.T) {
	nodes := []Node{{ID: "a", X: 1, Y: 2}, {ID: "b", X: 3, Y: 4}}
	s := New(nodes, DefaultConfig())

	s.Node(0).X = 99
	s.Tick(1)

	assert.Equal(t, 1.0, nodes[0].X)
	assert.Equal(t, 0, nodes[1].Index)
	assert.Equal(t, 1, s.Node(1).Index)
}

func TestUnplacedNodesOnSpiral(t *testing.T) {
	nodes := []Node{Unplaced("a"), Unplaced("b"), Unplaced("c"), {ID: "d", X: 5, Y: 5, VX: math.NaN()}}
	s := New(nodes, DefaultConfig())

	a := s.Node(0)
	assert.InDelta(t, 10*math.Sqrt(0.5), math.Hypot(a.X, a.Y), 1e-12)

	seen := map[Point]bool{}
	for _, n := range s.Nodes() {
		p := Point{n.X, n.Y}
		assert.False(t, seen[p], "duplicate initial position %v", p)
		seen[p] = true
	}
	d := s.Node(3)
	assert.Equal(t, Point{5, 5}, Point{d.X, d.Y})
	assert.Zero(t, d.VX)
	assert.Zero(t, d.VY)
}

func TestAlphaDecayGeometric(t *testing.T) {
	tests := []struct {
		name  string
		decay float64
		ticks int
	}{
		{"default", DefaultConfig().AlphaDecay, 300},
		{"fast", 0.1, 50},
		{"none", 0, 10},
		{"single", 0.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.AlphaDecay = tt.decay
			s := New(nil, cfg)
			s.Tick(tt.ticks)
			assert.InDelta(t, math.Pow(1-tt.decay, float64(tt.ticks)), s.Alpha(), 1e-12)
			assert.Equal(t, tt.ticks, s.Ticks())
		})
	}
}

func TestAlphaDecayProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("alpha after n ticks is (1-d)^n", prop.ForAll(
		func(d float64, n int) bool {
			cfg := DefaultConfig()
			cfg.AlphaDecay = d
			s := New([]Node{{ID: "a"}}, cfg)
			s.Tick(n)
			return math.Abs(s.Alpha()-math.Pow(1-d, float64(n))) < 1e-12
		},
		gen.Float64Range(0, 0.9),
		gen.IntRange(0, 400),
	))

	properties.TestingRun(t)
}

func TestAlphaApproachesTarget(t *testing.T) {
	s := New(nil, DefaultConfig())
	s.SetAlpha(0).SetAlphaTarget(0.3)
	prev := s.Alpha()
	for i := 0; i < 50; i++ {
		s.Tick(1)
		require.Greater(t, s.Alpha(), prev)
		require.LessOrEqual(t, s.Alpha(), 0.3)
		prev = s.Alpha()
	}
}

func TestMomentumDecaysWithoutForces(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	momentum := func(s *Simulation) float64 {
		var px, py float64
		for _, n := range s.Nodes() {
			px += n.VX
			py += n.VY
		}
		return math.Hypot(px, py)
	}

	properties.Property("momentum shrinks by the friction factor each tick", prop.ForAll(
		func(vs []float64, ticks int) bool {
			nodes := make([]Node, len(vs))
			for i, v := range vs {
				nodes[i] = Node{ID: string(rune('a' + i%26)), X: float64(i), VX: v, VY: -v / 2}
			}
			s := New(nodes, DefaultConfig())
			before := momentum(s)
			s.Tick(ticks)
			return momentum(s) <= before*math.Pow(1-s.VelocityDecay(), float64(ticks))+1e-9
		},
		gen.SliceOfN(20, gen.Float64Range(-50, 50)),
		gen.IntRange(1, 60),
	))

	properties.TestingRun(t)
}

func TestPinnedNodeHoldsPosition(t *testing.T) {
	nodes := []Node{{ID: "a", X: 0, Y: 0}, {ID: "b", X: 10, Y: 0}}
	s := New(nodes, DefaultConfig())
	push := ForceFunc(func(nodes []Node, alpha float64) {
		for i := range nodes {
			nodes[i].VX += 5
			nodes[i].VY -= 3
		}
	})
	require.NoError(t, s.SetForce("push", push))

	s.Node(0).Pin(42, -7)
	for i := 0; i < 100; i++ {
		s.Tick(1)
		a := s.Node(0)
		require.Equal(t, 42.0, a.X)
		require.Equal(t, -7.0, a.Y)
		require.Zero(t, a.VX)
		require.Zero(t, a.VY)
	}
	assert.Greater(t, s.Node(1).X, 10.0)

	s.Node(0).Unpin()
	s.Tick(1)
	assert.Greater(t, s.Node(0).X, 42.0)
}

func TestNonFiniteStepDiscarded(t *testing.T) {
	s := New([]Node{{ID: "a", X: 1, Y: 1}}, DefaultConfig())
	require.NoError(t, s.SetForce("blowup", ForceFunc(func(nodes []Node, _ float64) {
		nodes[0].VX = math.Inf(1)
		nodes[0].VY = math.NaN()
	})))

	s.Tick(3)
	n := s.Node(0)
	assert.Equal(t, 1.0, n.X)
	assert.Equal(t, 1.0, n.Y)
	assert.Zero(t, n.VX)
	assert.Zero(t, n.VY)
}

func TestForcesRunInRegistrationOrder(t *testing.T) {
	var order []string
	mark := func(name string) Force {
		return ForceFunc(func([]Node, float64) { order = append(order, name) })
	}

	s := New([]Node{{ID: "a"}}, DefaultConfig())
	require.NoError(t, s.SetForce("one", mark("one")))
	require.NoError(t, s.SetForce("two", mark("two")))
	require.NoError(t, s.SetForce("three", mark("three")))
	require.NoError(t, s.SetForce("one", mark("uno")))
	require.NoError(t, s.SetForce("two", nil))

	s.Tick(1)
	assert.Equal(t, []string{"uno", "three"}, order)
	assert.Equal(t, []string{"one", "three"}, s.ForceNames())
	assert.Nil(t, s.Force("two"))
}

func TestForceSeesAlphaBeforeDecay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AlphaDecay = 0.5
	s := New([]Node{{ID: "a"}}, cfg)
	c := &countingForce{}
	require.NoError(t, s.SetForce("count", c))

	s.Tick(3)
	assert.Equal(t, 1, c.inits)
	assert.Equal(t, 3, c.applies)
	assert.Equal(t, []float64{1, 0.5, 0.25}, c.alphas)

	require.NoError(t, s.SetNodes([]Node{{ID: "x"}, {ID: "y"}}))
	assert.Equal(t, 2, c.inits)
}

func TestSetForceWrapsInitError(t *testing.T) {
	s := New([]Node{{ID: "a"}}, DefaultConfig())
	cause := &ResolveError{Link: 3, ID: "ghost", Wrapped: ErrUnknownNode}

	err := s.SetForce("link", failingForce{err: cause})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownNode))

	var re *ResolveError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "ghost", re.ID)
	assert.Equal(t, 3, re.Link)
	assert.Contains(t, err.Error(), `force "link"`)
	assert.Empty(t, s.ForceNames())
}

func TestFind(t *testing.T) {
	nodes := []Node{{ID: "a", X: 0, Y: 0}, {ID: "b", X: 100, Y: 0}, {ID: "c", X: 50, Y: 50}}
	s := New(nodes, DefaultConfig())

	n, ok := s.Find(90, 5, 0)
	require.True(t, ok)
	assert.Equal(t, "b", n.ID)

	_, ok = s.Find(25, 25, 5)
	assert.False(t, ok)

	s.Node(0).X = 200
	n, ok = s.Find(190, 0, 20)
	require.True(t, ok)
	assert.Equal(t, "a", n.ID)

	n.Pin(1, 1)
	_, _, pinned := s.Node(0).Pinned()
	assert.True(t, pinned, "Find returns a live node")
}

func TestLookup(t *testing.T) {
	s := New([]Node{{ID: "a"}, {ID: "b"}, {ID: "b", X: 9}}, DefaultConfig())
	n, ok := s.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, 1, n.Index)
	_, ok = s.Lookup("zzz")
	assert.False(t, ok)
}

func TestObserverEndFiresOnceAcrossThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AlphaDecay = 0.5
	s := New([]Node{{ID: "a"}}, cfg)

	ticks, ends := 0, 0
	s.AddObserver(Hooks{Tick: func() { ticks++ }, End: func() { ends++ }})

	s.Tick(30)
	assert.Equal(t, 30, ticks)
	assert.Equal(t, 1, ends)
	assert.True(t, s.Converged())

	s.Reheat()
	s.Tick(30)
	assert.Equal(t, 2, ends)
}

func TestRunUntilConverged(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AlphaDecay = 0.2
	s := New([]Node{{ID: "a"}, {ID: "b", X: 1}}, cfg)

	ended := false
	s.AddObserver(Hooks{End: func() { ended = true }})

	require.NoError(t, s.Run(context.Background(), 0))
	assert.True(t, ended)
	assert.True(t, s.Converged())
}

func TestRunStop(t *testing.T) {
	s := New([]Node{{ID: "a"}}, DefaultConfig())
	s.SetAlphaTarget(0.3)
	s.AddObserver(Hooks{Tick: func() {
		if s.Ticks() == 5 {
			s.Stop()
		}
	}})

	require.NoError(t, s.Run(context.Background(), time.Millisecond))
	assert.Equal(t, 5, s.Ticks())
	assert.True(t, s.Stopped())

	s.Restart()
	assert.False(t, s.Stopped())
}

func TestRunHonoursContext(t *testing.T) {
	s := New([]Node{{ID: "a"}}, DefaultConfig())
	s.SetAlphaTarget(0.3)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Run(ctx, time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, s.Ticks(), 0)
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := New([]Node{{ID: "a", X: 1, Y: 2}}, DefaultConfig())
	snap := s.Snapshot()
	s.Node(0).X = 5
	assert.Equal(t, Point{1, 2}, snap[0])
}

func TestJitterNeverZero(t *testing.T) {
	j := NewJitter(7)
	for i := 0; i < 1000; i++ {
		v := j.Next()
		require.NotZero(t, v)
		require.Less(t, math.Abs(v), 1e-6)
	}
	a, b := NewJitter(3), NewJitter(3)
	assert.Equal(t, a.Next(), b.Next())
}
