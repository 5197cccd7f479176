package sim_test

import (
	"context"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/forcesim/internal/sim"
)

// spread pushes every pair of nodes apart, enough to keep the layout moving
// while it is hot.
var spread = sim.ForceFunc(func(nodes []sim.Node, alpha float64) {
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			dx, dy := nodes[j].X-nodes[i].X, nodes[j].Y-nodes[i].Y
			l := math.Max(dx*dx+dy*dy, 1)
			nodes[i].VX -= dx * alpha / l
			nodes[i].VY -= dy * alpha / l
			nodes[j].VX += dx * alpha / l
			nodes[j].VY += dy * alpha / l
		}
	}
})

func newSim(n int) *sim.Simulation {
	nodes := make([]sim.Node, n)
	for i := range nodes {
		nodes[i] = sim.Unplaced(string(rune('a' + i)))
	}
	return sim.New(nodes, sim.DefaultConfig())
}

var _ = Describe("Simulation lifecycle", func() {
	var (
		s    *sim.Simulation
		ends int
	)

	BeforeEach(func() {
		s = newSim(6)
		ends = 0
		s.AddObserver(sim.Hooks{End: func() { ends++ }})
		Expect(s.SetForce("spread", spread)).To(Succeed())
	})

	Describe("cooling", func() {
		It("starts hot and settles after the default schedule", func() {
			Expect(s.Alpha()).To(Equal(1.0))
			Expect(s.Settled()).To(BeFalse())

			s.Tick(310)
			Expect(s.Converged()).To(BeTrue())
			Expect(s.Settled()).To(BeTrue())
			Expect(ends).To(Equal(1))
		})

		It("notifies end once per crossing", func() {
			s.Tick(400)
			Expect(ends).To(Equal(1))

			s.Reheat()
			Expect(s.Converged()).To(BeFalse())
			s.Tick(400)
			Expect(ends).To(Equal(2))
		})
	})

	Describe("dragging", func() {
		var n *sim.Node

		BeforeEach(func() {
			s.Tick(400)
			Expect(s.Settled()).To(BeTrue())

			var ok bool
			n, ok = s.Lookup("a")
			Expect(ok).To(BeTrue())
		})

		It("stays warm while a node is held", func() {
			n.Pin(n.X+50, n.Y)
			s.SetAlphaTarget(0.3).Restart()
			s.Tick(500)

			Expect(s.Alpha()).To(BeNumerically("~", 0.3, 0.01))
			Expect(s.Settled()).To(BeFalse())
			x, _, pinned := n.Pinned()
			Expect(pinned).To(BeTrue())
			Expect(n.X).To(Equal(x))
			Expect(n.VX).To(BeZero())
		})

		It("cools again after release", func() {
			n.Pin(n.X, n.Y)
			s.SetAlphaTarget(0.3).Restart()
			s.Tick(50)

			n.Unpin()
			s.SetAlphaTarget(0)
			s.Tick(400)
			Expect(s.Settled()).To(BeTrue())
			Expect(ends).To(Equal(2))
		})
	})

	Describe("running", func() {
		It("returns once the layout settles", func(ctx SpecContext) {
			Expect(s.Run(ctx, 0)).To(Succeed())
			Expect(s.Settled()).To(BeTrue())
			Expect(s.Ticks()).To(BeNumerically(">=", 300))
		}, SpecTimeout(5*time.Second))

		It("stops on request and resumes where it left off", func() {
			s.AddObserver(sim.Hooks{Tick: func() {
				if s.Ticks() == 10 {
					s.Stop()
				}
			}})
			Expect(s.Run(context.Background(), 0)).To(Succeed())
			Expect(s.Ticks()).To(Equal(10))
			Expect(s.Stopped()).To(BeTrue())

			alpha := s.Alpha()
			s.Restart()
			Expect(s.Alpha()).To(Equal(alpha))
			s.Tick(1)
			Expect(s.Ticks()).To(Equal(11))
		})

		It("honours cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(s.Run(ctx, time.Millisecond)).To(MatchError(context.Canceled))
			Expect(s.Ticks()).To(BeZero())
		})
	})
})
