package export

import (
	"net/http"
	"sync/atomic"

	"github.com/san-kum/forcesim/internal/sim"
	"github.com/san-kum/forcesim/internal/storage"
)

// Publisher hands layout snapshots from the tick goroutine to HTTP
// readers. It observes the simulation, copies positions every Every ticks
// and on convergence, and serves the latest copy without touching live
// nodes.
type Publisher struct {
	Every int

	nodes func() []sim.Node
	links [][2]int
	group func(*sim.Node) int
	ticks int
	last  atomic.Pointer[[]storage.Position]
}

func NewPublisher(nodes func() []sim.Node, links [][2]int, group func(*sim.Node) int) *Publisher {
	p := &Publisher{Every: 10, nodes: nodes, links: links, group: group}
	p.publish()
	return p
}

func (p *Publisher) OnTick() {
	p.ticks++
	if p.Every <= 1 || p.ticks%p.Every == 0 {
		p.publish()
	}
}

func (p *Publisher) OnEnd() { p.publish() }

func (p *Publisher) publish() {
	pos := storage.PositionsOf(p.nodes(), p.group)
	p.last.Store(&pos)
}

// Positions returns the latest snapshot. Callers must not modify it.
func (p *Publisher) Positions() []storage.Position {
	if pos := p.last.Load(); pos != nil {
		return *pos
	}
	return nil
}

// ServeJSON writes the latest snapshot as a node-link document.
func (p *Publisher) ServeJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := WriteJSON(w, NewLayout(p.Positions(), p.links)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ServeSVG writes the latest snapshot as an SVG image.
func (p *Publisher) ServeSVG(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write([]byte(LayoutToSVG(p.Positions(), p.links, DefaultSVGOptions())))
}
