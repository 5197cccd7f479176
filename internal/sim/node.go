package sim

import "math"

// Node is a simulated body. Position and velocity are mutated in place
// every tick; Data is carried through untouched.
type Node struct {
	ID     string
	Index  int
	X, Y   float64
	VX, VY float64
	Radius float64
	Data   any

	pinned bool
	px, py float64
}

// Unplaced returns a node that New will position on the initial spiral.
func Unplaced(id string) Node {
	return Node{ID: id, X: math.NaN(), Y: math.NaN()}
}

// Pin fixes the node at (x, y). Pinned nodes ignore forces and integration
// and report zero velocity after every tick.
func (n *Node) Pin(x, y float64) {
	n.pinned = true
	n.px, n.py = x, y
}

// Unpin returns the node to free motion from wherever it currently is.
func (n *Node) Unpin() {
	n.pinned = false
	n.px, n.py = 0, 0
}

// Pinned returns the pinned position, if any.
func (n *Node) Pinned() (x, y float64, ok bool) {
	return n.px, n.py, n.pinned
}

// Point is a position snapshot.
type Point struct {
	X, Y float64
}

const (
	initialRadius = 10.0
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// place puts unplaced nodes on a phyllotaxis spiral and clears undefined
// velocities, so a fresh layout starts deterministic and non-degenerate.
func place(nodes []Node) {
	for i := range nodes {
		n := &nodes[i]
		n.Index = i
		if x, y, ok := n.Pinned(); ok {
			n.X, n.Y = x, y
		}
		if math.IsNaN(n.X) || math.IsNaN(n.Y) {
			r := initialRadius * math.Sqrt(0.5+float64(i))
			a := float64(i) * initialAngle
			n.X, n.Y = r*math.Cos(a), r*math.Sin(a)
		}
		if math.IsNaN(n.VX) || math.IsNaN(n.VY) {
			n.VX, n.VY = 0, 0
		}
	}
}
