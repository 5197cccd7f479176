package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/forcesim/internal/storage"
)

// Layout is the node-link JSON shape most graph renderers accept.
type Layout struct {
	Nodes []LayoutNode `json:"nodes"`
	Links []LayoutLink `json:"links"`
}

type LayoutNode struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	Group  int     `json:"group"`
	Fixed  bool    `json:"fixed,omitempty"`
}

type LayoutLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// NewLayout joins positions and index links, naming link ends by node id.
// Links with out-of-range endpoints are dropped.
func NewLayout(pos []storage.Position, links [][2]int) Layout {
	out := Layout{
		Nodes: make([]LayoutNode, len(pos)),
		Links: make([]LayoutLink, 0, len(links)),
	}
	for i, p := range pos {
		out.Nodes[i] = LayoutNode{ID: p.ID, X: p.X, Y: p.Y, Radius: p.Radius, Group: p.Group, Fixed: p.Pinned}
	}
	for _, l := range links {
		if l[0] < 0 || l[0] >= len(pos) || l[1] < 0 || l[1] >= len(pos) {
			continue
		}
		out.Links = append(out.Links, LayoutLink{Source: pos[l[0]].ID, Target: pos[l[1]].ID})
	}
	return out
}

func WriteJSON(w io.Writer, layout Layout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(layout)
}
