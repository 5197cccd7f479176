package viz

import (
	"math"

	"github.com/san-kum/forcesim/internal/sim"
)

// Viewport maps layout coordinates onto canvas pixels. (CX, CY) is the
// layout point drawn at the centre of the canvas.
type Viewport struct {
	CX, CY float64
	Scale  float64
	W, H   int
}

func NewViewport(w, h int) Viewport {
	return Viewport{Scale: 1, W: w, H: h}
}

// Fit centres the nodes' bounding box, radii included, and scales it to
// fill margin of the smaller pixel dimension.
func (v *Viewport) Fit(nodes []sim.Node, margin float64) {
	if len(nodes) == 0 {
		v.CX, v.CY, v.Scale = 0, 0, 1
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range nodes {
		n := &nodes[i]
		r := math.Max(n.Radius, 0)
		minX, maxX = math.Min(minX, n.X-r), math.Max(maxX, n.X+r)
		minY, maxY = math.Min(minY, n.Y-r), math.Max(maxY, n.Y+r)
	}
	v.CX, v.CY = (minX+maxX)/2, (minY+maxY)/2

	rangeX, rangeY := math.Max(maxX-minX, 1), math.Max(maxY-minY, 1)
	v.Scale = math.Min(float64(v.W)/rangeX, float64(v.H)/rangeY) * margin
	if v.Scale <= 0 || math.IsInf(v.Scale, 0) || math.IsNaN(v.Scale) {
		v.Scale = 1
	}
}

func (v *Viewport) Resize(w, h int) { v.W, v.H = w, h }

// Zoom scales about the viewport centre.
func (v *Viewport) Zoom(factor float64) {
	if factor > 0 {
		v.Scale *= factor
	}
}

func (v Viewport) ToPixel(x, y float64) (int, int) {
	px := (x-v.CX)*v.Scale + float64(v.W)/2
	py := (y-v.CY)*v.Scale + float64(v.H)/2
	return int(math.Round(px)), int(math.Round(py))
}

func (v Viewport) ToWorld(px, py int) (float64, float64) {
	return (float64(px)-float64(v.W)/2)/v.Scale + v.CX,
		(float64(py)-float64(v.H)/2)/v.Scale + v.CY
}

// Length converts a layout distance to whole pixels.
func (v Viewport) Length(d float64) int { return int(math.Round(d * v.Scale)) }
