package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/forcesim/internal/storage"
	"github.com/san-kum/forcesim/internal/viz"
)

// Palette is Tableau10, indexed by node group.
var Palette = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

type SVGOptions struct {
	Width, Height int
	Padding       float64
	Background    string
	LinkColor     string
	// MinRadius is used for nodes whose radius is zero or negative, so
	// they stay visible.
	MinRadius float64
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      800,
		Height:     800,
		Padding:    20,
		Background: "#0a0a0a",
		LinkColor:  "#999999",
		MinRadius:  2,
	}
}

func header(sb *strings.Builder, width, height float64, background string) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// fit maps layout coordinates into a w×h viewport with uniform scale.
type fit struct {
	minX, minY float64
	scale      float64
	offX, offY float64
}

func newFit(pos []storage.Position, w, h, pad float64) fit {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		r := math.Max(p.Radius, 0)
		minX, maxX = math.Min(minX, p.X-r), math.Max(maxX, p.X+r)
		minY, maxY = math.Min(minY, p.Y-r), math.Max(maxY, p.Y+r)
	}
	if len(pos) == 0 {
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}

	rangeX, rangeY := math.Max(maxX-minX, 1), math.Max(maxY-minY, 1)
	innerW, innerH := math.Max(w-2*pad, 1), math.Max(h-2*pad, 1)
	scale := math.Min(innerW/rangeX, innerH/rangeY)

	return fit{
		minX:  minX,
		minY:  minY,
		scale: scale,
		offX:  pad + (innerW-rangeX*scale)/2,
		offY:  pad + (innerH-rangeY*scale)/2,
	}
}

func (f fit) point(x, y float64) (float64, float64) {
	return f.offX + (x-f.minX)*f.scale, f.offY + (y-f.minY)*f.scale
}

// LayoutToSVG draws links as lines and nodes as circles coloured by group.
// Links with out-of-range endpoints are skipped.
func LayoutToSVG(pos []storage.Position, links [][2]int, opts SVGOptions) string {
	w, h := float64(opts.Width), float64(opts.Height)
	f := newFit(pos, w, h, opts.Padding)

	var sb strings.Builder
	header(&sb, w, h, opts.Background)

	fmt.Fprintf(&sb, "<g stroke=\"%s\" stroke-opacity=\"0.6\" stroke-width=\"1.5\">\n", opts.LinkColor)
	for _, l := range links {
		if l[0] < 0 || l[0] >= len(pos) || l[1] < 0 || l[1] >= len(pos) {
			continue
		}
		x1, y1 := f.point(pos[l[0]].X, pos[l[0]].Y)
		x2, y2 := f.point(pos[l[1]].X, pos[l[1]].Y)
		fmt.Fprintf(&sb, "<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\"/>\n", x1, y1, x2, y2)
	}
	sb.WriteString("</g>\n")

	sb.WriteString("<g stroke=\"#ffffff\" stroke-width=\"1\">\n")
	for _, p := range pos {
		cx, cy := f.point(p.X, p.Y)
		r := math.Max(p.Radius*f.scale, opts.MinRadius)
		fmt.Fprintf(&sb, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\"><title>%s</title></circle>\n",
			cx, cy, r, groupColor(p.Group), escape(p.ID))
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

func groupColor(g int) string {
	if g < 0 {
		return "transparent"
	}
	return Palette[g%len(Palette)]
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }

// CanvasToSVG converts a braille canvas to SVG, one dot per lit sub-pixel.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	header(&sb, width, height, "#0a0a0a")
	sb.WriteString("<g fill=\"#4e79a7\">\n")

	dot := scale * 0.4
	canvas.Dots(func(px, py int) {
		cx := float64(px)*scale + scale/2
		cy := float64(py)*scale + scale/2
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dot)
	})

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// TraceToSVG plots a per-tick series, such as alpha, as a polyline.
func TraceToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	span *= 1.2

	var sb strings.Builder
	header(&sb, float64(width), float64(height), "#0a0a0a")
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	step := float64(width) / float64(len(values)-1)
	for i, v := range values {
		x := float64(i) * step
		y := float64(height) - (v-lo)/span*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}
