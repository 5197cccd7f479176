package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(1, 2)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusCooled = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	StatValue = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	// heat runs from cold to hot; bars and sparklines pick a tier by level.
	heat = [3]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#4e79a7")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#edc949")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#e15759")),
	}
)

func heatStyle(level float64) lipgloss.Style {
	switch {
	case level > 0.7:
		return heat[2]
	case level > 0.3:
		return heat[1]
	}
	return heat[0]
}

// GradientText colours each rune on a Lab ramp between two hex colours.
// Unparseable colours fall back to white.
func GradientText(text string, from, to lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, b := parseColor(from), parseColor(to)

	var sb strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendLab(b, t).Clamped()
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return sb.String()
}

func parseColor(c lipgloss.Color) colorful.Color {
	v, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return v
}

// ProgressBar fills width cells by fraction in [0, 1], coloured by how
// much heat is left (1 - fraction).
func ProgressBar(fraction float64, width int) string {
	filled := min(max(int(fraction*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return heatStyle(1 - fraction).Render(bar)
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// SparklineChart renders the last width values, scaled to their own range.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return Subtle.Render(strings.Repeat("─", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var sb strings.Builder
	for _, v := range values {
		norm := (v - lo) / span
		r := sparkRunes[min(max(int(norm*float64(len(sparkRunes)-1)), 0), len(sparkRunes)-1)]
		sb.WriteString(heatStyle(norm).Render(string(r)))
	}
	return sb.String()
}

// Rule is a muted horizontal line with a centre mark.
func Rule(width int) string {
	side := max(width/2-2, 0)
	return Subtle.Render(strings.Repeat("─", side) + " · " + strings.Repeat("─", max(width-side-3, 0)))
}
