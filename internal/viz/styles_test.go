package viz

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestGradientTextKeepsRunes(t *testing.T) {
	out := GradientText("ab", "#000000", "#ffffff")
	assert.Equal(t, 2, lipgloss.Width(out))
	assert.Empty(t, GradientText("", "#000000", "#ffffff"))
	assert.Equal(t, 3, lipgloss.Width(GradientText("bad", "nope", "#zzzzzz")))
}

func TestProgressBarClamps(t *testing.T) {
	for _, f := range []float64{-1, 0, 0.5, 1, 2} {
		assert.Equal(t, 10, lipgloss.Width(ProgressBar(f, 10)), "fraction %v", f)
	}
	assert.Equal(t, 5, strings.Count(ProgressBar(0.5, 10), "█"))
}

func TestSparklineChart(t *testing.T) {
	assert.Equal(t, 4, lipgloss.Width(SparklineChart(nil, 4)))
	assert.Equal(t, 3, lipgloss.Width(SparklineChart([]float64{1, 2, 3}, 8)))
	assert.Equal(t, 2, lipgloss.Width(SparklineChart([]float64{1, 2, 3, 4}, 2)))
	assert.Contains(t, SparklineChart([]float64{0, 1}, 2), "█")
}

func TestRuleWidth(t *testing.T) {
	assert.Equal(t, 30, lipgloss.Width(Rule(30)))
}
