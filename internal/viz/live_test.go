package viz

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/scene"
)

func f64(v float64) *float64 { return &v }

func pairScene(t *testing.T) *scene.Scene {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Name = "pair"
	cfg.Graph = config.GraphConfig{
		Kind: "file",
		Nodes: []config.NodeConfig{
			{ID: "a", X: f64(0), Y: f64(0), Radius: 5},
			{ID: "b", X: f64(40), Y: f64(0), Radius: 5, Group: 1},
		},
		Edges: []config.LinkConfig{{Source: "a", Target: "b"}},
	}
	cfg.Forces = []config.ForceConfig{
		{Name: "charge", Kind: "manybody"},
		{Name: "link", Kind: "link"},
	}
	sc, err := scene.Build(cfg)
	require.NoError(t, err)
	return sc
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestModelTicksPerFrame(t *testing.T) {
	m := NewModel(pairScene(t), WithTicksPerFrame(3))
	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)

	assert.NotNil(t, cmd)
	assert.Equal(t, 3, m.Scene().Sim.Ticks())
	assert.Len(t, m.tracker.Alpha(), 3)
}

func TestModelStopAndRestart(t *testing.T) {
	m := NewModel(pairScene(t))
	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, m.Scene().Sim.Stopped())

	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	assert.Zero(t, m.Scene().Sim.Ticks())
	assert.Contains(t, m.View(), "STOPPED")

	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.Scene().Sim.Stopped())
}

func TestModelSkipsTicksOnceSettled(t *testing.T) {
	m := NewModel(pairScene(t))
	s := m.Scene().Sim
	s.SetAlpha(0)
	require.True(t, s.Settled())

	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	assert.Zero(t, s.Ticks())
	assert.Contains(t, m.View(), "SETTLED")

	m = press(m, runes("r"))
	assert.Equal(t, 1.0, s.Alpha())
}

func TestModelGrabDragRelease(t *testing.T) {
	m := NewModel(pairScene(t))
	sc := m.Scene()

	m = press(m, runes("g"))
	held, ok := sc.Held()
	require.True(t, ok)
	assert.Equal(t, "a", held.ID)
	assert.Equal(t, scene.DragAlphaTarget, sc.Sim.AlphaTarget())

	m = press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	cx, cy := m.Cursor()
	assert.Greater(t, cx, 0.0)
	x, y, pinned := held.Pinned()
	require.True(t, pinned)
	assert.Equal(t, cx, x)
	assert.Equal(t, cy, y)
	assert.Contains(t, m.View(), "DRAGGING")

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	_, ok = sc.Held()
	assert.False(t, ok)
	_, _, pinned = held.Pinned()
	assert.False(t, pinned)
	assert.Zero(t, sc.Sim.AlphaTarget())
}

func TestModelGrabMissesFarNodes(t *testing.T) {
	m := NewModel(pairScene(t))
	m.cursorX, m.cursorY = 1e6, 1e6
	m = press(m, runes("g"))
	_, ok := m.Scene().Held()
	assert.False(t, ok)
	assert.Equal(t, "nothing under cursor", m.message)
}

func TestModelCyclesThemes(t *testing.T) {
	m := NewModel(pairScene(t), WithTheme("ocean"))
	assert.Equal(t, "ocean", m.theme.Name)
	m = press(m, runes("t"))
	assert.Equal(t, "sunset", m.theme.Name)
	m = press(m, runes("t"))
	assert.Equal(t, "tableau", m.theme.Name)
}

func TestModelZoomDisablesFit(t *testing.T) {
	m := NewModel(pairScene(t))
	before := m.view.Scale
	m = press(m, runes("+"))
	assert.False(t, m.autoFit)
	assert.InDelta(t, before*1.25, m.view.Scale, 1e-9)

	m = press(m, runes("f"))
	assert.True(t, m.autoFit)
	assert.InDelta(t, before, m.view.Scale, 1e-9)
}

func TestModelWindowResize(t *testing.T) {
	m := NewModel(pairScene(t))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 120-statsWidth-6, m.canvas.Width)
	assert.Equal(t, 38, m.canvas.Height)
}

func TestRecorderEncodesFrames(t *testing.T) {
	r := NewRecorder()
	c := NewCanvas(4, 2)
	c.Set(1, 1)
	r.Capture(c)
	r.Capture(c)
	assert.Equal(t, 2, r.Frames())

	var buf bytes.Buffer
	require.NoError(t, r.Encode(&buf))
	assert.Equal(t, "GIF89a", buf.String()[:6])

	assert.Error(t, NewRecorder().Encode(&buf))
}

func TestPickerStartsPreset(t *testing.T) {
	p := NewPicker(nil)
	require.NotEmpty(t, p.presets)

	next, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = next.(Picker)
	assert.NotNil(t, cmd)
	require.NoError(t, p.err)
	assert.Equal(t, stateLive, p.state)
	assert.Equal(t, p.presets[0], p.live.Scene().Config.Name)

	next, _ = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	p = next.(Picker)
	assert.Equal(t, stateMenu, p.state)
	assert.Contains(t, p.View(), "FORCESIM")
}

func TestModelReload(t *testing.T) {
	m := NewModel(pairScene(t))
	m = press(m, runes("l"))
	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	require.Equal(t, 1, m.Scene().Sim.Ticks())

	fresh := pairScene(t)
	next, _ = m.Update(ReloadMsg{Scene: fresh})
	m = next.(Model)

	assert.Same(t, fresh, m.Scene())
	assert.Empty(t, m.tracker.Alpha())
	cx, cy := m.Cursor()
	assert.Zero(t, cx)
	assert.Zero(t, cy)
	assert.Contains(t, m.message, "reloaded")
}

func TestModelHelpToggle(t *testing.T) {
	m := NewModel(pairScene(t))
	short := m.View()
	m = press(m, runes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Greater(t, len(m.View()), len(short))
}
