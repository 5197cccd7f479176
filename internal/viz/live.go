package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/forcesim/internal/metrics"
	"github.com/san-kum/forcesim/internal/scene"
	"github.com/san-kum/forcesim/internal/sim"
)

const (
	width         = 80
	height        = 24
	statsWidth    = 45
	frameRate     = 60
	ticksPerFrame = 1
	grabRadius    = 30
	cursorStep    = 4
	fitMargin     = 0.9
	recordingPath = "layout.gif"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives a scene in real time and draws it on a braille canvas.
// Arrow keys move a cursor in layout space; a held node follows it.
type Model struct {
	scene         *scene.Scene
	tracker       *metrics.Tracker
	canvas        *Canvas
	view          Viewport
	theme         Theme
	logger        *zap.Logger
	recorder      *Recorder
	width, height int
	ticksPerFrame int
	cursorX       float64
	cursorY       float64
	autoFit       bool
	help          help.Model
	message       string
}

type ModelOption func(*Model)

func WithTheme(name string) ModelOption { return func(m *Model) { m.theme = GetTheme(name) } }

func WithLogger(l *zap.Logger) ModelOption { return func(m *Model) { m.logger = l } }

// WithTicksPerFrame sets how many simulation ticks run per rendered frame.
func WithTicksPerFrame(n int) ModelOption {
	return func(m *Model) { m.ticksPerFrame = max(n, 1) }
}

// NewModel attaches a metrics tracker to the scene's simulation and fits
// the viewport to the current layout.
func NewModel(sc *scene.Scene, opts ...ModelOption) Model {
	m := Model{
		theme:         ThemeTableau,
		logger:        zap.NewNop(),
		ticksPerFrame: ticksPerFrame,
		autoFit:       true,
		help:          help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.scene = sc
	m.resize(width, height)
	m.load(sc)
	return m
}

func (m Model) Init() tea.Cmd { return frame() }

func frame() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.resize(msg.Width-statsWidth-6, msg.Height-2)
		return m, nil
	case ReloadMsg:
		m.load(msg.Scene)
		m.message = "reloaded " + msg.Scene.Config.Name
		return m, nil
	case TickMsg:
		m.step()
		m.draw()
		if m.recorder != nil {
			m.recorder.Capture(m.canvas)
		}
		return m, frame()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = max(w, 10), max(h, 5)
	if m.canvas == nil {
		m.canvas = NewCanvas(m.width, m.height)
	} else {
		m.canvas.Resize(m.width, m.height)
	}
	pw, ph := m.canvas.PixelSize()
	m.view.Resize(pw, ph)
	m.refit()
}

func (m *Model) refit() {
	m.view.Fit(m.scene.Sim.Nodes(), fitMargin)
}

// step advances the layout unless it is stopped or has settled.
func (m *Model) step() {
	s := m.scene.Sim
	if s.Stopped() || s.Settled() {
		return
	}
	s.Tick(m.ticksPerFrame)
	if m.autoFit {
		if _, held := m.scene.Held(); !held {
			m.refit()
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.scene.Sim
	switch {
	case key.Matches(msg, keys.Quit):
		m.finishRecording()
		return m, tea.Quit
	case key.Matches(msg, keys.Stop):
		if s.Stopped() {
			s.Restart()
		} else {
			s.Stop()
		}
	case key.Matches(msg, keys.Reheat):
		s.Reheat()
		m.tracker.Reset()
		m.message = "reheated"
	case key.Matches(msg, keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, keys.Right):
		m.moveCursor(1, 0)
	case key.Matches(msg, keys.Grab):
		m.toggleGrab()
	case key.Matches(msg, keys.Theme):
		names := ThemeNames()
		for i, name := range names {
			if name == m.theme.Name {
				m.theme = GetTheme(names[(i+1)%len(names)])
				break
			}
		}
	case key.Matches(msg, keys.ZoomIn):
		m.autoFit = false
		m.view.Zoom(1.25)
	case key.Matches(msg, keys.ZoomOut):
		m.autoFit = false
		m.view.Zoom(0.8)
	case key.Matches(msg, keys.Fit):
		m.autoFit = true
		m.refit()
	case key.Matches(msg, keys.Record):
		m.toggleRecording()
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.draw()
	return m, nil
}

func (m *Model) moveCursor(dx, dy int) {
	step := float64(cursorStep) / m.view.Scale
	m.cursorX += float64(dx) * step
	m.cursorY += float64(dy) * step
	if m.scene.Drag(m.cursorX, m.cursorY) {
		return
	}
	m.scene.MovePointer(m.cursorX, m.cursorY)
}

func (m *Model) toggleGrab() {
	if n, held := m.scene.Held(); held {
		m.scene.Release()
		m.message = "released " + n.ID
		m.logger.Debug("node released", zap.String("node", n.ID))
		return
	}
	n, ok := m.scene.Grab(m.cursorX, m.cursorY, grabRadius/m.view.Scale)
	if !ok {
		m.message = "nothing under cursor"
		return
	}
	m.cursorX, m.cursorY = n.X, n.Y
	m.message = "holding " + n.ID
	m.logger.Debug("node grabbed", zap.String("node", n.ID), zap.Float64("x", n.X), zap.Float64("y", n.Y))
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = NewRecorder()
		m.message = "recording"
		return
	}
	m.finishRecording()
}

func (m *Model) finishRecording() {
	if m.recorder == nil {
		return
	}
	frames := m.recorder.Frames()
	if err := m.recorder.Save(recordingPath); err != nil {
		m.logger.Warn("recording not saved", zap.Error(err))
		m.message = "recording failed"
	} else {
		m.message = fmt.Sprintf("saved %d frames to %s", frames, recordingPath)
	}
	m.recorder = nil
}

// draw renders the layout, then the cursor.
func (m *Model) draw() {
	links := m.scene.Links()
	pairs := make([][2]int, len(links))
	for i := range links {
		pairs[i][0], pairs[i][1] = links[i].Endpoints()
	}

	m.canvas.Clear()
	drawGraph(m.canvas, m.view, m.scene.Sim.Nodes(), pairs, m.scene.Graph.Pointer)

	cx, cy := m.view.ToPixel(m.cursorX, m.cursorY)
	m.canvas.Set(cx-1, cy)
	m.canvas.Set(cx+1, cy)
	m.canvas.Set(cx, cy-1)
	m.canvas.Set(cx, cy+1)
}

// drawGraph draws links, then nodes tinted by group. Pinned nodes are
// filled. The node at index skip, if any, is left out.
func drawGraph(c *Canvas, view Viewport, nodes []sim.Node, links [][2]int, skip int) {
	for _, l := range links {
		s, t := l[0], l[1]
		if s < 0 || s >= len(nodes) || t < 0 || t >= len(nodes) {
			continue
		}
		x0, y0 := view.ToPixel(nodes[s].X, nodes[s].Y)
		x1, y1 := view.ToPixel(nodes[t].X, nodes[t].Y)
		c.DrawLine(x0, y0, x1, y1)
	}

	for i := range nodes {
		n := &nodes[i]
		if i == skip {
			continue
		}
		x, y := view.ToPixel(n.X, n.Y)
		r := view.Length(n.Radius)
		tint := scene.AttrsOf(n).Group
		if _, _, pinned := n.Pinned(); pinned {
			c.FillCircle(x, y, max(r, 1), tint)
		} else {
			c.DrawCircle(x, y, r, tint)
		}
	}
}

// Plot draws a static layout fitted to the canvas.
func Plot(c *Canvas, nodes []sim.Node, links [][2]int) {
	w, h := c.PixelSize()
	view := NewViewport(w, h)
	view.Fit(nodes, fitMargin)
	c.Clear()
	drawGraph(c, view, nodes, links, -1)
}

func (m Model) status() (string, lipgloss.Style) {
	s := m.scene.Sim
	if _, held := m.scene.Held(); held {
		return "DRAGGING", StatusRunning
	}
	switch {
	case s.Stopped():
		return "STOPPED", StatusPaused
	case s.Settled():
		return "SETTLED", StatusCooled
	}
	return "COOLING", StatusRunning
}

func (m Model) View() string {
	s := m.scene.Sim
	canvasView := canvasStyle.Render(m.canvas.Render(m.theme.Palette(), lipgloss.NewStyle().Foreground(m.theme.Link)))

	var b strings.Builder
	b.WriteString(GradientText(strings.ToUpper(m.scene.Config.Name), m.theme.Primary, m.theme.Accent) + "\n")
	label, style := m.status()
	b.WriteString(style.Render(label) + "\n\n")

	if alpha := m.tracker.Alpha(); len(alpha) > 1 {
		chart := asciigraph.Plot(alpha, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("alpha"))
		b.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(k, v string) { b.WriteString(StatLabel.Render(k) + StatValue.Render(v) + "\n") }
	row("Alpha", fmt.Sprintf("%.4f", s.Alpha()))
	row("Target", fmt.Sprintf("%.2f", s.AlphaTarget()))
	row("Ticks", fmt.Sprintf("%d", s.Ticks()))
	row("Nodes", fmt.Sprintf("%d", len(s.Nodes())))
	values := m.tracker.Values()
	row("Energy", fmt.Sprintf("%.3f", values["kinetic_energy"]))
	row("Min gap", fmt.Sprintf("%.2f", values["min_separation"]))
	b.WriteString(StatLabel.Render("Cooling") + ProgressBar(1-s.Alpha(), 20) + "\n")
	b.WriteString(StatLabel.Render("KE trend") + SparklineChart(m.tracker.History("kinetic_energy"), 20) + "\n")
	if n, held := m.scene.Held(); held {
		row("Held", n.ID)
	}
	if m.recorder != nil {
		row("Recording", fmt.Sprintf("%d frames", m.recorder.Frames()))
	}
	if m.message != "" {
		b.WriteString("\n" + Subtle.Render(m.message) + "\n")
	}
	b.WriteString(helpStyle.Render(Rule(30) + "\n" + m.help.ShortHelpView(keys.ShortHelp())))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(b.String()))
	if m.help.ShowAll {
		return mainView + "\n" + Panel.Render(m.help.FullHelpView(keys.FullHelp()))
	}
	return mainView
}

// ReloadMsg swaps the driven scene, e.g. after its file changed on disk.
type ReloadMsg struct {
	Scene *scene.Scene
}

func (m *Model) load(sc *scene.Scene) {
	m.scene = sc
	m.tracker = metrics.NewTracker(sc.Sim, metrics.NewKineticEnergy(), metrics.NewMinSeparation())
	sc.Sim.AddObserver(m.tracker)
	m.cursorX, m.cursorY = 0, 0
	m.autoFit = true
	m.refit()
	m.draw()
}

// NewProgram wraps the model in a full-screen program. Other goroutines
// may feed it ReloadMsg through Send.
func NewProgram(m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}

// Run starts the live view on the alternate screen.
func Run(m Model) error {
	_, err := NewProgram(m).Run()
	return err
}

// Scene exposes the driven scene, mostly for tests.
func (m Model) Scene() *scene.Scene { return m.scene }

// Cursor returns the cursor position in layout space.
func (m Model) Cursor() (float64, float64) { return m.cursorX, m.cursorY }
