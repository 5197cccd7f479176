package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/scene"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	aboutStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleAbout     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

const (
	stateMenu = iota
	stateLive
)

// Picker lists the built-in presets and hands the chosen one to a live
// Model.
type Picker struct {
	state   int
	cursor  int
	presets []string
	opts    []ModelOption
	logger  *zap.Logger
	live    Model
	err     error
	width   int
	height  int
}

func NewPicker(logger *zap.Logger, opts ...ModelOption) Picker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Picker{
		presets: config.ListPresets(),
		opts:    opts,
		logger:  logger,
	}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sz, ok := msg.(tea.WindowSizeMsg); ok {
		p.width, p.height = sz.Width, sz.Height
	}
	if p.state == stateLive {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			p.state = stateMenu
			return p, nil
		}
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch k.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.start()
	}
	return p, nil
}

func (p Picker) start() (tea.Model, tea.Cmd) {
	name := p.presets[p.cursor]
	cfg, err := config.Preset(name)
	if err != nil {
		p.err = err
		return p, nil
	}
	sc, err := scene.Build(cfg, scene.WithLogger(p.logger))
	if err != nil {
		p.err = fmt.Errorf("build %s: %w", name, err)
		return p, nil
	}
	p.logger.Info("preset started", zap.String("preset", name), zap.Int("nodes", len(sc.Sim.Nodes())))

	p.err = nil
	p.live = NewModel(sc, append([]ModelOption{WithLogger(p.logger)}, p.opts...)...)
	if p.width > 0 {
		next, _ := p.live.Update(tea.WindowSizeMsg{Width: p.width, Height: p.height})
		p.live = next.(Model)
	}
	p.state = stateLive
	return p, p.live.Init()
}

func (p Picker) View() string {
	if p.state == stateLive {
		return p.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("FORCESIM") + "\n    " + Subtle.Render("force-directed layout") + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, name := range p.presets {
		about := config.About(name)
		if len(about) > 40 {
			about = about[:37] + "..."
		}
		if i == p.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-12s", name)), aboutStyle.Render(about))
		} else {
			fmt.Fprintf(&b, "    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", name)), idleAbout.Render(about))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + errorStyle.Render(p.err.Error()) + "\n")
	}
	hint := func(k, what string) string { return keyStyle.Render(k) + idleStyle.Render(" "+what+"  ") }
	b.WriteString("\n    " + hint("j/k", "navigate") + hint("enter", "select") + hint("esc", "back") + hint("q", "quit") + "\n")
	return b.String()
}

// RunPicker opens the preset menu on the alternate screen.
func RunPicker(logger *zap.Logger, opts ...ModelOption) error {
	_, err := tea.NewProgram(NewPicker(logger, opts...), tea.WithAltScreen()).Run()
	return err
}
