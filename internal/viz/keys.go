package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Stop    key.Binding
	Reheat  key.Binding
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Grab    key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Fit     key.Binding
	Theme   key.Binding
	Record  key.Binding
	Help    key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Stop: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "stop/restart"),
	),
	Reheat: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reheat"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "cursor up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "cursor down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "cursor left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "cursor right"),
	),
	Grab: key.NewBinding(
		key.WithKeys("g", "enter"),
		key.WithHelp("g", "grab/release"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "zoom out"),
	),
	Fit: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fit"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Record: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "record gif"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Stop, k.Reheat, k.Grab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Stop, k.Reheat, k.Grab, k.Record},
		{k.Up, k.Down, k.Left, k.Right},
		{k.ZoomIn, k.ZoomOut, k.Fit, k.Theme},
		{k.Help, k.Quit},
	}
}
