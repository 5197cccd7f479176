package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the live view. Groups tints nodes by their group index.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Link    lipgloss.Color
	Muted   lipgloss.Color
	Groups  []lipgloss.Color
}

var (
	ThemeTableau = Theme{
		Name:    "tableau",
		Primary: lipgloss.Color("#4e79a7"),
		Accent:  lipgloss.Color("#f28e2c"),
		Link:    lipgloss.Color("#777777"),
		Muted:   lipgloss.Color("#666688"),
		Groups: []lipgloss.Color{
			"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
			"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
		},
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Link:    lipgloss.Color("#005500"),
		Muted:   lipgloss.Color("#005500"),
		Groups:  []lipgloss.Color{"#00ff00", "#00cc00", "#88ff88", "#33aa33"},
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Link:    lipgloss.Color("#4488aa"),
		Muted:   lipgloss.Color("#4488aa"),
		Groups:  []lipgloss.Color{"#00a8cc", "#0077be", "#e0f0ff", "#00ff88", "#ffcc00"},
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Primary: lipgloss.Color("#ff6b6b"),
		Accent:  lipgloss.Color("#feca57"),
		Link:    lipgloss.Color("#8b6b8c"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Groups:  []lipgloss.Color{"#ff6b6b", "#feca57", "#ff9ff3", "#5fd068", "#ffc048"},
	}

	Themes = []Theme{ThemeTableau, ThemeRetroGreen, ThemeOcean, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to tableau.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeTableau
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Palette builds one style per group colour.
func (t Theme) Palette() []lipgloss.Style {
	out := make([]lipgloss.Style, len(t.Groups))
	for i, c := range t.Groups {
		out[i] = lipgloss.NewStyle().Foreground(c)
	}
	return out
}
