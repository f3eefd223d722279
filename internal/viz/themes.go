package viz

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Chart   lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Primary: lipgloss.Color("#00ffff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Chart:   lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ff8800"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Chart:   lipgloss.Color("#00cc00"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Chart:   lipgloss.Color("#cccccc"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	Themes = []Theme{ThemeCyberpunk, ThemeRetroGreen, ThemeMinimal}
)

// GetTheme returns the named theme, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
