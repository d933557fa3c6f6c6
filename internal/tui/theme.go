package tui

import "github.com/charmbracelet/lipgloss"

// Theme colors the HUD around the scene.
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
}

var Themes = []Theme{
	{
		Name:   "deepspace",
		Title:  lipgloss.Color("#ffcc55"),
		Label:  lipgloss.Color("#8888aa"),
		Value:  lipgloss.Color("#e0e6ff"),
		Accent: lipgloss.Color("#55ccff"),
		Muted:  lipgloss.Color("#555577"),
		Border: lipgloss.Color("#333355"),
	},
	{
		Name:   "phosphor",
		Title:  lipgloss.Color("#33ff66"),
		Label:  lipgloss.Color("#22aa44"),
		Value:  lipgloss.Color("#aaffbb"),
		Accent: lipgloss.Color("#ccff33"),
		Muted:  lipgloss.Color("#116622"),
		Border: lipgloss.Color("#0a3311"),
	},
	{
		Name:   "mono",
		Title:  lipgloss.Color("#ffffff"),
		Label:  lipgloss.Color("#999999"),
		Value:  lipgloss.Color("#dddddd"),
		Accent: lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Border: lipgloss.Color("#444444"),
	},
	{
		Name:   "nebula",
		Title:  lipgloss.Color("#ff9ff3"),
		Label:  lipgloss.Color("#a29bfe"),
		Value:  lipgloss.Color("#f5f0ff"),
		Accent: lipgloss.Color("#feca57"),
		Muted:  lipgloss.Color("#6c5c8c"),
		Border: lipgloss.Color("#3d2b55"),
	},
}

// GetTheme returns the named theme, or the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
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

type styles struct {
	title, label, value, accent, muted, panel lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		title:  lipgloss.NewStyle().Foreground(t.Title).Bold(true),
		label:  lipgloss.NewStyle().Foreground(t.Label).Width(9),
		value:  lipgloss.NewStyle().Foreground(t.Value),
		accent: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		muted:  lipgloss.NewStyle().Foreground(t.Muted),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(0, 1).
			Width(hudWidth - 1),
	}
}
