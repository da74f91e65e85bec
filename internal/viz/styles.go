package viz

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name    string
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Ok      lipgloss.Color
	Alert   lipgloss.Color
	Graph   lipgloss.Color
}

var Themes = []Theme{
	{
		Name:    "default",
		Primary: lipgloss.Color("86"),
		Muted:   lipgloss.Color("240"),
		Text:    lipgloss.Color("252"),
		Ok:      lipgloss.Color("#00ff88"),
		Alert:   lipgloss.Color("#ff4444"),
		Graph:   lipgloss.Color("49"),
	},
	{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Text:    lipgloss.Color("#00cc00"),
		Ok:      lipgloss.Color("#88ff88"),
		Alert:   lipgloss.Color("#ffff00"),
		Graph:   lipgloss.Color("#00ff00"),
	},
	{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Text:    lipgloss.Color("#cccccc"),
		Ok:      lipgloss.Color("#0088ff"),
		Alert:   lipgloss.Color("#ff0000"),
		Graph:   lipgloss.Color("#ffffff"),
	},
}

type styles struct {
	canvas lipgloss.Style
	stats  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	ok     lipgloss.Style
	alert  lipgloss.Style
	paused lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2).Foreground(t.Text),
		stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(46),
		header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		ok:     lipgloss.NewStyle().Foreground(t.Ok).Bold(true),
		alert:  lipgloss.NewStyle().Foreground(t.Alert).Bold(true),
		paused: lipgloss.NewStyle().Foreground(t.Muted).Bold(true),
		graph:  lipgloss.NewStyle().Foreground(t.Graph).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
	}
}
