package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	canvas lipgloss.Style
	plain  lipgloss.Style
	stats  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	active lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
	status lipgloss.Style
	alert  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2),
		plain:  lipgloss.NewStyle().Foreground(t.Muted),
		stats: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(46),
		header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(14),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		active: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		graph:  lipgloss.NewStyle().Foreground(t.Chart).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		status: lipgloss.NewStyle().Foreground(t.Chart).Bold(true),
		alert:  lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
	}
}

// Bar renders ratio in [0, 1] as a fixed-width text gauge.
func Bar(ratio float64, width int) string {
	if ratio > 1 {
		ratio = 1
	} else if ratio < 0 || math.IsNaN(ratio) {
		ratio = 0
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}
