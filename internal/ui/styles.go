package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/vzahanych/weathernow/internal/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(render.ColorPrimary)

	searchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(render.ColorPrimary).
			Padding(0, 1).
			Width(48)

	hintStyle = lipgloss.NewStyle().
			Foreground(render.ColorMuted).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(render.ColorDanger).
			Bold(true).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(render.ColorMuted).
			Padding(1, 0)
)
