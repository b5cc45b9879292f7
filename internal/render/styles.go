package render

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	ColorPrimary = lipgloss.Color("#3B82F6") // Blue
	ColorDanger  = lipgloss.Color("#FF6B6B") // Red for errors
	ColorMuted   = lipgloss.Color("#9CA3AF") // Gray
	colorPanel   = lipgloss.Color("#334155") // Slate
	colorText    = lipgloss.Color("#FFFFFF")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPanel).
			Padding(1, 2)

	cityStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	glyphStyle = lipgloss.NewStyle().
			PaddingRight(1)

	temperatureStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorText).
				PaddingRight(2)

	detailStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			PaddingRight(3)

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorPanel).
			Padding(0, 1).
			MarginRight(1).
			Width(16).
			Align(lipgloss.Center)

	tileTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)
