package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorBg      = lipgloss.Color("#080808")
	ColorFg      = lipgloss.Color("#D1D1D1")
	ColorAccent  = lipgloss.Color("#00E5FF")
	ColorError   = lipgloss.Color("#FF007A")
	ColorWarning = lipgloss.Color("#FFB300")
	ColorOK      = lipgloss.Color("#00B894")
	ColorDimmed  = lipgloss.Color("#666666")

	// Styles
	StyleHeader = lipgloss.NewStyle().
			Background(ColorBg).
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1)

	StyleOverlayError = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(ColorError).
				Padding(0, 1)

	StyleOverlayWarning = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(ColorWarning).
				Padding(0, 1)

	StyleOverlayTitleError = lipgloss.NewStyle().
				Foreground(ColorBg).
				Background(ColorError).
				Bold(true).
				Padding(0, 1)

	StyleOverlayTitleWarning = lipgloss.NewStyle().
					Foreground(ColorBg).
					Background(ColorWarning).
					Bold(true).
					Padding(0, 1)

	StylePhaseOK = lipgloss.NewStyle().Foreground(ColorOK)

	StyleDimmed = lipgloss.NewStyle().Foreground(ColorDimmed)
)
