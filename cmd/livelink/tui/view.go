package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.Ready {
		return "starting..."
	}
	if m.Quitting {
		return ""
	}

	header := StyleHeader.Width(m.Width).Render(
		fmt.Sprintf(" LIVELINK | %s ", m.phaseLine()))

	var body string
	if m.OverlayVisible {
		title := StyleOverlayTitleWarning.Render(" WARNINGS ")
		frame := StyleOverlayWarning
		if m.OverlayKind == "error" {
			title = StyleOverlayTitleError.Render(" ERRORS ")
			frame = StyleOverlayError
		}
		panel := frame.Width(m.Width - 2).Render(m.Overlay.View())
		body = lipgloss.JoinVertical(lipgloss.Left, title, panel)
	} else {
		body = StylePhaseOK.Render("\n  no problems\n")
	}

	footer := StyleDimmed.Render("  q quit · arrows scroll")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) phaseLine() string {
	if m.Phase == "compiling" {
		line := m.Spinner.View() + " compiling"
		if m.ProgressText != "" {
			line += fmt.Sprintf(" %d%% - %s", m.Percent, m.ProgressText)
		}
		return line
	}
	return m.Phase
}
