// Package tui renders the terminal overlay and build status for livelink.
package tui

// ShowOverlayMsg displays formatted diagnostics in the overlay panel.
type ShowOverlayMsg struct {
	Kind    string
	Entries []string
}

// HideOverlayMsg clears the overlay panel.
type HideOverlayMsg struct{}

// ProgressMsg updates the compilation progress line.
type ProgressMsg struct {
	Plugin  string
	Percent int
	Message string
}

// PhaseMsg updates the build phase shown in the header.
type PhaseMsg struct {
	Phase string
}
