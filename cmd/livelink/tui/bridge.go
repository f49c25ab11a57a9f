package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tuanbt/livelink/internal/overlay"
	"github.com/tuanbt/livelink/internal/protocol"
	"github.com/tuanbt/livelink/internal/report"
)

// Bridge connects the dispatcher's collaborator interfaces to the running
// bubbletea program. It is both the overlay surface and a status reporter
// that mirrors events into the view before forwarding them to the real sink.
type Bridge struct {
	program *tea.Program
	next    report.Reporter
}

// NewBridge creates a Bridge around program. Events are forwarded to next
// after updating the view.
func NewBridge(program *tea.Program, next report.Reporter) *Bridge {
	return &Bridge{program: program, next: next}
}

// Show implements overlay.Surface.
func (b *Bridge) Show(kind overlay.Kind, entries []string) {
	b.program.Send(ShowOverlayMsg{Kind: string(kind), Entries: entries})
}

// Hide implements overlay.Surface.
func (b *Bridge) Hide() {
	b.program.Send(HideOverlayMsg{})
}

// Post implements report.Reporter.
func (b *Bridge) Post(event string, payload any) {
	b.next.Post(event, payload)

	switch event {
	case "invalid":
		b.program.Send(PhaseMsg{Phase: "compiling"})
	case "ok":
		b.program.Send(PhaseMsg{Phase: "built"})
	case "still-ok":
		b.program.Send(PhaseMsg{Phase: "idle"})
	case "close":
		b.program.Send(PhaseMsg{Phase: "disconnected"})
	case "static-changed":
		b.program.Send(PhaseMsg{Phase: "reloading"})
	case "progress-update":
		if p, ok := payload.(protocol.ProgressUpdate); ok {
			b.program.Send(ProgressMsg{Plugin: p.Plugin, Percent: p.Percent, Message: p.Message})
		}
	}
}
