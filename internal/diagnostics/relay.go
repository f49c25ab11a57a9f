// Package diagnostics formats and forwards backend warnings and errors.
package diagnostics

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/tuanbt/livelink/internal/overlay"
	"github.com/tuanbt/livelink/internal/protocol"
	"github.com/tuanbt/livelink/internal/report"
)

// Relay formats diagnostics, logs them, and forwards them to the status
// channel. It runs for every warning/error message regardless of the overlay
// configuration; overlay visibility and log visibility are independent.
type Relay struct {
	logger   *slog.Logger
	reporter report.Reporter
}

// NewRelay creates a Relay.
func NewRelay(logger *slog.Logger, reporter report.Reporter) *Relay {
	return &Relay{logger: logger, reporter: reporter}
}

// Relay formats each diagnostic into a header+body entry, logs it at the
// severity matching kind, and posts the full list to the status channel. The
// returned entries are what an overlay surface should display.
func (r *Relay) Relay(kind overlay.Kind, diags []protocol.Diagnostic) []string {
	entries := make([]string, 0, len(diags))
	for _, d := range diags {
		entry := Format(kind, d)
		entries = append(entries, entry)

		if kind == overlay.KindError {
			r.logger.Error(entry)
		} else {
			r.logger.Warn(entry)
		}
	}

	r.reporter.Post(string(kind)+"s", entries)
	return entries
}

// Format renders one diagnostic as a header line followed by its body. The
// body is stripped of ANSI escape sequences so plain-text sinks stay clean.
func Format(kind overlay.Kind, d protocol.Diagnostic) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(string(kind)))

	source := d.ModuleName
	if source == "" {
		source = d.File
	}
	if source != "" {
		b.WriteString(" in ")
		b.WriteString(source)
		if d.Loc != "" {
			b.WriteString(" " + d.Loc)
		}
	}

	body := ansi.Strip(d.Message)
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.String()
}
