// Package overlay decides when the error/warning overlay is shown.
package overlay

import "github.com/tuanbt/livelink/internal/config"

// Kind distinguishes the two overlay surfaces.
type Kind string

const (
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

// Surface is the rendering collaborator. Show receives already-formatted
// entries; how they are drawn is the surface's problem.
type Surface interface {
	Show(kind Kind, entries []string)
	Hide()
}

// ShouldShow reports whether diagnostics of the given kind are displayed
// under the effective overlay configuration.
func ShouldShow(kind Kind, cfg config.OverlayConfig) bool {
	switch cfg.Mode {
	case config.OverlayOn:
		return true
	case config.OverlaySelective:
		if kind == KindError {
			return cfg.Errors
		}
		return cfg.Warnings
	default:
		return false
	}
}

// NopSurface discards all overlay operations. Used when the client runs
// headless.
type NopSurface struct{}

func (NopSurface) Show(Kind, []string) {}
func (NopSurface) Hide()               {}
