package config

import (
	"encoding/json"
	"fmt"
)

// OverlayMode selects how the error/warning overlay is driven.
type OverlayMode int

const (
	// OverlayOff never shows the overlay.
	OverlayOff OverlayMode = iota

	// OverlayOn shows the overlay for both errors and warnings.
	OverlayOn

	// OverlaySelective shows the overlay per kind, as flagged.
	OverlaySelective
)

// OverlayConfig is the validated overlay setting. The wire value is either a
// boolean or a selective object; both are normalized here once, at the
// boundary, so no later code inspects raw JSON.
type OverlayConfig struct {
	Mode     OverlayMode
	Errors   bool
	Warnings bool
}

// overlaySelective is the wire shape of a selective overlay value. Pointers
// distinguish "absent" from "false": an absent field defaults to enabled.
type overlaySelective struct {
	Errors   *bool `json:"errors"`
	Warnings *bool `json:"warnings"`
}

// ParseOverlay validates a raw overlay value. A partially specified selective
// value fills the missing kind with true, never false.
func ParseOverlay(raw []byte) (OverlayConfig, error) {
	var enabled bool
	if err := json.Unmarshal(raw, &enabled); err == nil {
		if enabled {
			return OverlayConfig{Mode: OverlayOn}, nil
		}
		return OverlayConfig{Mode: OverlayOff}, nil
	}

	var sel overlaySelective
	if err := json.Unmarshal(raw, &sel); err != nil {
		return OverlayConfig{}, fmt.Errorf("invalid overlay value %q: %w", raw, err)
	}

	cfg := OverlayConfig{Mode: OverlaySelective, Errors: true, Warnings: true}
	if sel.Errors != nil {
		cfg.Errors = *sel.Errors
	}
	if sel.Warnings != nil {
		cfg.Warnings = *sel.Warnings
	}
	return cfg, nil
}

// Enabled returns true if the overlay can show anything at all.
func (c OverlayConfig) Enabled() bool {
	switch c.Mode {
	case OverlayOn:
		return true
	case OverlaySelective:
		return c.Errors || c.Warnings
	default:
		return false
	}
}

func (c OverlayConfig) String() string {
	switch c.Mode {
	case OverlayOn:
		return "on"
	case OverlaySelective:
		return fmt.Sprintf("selective(errors=%t, warnings=%t)", c.Errors, c.Warnings)
	default:
		return "off"
	}
}
