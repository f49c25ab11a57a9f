package config

import (
	"log/slog"
	"net/url"
	"strconv"
)

// Options is the effective client configuration for one session: boot-time
// query parameters merged with runtime protocol overrides. It is created once
// at session start and threaded into the dispatcher; there is no ambient
// global.
//
// A field set explicitly at boot is locked against protocol overrides that
// request the opposite of that choice. Fields with no boot-time opinion are
// freely overridable.
type Options struct {
	Hot        bool
	LiveReload bool
	Progress   bool
	Overlay    OverlayConfig
	LogLevel   string

	// ReconnectAttempts is the transport retry budget. Nil means the
	// transport default; it is read once, at connect time.
	ReconnectAttempts *int

	logger *slog.Logger

	hotLocked        bool
	liveReloadLocked bool
	progressLocked   bool
	reconnectOff     bool

	announced map[string]bool
}

// ResolveQuery parses the boot query parameters once at startup. Recognized
// keys: hot, live-reload, progress, overlay, logging, reconnect. A malformed
// overlay value is discarded with a logged error and the session continues
// with the default.
func ResolveQuery(query url.Values, logger *slog.Logger) *Options {
	o := &Options{
		LogLevel:  "info",
		logger:    logger,
		announced: make(map[string]bool),
	}

	if v, explicit := boolParam(query, "hot", logger); explicit {
		o.Hot = v
		o.hotLocked = true
		o.announce("hot module replacement", v)
	}
	if v, explicit := boolParam(query, "live-reload", logger); explicit {
		o.LiveReload = v
		o.liveReloadLocked = true
		o.announce("live reloading", v)
	}
	if v, explicit := boolParam(query, "progress", logger); explicit {
		o.Progress = v
		o.progressLocked = true
		o.announce("progress reporting", v)
	}

	if v := query.Get("overlay"); v != "" {
		cfg, err := ParseOverlay([]byte(v))
		if err != nil {
			logger.Error("discarding malformed overlay parameter", "error", err)
		} else {
			o.Overlay = cfg
			o.announce("overlay", cfg.Enabled())
		}
	}

	if v := query.Get("logging"); v != "" {
		o.LogLevel = v
	}

	if v := query.Get("reconnect"); v != "" {
		if v == "false" {
			o.reconnectOff = true
		} else if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			o.ReconnectAttempts = &n
		} else {
			logger.Error("discarding invalid reconnect parameter", "value", v)
		}
	}

	return o
}

// boolParam reads a true/false query parameter. The second return reports
// whether the user stated an explicit choice.
func boolParam(query url.Values, key string, logger *slog.Logger) (bool, bool) {
	switch v := query.Get(key); v {
	case "":
		return false, false
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		logger.Warn("ignoring invalid boolean parameter", "key", key, "value", v)
		return false, false
	}
}

// SetHot applies a protocol override of the hot capability.
func (o *Options) SetHot(enabled bool) {
	if o.hotLocked && enabled != o.Hot {
		o.logger.Debug("ignoring hot override, locked by boot parameter", "proposed", enabled)
		return
	}
	o.Hot = enabled
	o.announce("hot module replacement", enabled)
}

// SetLiveReload applies a protocol override of the live-reload capability.
func (o *Options) SetLiveReload(enabled bool) {
	if o.liveReloadLocked && enabled != o.LiveReload {
		o.logger.Debug("ignoring live-reload override, locked by boot parameter", "proposed", enabled)
		return
	}
	o.LiveReload = enabled
	o.announce("live reloading", enabled)
}

// SetProgress applies a protocol override of progress reporting.
func (o *Options) SetProgress(enabled bool) {
	if o.progressLocked && enabled != o.Progress {
		o.logger.Debug("ignoring progress override, locked by boot parameter", "proposed", enabled)
		return
	}
	o.Progress = enabled
	o.announce("progress reporting", enabled)
}

// SetReconnectAttempts applies a protocol override of the retry budget. The
// override is ignored when reconnection was explicitly disabled at boot.
func (o *Options) SetReconnectAttempts(n int) {
	if o.reconnectOff {
		o.logger.Debug("ignoring reconnect override, disabled by boot parameter", "proposed", n)
		return
	}
	o.ReconnectAttempts = &n
}

// ReconnectDisabled reports whether the boot query explicitly disabled
// reconnection negotiation.
func (o *Options) ReconnectDisabled() bool {
	return o.reconnectOff
}

// ApplyOverlayOverride validates and applies a backend-supplied overlay
// value. A malformed value fails locally: it is discarded with a logged
// error and the previous configuration stays in effect.
func (o *Options) ApplyOverlayOverride(raw []byte) {
	cfg, err := ParseOverlay(raw)
	if err != nil {
		o.logger.Error("discarding malformed overlay override", "error", err)
		return
	}
	o.Overlay = cfg
	o.announce("overlay", cfg.Enabled())
}

// announce logs one informational line the first time a capability becomes
// enabled.
func (o *Options) announce(name string, enabled bool) {
	if !enabled || o.announced[name] {
		return
	}
	o.announced[name] = true
	o.logger.Info(name + " enabled")
}
