// Package reload decides whether a build signal triggers a full reload, a
// hot apply, or nothing.
package reload

import (
	"log/slog"

	"github.com/tuanbt/livelink/internal/config"
	"github.com/tuanbt/livelink/internal/session"
)

// Actions is the reload/apply collaborator. Both calls are fire-and-forget
// signals; ApplyHotUpdate invokes fallback when the update cannot be applied.
type Actions interface {
	ApplyHotUpdate(fallback func())
	ForceFullReload()
}

// Engine applies the reload policy. Errors never reach it: broken builds
// must not be loaded, so only clean builds, warnings, and static changes are
// decided here.
type Engine struct {
	actions Actions
	logger  *slog.Logger
}

// NewEngine creates an Engine driving the given actions.
func NewEngine(actions Actions, logger *slog.Logger) *Engine {
	return &Engine{actions: actions, logger: logger}
}

// OnSuccessfulBuild handles a clean build. Hot takes precedence over live
// reload; a failed hot apply falls back to a forced full reload. Nothing
// happens once teardown began or when neither capability is enabled.
func (e *Engine) OnSuccessfulBuild(opts *config.Options, status *session.Status) {
	if status.Unloading() {
		e.logger.Debug("skipping reload decision, session is unloading")
		return
	}

	switch {
	case opts.Hot:
		e.logger.Info("applying hot update", "build", status.CurrentBuildID())
		e.actions.ApplyHotUpdate(func() {
			e.logger.Warn("hot update failed, forcing full reload")
			e.actions.ForceFullReload()
		})
	case opts.LiveReload:
		e.logger.Info("forcing full reload", "build", status.CurrentBuildID())
		e.actions.ForceFullReload()
	default:
		e.logger.Debug("no reload capability enabled, ignoring build")
	}
}

// OnWarnings handles a build that produced warnings. The policy is identical
// to OnSuccessfulBuild, except it is skipped entirely when the message
// carried the prevent-reloading flag.
func (e *Engine) OnWarnings(opts *config.Options, status *session.Status, preventReloading bool) {
	if preventReloading {
		e.logger.Debug("reload prevented by message parameter")
		return
	}
	e.OnSuccessfulBuild(opts, status)
}

// OnStaticChange handles a changed static asset. Static assets live outside
// the module graph, so a full reload is forced regardless of the hot and
// live-reload flags.
func (e *Engine) OnStaticChange(status *session.Status, file string) {
	if status.Unloading() {
		e.logger.Debug("skipping static reload, session is unloading")
		return
	}
	if file != "" {
		e.logger.Info("static asset changed, forcing full reload", "file", file)
	} else {
		e.logger.Info("static content changed, forcing full reload")
	}
	e.actions.ForceFullReload()
}
