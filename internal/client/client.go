// Package client implements the message protocol dispatcher: the state
// machine that turns inbound backend messages into configuration updates,
// overlay changes, reload decisions, and status events.
package client

import (
	"context"
	"log/slog"

	"github.com/tuanbt/livelink/internal/config"
	"github.com/tuanbt/livelink/internal/diagnostics"
	"github.com/tuanbt/livelink/internal/logger"
	"github.com/tuanbt/livelink/internal/overlay"
	"github.com/tuanbt/livelink/internal/protocol"
	"github.com/tuanbt/livelink/internal/reload"
	"github.com/tuanbt/livelink/internal/report"
	"github.com/tuanbt/livelink/internal/session"
)

// Deps are the external collaborators the dispatcher drives. All calls into
// them are fire-and-forget; none of them blocks message handling.
type Deps struct {
	// Surface renders and hides the error/warning overlay.
	Surface overlay.Surface

	// Actions applies hot updates and forces full reloads.
	Actions reload.Actions

	// Reporter is the status-reporting channel.
	Reporter report.Reporter

	// Logger is the session logger.
	Logger *slog.Logger

	// Levels retunes Logger at runtime when a logging override arrives. Nil
	// disables runtime retuning.
	Levels *slog.LevelVar
}

// Client is the protocol dispatcher for one session. Messages are handled
// one at a time, in arrival order; Run serializes delivery so concurrent
// producers (transport, file watcher) cannot interleave handlers.
type Client struct {
	opts   *config.Options
	status *session.Status
	engine *reload.Engine
	relay  *diagnostics.Relay
	deps   Deps

	msgs chan protocol.Message
}

// New creates a Client over the resolved options and session status.
func New(opts *config.Options, status *session.Status, deps Deps) *Client {
	return &Client{
		opts:   opts,
		status: status,
		engine: reload.NewEngine(deps.Actions, deps.Logger),
		relay:  diagnostics.NewRelay(deps.Logger, deps.Reporter),
		deps:   deps,
		msgs:   make(chan protocol.Message, 64),
	}
}

// Options returns the effective options. The transport reads the reconnect
// budget from here at connect time.
func (c *Client) Options() *config.Options {
	return c.opts
}

// Status returns the session status.
func (c *Client) Status() *session.Status {
	return c.status
}

// Deliver enqueues one message for handling. It blocks when the queue is
// full, which backpressures the producer instead of reordering or dropping.
func (c *Client) Deliver(msg protocol.Message) {
	c.msgs <- msg
}

// Run drains the queue until ctx is canceled. It is the single consumer: no
// two messages are ever handled concurrently.
func (c *Client) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.msgs:
			c.Handle(msg)
		}
	}
}

// Handle processes one message to completion. The switch is exhaustive over
// the protocol's closed message set; only Unknown falls through, silently,
// for forward compatibility.
func (c *Client) Handle(msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.Hot:
		c.opts.SetHot(true)

	case protocol.LiveReload:
		c.opts.SetLiveReload(true)

	case protocol.Invalid:
		c.deps.Logger.Info("source changed, recompiling")
		c.deps.Reporter.Post("invalid", nil)
		if c.opts.Overlay.Enabled() {
			c.deps.Surface.Hide()
		}

	case protocol.Hash:
		c.status.RecordBuildID(m.ID)

	case protocol.Logging:
		c.opts.LogLevel = m.Level
		if c.deps.Levels != nil {
			c.deps.Levels.Set(logger.ParseLevel(m.Level))
		}

	case protocol.OverlayOverride:
		c.opts.ApplyOverlayOverride(m.Raw)

	case protocol.Reconnect:
		c.opts.SetReconnectAttempts(m.Attempts)

	case protocol.Progress:
		c.opts.SetProgress(m.Enabled)

	case protocol.ProgressUpdate:
		if c.opts.Progress {
			c.deps.Logger.Info("compilation progress",
				"plugin", m.Plugin, "percent", m.Percent, "message", m.Message)
		}
		c.deps.Reporter.Post("progress-update", m)

	case protocol.StillOK:
		c.deps.Logger.Info("nothing changed")
		c.deps.Reporter.Post("still-ok", nil)
		c.deps.Surface.Hide()

	case protocol.OK:
		c.deps.Reporter.Post("ok", nil)
		// The overlay must not outlive a navigation it triggered: hide
		// strictly before the reload decision runs.
		c.deps.Surface.Hide()
		c.engine.OnSuccessfulBuild(c.opts, c.status)

	case protocol.StaticChanged:
		c.handleStaticChange(m.File)

	case protocol.ContentChanged:
		// Deprecated alias of StaticChanged, kept for older backends.
		c.handleStaticChange(m.File)

	case protocol.Warnings:
		c.deps.Logger.Warn("warnings while compiling")
		entries := c.relay.Relay(overlay.KindWarning, m.Diagnostics)
		if overlay.ShouldShow(overlay.KindWarning, c.opts.Overlay) {
			c.deps.Surface.Show(overlay.KindWarning, entries)
		}
		c.engine.OnWarnings(c.opts, c.status, m.PreventReloading)

	case protocol.Errors:
		c.deps.Logger.Error("errors while compiling, reload prevented")
		entries := c.relay.Relay(overlay.KindError, m.Diagnostics)
		if overlay.ShouldShow(overlay.KindError, c.opts.Overlay) {
			c.deps.Surface.Show(overlay.KindError, entries)
		}

	case protocol.Error:
		c.relay.Relay(overlay.KindError, []protocol.Diagnostic{m.Diagnostic})

	case protocol.Close:
		c.deps.Logger.Info("disconnected")
		if c.opts.Overlay.Enabled() {
			c.deps.Surface.Hide()
		}
		c.deps.Reporter.Post("close", nil)

	case protocol.Unknown:
		c.deps.Logger.Debug("ignoring unknown message", "type", m.Type)
	}
}

func (c *Client) handleStaticChange(file string) {
	c.deps.Reporter.Post("static-changed", file)
	c.engine.OnStaticChange(c.status, file)
}
