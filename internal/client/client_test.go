package client

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/url"
	"slices"
	"testing"

	"github.com/tuanbt/livelink/internal/config"
	"github.com/tuanbt/livelink/internal/overlay"
	"github.com/tuanbt/livelink/internal/protocol"
	"github.com/tuanbt/livelink/internal/session"
)

// recorder keeps one ordered log of every collaborator call, so tests can
// assert cross-collaborator ordering (e.g. hide before reload).
type recorder struct {
	calls []string
}

func (r *recorder) add(call string) {
	r.calls = append(r.calls, call)
}

type fakeSurface struct{ rec *recorder }

func (f fakeSurface) Show(kind overlay.Kind, entries []string) {
	f.rec.add("show:" + string(kind))
}

func (f fakeSurface) Hide() {
	f.rec.add("hide")
}

type fakeActions struct {
	rec        *recorder
	applyFails bool
}

func (f fakeActions) ApplyHotUpdate(fallback func()) {
	f.rec.add("apply")
	if f.applyFails {
		fallback()
	}
}

func (f fakeActions) ForceFullReload() {
	f.rec.add("reload")
}

type fakeReporter struct{ rec *recorder }

func (f fakeReporter) Post(event string, payload any) {
	f.rec.add("post:" + event)
}

// newTestClient builds a client over the given boot query with recording
// fakes.
func newTestClient(t *testing.T, query string, applyFails bool) (*Client, *recorder) {
	t.Helper()
	q, err := url.ParseQuery(query)
	if err != nil {
		t.Fatalf("bad query %q: %v", query, err)
	}

	rec := &recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := config.ResolveQuery(q, logger)

	c := New(opts, session.NewStatus(""), Deps{
		Surface:  fakeSurface{rec},
		Actions:  fakeActions{rec, applyFails},
		Reporter: fakeReporter{rec},
		Logger:   logger,
	})
	return c, rec
}

func count(calls []string, call string) int {
	n := 0
	for _, c := range calls {
		if c == call {
			n++
		}
	}
	return n
}

func TestHashSequenceTracksBuilds(t *testing.T) {
	c, _ := newTestClient(t, "", false)

	c.Handle(protocol.Hash{ID: "h1"})
	c.Handle(protocol.Hash{ID: "h2"})

	if got := c.Status().PreviousBuildID(); got != "h1" {
		t.Errorf("expected previous=h1, got %s", got)
	}
	if got := c.Status().CurrentBuildID(); got != "h2" {
		t.Errorf("expected current=h2, got %s", got)
	}
}

func TestReconnectOverrideIgnoredWhenDisabledAtBoot(t *testing.T) {
	c, _ := newTestClient(t, "reconnect=false", false)

	c.Handle(protocol.Reconnect{Attempts: 5})

	if c.Options().ReconnectAttempts != nil {
		t.Errorf("reconnect budget must stay unset, got %d", *c.Options().ReconnectAttempts)
	}
}

func TestSelectiveOverlayShowsOnlyFlaggedKind(t *testing.T) {
	c, rec := newTestClient(t, `overlay={"errors":true,"warnings":false}`, false)

	c.Handle(protocol.Errors{Diagnostics: []protocol.Diagnostic{{Message: "boom"}}})
	c.Handle(protocol.Warnings{Diagnostics: []protocol.Diagnostic{{Message: "meh"}}})

	if count(rec.calls, "show:error") != 1 {
		t.Errorf("expected error overlay, calls: %v", rec.calls)
	}
	if count(rec.calls, "show:warning") != 0 {
		t.Errorf("warning overlay must stay hidden, calls: %v", rec.calls)
	}
	// Relay is independent of overlay visibility.
	if count(rec.calls, "post:errors") != 1 || count(rec.calls, "post:warnings") != 1 {
		t.Errorf("diagnostics must always be relayed, calls: %v", rec.calls)
	}
}

func TestOkWithHotAppliesUpdate(t *testing.T) {
	c, rec := newTestClient(t, "hot=true", false)

	c.Handle(protocol.OK{})

	if count(rec.calls, "apply") != 1 {
		t.Errorf("expected one hot apply, calls: %v", rec.calls)
	}
	if count(rec.calls, "reload") != 0 {
		t.Errorf("hot ok must not reload, calls: %v", rec.calls)
	}
}

func TestOkWithHotFailureFallsBack(t *testing.T) {
	c, rec := newTestClient(t, "hot=true", true)

	c.Handle(protocol.OK{})

	if count(rec.calls, "apply") != 1 || count(rec.calls, "reload") != 1 {
		t.Errorf("expected apply then fallback reload, calls: %v", rec.calls)
	}
}

func TestOkWithLiveReloadReloadsExactlyOnce(t *testing.T) {
	c, rec := newTestClient(t, "live-reload=true", false)

	c.Handle(protocol.OK{})

	if count(rec.calls, "reload") != 1 {
		t.Errorf("expected exactly one reload, calls: %v", rec.calls)
	}
	if count(rec.calls, "apply") != 0 {
		t.Errorf("live reload must not hot apply, calls: %v", rec.calls)
	}
}

func TestOkHidesOverlayBeforeReload(t *testing.T) {
	c, rec := newTestClient(t, "live-reload=true", false)

	c.Handle(protocol.OK{})

	hide := slices.Index(rec.calls, "hide")
	reload := slices.Index(rec.calls, "reload")
	if hide == -1 || reload == -1 || hide > reload {
		t.Errorf("overlay must hide before the reload runs, calls: %v", rec.calls)
	}
}

func TestWarningsPreventReloadingStillRelaysAndShows(t *testing.T) {
	c, rec := newTestClient(t, "live-reload=true&overlay=true", false)

	c.Handle(protocol.Warnings{
		Diagnostics:      []protocol.Diagnostic{{Message: "careful"}},
		PreventReloading: true,
	})

	if count(rec.calls, "post:warnings") != 1 {
		t.Errorf("warnings must be relayed, calls: %v", rec.calls)
	}
	if count(rec.calls, "show:warning") != 1 {
		t.Errorf("overlay must still update, calls: %v", rec.calls)
	}
	if count(rec.calls, "reload") != 0 || count(rec.calls, "apply") != 0 {
		t.Errorf("prevent-reloading must block all reload actions, calls: %v", rec.calls)
	}
}

func TestWarningsLogBeforeOverlayShow(t *testing.T) {
	c, rec := newTestClient(t, "overlay=true", false)

	c.Handle(protocol.Warnings{Diagnostics: []protocol.Diagnostic{{Message: "w"}}})

	post := slices.Index(rec.calls, "post:warnings")
	show := slices.Index(rec.calls, "show:warning")
	if post == -1 || show == -1 || post > show {
		t.Errorf("relay must complete before the overlay shows, calls: %v", rec.calls)
	}
}

func TestErrorsNeverReload(t *testing.T) {
	c, rec := newTestClient(t, "hot=true&live-reload=true&overlay=true", false)

	c.Handle(protocol.Errors{Diagnostics: []protocol.Diagnostic{{Message: "broken"}}})

	if count(rec.calls, "reload") != 0 || count(rec.calls, "apply") != 0 {
		t.Errorf("errors must never trigger reload, calls: %v", rec.calls)
	}
	if count(rec.calls, "show:error") != 1 {
		t.Errorf("expected error overlay, calls: %v", rec.calls)
	}
}

func TestStaticChangedAlwaysReloads(t *testing.T) {
	c, rec := newTestClient(t, "", false)

	c.Handle(protocol.StaticChanged{File: "app.css"})

	if count(rec.calls, "reload") != 1 {
		t.Errorf("static change must force reload even with no capability, calls: %v", rec.calls)
	}
}

func TestContentChangedAliasBehavesLikeStaticChanged(t *testing.T) {
	c, rec := newTestClient(t, "", false)

	c.Handle(protocol.ContentChanged{File: "logo.svg"})

	if count(rec.calls, "reload") != 1 {
		t.Errorf("deprecated alias must force reload, calls: %v", rec.calls)
	}
	if count(rec.calls, "post:static-changed") != 1 {
		t.Errorf("alias must post the same event, calls: %v", rec.calls)
	}
}

func TestUnloadingBlocksAllReloadActions(t *testing.T) {
	c, rec := newTestClient(t, "hot=true&live-reload=true", false)

	c.Status().MarkUnloading()
	c.Handle(protocol.OK{})
	c.Handle(protocol.Warnings{Diagnostics: nil})
	c.Handle(protocol.StaticChanged{File: "app.css"})

	if count(rec.calls, "reload") != 0 || count(rec.calls, "apply") != 0 {
		t.Errorf("no reload action may run after teardown, calls: %v", rec.calls)
	}
}

func TestInvalidHidesOverlayOnlyWhenEnabled(t *testing.T) {
	c, rec := newTestClient(t, "overlay=true", false)
	c.Handle(protocol.Invalid{})
	if count(rec.calls, "hide") != 1 {
		t.Errorf("invalid must hide an enabled overlay, calls: %v", rec.calls)
	}
	if count(rec.calls, "post:invalid") != 1 {
		t.Errorf("invalid must be posted, calls: %v", rec.calls)
	}

	c2, rec2 := newTestClient(t, "", false)
	c2.Handle(protocol.Invalid{})
	if count(rec2.calls, "hide") != 0 {
		t.Errorf("invalid must not touch a disabled overlay, calls: %v", rec2.calls)
	}
}

func TestStillOkHidesAndPosts(t *testing.T) {
	c, rec := newTestClient(t, "overlay=true", false)

	c.Handle(protocol.StillOK{})

	if count(rec.calls, "hide") != 1 || count(rec.calls, "post:still-ok") != 1 {
		t.Errorf("unexpected calls: %v", rec.calls)
	}
	if count(rec.calls, "reload") != 0 {
		t.Errorf("still-ok must not reload, calls: %v", rec.calls)
	}
}

func TestHotAndLiveReloadMessagesEnableCapabilities(t *testing.T) {
	c, _ := newTestClient(t, "", false)

	c.Handle(protocol.Hot{})
	c.Handle(protocol.LiveReload{})

	if !c.Options().Hot || !c.Options().LiveReload {
		t.Errorf("expected both capabilities enabled, got hot=%t live=%t",
			c.Options().Hot, c.Options().LiveReload)
	}
}

func TestLoggingOverrideRetunesLevel(t *testing.T) {
	q, _ := url.ParseQuery("")
	rec := &recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	levels := new(slog.LevelVar)

	c := New(config.ResolveQuery(q, logger), session.NewStatus(""), Deps{
		Surface:  fakeSurface{rec},
		Actions:  fakeActions{rec, false},
		Reporter: fakeReporter{rec},
		Logger:   logger,
		Levels:   levels,
	})

	c.Handle(protocol.Logging{Level: "error"})

	if levels.Level() != slog.LevelError {
		t.Errorf("expected level error, got %s", levels.Level())
	}
	if c.Options().LogLevel != "error" {
		t.Errorf("expected LogLevel=error, got %s", c.Options().LogLevel)
	}
}

func TestOverlayOverrideMalformedKeepsPrevious(t *testing.T) {
	c, rec := newTestClient(t, "overlay=true", false)

	c.Handle(protocol.OverlayOverride{Raw: json.RawMessage(`{bad}`)})
	c.Handle(protocol.Errors{Diagnostics: []protocol.Diagnostic{{Message: "x"}}})

	if count(rec.calls, "show:error") != 1 {
		t.Errorf("previous overlay config must stay in effect, calls: %v", rec.calls)
	}
}

func TestCloseHidesOverlayAndPosts(t *testing.T) {
	c, rec := newTestClient(t, "overlay=true", false)

	c.Handle(protocol.Close{})

	if count(rec.calls, "hide") != 1 || count(rec.calls, "post:close") != 1 {
		t.Errorf("unexpected calls: %v", rec.calls)
	}
}

func TestUnknownMessageIsIgnored(t *testing.T) {
	c, rec := newTestClient(t, "hot=true&overlay=true", false)

	c.Handle(protocol.Unknown{Type: "future-feature"})

	if len(rec.calls) != 0 {
		t.Errorf("unknown message must be a no-op, calls: %v", rec.calls)
	}
}

func TestProgressUpdatePostsRegardlessOfSetting(t *testing.T) {
	c, rec := newTestClient(t, "", false)

	c.Handle(protocol.ProgressUpdate{Percent: 50, Message: "building"})

	if count(rec.calls, "post:progress-update") != 1 {
		t.Errorf("progress updates must reach the status channel, calls: %v", rec.calls)
	}
}
