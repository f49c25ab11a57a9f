// Package transport maintains the websocket connection to the build backend
// and feeds decoded messages to the dispatcher in arrival order.
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tuanbt/livelink/internal/protocol"
)

// DefaultReconnectAttempts bounds reconnection when neither the boot query
// nor the backend negotiated a budget.
const DefaultReconnectAttempts = 10

// Deliver receives each decoded message. The transport calls it from a
// single goroutine, so delivery is in-order and never overlaps: one frame is
// delivered at most once per connection.
type Deliver func(protocol.Message)

type options struct {
	header      http.Header
	attempts    int
	backoffBase time.Duration
	backoffMax  time.Duration
}

// Option configures Connect.
type Option func(*options)

// WithBearerToken attaches an Authorization header to the handshake.
func WithBearerToken(token string) Option {
	return func(o *options) {
		o.header.Set("Authorization", "Bearer "+token)
	}
}

// WithReconnectAttempts bounds the number of reconnections. Zero disables
// reconnection entirely.
func WithReconnectAttempts(n int) Option {
	return func(o *options) {
		o.attempts = n
	}
}

// WithBackoff sets the initial reconnection backoff. It doubles per attempt
// up to a fixed cap.
func WithBackoff(base time.Duration) Option {
	return func(o *options) {
		o.backoffBase = base
	}
}

// Connect dials url and reads frames until ctx is canceled or the
// reconnection budget is spent. Every decoded frame goes to deliver; a
// terminal disconnect of each connection is delivered as protocol.Close
// before any reconnection attempt. Reconnection backs off exponentially.
func Connect(ctx context.Context, url string, deliver Deliver, logger *slog.Logger, opts ...Option) error {
	o := &options{
		header:      make(http.Header),
		attempts:    DefaultReconnectAttempts,
		backoffBase: time.Second,
		backoffMax:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}

	retries := 0
	for {
		if err := runConnection(ctx, url, deliver, logger, o); err != nil {
			logger.Warn("connection lost", "error", err)
		}
		deliver(protocol.Close{})

		if ctx.Err() != nil {
			return nil
		}
		if retries >= o.attempts {
			return fmt.Errorf("giving up after %d reconnection attempts", retries)
		}

		backoff := o.backoffBase << retries
		if backoff > o.backoffMax {
			backoff = o.backoffMax
		}
		retries++
		logger.Info("reconnecting", "attempt", retries, "backoff", backoff)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
	}
}

// runConnection dials once and pumps frames until the connection dies.
func runConnection(ctx context.Context, url string, deliver Deliver, logger *slog.Logger, o *options) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, o.header)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}
	defer conn.Close()

	logger.Info("connected", "url", url)

	// Unblock ReadMessage when the context is canceled.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read failed: %w", err)
		}

		msg, err := protocol.Decode(frame)
		if err != nil {
			// A malformed frame is the backend's bug, not a reason to
			// drop the connection.
			logger.Error("discarding malformed frame", "error", err)
			continue
		}
		deliver(msg)
	}
}
