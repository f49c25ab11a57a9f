// Package report forwards session events to an external status channel.
package report

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Reporter is the status-reporting channel. Post is fire-and-forget and
// never fails observably to the caller.
type Reporter interface {
	Post(event string, payload any)
}

// Event is the NDJSON record emitted per Post.
type Event struct {
	Event   string    `json:"event"`
	Time    time.Time `json:"time"`
	Payload any       `json:"payload,omitempty"`
}

// Writer posts events as NDJSON lines to an io.Writer. Write errors are
// swallowed: a broken status sink must not disturb message handling.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter creates a Writer posting to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Post writes one NDJSON event line.
func (w *Writer) Post(event string, payload any) {
	line, err := json.Marshal(Event{Event: event, Time: time.Now(), Payload: payload})
	if err != nil {
		return
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	w.out.Write(line)
}

// Nop discards all events.
type Nop struct{}

func (Nop) Post(string, any) {}
