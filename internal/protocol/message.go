// Package protocol defines the typed messages exchanged with the build backend.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Message is the closed set of protocol messages delivered by the transport.
// Each variant corresponds to one wire tag; Unknown absorbs tags this client
// does not recognize so newer backends remain compatible.
type Message interface {
	isMessage()
}

// Hot signals that the backend serves hot updates for this session.
type Hot struct{}

// LiveReload signals that the backend expects full-page reloads on change.
type LiveReload struct{}

// Invalid signals that a recompilation has started and the previous build
// output is stale.
type Invalid struct{}

// Hash carries the identifier of the build the following messages refer to.
type Hash struct {
	ID string
}

// Logging overrides the client log level at runtime.
type Logging struct {
	Level string
}

// OverlayOverride carries a backend-supplied overlay configuration. The raw
// value is validated by the configuration resolver, not here, so a malformed
// override fails locally without dropping the message stream.
type OverlayOverride struct {
	Raw json.RawMessage
}

// Reconnect carries the backend's suggested reconnection attempt budget.
type Reconnect struct {
	Attempts int
}

// Progress toggles progress reporting.
type Progress struct {
	Enabled bool
}

// ProgressUpdate reports compilation progress.
type ProgressUpdate struct {
	Plugin  string
	Percent int
	Message string
}

// StillOK signals that nothing changed since the last clean build.
type StillOK struct{}

// OK signals that a compilation finished without errors.
type OK struct{}

// StaticChanged signals that a static asset outside the module graph changed.
type StaticChanged struct {
	File string
}

// ContentChanged is the deprecated alias of StaticChanged. Both tags remain
// supported; they share one handler.
type ContentChanged struct {
	File string
}

// Warnings carries the warnings of a compilation that still produced output.
type Warnings struct {
	Diagnostics      []Diagnostic
	PreventReloading bool
}

// Errors carries the errors of a failed compilation.
type Errors struct {
	Diagnostics []Diagnostic
}

// Error carries a single backend runtime error.
type Error struct {
	Diagnostic Diagnostic
}

// Close signals a terminal disconnect from the backend.
type Close struct{}

// Unknown is any tag this client does not understand. Handlers ignore it.
type Unknown struct {
	Type string
}

func (Hot) isMessage()             {}
func (LiveReload) isMessage()      {}
func (Invalid) isMessage()         {}
func (Hash) isMessage()            {}
func (Logging) isMessage()         {}
func (OverlayOverride) isMessage() {}
func (Reconnect) isMessage()       {}
func (Progress) isMessage()        {}
func (ProgressUpdate) isMessage()  {}
func (StillOK) isMessage()         {}
func (OK) isMessage()              {}
func (StaticChanged) isMessage()   {}
func (ContentChanged) isMessage()  {}
func (Warnings) isMessage()        {}
func (Errors) isMessage()          {}
func (Error) isMessage()           {}
func (Close) isMessage()           {}
func (Unknown) isMessage()         {}

// envelope is the wire shape of every frame: a tag, an optional payload, and
// optional per-message parameters.
type envelope struct {
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data,omitempty"`
	Params *params         `json:"params,omitempty"`
}

type params struct {
	PreventReloading bool `json:"preventReloading"`
}

// progressPayload is the wire shape of a progress-update frame.
type progressPayload struct {
	Plugin  string `json:"pluginName"`
	Percent int    `json:"percent"`
	Message string `json:"msg"`
}

// Decode parses one wire frame into its Message variant. A frame that is not
// valid JSON or whose payload does not match its tag is an error; a frame
// with an unrecognized tag decodes to Unknown.
func Decode(raw []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to parse frame: %w", err)
	}

	switch env.Type {
	case "hot":
		return Hot{}, nil
	case "liveReload":
		return LiveReload{}, nil
	case "invalid":
		return Invalid{}, nil
	case "hash":
		var id string
		if err := json.Unmarshal(env.Data, &id); err != nil {
			return nil, fmt.Errorf("failed to parse hash payload: %w", err)
		}
		return Hash{ID: id}, nil
	case "logging":
		var level string
		if err := json.Unmarshal(env.Data, &level); err != nil {
			return nil, fmt.Errorf("failed to parse logging payload: %w", err)
		}
		return Logging{Level: level}, nil
	case "overlay":
		return OverlayOverride{Raw: env.Data}, nil
	case "reconnect":
		var n int
		if err := json.Unmarshal(env.Data, &n); err != nil {
			return nil, fmt.Errorf("failed to parse reconnect payload: %w", err)
		}
		return Reconnect{Attempts: n}, nil
	case "progress":
		var enabled bool
		if err := json.Unmarshal(env.Data, &enabled); err != nil {
			return nil, fmt.Errorf("failed to parse progress payload: %w", err)
		}
		return Progress{Enabled: enabled}, nil
	case "progress-update":
		var p progressPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse progress-update payload: %w", err)
		}
		return ProgressUpdate{Plugin: p.Plugin, Percent: p.Percent, Message: p.Message}, nil
	case "still-ok":
		return StillOK{}, nil
	case "ok":
		return OK{}, nil
	case "static-changed":
		file, err := optionalString(env.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse static-changed payload: %w", err)
		}
		return StaticChanged{File: file}, nil
	case "content-changed":
		file, err := optionalString(env.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse content-changed payload: %w", err)
		}
		return ContentChanged{File: file}, nil
	case "warnings":
		var diags []Diagnostic
		if err := json.Unmarshal(env.Data, &diags); err != nil {
			return nil, fmt.Errorf("failed to parse warnings payload: %w", err)
		}
		msg := Warnings{Diagnostics: diags}
		if env.Params != nil {
			msg.PreventReloading = env.Params.PreventReloading
		}
		return msg, nil
	case "errors":
		var diags []Diagnostic
		if err := json.Unmarshal(env.Data, &diags); err != nil {
			return nil, fmt.Errorf("failed to parse errors payload: %w", err)
		}
		return Errors{Diagnostics: diags}, nil
	case "error":
		var d Diagnostic
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse error payload: %w", err)
		}
		return Error{Diagnostic: d}, nil
	case "close":
		return Close{}, nil
	default:
		return Unknown{Type: env.Type}, nil
	}
}

// optionalString accepts a missing, null, or string payload.
func optionalString(data json.RawMessage) (string, error) {
	if len(data) == 0 || string(data) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	return s, nil
}
