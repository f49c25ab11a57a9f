// Package session tracks per-session build identity and teardown state.
package session

import "sync/atomic"

// Status holds the current and previous build identifiers and the teardown
// flag for one session. Build identifiers are mutated only by the dispatcher
// goroutine; the teardown flag is atomic because the teardown signal arrives
// on its own goroutine.
type Status struct {
	currentBuildID  string
	previousBuildID string
	unloading       atomic.Bool
}

// NewStatus creates a Status. buildID is the ambient build identifier the
// session starts with, or empty when none is known.
func NewStatus(buildID string) *Status {
	return &Status{currentBuildID: buildID}
}

// RecordBuildID shifts the current build identifier into the previous slot,
// then stores id as current.
func (s *Status) RecordBuildID(id string) {
	s.previousBuildID = s.currentBuildID
	s.currentBuildID = id
}

// MarkUnloading records that session teardown began. It is idempotent and
// irreversible.
func (s *Status) MarkUnloading() {
	s.unloading.Store(true)
}

// Unloading reports whether teardown began.
func (s *Status) Unloading() bool {
	return s.unloading.Load()
}

// CurrentBuildID returns the identifier of the latest announced build.
func (s *Status) CurrentBuildID() string {
	return s.currentBuildID
}

// PreviousBuildID returns the identifier the session held immediately before
// the latest hash update, or empty when no update happened yet.
func (s *Status) PreviousBuildID() string {
	return s.previousBuildID
}
