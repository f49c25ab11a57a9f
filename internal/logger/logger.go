// Package logger provides structured logging for the client.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// LevelNone sits above every slog level, silencing all output. It is the
// target of the protocol's "none" logging override.
const LevelNone = slog.LevelError + 4

// New creates the client logger. Logs go to stderr as text so stdout stays
// free for status events; when logFile is set, a JSON copy is appended there
// too. The returned LevelVar retunes verbosity at runtime, and the cleanup
// function closes the log file.
func New(level, logFile string) (*slog.Logger, *slog.LevelVar, func(), error) {
	levels := new(slog.LevelVar)
	levels.Set(ParseLevel(level))

	opts := &slog.HandlerOptions{Level: levels}

	if logFile == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), levels, func() {}, nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, nil, err
	}

	handler := slog.NewJSONHandler(io.MultiWriter(os.Stderr, file), opts)
	cleanup := func() { file.Close() }
	return slog.New(handler), levels, cleanup, nil
}

// ParseLevel converts a protocol or config level name to a slog.Level.
// Unknown names fall back to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "none":
		return LevelNone
	case "error":
		return slog.LevelError
	case "warn":
		return slog.LevelWarn
	case "info", "log":
		return slog.LevelInfo
	case "verbose", "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
