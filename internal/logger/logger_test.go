package logger

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		name string
		want slog.Level
	}{
		{"none", LevelNone},
		{"error", slog.LevelError},
		{"warn", slog.LevelWarn},
		{"info", slog.LevelInfo},
		{"log", slog.LevelInfo},
		{"verbose", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"bogus", slog.LevelInfo},
	}

	for _, tc := range cases {
		if got := ParseLevel(tc.name); got != tc.want {
			t.Errorf("ParseLevel(%s) = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestNewWithLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "client.log")

	log, levels, cleanup, err := New("warn", logFile)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	defer cleanup()

	if log == nil {
		t.Fatal("expected a logger")
	}
	if levels.Level() != slog.LevelWarn {
		t.Errorf("expected initial level warn, got %s", levels.Level())
	}

	levels.Set(ParseLevel("none"))
	if levels.Level() != LevelNone {
		t.Errorf("expected level none after retune, got %s", levels.Level())
	}
}

func TestNewWithBadLogFile(t *testing.T) {
	if _, _, _, err := New("info", "/nonexistent/dir/client.log"); err == nil {
		t.Error("expected error for unwritable log file")
	}
}
