// Package watch feeds local static-asset changes into the dispatcher, so a
// watched file forces a reload even without a backend notification.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tuanbt/livelink/internal/protocol"
)

// Watcher emits a StaticChanged message for every write or create under the
// watched paths. Rapid-fire events on the same file are debounced.
type Watcher struct {
	paths    []string
	deliver  func(protocol.Message)
	logger   *slog.Logger
	debounce time.Duration
}

// New creates a Watcher over the given files or directories.
func New(paths []string, deliver func(protocol.Message), logger *slog.Logger) *Watcher {
	return &Watcher{
		paths:    paths,
		deliver:  deliver,
		logger:   logger,
		debounce: 100 * time.Millisecond,
	}
}

// Run watches until ctx is canceled. It returns an error only when the
// watcher cannot be set up; runtime watch errors are logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range w.paths {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	w.logger.Info("watching static paths", "paths", w.paths)

	lastSeen := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write != fsnotify.Write &&
				event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			now := time.Now()
			if last, seen := lastSeen[event.Name]; seen && now.Sub(last) < w.debounce {
				continue
			}
			lastSeen[event.Name] = now
			w.deliver(protocol.StaticChanged{File: event.Name})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}
