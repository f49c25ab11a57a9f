// Package action executes the user-configured reload and hot-apply hook
// commands.
package action

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds one hook execution.
const DefaultTimeout = 30 * time.Second

// Runner implements the reload actions by running shell hooks. Running a
// hook inline keeps apply-before-next-message ordering: the dispatcher never
// starts the next message while an update is still being applied.
type Runner struct {
	hotApply []string
	reload   []string
	logger   *slog.Logger
	timeout  time.Duration
}

// NewRunner creates a Runner. Either command may be empty: a missing
// hot-apply hook makes every hot update fall back to a full reload, and a
// missing reload hook makes reloads log-only.
func NewRunner(hotApply, reload []string, logger *slog.Logger) *Runner {
	return &Runner{
		hotApply: hotApply,
		reload:   reload,
		logger:   logger,
		timeout:  DefaultTimeout,
	}
}

// ApplyHotUpdate runs the hot-apply hook. When the hook is missing or exits
// non-zero, the update cannot be applied and fallback runs instead.
func (r *Runner) ApplyHotUpdate(fallback func()) {
	if len(r.hotApply) == 0 {
		r.logger.Debug("no hot-apply hook configured")
		fallback()
		return
	}
	if err := r.run(r.hotApply); err != nil {
		r.logger.Warn("hot-apply hook failed", "error", err)
		fallback()
	}
}

// ForceFullReload runs the reload hook.
func (r *Runner) ForceFullReload() {
	if len(r.reload) == 0 {
		r.logger.Warn("no reload hook configured, reload skipped")
		return
	}
	if err := r.run(r.reload); err != nil {
		r.logger.Error("reload hook failed", "error", err)
	}
}

// run executes one hook command, capturing its combined output.
func (r *Runner) run(command []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		r.logger.Debug("hook output", "command", command[0], "output", strings.TrimSpace(string(output)))
	}
	if err != nil {
		return fmt.Errorf("hook %s failed: %w", command[0], err)
	}
	return nil
}
