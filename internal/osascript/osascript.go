// Package osascript shells out to the macOS scripting interpreter and
// wraps the handful of probes the workflow needs (calendar names, app
// availability).
package osascript

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

type Runner struct {
	logger  *slog.Logger
	timeout time.Duration
}

func NewRunner(timeout time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{logger: logger, timeout: timeout}
}

// Run executes a script with osascript -e and returns trimmed stdout.
// A non-zero exit surfaces as an error carrying the captured stderr.
func (r *Runner) Run(ctx context.Context, script string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "osascript", "-e", script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("invoking osascript", "script_len", len(script))

	startTime := time.Now()
	err := cmd.Run()
	elapsed := time.Since(startTime)

	r.logger.Debug("osascript finished",
		"elapsed", elapsed,
		"stdout_bytes", stdout.Len(),
		"stderr_bytes", stderr.Len(),
		"error", err,
	)

	if err != nil {
		r.logger.Error("osascript failed",
			"error", err,
			"elapsed", elapsed,
			"stderr", stderr.String(),
		)
		if ctx.Err() != nil {
			return "", fmt.Errorf("osascript timed out after %s", elapsed.Truncate(time.Second))
		}
		return "", fmt.Errorf("running osascript: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}

// ListCalendars returns the calendar names known to Apple Calendar.
func (r *Runner) ListCalendars(ctx context.Context) ([]string, error) {
	out, err := r.Run(ctx, `tell application "Calendar" to get name of every calendar`)
	if err != nil {
		return nil, fmt.Errorf("listing calendars: %w", err)
	}
	return splitScriptList(out), nil
}

// AppInstalled reports whether an application with the given bundle ID
// exists on disk.
func (r *Runner) AppInstalled(ctx context.Context, bundleID string) (bool, error) {
	script := fmt.Sprintf(`tell application "Finder" to exists application file id "%s"`, bundleID)
	out, err := r.Run(ctx, script)
	if err != nil {
		return false, err
	}
	return out == "true", nil
}

// AppRunning reports whether the named application has a live process.
func (r *Runner) AppRunning(ctx context.Context, name string) (bool, error) {
	script := fmt.Sprintf(`tell application "System Events" to exists application process "%s"`, name)
	out, err := r.Run(ctx, script)
	if err != nil {
		return false, err
	}
	return out == "true", nil
}

// splitScriptList parses osascript's comma-separated list output. Names
// containing commas cannot be distinguished; Calendar names rarely do.
func splitScriptList(out string) []string {
	if out == "" {
		return nil
	}
	parts := strings.Split(out, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}
