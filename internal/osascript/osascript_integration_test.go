//go:build integration

package osascript_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/ebowman/focal/internal/osascript"
)

func skipIfNoOsascript(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("osascript"); err != nil {
		t.Skip("osascript not found in PATH, skipping integration test")
	}
}

func TestRunner_Run(t *testing.T) {
	skipIfNoOsascript(t)

	r := osascript.NewRunner(10*time.Second, nil)
	out, err := r.Run(context.Background(), `return "ok"`)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "ok" {
		t.Errorf("got %q, want %q", out, "ok")
	}
}

func TestRunner_RunError(t *testing.T) {
	skipIfNoOsascript(t)

	r := osascript.NewRunner(10*time.Second, nil)
	_, err := r.Run(context.Background(), `error "boom"`)
	if err == nil {
		t.Fatal("expected error from failing script")
	}
}

func TestRunner_ListCalendars(t *testing.T) {
	skipIfNoOsascript(t)

	r := osascript.NewRunner(10*time.Second, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	names, err := r.ListCalendars(ctx)
	if err != nil {
		t.Skipf("Calendar not scriptable on this machine: %v", err)
	}
	t.Logf("calendars: %v", names)
}
