// Package render turns an extracted event into a creation command for the
// configured calendar application.
package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ebowman/focal/internal/event"
	"github.com/ebowman/focal/internal/osascript"
)

const (
	AppCalendar    = "calendar"
	AppFantastical = "fantastical"
	AppICS         = "ics"
)

// Target creates a calendar event in one specific application.
type Target interface {
	Name() string
	Create(ctx context.Context, e *event.Event) error
}

// NewTarget selects the renderer for the one-word app preference.
func NewTarget(app, calendarName string, runner *osascript.Runner, logger *slog.Logger) (Target, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	switch strings.ToLower(strings.TrimSpace(app)) {
	case "", AppCalendar:
		return &CalendarTarget{Calendar: calendarName, runner: runner, logger: logger}, nil
	case AppFantastical:
		return &FantasticalTarget{runner: runner, logger: logger}, nil
	case AppICS:
		return &ICSTarget{logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown calendar app %q (expected %q, %q or %q)",
			app, AppCalendar, AppFantastical, AppICS)
	}
}

// escapeScriptString makes a value safe inside an AppleScript string
// literal.
func escapeScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
