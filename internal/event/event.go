package event

import (
	"fmt"
	"strings"
	"time"
)

// Event is the descriptor that flows from extraction to a renderer. It is
// built once per invocation and consumed exactly once.
type Event struct {
	Title    string
	Start    time.Time
	End      time.Time // zero when the input gave no end
	AllDay   bool
	Location string
	Notes    string
}

// Validate checks the required fields before the event is handed to a
// renderer.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("event has no title")
	}
	if e.Start.IsZero() {
		return fmt.Errorf("event has no start")
	}
	if !e.End.IsZero() && e.End.Before(e.Start) {
		return fmt.Errorf("event end %s is before start %s",
			e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}
	return nil
}

// Normalize enforces the all-day invariant: all-day events carry bare
// calendar dates with no time of day.
func (e *Event) Normalize() {
	if !e.AllDay {
		return
	}
	e.Start = truncateToDay(e.Start)
	if !e.End.IsZero() {
		e.End = truncateToDay(e.End)
	}
}

// EndOrDefault returns the explicit end when one was extracted. Timed
// events without one default to an hour after the start; all-day events
// default to the start date itself.
func (e *Event) EndOrDefault() time.Time {
	if !e.End.IsZero() {
		return e.End
	}
	if e.AllDay {
		return e.Start
	}
	return e.Start.Add(time.Hour)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

const maxInputLen = 500

// SanitizeInput caps the description length and strips characters that
// would break out of a generated AppleScript string literal.
func SanitizeInput(s string) string {
	if len(s) > maxInputLen {
		s = s[:maxInputLen]
	}
	s = strings.ReplaceAll(s, `\`, "")
	s = strings.ReplaceAll(s, `"`, "'")
	return strings.TrimSpace(s)
}
