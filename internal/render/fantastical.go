package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ebowman/focal/internal/event"
	"github.com/ebowman/focal/internal/osascript"
)

// FantasticalTarget hands Fantastical a natural-language sentence and lets
// its own parser do the rest.
type FantasticalTarget struct {
	runner *osascript.Runner
	logger *slog.Logger
}

func (t *FantasticalTarget) Name() string { return "Fantastical" }

func (t *FantasticalTarget) Create(ctx context.Context, e *event.Event) error {
	script := FantasticalScript(e)
	t.logger.Debug("fantastical script", "script", script)
	if _, err := t.runner.Run(ctx, script); err != nil {
		return fmt.Errorf("creating event in Fantastical: %w", err)
	}
	return nil
}

func FantasticalScript(e *event.Event) string {
	return fmt.Sprintf("tell application \"Fantastical\"\n\tparse sentence \"%s\" with add immediately\nend tell",
		escapeScriptString(Sentence(e)))
}

// Sentence renders the event the way Fantastical parses most reliably:
// full weekday-and-date, 12-hour times, location last.
func Sentence(e *event.Event) string {
	parts := []string{e.Title}

	switch {
	case e.AllDay && !e.End.IsZero() && !e.End.Equal(e.Start):
		parts = append(parts,
			"from", e.Start.Format("Monday, January 2"),
			"to", e.End.Format("Monday, January 2"))
	case e.AllDay:
		parts = append(parts, "all day on", e.Start.Format("Monday, January 2"))
	default:
		parts = append(parts, "on", e.Start.Format("Monday, January 2"), "at", clockSentence(e.Start))
	}

	if e.Location != "" {
		parts = append(parts, "at", e.Location)
	}
	if e.Notes != "" {
		parts = append(parts, "//", e.Notes)
	}

	return strings.Join(parts, " ")
}

// clockSentence formats a 12-hour time, dropping :00 minutes ("12 pm",
// "3:30 pm").
func clockSentence(t time.Time) string {
	if t.Minute() == 0 {
		return strings.ToLower(t.Format("3 PM"))
	}
	return strings.ToLower(t.Format("3:04 PM"))
}
