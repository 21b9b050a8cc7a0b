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

// CalendarTarget creates events in Apple Calendar with structured
// properties rather than a parsed sentence.
type CalendarTarget struct {
	Calendar string
	runner   *osascript.Runner
	logger   *slog.Logger
}

func (t *CalendarTarget) Name() string { return "Apple Calendar" }

func (t *CalendarTarget) Create(ctx context.Context, e *event.Event) error {
	script := CalendarScript(e, t.Calendar)
	t.logger.Debug("apple calendar script", "script", script)
	if _, err := t.runner.Run(ctx, script); err != nil {
		return fmt.Errorf("creating event in Apple Calendar: %w", err)
	}
	return nil
}

// CalendarScript renders the AppleScript for Apple Calendar. Dates are
// assembled component-wise so the script works under any locale.
func CalendarScript(e *event.Event, calendar string) string {
	var b strings.Builder

	writeDateVar(&b, "eventStart", e.Start, e.AllDay)
	end := e.EndOrDefault()
	if e.AllDay {
		// Calendar treats the all-day end date as inclusive.
		writeDateVar(&b, "eventEnd", end, true)
	} else {
		writeDateVar(&b, "eventEnd", end, false)
	}

	props := []string{
		fmt.Sprintf(`summary:"%s"`, escapeScriptString(e.Title)),
		"start date:eventStart",
		"end date:eventEnd",
		fmt.Sprintf("allday event:%t", e.AllDay),
	}
	if e.Location != "" {
		props = append(props, fmt.Sprintf(`location:"%s"`, escapeScriptString(e.Location)))
	}
	if e.Notes != "" {
		props = append(props, fmt.Sprintf(`description:"%s"`, escapeScriptString(e.Notes)))
	}

	tellCalendar := "tell first calendar"
	if calendar != "" {
		tellCalendar = fmt.Sprintf(`tell calendar "%s"`, escapeScriptString(calendar))
	}

	fmt.Fprintf(&b, "tell application \"Calendar\"\n")
	fmt.Fprintf(&b, "\t%s\n", tellCalendar)
	fmt.Fprintf(&b, "\t\tmake new event with properties {%s}\n", strings.Join(props, ", "))
	fmt.Fprintf(&b, "\tend tell\nend tell")

	return b.String()
}

// writeDateVar emits AppleScript that builds a date value field by field.
// The day is reset to 1 first so a month change never overflows.
func writeDateVar(b *strings.Builder, name string, t time.Time, dateOnly bool) {
	secs := 0
	if !dateOnly {
		secs = t.Hour()*3600 + t.Minute()*60
	}
	fmt.Fprintf(b, "set %s to current date\n", name)
	fmt.Fprintf(b, "set day of %s to 1\n", name)
	fmt.Fprintf(b, "set year of %s to %d\n", name, t.Year())
	fmt.Fprintf(b, "set month of %s to %d\n", name, int(t.Month()))
	fmt.Fprintf(b, "set day of %s to %d\n", name, t.Day())
	fmt.Fprintf(b, "set time of %s to %d\n", name, secs)
}
