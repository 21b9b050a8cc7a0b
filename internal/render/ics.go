package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	ical "github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/ebowman/focal/internal/event"
)

// ICSTarget writes an .ics file and hands it to the default calendar
// application with open(1). It is the fallback for machines where neither
// Apple Calendar nor Fantastical is scriptable.
type ICSTarget struct {
	Dir    string // defaults to the system temp directory
	logger *slog.Logger
}

func (t *ICSTarget) Name() string { return "ICS file" }

func (t *ICSTarget) Create(ctx context.Context, e *event.Event) error {
	data, err := EncodeICS(e)
	if err != nil {
		return err
	}

	dir := t.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	f, err := os.CreateTemp(dir, "focal-*.ics")
	if err != nil {
		return fmt.Errorf("creating ICS file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing ICS file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing ICS file: %w", err)
	}

	t.logger.Debug("wrote ICS file", "path", f.Name(), "bytes", len(data))

	cmd := exec.CommandContext(ctx, "open", f.Name())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("opening %s: %w (stderr: %s)", f.Name(), err, stderr.String())
	}
	return nil
}

// EncodeICS renders the event as an RFC 5545 calendar object. All-day
// events use VALUE=DATE with an exclusive DTEND.
func EncodeICS(e *event.Event) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//ebowman//focal//EN")

	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uuid.NewString())
	ev.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ev.Props.SetText(ical.PropSummary, e.Title)
	if e.Location != "" {
		ev.Props.SetText(ical.PropLocation, e.Location)
	}
	if e.Notes != "" {
		ev.Props.SetText(ical.PropDescription, e.Notes)
	}

	if e.AllDay {
		setDateProp(ev, ical.PropDateTimeStart, e.Start)
		setDateProp(ev, ical.PropDateTimeEnd, e.EndOrDefault().AddDate(0, 0, 1))
	} else {
		ev.Props.SetDateTime(ical.PropDateTimeStart, e.Start)
		ev.Props.SetDateTime(ical.PropDateTimeEnd, e.EndOrDefault())
	}

	cal.Children = append(cal.Children, ev.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encoding ICS: %w", err)
	}
	return buf.Bytes(), nil
}

func setDateProp(ev *ical.Event, name string, t time.Time) {
	p := ical.NewProp(name)
	p.SetValueType(ical.ValueDate)
	p.Value = t.Format("20060102")
	ev.Props.Set(p)
}
