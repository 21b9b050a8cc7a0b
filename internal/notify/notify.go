// Package notify posts a desktop notification when an event lands.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/ebowman/focal/internal/event"
)

// Created announces a successfully created event. Notification failures
// are returned so the caller can log them, but they never fail the run.
func Created(e *event.Event, app string) error {
	var when string
	if e.AllDay {
		when = e.Start.Format("Mon, Jan 2")
		if end := e.EndOrDefault(); !end.Equal(e.Start) {
			when = fmt.Sprintf("%s – %s", when, end.Format("Mon, Jan 2"))
		}
	} else {
		when = e.Start.Format("Mon, Jan 2 at 3:04 PM")
	}

	msg := fmt.Sprintf("%s, %s", e.Title, when)
	if err := beeep.Notify(fmt.Sprintf("Event created in %s", app), msg, ""); err != nil {
		return fmt.Errorf("posting notification: %w", err)
	}
	return nil
}
