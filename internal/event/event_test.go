package event

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Complete(t *testing.T) {
	e := &Event{
		Title: "Lunch with Sarah",
		Start: time.Date(2026, 8, 26, 12, 0, 0, 0, time.Local),
		End:   time.Date(2026, 8, 26, 13, 0, 0, 0, time.Local),
	}
	assert.NoError(t, e.Validate())
}

func TestValidate_MissingTitle(t *testing.T) {
	e := &Event{Title: "   ", Start: time.Date(2026, 8, 26, 12, 0, 0, 0, time.Local)}
	err := e.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no title")
}

func TestValidate_MissingStart(t *testing.T) {
	e := &Event{Title: "Lunch"}
	err := e.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no start")
}

func TestValidate_EndBeforeStart(t *testing.T) {
	e := &Event{
		Title: "Lunch",
		Start: time.Date(2026, 8, 26, 12, 0, 0, 0, time.Local),
		End:   time.Date(2026, 8, 26, 11, 0, 0, 0, time.Local),
	}
	assert.Error(t, e.Validate())
}

func TestNormalize_AllDayStripsTimeOfDay(t *testing.T) {
	e := &Event{
		Title:  "Vacation",
		Start:  time.Date(2026, 8, 24, 9, 30, 0, 0, time.Local),
		End:    time.Date(2026, 8, 30, 17, 0, 0, 0, time.Local),
		AllDay: true,
	}
	e.Normalize()
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local), e.Start)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local), e.End)
}

func TestNormalize_TimedEventUntouched(t *testing.T) {
	start := time.Date(2026, 8, 26, 12, 0, 0, 0, time.Local)
	e := &Event{Title: "Lunch", Start: start}
	e.Normalize()
	assert.Equal(t, start, e.Start)
}

func TestEndOrDefault(t *testing.T) {
	start := time.Date(2026, 8, 26, 12, 0, 0, 0, time.Local)

	timed := &Event{Title: "Lunch", Start: start}
	assert.Equal(t, start.Add(time.Hour), timed.EndOrDefault())

	explicit := &Event{Title: "Lunch", Start: start, End: start.Add(30 * time.Minute)}
	assert.Equal(t, start.Add(30*time.Minute), explicit.EndOrDefault())

	allDay := &Event{Title: "Holiday", Start: start, AllDay: true}
	assert.Equal(t, start, allDay.EndOrDefault())
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Lunch with Sarah", SanitizeInput("  Lunch with Sarah  "))
	assert.Equal(t, "say 'hi'", SanitizeInput(`say "hi"`))
	assert.Equal(t, "no escapes", SanitizeInput(`no\ esc\apes`))

	long := strings.Repeat("a", 600)
	assert.Len(t, SanitizeInput(long), 500)
}
