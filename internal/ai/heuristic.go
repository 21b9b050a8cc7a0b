package ai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	naturaldate "github.com/tj/go-naturaldate"

	"github.com/ebowman/focal/internal/event"
)

const defaultTitle = "New Event"

// Heuristic is the offline fallback: a handful of regex patterns over the
// description, with day words resolved through go-naturaldate. It never
// refuses an input; unmatched text becomes a bare title-only event.
type Heuristic struct {
	logger *slog.Logger
}

func NewHeuristic(logger *slog.Logger) *Heuristic {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Heuristic{logger: logger}
}

const (
	dayWords   = `today|tomorrow|next\s+[a-z]+day|monday|tuesday|wednesday|thursday|friday|saturday|sunday`
	clockExpr  = `\d{1,2}(?::\d{2})?\s*(?:am|pm)`
	monthWords = `january|february|march|april|may|june|july|august|september|october|november|december`
)

var (
	// "Vacation 24-30 August" and "Conference August 24-30"
	reDayRange   = regexp.MustCompile(`(?i)^(?P<title>.*?)\s*\b(?P<d1>\d{1,2})\s*[-–]\s*(?P<d2>\d{1,2})\s+(?P<month>` + monthWords + `)$`)
	reDayRangeUS = regexp.MustCompile(`(?i)^(?P<title>.*?)\s*\b(?P<month>` + monthWords + `)\s+(?P<d1>\d{1,2})\s*[-–]\s*(?P<d2>\d{1,2})$`)

	// "Meeting next tuesday at 3pm at Conference Room"
	reDateTime = regexp.MustCompile(`(?i)^(?P<title>.+?)\s+(?:on\s+)?(?P<date>` + dayWords + `)\s+at\s+(?P<time>` + clockExpr + `)(?:\s+at\s+(?P<location>.+))?$`)
	// "Lunch at 12 pm tomorrow"
	reTimeDate = regexp.MustCompile(`(?i)^(?P<title>.+?)\s+at\s+(?P<time>` + clockExpr + `)\s+(?:on\s+)?(?P<date>` + dayWords + `)$`)
	// "Workout at 7am"
	reTimeOnly = regexp.MustCompile(`(?i)^(?P<title>.+?)\s+at\s+(?P<time>` + clockExpr + `)$`)

	reNoon     = regexp.MustCompile(`(?i)\bnoon\b`)
	reMidnight = regexp.MustCompile(`(?i)\bmidnight\b`)
	reClock    = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(am|pm)$`)
)

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

func (h *Heuristic) Extract(_ context.Context, input string, now time.Time) (*event.Event, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, fmt.Errorf("empty event description")
	}

	s = reNoon.ReplaceAllString(s, "12 pm")
	s = reMidnight.ReplaceAllString(s, "12 am")

	if ev := h.parseDayRange(s, now); ev != nil {
		h.logger.Debug("heuristic matched all-day range", "start", ev.Start, "end", ev.End)
		return ev, nil
	}

	for _, re := range []*regexp.Regexp{reDateTime, reTimeDate, reTimeOnly} {
		m := findNamed(re, s)
		if m == nil {
			continue
		}
		ev, err := h.buildTimed(m, now)
		if err != nil {
			h.logger.Debug("heuristic pattern rejected", "error", err)
			continue
		}
		h.logger.Debug("heuristic matched timed event", "title", ev.Title, "start", ev.Start)
		return ev, nil
	}

	// Nothing matched: keep the whole description as the title and start
	// at the next full hour so the renderer still has a valid event.
	h.logger.Debug("no heuristic pattern matched, using bare title", "input", s)
	start := time.Date(now.Year(), now.Month(), now.Day(), now.Hour()+1, 0, 0, 0, now.Location())
	return &event.Event{Title: s, Start: start}, nil
}

func (h *Heuristic) buildTimed(m map[string]string, now time.Time) (*event.Event, error) {
	hour, minute, err := parseClock(m["time"])
	if err != nil {
		return nil, err
	}

	day := now
	if phrase, ok := m["date"]; ok {
		if day, err = resolveDate(phrase, now); err != nil {
			return nil, err
		}
	}

	ev := &event.Event{
		Title:    strings.TrimSpace(m["title"]),
		Start:    time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()),
		Location: strings.TrimSpace(m["location"]),
	}
	if ev.Title == "" {
		ev.Title = defaultTitle
	}
	return ev, nil
}

func (h *Heuristic) parseDayRange(s string, now time.Time) *event.Event {
	m := findNamed(reDayRange, s)
	if m == nil {
		m = findNamed(reDayRangeUS, s)
	}
	if m == nil {
		return nil
	}

	month, ok := months[strings.ToLower(m["month"])]
	if !ok {
		return nil
	}
	d1, _ := strconv.Atoi(m["d1"])
	d2, _ := strconv.Atoi(m["d2"])
	if d1 < 1 || d2 < d1 || d2 > 31 {
		return nil
	}

	// Ranges already fully in the past roll over to next year.
	year := now.Year()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if time.Date(year, month, d2, 0, 0, 0, 0, now.Location()).Before(today) {
		year++
	}

	title := trimConnector(strings.TrimSpace(m["title"]))
	if title == "" {
		title = defaultTitle
	}

	return &event.Event{
		Title:  title,
		Start:  time.Date(year, month, d1, 0, 0, 0, 0, now.Location()),
		End:    time.Date(year, month, d2, 0, 0, 0, 0, now.Location()),
		AllDay: true,
	}
}

// trimConnector drops a trailing "from"/"on" left over from phrases like
// "Vacation from 24-30 August".
func trimConnector(title string) string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return title
	}
	switch strings.ToLower(words[len(words)-1]) {
	case "from", "on":
		return strings.Join(words[:len(words)-1], " ")
	}
	return title
}

func resolveDate(phrase string, now time.Time) (time.Time, error) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	switch phrase {
	case "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	}
	t, err := naturaldate.Parse(phrase, now, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return time.Time{}, fmt.Errorf("resolving date %q: %w", phrase, err)
	}
	return t, nil
}

func parseClock(s string) (hour, minute int, err error) {
	m := reClock.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("unrecognized time %q", s)
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	if strings.EqualFold(m[3], "pm") && hour != 12 {
		hour += 12
	}
	if strings.EqualFold(m[3], "am") && hour == 12 {
		hour = 0
	}
	return hour, minute, nil
}

func findNamed(re *regexp.Regexp, s string) map[string]string {
	match := re.FindStringSubmatch(s)
	if match == nil {
		return nil
	}
	out := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && match[i] != "" {
			out[name] = match[i]
		}
	}
	return out
}
