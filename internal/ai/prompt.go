package ai

import (
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
)

const systemPrompt = `You are an expert at converting natural language descriptions into structured calendar events. Extract the fields exactly as requested and return valid JSON matching the required schema.`

// wireEvent is the shape the model is asked to return. All fields are
// required so the schema can run in strict mode; unknown values come back
// as empty strings.
type wireEvent struct {
	Title    string `json:"title" jsonschema_description:"Short event title, without date or time words"`
	Start    string `json:"start" jsonschema_description:"Start as YYYY-MM-DDTHH:MM, or YYYY-MM-DD for all-day events"`
	End      string `json:"end" jsonschema_description:"End in the same format, or empty if not stated"`
	AllDay   bool   `json:"all_day" jsonschema_description:"True when the event spans whole days without a time of day"`
	Location string `json:"location" jsonschema_description:"Location, or empty if not stated"`
	Notes    string `json:"notes" jsonschema_description:"Any remaining detail worth keeping, or empty"`
}

// eventSchema is reflected once per process from wireEvent.
var eventSchema = generateSchema(&wireEvent{})

func generateSchema(v any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(v)
}

func buildUserPrompt(input string, now time.Time) string {
	tomorrow := now.AddDate(0, 0, 1)
	nextWeek := now.AddDate(0, 0, 7)

	return fmt.Sprintf(`Convert this event description into structured fields.

CURRENT CONTEXT:
- Today is %s at %s
- Tomorrow is %s
- Next week starts %s

RULES:
- Resolve relative dates ("tomorrow", "next Tuesday") against the context above
- Timed events use YYYY-MM-DDTHH:MM in local time, 24-hour clock
- Date-only phrases ("24-30 August") are all-day: set all_day true and use YYYY-MM-DD
- If no end is stated, leave end empty
- The title must not repeat the date, time, or location
- If no date is stated at all, assume today

Description: "%s"`,
		now.Format("Monday, January 2, 2006"),
		now.Format("3:04 PM"),
		tomorrow.Format("Monday, January 2"),
		nextWeek.Format("Monday, January 2"),
		input)
}
