// Package alfred emits Script Filter feedback for the launcher frontend.
package alfred

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type Feedback struct {
	Items []Item `json:"items"`
}

type Item struct {
	UID      string `json:"uid,omitempty"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Arg      string `json:"arg,omitempty"`
	Valid    bool   `json:"valid"`
	Icon     *Icon  `json:"icon,omitempty"`
}

type Icon struct {
	Path string `json:"path"`
}

var workflowIcon = &Icon{Path: "icon.png"}

const minQueryLen = 3

// Preview builds the live feedback shown while the user types an event
// description.
func Preview(query string) Feedback {
	query = strings.TrimSpace(query)

	if len(query) < minQueryLen {
		return Feedback{Items: []Item{{
			UID:      "help",
			Title:    "Enter your event description...",
			Subtitle: "e.g., 'Lunch with Anna tomorrow at noon' or 'Team meeting next Tuesday at 2pm'",
			Valid:    false,
			Icon:     workflowIcon,
		}}}
	}

	return Feedback{Items: []Item{
		{
			UID:      "create_event",
			Title:    fmt.Sprintf("Create Event: %s", query),
			Subtitle: "Press Enter to create the calendar event",
			Arg:      query,
			Valid:    true,
			Icon:     workflowIcon,
		},
		{
			UID:      "preview",
			Title:    "Your input is normalized before it reaches the calendar",
			Subtitle: "Example: 'Lunch with Anna on Tuesday, August 12 at 12 pm' for reliable parsing",
			Valid:    false,
			Icon:     workflowIcon,
		},
	}}
}

func (f Feedback) Write(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("encoding feedback: %w", err)
	}
	return nil
}
