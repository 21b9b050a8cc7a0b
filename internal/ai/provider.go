package ai

import (
	"context"
	"time"

	"github.com/ebowman/focal/internal/event"
)

// Provider turns a free-text description into a structured calendar event.
// now anchors relative expressions like "tomorrow" so extraction stays
// deterministic under test.
type Provider interface {
	Extract(ctx context.Context, input string, now time.Time) (*event.Event, error)
}
