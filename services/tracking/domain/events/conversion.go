package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicConversionSubmitted is the Watermill topic published after a
// conversion event is accepted by the Conversions API.
const TopicConversionSubmitted = "conversion.submitted"

// ConversionSubmittedEvent is published after a successful submission.
// The worker consumes it to maintain per-shop delivery statistics; it is
// advisory and never feeds back into the pipeline.
type ConversionSubmittedEvent struct {
	EventID        uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version        int       `json:"version"`  // Schema version; increment on breaking changes
	Shop           string    `json:"shop"`
	PixelID        string    `json:"pixel_id"`
	EventName      string    `json:"event_name"`
	DedupKey       string    `json:"dedup_key"`
	EventsReceived int       `json:"events_received"`
	TraceID        string    `json:"trace_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}
