package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/globenav/internal/geo"
)

// Event is one message on the bus.
type Event struct {
	// Topic is the hierarchical event type.
	Topic Topic

	// Payload contains the event-specific data.
	Payload any

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// NewEvent creates a new event with the given topic and payload.
func NewEvent(t Topic, payload any, source string) Event {
	return Event{
		Topic:   t,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// ViewChanged is the payload of TopicViewChanged.
type ViewChanged struct {
	Center  geo.Position
	Eye     geo.Position
	Heading float64
	Pitch   float64
	Roll    float64
	Zoom    float64
}

// RedrawRequested is the payload of TopicRedrawRequested.
type RedrawRequested struct {
	// Reason names the requester, such as "tick" or "event".
	Reason string
}

// ConfigReloaded is the payload of TopicConfigReloaded.
type ConfigReloaded struct {
	Path string
	// Err is set when the new file was rejected.
	Err error
}

// FocusChanged is the payload of TopicFocusChanged.
type FocusChanged struct {
	Focused bool
}
