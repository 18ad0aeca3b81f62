package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the booking domain services.
const (
	TypeCourseStatusChanged  = "course.status_changed"
	TypeBookingCreated       = "booking.created"
	TypeBookingStatusChanged = "booking.status_changed"
	TypeOrderCreated         = "order.created"
)

// Event is a lifecycle notification published after a successful state
// change. Consumers key on EntityID, so all events for one entity land on
// the same partition in order.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entity_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

func New(eventType, entity, entityID string, payload map[string]any) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Entity:     entity,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
