// Package messaging publishes domain events for downstream consumers.
package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Event types
const (
	EventOrderCreated  = "order.created"
	EventOrderUpdated  = "order.updated"
	EventOrdersCleared = "orders.cleared"
	EventPlanSaved     = "plan.saved"
	EventPlanDeleted   = "plan.deleted"
)

// Event is the envelope of every published message
type Event struct {
	Type       string      `json:"type"`
	OccurredAt string      `json:"occurredAt"`
	Payload    interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with the current time
func NewEvent(eventType string, payload interface{}) Event {
	return Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
		Payload:    payload,
	}
}

// Publisher sends events to a broker
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

// Publish logs the event at debug level
func (NoopPublisher) Publish(_ context.Context, event Event) error {
	log.Debug().Str("type", event.Type).Msg("Event dropped, no broker configured")
	return nil
}

// Close is a no-op
func (NoopPublisher) Close() error { return nil }

// RecordingPublisher keeps published events in memory
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

// Publish records event
func (r *RecordingPublisher) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns the recorded events in publish order
func (r *RecordingPublisher) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Close is a no-op
func (r *RecordingPublisher) Close() error { return nil }
