package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted, archived)
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeUpdated  EventType = "updated"
	EventTypeDeleted  EventType = "deleted"
	EventTypeArchived EventType = "archived"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeBill       EntityType = "bill"
	EntityTypePayment    EntityType = "payment"
	EntityTypeTag        EntityType = "tag"
	EntityTypeStatistics EntityType = "statistics"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "bill.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "bill"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// BillCreated creates a bill.created event
func BillCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeBill, payload)
}

// BillUpdated creates a bill.updated event
func BillUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBill, payload)
}

// BillDeleted creates a bill.deleted event
func BillDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeBill, payload)
}

// BillArchived creates a bill.archived event
func BillArchived(payload interface{}) Event {
	return NewEvent(EventTypeArchived, EntityTypeBill, payload)
}

// PaymentCreated creates a payment.created event
func PaymentCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypePayment, payload)
}

// PaymentUpdated creates a payment.updated event
func PaymentUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypePayment, payload)
}

// PaymentDeleted creates a payment.deleted event
func PaymentDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypePayment, payload)
}

// TagCreated creates a tag.created event
func TagCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTag, payload)
}

// TagDeleted creates a tag.deleted event
func TagDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTag, payload)
}

// StatisticsUpdated creates a statistics.updated event carrying the freshly
// aggregated statistics so the UI can refresh its dashboard without polling
func StatisticsUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeStatistics, payload)
}
