package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/servicehub/internal/domain/entity"
)

// Payload keys shared by producers and handlers
const (
	KeyOwnerID            = "owner_id"
	KeyOwnerName          = "owner_name"
	KeyManagerID          = "manager_id"
	KeyFromStatus         = "from_status"
	KeyToStatus           = "to_status"
	KeyAction             = "action"
	KeyComment            = "comment"
	KeyTitle              = "title"
	KeyAssigneeID         = "assignee_id"
	KeyPreviousAssigneeID = "previous_assignee_id"
	KeyLeaveType          = "leave_type"
	KeyAmount             = "amount"
	KeyCurrency           = "currency"
)

// Event is emitted after a workflow write has committed
type Event struct {
	ID         string                 `json:"id"`
	Type       Type                   `json:"type"`
	EntityType entity.EntityType      `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	ActorID    string                 `json:"actor_id"`
	ActorName  string                 `json:"actor_name"`
	Payload    map[string]interface{} `json:"payload"`
	Timestamp  time.Time              `json:"timestamp"`
}

// NewEvent creates a new domain event with auto-generated ID and timestamp
func NewEvent(eventType Type, entityType entity.EntityType, entityID, actorID, actorName string, payload map[string]interface{}) *Event {
	if payload == nil {
		payload = make(map[string]interface{})
	}
	return &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		ActorName:  actorName,
		Payload:    payload,
		Timestamp:  time.Now().UTC(),
	}
}

// WithPayload returns a new Event with an added payload key-value pair (immutable operation)
func (e *Event) WithPayload(key string, value interface{}) *Event {
	newPayload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		newPayload[k] = v
	}
	newPayload[key] = value

	copied := *e
	copied.Payload = newPayload
	return &copied
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case string:
			return v
		case interface{ String() string }:
			return v.String()
		}
	}
	return ""
}
