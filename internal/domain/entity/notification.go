package entity

import "time"

// NotificationCategory tags a notification for display
type NotificationCategory string

const (
	NotificationActionRequired NotificationCategory = "action_required"
	NotificationStatusUpdate   NotificationCategory = "status_update"
	NotificationAnnouncement   NotificationCategory = "announcement"
	NotificationEscalation     NotificationCategory = "escalation"
)

// EntityType names the kind of request a notification or audit entry refers to
type EntityType string

const (
	EntityTypeLeave   EntityType = "leave"
	EntityTypeExpense EntityType = "expense"
	EntityTypeTicket  EntityType = "ticket"
)

func (t EntityType) String() string {
	return string(t)
}

// Notification is addressed to a single user. Only the recipient may mark it read.
type Notification struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user_id"`
	Title      string               `json:"title"`
	Body       string               `json:"body"`
	Category   NotificationCategory `json:"category"`
	EntityType EntityType           `json:"entity_type,omitempty"`
	EntityID   string               `json:"entity_id,omitempty"`
	IsRead     bool                 `json:"is_read"`
	CreatedAt  time.Time            `json:"created_at"`
}
