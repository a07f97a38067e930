package entity

import "time"

// AuditAction is the verb recorded in an audit entry
type AuditAction string

const (
	AuditActionCreate       AuditAction = "create"
	AuditActionApprove      AuditAction = "approve"
	AuditActionReject       AuditAction = "reject"
	AuditActionEscalate     AuditAction = "escalate"
	AuditActionPay          AuditAction = "pay"
	AuditActionStatusChange AuditAction = "status_change"
	AuditActionComment      AuditAction = "comment"
)

// AuditLog is an immutable record of a mutating action
type AuditLog struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	UserName   string      `json:"user_name"`
	Action     AuditAction `json:"action"`
	EntityType EntityType  `json:"entity_type"`
	EntityID   string      `json:"entity_id"`
	Details    string      `json:"details"`
	CreatedAt  time.Time   `json:"created_at"`
}

// AuditFilter narrows an audit log query. Zero values match everything.
type AuditFilter struct {
	EntityType EntityType
	EntityID   string
	UserID     string
	Since      time.Time
	Until      time.Time
	Limit      int
}
