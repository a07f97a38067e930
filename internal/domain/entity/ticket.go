package entity

import "time"

// TicketStatus represents a state in the IT support ticket lifecycle
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusAssigned   TicketStatus = "Assigned"
	TicketStatusInProgress TicketStatus = "In_Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
	TicketStatusEscalated  TicketStatus = "Escalated"
)

var validTicketStatuses = map[TicketStatus]bool{
	TicketStatusOpen:       true,
	TicketStatusAssigned:   true,
	TicketStatusInProgress: true,
	TicketStatusResolved:   true,
	TicketStatusClosed:     true,
	TicketStatusEscalated:  true,
}

// IsValid returns true if the status belongs to the ticket status set
func (s TicketStatus) IsValid() bool {
	return validTicketStatuses[s]
}

// IsTerminal returns true if no further transitions are allowed
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusClosed
}

func (s TicketStatus) String() string {
	return string(s)
}

// TicketPriority drives the SLA deadline of a ticket
type TicketPriority string

const (
	TicketPriorityCritical TicketPriority = "Critical"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityLow      TicketPriority = "Low"
)

// IsValid returns true if the priority is known
func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityCritical, TicketPriorityHigh, TicketPriorityMedium, TicketPriorityLow:
		return true
	default:
		return false
	}
}

// TicketCategory groups tickets by the kind of problem reported
type TicketCategory string

const (
	TicketCategoryHardware TicketCategory = "Hardware"
	TicketCategorySoftware TicketCategory = "Software"
	TicketCategoryNetwork  TicketCategory = "Network"
	TicketCategoryAccess   TicketCategory = "Access"
	TicketCategoryOther    TicketCategory = "Other"
)

// CommentKind distinguishes free-text comments from status change records
type CommentKind string

const (
	CommentKindComment      CommentKind = "comment"
	CommentKindStatusChange CommentKind = "status_change"
)

// Ticket is an IT support request. SLADeadline is fixed at creation.
type Ticket struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    TicketCategory `json:"category"`
	Priority    TicketPriority `json:"priority"`
	Status      TicketStatus   `json:"status"`
	CreatedBy   string         `json:"created_by"`
	CreatorName string         `json:"creator_name"`
	AssigneeID  string         `json:"assignee_id,omitempty"`
	SLADeadline time.Time      `json:"sla_deadline"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Comments []*TicketComment `json:"comments,omitempty"`
}

// HasAssignee reports whether the ticket is assigned to someone
func (t *Ticket) HasAssignee() bool {
	return t.AssigneeID != ""
}

// TicketComment is an entry in a ticket's append-only history
type TicketComment struct {
	ID         string      `json:"id"`
	TicketID   string      `json:"ticket_id"`
	AuthorID   string      `json:"author_id"`
	AuthorName string      `json:"author_name"`
	Kind       CommentKind `json:"kind"`
	Content    string      `json:"content"`
	CreatedAt  time.Time   `json:"created_at"`
}
