package port

import (
	"context"
	"time"

	"github.com/garyjia/servicehub/internal/domain/entity"
)

// UserRepository defines read access to the user directory
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}

// LeaveFilter narrows a leave listing. Empty fields match everything.
type LeaveFilter struct {
	EmployeeID string
	ManagerID  string
}

// LeaveRepository defines persistence operations for Leave and its approval chain
type LeaveRepository interface {
	Create(ctx context.Context, leave *entity.Leave) error
	GetByID(ctx context.Context, id string) (*entity.Leave, error)
	List(ctx context.Context, filter LeaveFilter) ([]*entity.Leave, error)
	UpdateStatus(ctx context.Context, id string, status entity.LeaveStatus, updatedAt time.Time) error
	AppendApproval(ctx context.Context, entry *entity.ApprovalEntry) error
	ListApprovals(ctx context.Context, leaveID string) ([]*entity.ApprovalEntry, error)

	// GetBalance returns the user's leave balance, or nil when none exists
	GetBalance(ctx context.Context, userID string) (*entity.LeaveBalance, error)
	// CreateBalance inserts balance unless the user already has one.
	// It reports whether a row was inserted.
	CreateBalance(ctx context.Context, balance *entity.LeaveBalance) (bool, error)
}

// ExpenseFilter narrows an expense listing. Empty fields match everything.
type ExpenseFilter struct {
	SubmittedBy string
}

// ExpenseRepository defines persistence operations for Expense and its approval chain
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]*entity.Expense, error)
	UpdateStatus(ctx context.Context, id string, status entity.ExpenseStatus, updatedAt time.Time) error
	AppendApproval(ctx context.Context, entry *entity.ApprovalEntry) error
	ListApprovals(ctx context.Context, expenseID string) ([]*entity.ApprovalEntry, error)
}

// TicketFilter narrows a ticket listing. When both fields are set a ticket
// matches if it was created by or is assigned to the user.
type TicketFilter struct {
	CreatedBy  string
	AssigneeID string
}

// TicketRepository defines persistence operations for Ticket and its comments
type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetByID(ctx context.Context, id string) (*entity.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*entity.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status entity.TicketStatus, assigneeID string, updatedAt time.Time) error
	Touch(ctx context.Context, id string, updatedAt time.Time) error
	AppendComment(ctx context.Context, comment *entity.TicketComment) error
	ListComments(ctx context.Context, ticketID string) ([]*entity.TicketComment, error)
}

// NotificationRepository defines persistence operations for Notification
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)

	// MarkRead marks the notification read if it belongs to userID.
	// It reports whether a row matched.
	MarkRead(ctx context.Context, id, userID string) (bool, error)
}

// AuditRepository defines persistence operations for AuditLog
type AuditRepository interface {
	Append(ctx context.Context, entry *entity.AuditLog) error
	List(ctx context.Context, filter entity.AuditFilter) ([]*entity.AuditLog, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
