package workflow

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/garyjia/servicehub/internal/domain/entity"
)

// Engine moves leave, expense and ticket requests through their lifecycles.
// Every mutating call persists status and history atomically, then runs the
// post-commit hooks. Hook failures are logged and never returned.
type Engine interface {
	SubmitLeave(ctx context.Context, in SubmitLeaveInput) (*entity.Leave, error)
	TransitionLeave(ctx context.Context, leaveID string, actor entity.Actor, action entity.ApprovalAction, comment string) (entity.LeaveStatus, error)
	GetLeave(ctx context.Context, id string) (*entity.Leave, error)
	ListLeaves(ctx context.Context, actor entity.Actor) ([]*entity.Leave, error)
	GetLeaveBalance(ctx context.Context, userID string) (*entity.LeaveBalance, error)

	SubmitExpense(ctx context.Context, in SubmitExpenseInput) (*entity.Expense, error)
	TransitionExpense(ctx context.Context, expenseID string, actor entity.Actor, action entity.ApprovalAction, comment string) (entity.ExpenseStatus, error)
	MarkExpensePaid(ctx context.Context, expenseID string, actor entity.Actor, comment string) (entity.ExpenseStatus, error)
	GetExpense(ctx context.Context, id string) (*entity.Expense, error)
	ListExpenses(ctx context.Context, actor entity.Actor) ([]*entity.Expense, error)

	CreateTicket(ctx context.Context, in CreateTicketInput) (*entity.Ticket, error)
	TransitionTicket(ctx context.Context, ticketID string, actor entity.Actor, newStatus entity.TicketStatus, assigneeID *string) error
	CommentOnTicket(ctx context.Context, ticketID, authorID, content string) (*entity.TicketComment, error)
	GetTicket(ctx context.Context, id string) (*TicketView, error)
	ListTickets(ctx context.Context, actor entity.Actor) ([]*TicketView, error)
}

// SubmitLeaveInput is the payload of a leave submission
type SubmitLeaveInput struct {
	EmployeeID string           `json:"employee_id" validate:"required"`
	LeaveType  entity.LeaveType `json:"leave_type" validate:"required,oneof=Annual Sick Personal Maternity Paternity Bereavement"`
	StartDate  string           `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string           `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason     string           `json:"reason" validate:"max=2000"`
}

// SubmitExpenseInput is the payload of an expense submission
type SubmitExpenseInput struct {
	SubmitterID string          `json:"submitter_id" validate:"required"`
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Amount      decimal.Decimal `json:"amount" validate:"-"`
	Currency    string          `json:"currency" validate:"omitempty,len=3,alpha"`
	Category    string          `json:"category" validate:"required,max=100"`
	ReceiptURI  string          `json:"receipt_uri" validate:"omitempty,uri"`
}

// CreateTicketInput is the payload of a ticket creation
type CreateTicketInput struct {
	CreatorID   string                `json:"creator_id" validate:"required"`
	Title       string                `json:"title" validate:"required,max=200"`
	Description string                `json:"description" validate:"required,max=5000"`
	Category    entity.TicketCategory `json:"category" validate:"required,oneof=Hardware Software Network Access Other"`
	Priority    entity.TicketPriority `json:"priority" validate:"omitempty,oneof=Critical High Medium Low"`
}

// TicketView is a ticket with its SLA state derived at read time
type TicketView struct {
	*entity.Ticket
	SLARemainingSeconds int64 `json:"sla_remaining_seconds"`
	SLABreached         bool  `json:"sla_breached"`
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}
