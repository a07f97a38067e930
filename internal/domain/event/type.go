package event

// Type identifies the type of domain event
type Type string

const (
	TypeLeaveSubmitted      Type = "leave.submitted"
	TypeLeaveTransitioned   Type = "leave.transitioned"
	TypeExpenseSubmitted    Type = "expense.submitted"
	TypeExpenseTransitioned Type = "expense.transitioned"
	TypeExpensePaid         Type = "expense.paid"
	TypeTicketCreated       Type = "ticket.created"
	TypeTicketTransitioned  Type = "ticket.transitioned"
	TypeTicketCommented     Type = "ticket.commented"
)

// All lists every event type in a stable order
var All = []Type{
	TypeLeaveSubmitted,
	TypeLeaveTransitioned,
	TypeExpenseSubmitted,
	TypeExpenseTransitioned,
	TypeExpensePaid,
	TypeTicketCreated,
	TypeTicketTransitioned,
	TypeTicketCommented,
}

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeLeaveSubmitted,
		TypeLeaveTransitioned,
		TypeExpenseSubmitted,
		TypeExpenseTransitioned,
		TypeExpensePaid,
		TypeTicketCreated,
		TypeTicketTransitioned,
		TypeTicketCommented:
		return true
	default:
		return false
	}
}
