package entity

import "time"

// ApprovalAction is an action recorded in a Leave or Expense approval chain
type ApprovalAction string

const (
	ActionSubmit   ApprovalAction = "submit"
	ActionApprove  ApprovalAction = "approve"
	ActionReject   ApprovalAction = "reject"
	ActionEscalate ApprovalAction = "escalate"
	ActionPay      ApprovalAction = "pay"
)

func (a ApprovalAction) String() string {
	return string(a)
}

// ApprovalEntry is one append-only step of an approval chain. EntityID points
// at the owning Leave or Expense.
type ApprovalEntry struct {
	ID           string         `json:"id"`
	EntityID     string         `json:"entity_id"`
	ApproverID   string         `json:"approver_id"`
	ApproverName string         `json:"approver_name"`
	Action       ApprovalAction `json:"action"`
	Comment      string         `json:"comment"`
	CreatedAt    time.Time      `json:"created_at"`
}
