package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied when a submission names no currency
const DefaultCurrency = "USD"

// ExpenseStatus represents a state in the expense reimbursement lifecycle
type ExpenseStatus string

const (
	ExpenseStatusSubmitted      ExpenseStatus = "Submitted"
	ExpenseStatusPendingManager ExpenseStatus = "Pending_Manager"
	ExpenseStatusPendingFinance ExpenseStatus = "Pending_Finance"
	ExpenseStatusApproved       ExpenseStatus = "Approved"
	ExpenseStatusRejected       ExpenseStatus = "Rejected"
	ExpenseStatusPaid           ExpenseStatus = "Paid"
)

var validExpenseStatuses = map[ExpenseStatus]bool{
	ExpenseStatusSubmitted:      true,
	ExpenseStatusPendingManager: true,
	ExpenseStatusPendingFinance: true,
	ExpenseStatusApproved:       true,
	ExpenseStatusRejected:       true,
	ExpenseStatusPaid:           true,
}

// IsValid returns true if the status belongs to the expense status set
func (s ExpenseStatus) IsValid() bool {
	return validExpenseStatuses[s]
}

// IsTerminal returns true if no further transitions are allowed
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseStatusRejected || s == ExpenseStatusPaid
}

func (s ExpenseStatus) String() string {
	return string(s)
}

// Expense is a reimbursement claim. Amount is an exact decimal and is never
// converted between currencies.
type Expense struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Category      string          `json:"category"`
	ReceiptURI    string          `json:"receipt_uri,omitempty"`
	SubmittedBy   string          `json:"submitted_by"`
	SubmitterName string          `json:"submitter_name"`
	ManagerID     string          `json:"manager_id,omitempty"`
	Status        ExpenseStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	History []*ApprovalEntry `json:"approval_history,omitempty"`
}
