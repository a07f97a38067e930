package entity

import "time"

// DateLayout is the wire and storage format of leave dates
const DateLayout = "2006-01-02"

// LeaveStatus represents a state in the leave approval lifecycle
type LeaveStatus string

const (
	LeaveStatusSubmitted      LeaveStatus = "Submitted"
	LeaveStatusPendingManager LeaveStatus = "Pending_Manager"
	LeaveStatusPendingHR      LeaveStatus = "Pending_HR"
	LeaveStatusApproved       LeaveStatus = "Approved"
	LeaveStatusRejected       LeaveStatus = "Rejected"
	LeaveStatusEscalated      LeaveStatus = "Escalated"
)

var validLeaveStatuses = map[LeaveStatus]bool{
	LeaveStatusSubmitted:      true,
	LeaveStatusPendingManager: true,
	LeaveStatusPendingHR:      true,
	LeaveStatusApproved:       true,
	LeaveStatusRejected:       true,
	LeaveStatusEscalated:      true,
}

// IsValid returns true if the status belongs to the leave status set
func (s LeaveStatus) IsValid() bool {
	return validLeaveStatuses[s]
}

// IsTerminal returns true if no further transitions are allowed
func (s LeaveStatus) IsTerminal() bool {
	return s == LeaveStatusApproved || s == LeaveStatusRejected
}

func (s LeaveStatus) String() string {
	return string(s)
}

// LeaveType is the kind of leave requested
type LeaveType string

const (
	LeaveTypeAnnual      LeaveType = "Annual"
	LeaveTypeSick        LeaveType = "Sick"
	LeaveTypePersonal    LeaveType = "Personal"
	LeaveTypeMaternity   LeaveType = "Maternity"
	LeaveTypePaternity   LeaveType = "Paternity"
	LeaveTypeBereavement LeaveType = "Bereavement"
)

// Leave is a leave request. ManagerID is copied from the employee profile at
// creation and never re-resolved.
type Leave struct {
	ID           string      `json:"id"`
	EmployeeID   string      `json:"employee_id"`
	EmployeeName string      `json:"employee_name"`
	ManagerID    string      `json:"manager_id,omitempty"`
	LeaveType    LeaveType   `json:"leave_type"`
	StartDate    time.Time   `json:"start_date"`
	EndDate      time.Time   `json:"end_date"`
	Reason       string      `json:"reason"`
	Status       LeaveStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	History []*ApprovalEntry `json:"approval_history,omitempty"`
}

// Days returns the inclusive number of calendar days covered by the leave
func (l *Leave) Days() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

// Allowances granted to a user whose balance is read for the first time
const (
	DefaultAnnualDays   = 15
	DefaultSickDays     = 8
	DefaultPersonalDays = 3
)

// LeaveBalance holds a user's remaining days per leave category
type LeaveBalance struct {
	UserID    string    `json:"user_id"`
	Annual    int       `json:"annual"`
	Sick      int       `json:"sick"`
	Personal  int       `json:"personal"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLeaveBalance returns the default balance for userID
func NewLeaveBalance(userID string, now time.Time) *LeaveBalance {
	return &LeaveBalance{
		UserID:    userID,
		Annual:    DefaultAnnualDays,
		Sick:      DefaultSickDays,
		Personal:  DefaultPersonalDays,
		UpdatedAt: now,
	}
}
