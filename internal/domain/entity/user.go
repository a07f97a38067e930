package entity

import "time"

// Role is the authorization role carried by a user and by every Actor
type Role string

const (
	RoleEmployee     Role = "EMPLOYEE"
	RoleManager      Role = "MANAGER"
	RoleHRAdmin      Role = "HR_ADMIN"
	RoleITAdmin      Role = "IT_ADMIN"
	RoleFinanceAdmin Role = "FINANCE_ADMIN"
	RoleSuperAdmin   Role = "SUPER_ADMIN"
)

var validRoles = map[Role]bool{
	RoleEmployee:     true,
	RoleManager:      true,
	RoleHRAdmin:      true,
	RoleITAdmin:      true,
	RoleFinanceAdmin: true,
	RoleSuperAdmin:   true,
}

// IsValid returns true if the role is one of the defined roles
func (r Role) IsValid() bool {
	return validRoles[r]
}

// IsOverride reports whether the role bypasses per-action role checks
func (r Role) IsOverride() bool {
	return r == RoleSuperAdmin
}

// OneOf reports whether r is listed in roles or is the override role
func (r Role) OneOf(roles ...Role) bool {
	if r.IsOverride() {
		return true
	}
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// User is a directory record. Manager routing is resolved from it at submission time.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Department string    `json:"department"`
	Title      string    `json:"title,omitempty"`
	ManagerID  string    `json:"manager_id,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasManager reports whether submissions by this user route through a manager
func (u *User) HasManager() bool {
	return u.ManagerID != ""
}

// Actor identifies who performs a workflow call. It is passed explicitly into
// every mutating operation instead of being looked up from ambient state.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// UnknownName is used when a referenced user cannot be resolved
const UnknownName = "Unknown"
