// Package user implements authentication and system user administration.
// Accounts are never deleted; they are disabled through their status.
package user

import "time"

// Roles understood by the authorization layer.
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleNurse        = "nurse"
	RoleReceptionist = "receptionist"
)

// Account statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ValidRole reports whether the role is one the system grants.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist:
		return true
	}
	return false
}

// User maps to the system_user table.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        *string   `json:"email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Active reports whether the account may authenticate.
func (u *User) Active() bool { return u.Status == StatusActive }

// Filter narrows user listings.
type Filter struct {
	Username string
	Role     string
	Status   string
	// HasDoctor, when set, keeps only users with (true) or without (false)
	// a doctor profile. Backs the doctor-binding picker.
	HasDoctor *bool
}
