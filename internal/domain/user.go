package domain

import (
	"strings"
	"time"
)

// UserRole enumerates CRM access roles.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleManager    UserRole = "manager"
	RoleAgent      UserRole = "agent"
	RoleHiringTeam UserRole = "hiring_team"
)

// PlaceholderUsernamePrefix marks identities created by the onboarding
// pipeline before the invitee has chosen credentials.
const PlaceholderUsernamePrefix = "temp_"

// User is the domain model for CRM users. An inactive user with a
// placeholder username represents an invitee mid-onboarding; promotion to an
// active account happens exactly once, during credential creation.
type User struct {
	ID                string
	Username          string
	Email             string
	FullName          string
	Role              UserRole
	Active            bool
	ManagerID         *string
	PasswordHash      string
	PasswordChangedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsPlaceholder reports whether the user is still owned by the onboarding
// pipeline and cannot log in.
func (u *User) IsPlaceholder() bool {
	return !u.Active && strings.HasPrefix(u.Username, PlaceholderUsernamePrefix)
}
