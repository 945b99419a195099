package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the permission tier of a user. The integer value is what the
// stores persist.
type Role int

const (
	RoleSuperAdmin   Role = 1
	RoleAdmin        Role = 2
	RoleConventional Role = 3
)

// Roles lists every role, highest tier first.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleConventional}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r >= RoleSuperAdmin && r <= RoleConventional
}

// Description is the human-facing label shown in listings.
func (r Role) Description() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Administrator"
	case RoleAdmin:
		return "Administrator"
	default:
		return "User"
	}
}

func (r Role) String() string {
	switch r {
	case RoleSuperAdmin:
		return "super_admin"
	case RoleAdmin:
		return "admin"
	case RoleConventional:
		return "conventional"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole accepts either the String form or the numeric value.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "super_admin", "superadmin", "1":
		return RoleSuperAdmin, nil
	case "admin", "2":
		return RoleAdmin, nil
	case "conventional", "user", "3":
		return RoleConventional, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// User models an account managed by the system. The password digest never
// lives on this type; it only travels between the service and the store.
type User struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Email       *string    `json:"email,omitempty"`
	Role        Role       `json:"role"`
	IsBlocked   bool       `json:"is_blocked"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	CreatedBy   *int64     `json:"created_by,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// View is the downstream screen a successful login routes to.
type View string

const (
	ViewWelcome    View = "welcome"
	ViewManagement View = "management"
)

// LandingView returns the view a user of role r is routed to after login.
func LandingView(r Role) View {
	if r == RoleConventional {
		return ViewWelcome
	}
	return ViewManagement
}
