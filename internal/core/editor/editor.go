// Package editor turns a user Draft into a validated user record or a
// structured validation failure. It owns the form rules (required fields,
// minimum password length, confirmation match) so that every entry point
// applies the same checks.
package editor

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/crudusers/user-admin/internal/core/domain"
)

// MinPasswordLength applies to new accounts only.
const MinPasswordLength = 6

const (
	msgRequired = "Username and display name are required"
	msgShort    = "Password must be at least 6 characters"
	msgMismatch = "Passwords do not match"
	msgBadEmail = "Email must be a valid email address"
	msgBadRole  = "Role is not valid"
	msgEditNoID = "A user to edit is required"
	msgBadMode  = "Unknown editor mode"
)

var minPasswordTag = "min=" + strconv.Itoa(MinPasswordLength)

// Result is a draft that passed validation.
type Result struct {
	User *domain.User
	// Password is empty when an edit keeps the current password.
	Password string
}

// Editor validates drafts.
type Editor struct {
	v *validator.Validate
}

// New returns an Editor.
func New() *Editor {
	return &Editor{v: validator.New()}
}

// Validate checks d and returns the normalised user plus password. Failures
// are *domain.ValidationError.
func (e *Editor) Validate(d domain.Draft) (*Result, error) {
	switch d.Mode {
	case domain.DraftCreate, domain.DraftRegister:
	case domain.DraftEdit:
		if d.ID <= 0 {
			return nil, domain.NewValidationError("id", msgEditNoID)
		}
	default:
		return nil, domain.NewValidationError("mode", msgBadMode)
	}

	username := strings.TrimSpace(d.Username)
	displayName := strings.TrimSpace(d.DisplayName)
	if e.v.Var(username, "required") != nil {
		return nil, domain.NewValidationError("username", msgRequired)
	}
	if e.v.Var(displayName, "required") != nil {
		return nil, domain.NewValidationError("display_name", msgRequired)
	}

	if d.Mode != domain.DraftEdit {
		if e.v.Var(d.Password, minPasswordTag) != nil {
			return nil, domain.NewValidationError("password", msgShort)
		}
	}
	if d.Password != "" && d.Password != d.ConfirmPassword {
		return nil, domain.NewValidationError("confirm_password", msgMismatch)
	}

	var email *string
	if trimmed := strings.TrimSpace(d.Email); trimmed != "" {
		if e.v.Var(trimmed, "email") != nil {
			return nil, domain.NewValidationError("email", msgBadEmail)
		}
		email = &trimmed
	}

	role := d.Role
	if d.Mode == domain.DraftRegister {
		role = domain.RoleConventional
	}
	if e.v.Var(int(role), "oneof=1 2 3") != nil {
		return nil, domain.NewValidationError("role", msgBadRole)
	}

	return &Result{
		User: &domain.User{
			ID:          d.ID,
			Username:    username,
			DisplayName: displayName,
			Email:       email,
			Role:        role,
		},
		Password: d.Password,
	}, nil
}
