package domain

import "time"

// Session is the server-side record of an authenticated login. Its ID is the
// jti claim of the token handed to the client.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginState is a step of the authentication state machine.
type LoginState string

const (
	StateAwaitingCredentials LoginState = "awaiting_credentials"
	StateAuthenticating      LoginState = "authenticating"
	StateAuthenticated       LoginState = "authenticated"
	StateRejected            LoginState = "rejected"
)

// RejectReason explains a Rejected login.
type RejectReason string

const (
	RejectEmptyInput         RejectReason = "empty_input"
	RejectInvalidCredentials RejectReason = "invalid_credentials"
	RejectBlocked            RejectReason = "blocked"
)

// Message returns the user-facing text for a rejection.
func (r RejectReason) Message() string {
	switch r {
	case RejectEmptyInput:
		return "Enter username and password"
	case RejectInvalidCredentials:
		return "Invalid username or password"
	case RejectBlocked:
		return "The user is blocked"
	default:
		return ""
	}
}
