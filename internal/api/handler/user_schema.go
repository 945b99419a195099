package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// --- Request types ---

type registerRequest struct {
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userRequest is the body of POST /v1/users and PUT /v1/users/:id. Field
// rules live in the editor; only the role spelling is checked here.
type userRequest struct {
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	Email           string `json:"email"`
	Role            string `json:"role"             validate:"required,oneof=super_admin admin conventional 1 2 3"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// --- Response types ---

type userResponse struct {
	ID              int64      `json:"id"`
	Username        string     `json:"username"`
	DisplayName     string     `json:"display_name"`
	Email           *string    `json:"email,omitempty"`
	Role            string     `json:"role"`
	RoleID          int        `json:"role_id"`
	RoleDescription string     `json:"role_description"`
	IsBlocked       bool       `json:"is_blocked"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	CreatedBy       *int64     `json:"created_by,omitempty"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
}

type listUsersResponse struct {
	Users []userResponse `json:"users"`
	Total int            `json:"total"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	View      string       `json:"view"`
	User      userResponse `json:"user"`
}

type loginRejectedResponse struct {
	Error  string `json:"error"`
	State  string `json:"state"`
	Reason string `json:"reason"`
}

type meResponse struct {
	User userResponse `json:"user"`
	View string       `json:"view"`
}

type roleOption struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type rolesResponse struct {
	Roles []roleOption `json:"roles"`
}
