package ports

import (
	"context"

	"github.com/crudusers/user-admin/internal/core/domain"
)

// LoginResult is the outcome of a login attempt. Rejections are results, not
// errors; an error is only returned for infrastructure failures.
type LoginResult struct {
	State   domain.LoginState
	Reason  domain.RejectReason // set when State is Rejected
	Message string
	User    *domain.User
	View    domain.View
	Token   string
	Session *domain.Session
}

// SessionService drives registration and the login state machine.
type SessionService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, draft domain.Draft) (*domain.User, error)
	Logout(ctx context.Context, sessionID string) error
	ResolveSession(ctx context.Context, sessionID string) (*domain.Session, error)
}

// LoginRecorder records a successful login. Implementations are best-effort.
type LoginRecorder interface {
	RecordLogin(ctx context.Context, userID int64)
}
