package ports

import (
	"context"

	"github.com/crudusers/user-admin/internal/core/domain"
)

// UserRepository is the user store. Every call is an independent unit of
// work; lookups are exact-match and each write is atomic per call.
type UserRepository interface {
	// FindByCredentials returns the user whose username and password digest
	// both match, or domain.ErrUserNotFound.
	FindByCredentials(ctx context.Context, username, passwordHash string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id int64) error
	// ListAll returns every user ordered by username.
	ListAll(ctx context.Context) ([]*domain.User, error)
	// Insert persists user and returns the store-assigned id. A duplicate
	// username yields domain.ErrUserExists.
	Insert(ctx context.Context, user *domain.User, passwordHash string, createdBy *int64) (int64, error)
	// Update rewrites display name, email and role. A nil passwordHash leaves
	// the stored digest untouched.
	Update(ctx context.Context, id int64, displayName string, email *string, role domain.Role, passwordHash *string) error
	Delete(ctx context.Context, id int64) error
	SetBlocked(ctx context.Context, id int64, blocked bool) error
}

// SessionStore keeps server-side session records.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session) error
	Find(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
