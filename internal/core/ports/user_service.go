package ports

import (
	"context"

	"github.com/crudusers/user-admin/internal/core/domain"
)

// UserService is the CRUD surface over users. Every operation that acts on
// behalf of someone takes that actor explicitly and checks it.
type UserService interface {
	List(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	// Create persists user. A nil actor means self-registration.
	Create(ctx context.Context, actor *domain.User, user *domain.User, password string) (int64, error)
	// Update persists user's editable fields. An empty newPassword keeps the
	// stored password.
	Update(ctx context.Context, actor *domain.User, user *domain.User, newPassword string) error
	Delete(ctx context.Context, actor *domain.User, id int64) error
	SetBlocked(ctx context.Context, actor *domain.User, id int64, blocked bool) error
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}
