package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crudusers/user-admin/internal/core/domain"
	"github.com/crudusers/user-admin/internal/core/ports"
)

// UserService implements ports.UserService on top of a user store.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// List returns the users actor is allowed to see. Admins only see
// Conventional users; Conventional actors see nothing.
func (s *UserService) List(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if actor == nil || actor.Role == domain.RoleConventional {
		return nil, domain.ErrForbidden
	}

	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, domain.Persistence("list users", err)
	}
	if actor.Role != domain.RoleAdmin {
		return users, nil
	}

	visible := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if u.Role == domain.RoleConventional {
			visible = append(visible, u)
		}
	}
	return visible, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("find user", err)
	}
	return u, nil
}

// Create stores a new user and returns its id. With a nil actor the user is
// self-registered: the role is forced to Conventional and no creator is
// recorded. A Conventional actor may not create users.
func (s *UserService) Create(ctx context.Context, actor *domain.User, user *domain.User, password string) (int64, error) {
	if user == nil {
		return 0, domain.NewValidationError("user", "user is required")
	}
	if password == "" {
		return 0, domain.NewValidationError("password", "password is required")
	}

	u := *user
	var createdBy *int64
	if actor == nil {
		u.Role = domain.RoleConventional
	} else {
		if actor.Role == domain.RoleConventional || !domain.CanAssignRole(actor, u.Role) {
			return 0, domain.ErrForbidden
		}
		creator := actor.ID
		createdBy = &creator
	}

	id, err := s.repo.Insert(ctx, &u, HashPassword(password), createdBy)
	if err != nil {
		return 0, domain.Persistence("insert user", err)
	}

	evt := s.logger.Info().Int64("user_id", id).Str("username", u.Username).Stringer("role", u.Role)
	if createdBy != nil {
		evt = evt.Int64("created_by", *createdBy)
	}
	evt.Msg("user created")
	return id, nil
}

// Update rewrites display name, email and role of user.ID. A blank
// newPassword leaves the stored digest unchanged.
func (s *UserService) Update(ctx context.Context, actor *domain.User, user *domain.User, newPassword string) error {
	if user == nil {
		return domain.NewValidationError("user", "user is required")
	}
	if _, err := s.authorize(ctx, actor, user.ID, "update user"); err != nil {
		return err
	}
	if !domain.CanAssignRole(actor, user.Role) {
		return domain.ErrForbidden
	}

	var hash *string
	if strings.TrimSpace(newPassword) != "" {
		h := HashPassword(newPassword)
		hash = &h
	}

	if err := s.repo.Update(ctx, user.ID, user.DisplayName, user.Email, user.Role, hash); err != nil {
		return domain.Persistence("update user", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Int64("actor_id", actor.ID).Bool("password_changed", hash != nil).Msg("user updated")
	return nil
}

func (s *UserService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if _, err := s.authorize(ctx, actor, id, "delete user"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.Persistence("delete user", err)
	}
	s.logger.Info().Int64("user_id", id).Int64("actor_id", actor.ID).Msg("user deleted")
	return nil
}

func (s *UserService) SetBlocked(ctx context.Context, actor *domain.User, id int64, blocked bool) error {
	if _, err := s.authorize(ctx, actor, id, "set blocked"); err != nil {
		return err
	}
	if err := s.repo.SetBlocked(ctx, id, blocked); err != nil {
		return domain.Persistence("set blocked", err)
	}
	s.logger.Info().Int64("user_id", id).Int64("actor_id", actor.ID).Bool("blocked", blocked).Msg("user block state changed")
	return nil
}

// Authenticate returns the user matching username and password. The blocked
// flag is not checked here.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.repo.FindByCredentials(ctx, username, HashPassword(password))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.Persistence("authenticate", err)
	}
	return u, nil
}

// authorize loads the target and fails closed unless actor can manage it.
func (s *UserService) authorize(ctx context.Context, actor *domain.User, targetID int64, op string) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrForbidden
	}
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, domain.Persistence(op, err)
	}
	if !domain.CanManage(actor, target) {
		return nil, domain.ErrForbidden
	}
	return target, nil
}
