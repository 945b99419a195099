package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/crudusers/user-admin/internal/core/domain"
	"github.com/crudusers/user-admin/internal/core/editor"
	"github.com/crudusers/user-admin/internal/core/ports"
	"github.com/crudusers/user-admin/internal/core/service"
	"github.com/crudusers/user-admin/internal/infrastructure/config"
)

var ErrAdminPasswordRequired = errors.New("ADMIN_PASSWORD is required to seed the first super admin")

// SeedSuperAdmin inserts the bootstrap SuperAdmin described by cfg. It
// reports false without error when the username is already taken, so it is
// safe to run on every deploy.
func SeedSuperAdmin(ctx context.Context, repo ports.UserRepository, cfg config.AdminConfig, log zerolog.Logger) (bool, error) {
	if cfg.Password == "" {
		return false, ErrAdminPasswordRequired
	}

	valid, err := editor.New().Validate(domain.Draft{
		Mode:            domain.DraftCreate,
		Username:        cfg.Username,
		DisplayName:     cfg.DisplayName,
		Role:            domain.RoleSuperAdmin,
		Password:        cfg.Password,
		ConfirmPassword: cfg.Password,
	})
	if err != nil {
		return false, err
	}

	id, err := repo.Insert(ctx, valid.User, service.HashPassword(valid.Password), nil)
	if errors.Is(err, domain.ErrUserExists) {
		log.Info().Str("username", valid.User.Username).Msg("super admin already present")
		return false, nil
	}
	if err != nil {
		return false, domain.Persistence("seed super admin", err)
	}

	log.Info().Int64("user_id", id).Str("username", valid.User.Username).Msg("super admin created")
	return true, nil
}
