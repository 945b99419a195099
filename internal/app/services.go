package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/crudusers/user-admin/internal/core/ports"
	"github.com/crudusers/user-admin/internal/core/service"
	"github.com/crudusers/user-admin/internal/infrastructure/config"
	"github.com/crudusers/user-admin/internal/infrastructure/queue"
)

// Services are the core services the HTTP router depends on.
type Services struct {
	Users    *service.UserService
	Sessions *service.SessionService
}

// NewServices builds the user and session services over repo and sessions.
// Last-login stamps go through a sharded worker pool started on ctx; with
// LOGIN_WORKERS=0 they are written inline.
func NewServices(ctx context.Context, cfg *config.Config, repo ports.UserRepository, sessions ports.SessionStore, log zerolog.Logger) *Services {
	var recorder ports.LoginRecorder
	if cfg.LoginWorkers > 0 {
		d := queue.NewDispatcher(cfg.LoginWorkers, repo, log)
		d.Start(ctx)
		recorder = d
	} else {
		recorder = service.NewSyncLoginRecorder(repo, log)
	}

	users := service.NewUserService(repo, log)
	return &Services{
		Users:    users,
		Sessions: service.NewSessionService(users, sessions, recorder, cfg.JWTSecret, cfg.TokenTTL, log),
	}
}
