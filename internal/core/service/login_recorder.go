package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/crudusers/user-admin/internal/core/ports"
)

// SyncLoginRecorder touches the last-login timestamp inline. Failures are
// logged and never fail the login.
type SyncLoginRecorder struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewSyncLoginRecorder(repo ports.UserRepository, log zerolog.Logger) *SyncLoginRecorder {
	return &SyncLoginRecorder{repo: repo, log: log}
}

func (r *SyncLoginRecorder) RecordLogin(ctx context.Context, userID int64) {
	if err := r.repo.TouchLastLogin(ctx, userID); err != nil {
		r.log.Warn().Err(err).Int64("user_id", userID).Msg("failed to record last login")
	}
}
