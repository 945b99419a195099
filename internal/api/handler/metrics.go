package handler

import (
	"errors"

	"github.com/crudusers/user-admin/internal/api/metrics"
	"github.com/crudusers/user-admin/internal/core/domain"
)

func observeMutation(operation string, err error) {
	metrics.UserMutationsTotal.WithLabelValues(operation, mutationResult(err)).Inc()
}

func mutationResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrUserExists):
		return "conflict"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	default:
		return "error"
	}
}
