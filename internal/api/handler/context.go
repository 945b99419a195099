package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crudusers/user-admin/internal/api/middleware"
	"github.com/crudusers/user-admin/internal/core/domain"
	"github.com/crudusers/user-admin/internal/core/ports"
)

// currentActor returns the caller as loaded by middleware.LoadActor, or
// loads it fresh from the store so that a role change, block or deletion
// since login takes effect immediately.
func currentActor(c echo.Context, users ports.UserService) (*domain.User, error) {
	if actor, ok := c.Get(middleware.KeyActor).(*domain.User); ok {
		return actor, nil
	}
	id, _ := c.Get(middleware.KeyUserID).(int64)
	if id <= 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	actor, err := users.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
		}
		return nil, err
	}
	if actor.IsBlocked {
		return nil, domain.ErrUserBlocked
	}
	return actor, nil
}

func sessionID(c echo.Context) string {
	id, _ := c.Get(middleware.KeySessionID).(string)
	return id
}
