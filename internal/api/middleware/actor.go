package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crudusers/user-admin/internal/core/domain"
	"github.com/crudusers/user-admin/internal/core/ports"
)

// KeyActor holds the caller's *domain.User as loaded by LoadActor.
const KeyActor = "actor"

// LoadActor reloads the authenticated caller from the user store and
// replaces the session role with the stored one, so RBAC and handlers see
// promotions, demotions, blocks and deletions made since login. It must run
// after Auth.
func LoadActor(users ports.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := c.Get(KeyUserID).(int64)
			if id <= 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			actor, err := users.Get(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
				}
				return err
			}
			if actor.IsBlocked {
				return domain.ErrUserBlocked
			}

			c.Set(KeyActor, actor)
			c.Set(KeyRole, actor.Role)
			return next(c)
		}
	}
}
