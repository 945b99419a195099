package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crudusers/user-admin/internal/core/domain"
)

// RBAC lets the request through only when the session role is one of
// allowedRoles. It is a coarse route gate; per-target checks happen in the
// user service.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(KeyRole).(domain.Role)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
