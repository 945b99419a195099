package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/crudusers/user-admin/internal/core/domain"
)

func runRBAC(t *testing.T, role any, allowed ...domain.Role) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set(KeyRole, role)
	}

	called := false
	handler := RBAC(allowed...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestRBAC_Allows(t *testing.T) {
	rec, called := runRBAC(t, domain.RoleAdmin, domain.RoleSuperAdmin, domain.RoleAdmin)
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	rec, called := runRBAC(t, domain.RoleConventional, domain.RoleSuperAdmin, domain.RoleAdmin)
	if called {
		t.Fatalf("next handler should not be called")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRBAC_MissingRole(t *testing.T) {
	rec, called := runRBAC(t, nil, domain.RoleSuperAdmin)
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without a role, got %d (called=%v)", rec.Code, called)
	}
}

func TestRBAC_IgnoresUntypedRole(t *testing.T) {
	// A raw claim value is not a domain.Role and must not pass.
	rec, called := runRBAC(t, 1, domain.RoleSuperAdmin)
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for untyped role, got %d", rec.Code)
	}
}
