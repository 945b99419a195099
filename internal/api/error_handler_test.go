package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/crudusers/user-admin/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"blocked", domain.ErrUserBlocked, http.StatusUnauthorized},
		{"session", domain.ErrSessionNotFound, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"not found through persistence", domain.Persistence("find user", domain.ErrUserNotFound), http.StatusNotFound},
		{"duplicate through persistence", domain.Persistence("insert user", domain.ErrUserExists), http.StatusConflict},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid user id"), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if code, _ := renderError(t, tc.err); code != tc.code {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.code, code)
		}
	}
}

func TestErrorHandler_ValidationCarriesField(t *testing.T) {
	code, body := renderError(t, domain.NewValidationError("password", "Password must be at least 6 characters"))
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if body.Field != "password" || body.Error != "Password must be at least 6 characters" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestErrorHandler_PersistenceCarriesCause(t *testing.T) {
	code, body := renderError(t, domain.Persistence("list users", errors.New("connection refused")))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Error != "persistence failure: connection refused" {
		t.Fatalf("unexpected body %+v", body)
	}
}
