package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/crudusers/user-admin/internal/api/middleware"
	"github.com/crudusers/user-admin/internal/core/domain"
	"github.com/crudusers/user-admin/internal/core/ports"
)

type stubUserService struct {
	users     map[int64]*domain.User
	listFn    func(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	createFn  func(ctx context.Context, actor, user *domain.User, password string) (int64, error)
	updateFn  func(ctx context.Context, actor, user *domain.User, newPassword string) error
	deleteFn  func(ctx context.Context, actor *domain.User, id int64) error
	blockedFn func(ctx context.Context, actor *domain.User, id int64, blocked bool) error
}

func (s *stubUserService) List(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	return s.listFn(ctx, actor)
}

func (s *stubUserService) Get(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.Persistence("find user", domain.ErrUserNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserService) Create(ctx context.Context, actor, user *domain.User, password string) (int64, error) {
	return s.createFn(ctx, actor, user, password)
}

func (s *stubUserService) Update(ctx context.Context, actor, user *domain.User, newPassword string) error {
	return s.updateFn(ctx, actor, user, newPassword)
}

func (s *stubUserService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubUserService) SetBlocked(ctx context.Context, actor *domain.User, id int64, blocked bool) error {
	return s.blockedFn(ctx, actor, id, blocked)
}

func (s *stubUserService) Authenticate(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrInvalidCredentials
}

type stubSessionService struct {
	loginFn    func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	registerFn func(ctx context.Context, draft domain.Draft) (*domain.User, error)
	logoutFn   func(ctx context.Context, sessionID string) error
}

func (s *stubSessionService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubSessionService) Register(ctx context.Context, draft domain.Draft) (*domain.User, error) {
	return s.registerFn(ctx, draft)
}

func (s *stubSessionService) Logout(ctx context.Context, sessionID string) error {
	return s.logoutFn(ctx, sessionID)
}

func (s *stubSessionService) ResolveSession(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}

// directory returns a stub user service seeded with one user per role.
func directory() *stubUserService {
	return &stubUserService{users: map[int64]*domain.User{
		1: {ID: 1, Username: "root", DisplayName: "Root", Role: domain.RoleSuperAdmin},
		2: {ID: 2, Username: "boss", DisplayName: "Boss", Role: domain.RoleAdmin},
		3: {ID: 3, Username: "carl", DisplayName: "Carl", Role: domain.RoleConventional},
	}}
}

// newContext builds an echo context as the router would after Auth ran for
// actorID (0 means anonymous).
func newContext(method, target, body string, actorID int64) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actorID > 0 {
		c.Set(middleware.KeyUserID, actorID)
		c.Set(middleware.KeySessionID, "sess-1")
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}

func expectValidation(t *testing.T, err error, field string) {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != field {
		t.Fatalf("expected field %q, got %q (%s)", field, ve.Field, ve.Message)
	}
}

func expectHTTPStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d", code, he.Code)
	}
}
