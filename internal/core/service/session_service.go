package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/crudusers/user-admin/internal/core/domain"
	"github.com/crudusers/user-admin/internal/core/editor"
	"github.com/crudusers/user-admin/internal/core/ports"
)

// SessionService implements registration, login and logout.
type SessionService struct {
	users     ports.UserService
	editor    *editor.Editor
	sessions  ports.SessionStore
	recorder  ports.LoginRecorder
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewSessionService(
	users ports.UserService,
	sessions ports.SessionStore,
	recorder ports.LoginRecorder,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *SessionService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionService{
		users:     users,
		editor:    editor.New(),
		sessions:  sessions,
		recorder:  recorder,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

// Login runs the credential check. Empty input, bad credentials and blocked
// accounts come back as a Rejected result; only infrastructure failures are
// returned as errors.
func (s *SessionService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	result := &ports.LoginResult{State: domain.StateAwaitingCredentials}

	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return reject(result, domain.RejectEmptyInput), nil
	}

	result.State = domain.StateAuthenticating
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return reject(result, domain.RejectInvalidCredentials), nil
		}
		return nil, err
	}
	if user.IsBlocked {
		s.log.Info().Int64("user_id", user.ID).Msg("blocked user attempted login")
		return reject(result, domain.RejectBlocked), nil
	}

	s.recorder.RecordLogin(ctx, user.ID)

	now := s.now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.generateToken(session)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("session_id", session.ID).Msg("user logged in")

	result.State = domain.StateAuthenticated
	result.User = user
	result.View = domain.LandingView(user.Role)
	result.Token = token
	result.Session = session
	return result, nil
}

// Register validates a self-service draft and creates a Conventional user
// with no creator.
func (s *SessionService) Register(ctx context.Context, draft domain.Draft) (*domain.User, error) {
	draft.Mode = domain.DraftRegister
	valid, err := s.editor.Validate(draft)
	if err != nil {
		return nil, err
	}

	id, err := s.users.Create(ctx, nil, valid.User, valid.Password)
	if err != nil {
		return nil, err
	}
	valid.User.ID = id
	return valid.User, nil
}

func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionService) ResolveSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionNotFound
	}
	return s.sessions.Find(ctx, sessionID)
}

func reject(r *ports.LoginResult, reason domain.RejectReason) *ports.LoginResult {
	r.State = domain.StateRejected
	r.Reason = reason
	r.Message = reason.Message()
	return r
}

func (s *SessionService) generateToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(session.UserID, 10),
		"uid":      session.UserID,
		"username": session.Username,
		"role":     int(session.Role),
		"jti":      session.ID,
		"iat":      session.IssuedAt.Unix(),
		"exp":      session.ExpiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
