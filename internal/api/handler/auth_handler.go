package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crudusers/user-admin/internal/api/metrics"
	"github.com/crudusers/user-admin/internal/core/domain"
	"github.com/crudusers/user-admin/internal/core/ports"
)

type AuthHandler struct {
	sessions ports.SessionService
	users    ports.UserService
}

func NewAuthHandler(sessions ports.SessionService, users ports.UserService) *AuthHandler {
	return &AuthHandler{sessions: sessions, users: users}
}

// Register creates a Conventional account for an anonymous caller.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	user, err := h.sessions.Register(c.Request().Context(), registerDraft(req))
	observeMutation("register", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login checks credentials and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  loginRejectedResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	res, err := h.sessions.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return err
	}

	if res.State != domain.StateAuthenticated {
		metrics.LoginAttemptsTotal.WithLabelValues(string(res.Reason)).Inc()
		return c.JSON(http.StatusUnauthorized, loginRejectedResponse{
			Error:  res.Message,
			State:  string(res.State),
			Reason: string(res.Reason),
		})
	}

	metrics.LoginAttemptsTotal.WithLabelValues(string(res.State)).Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.Session.ExpiresAt,
		View:      string(res.View),
		User:      toUserResponse(res.User),
	})
}

// Logout revokes the caller's session.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	id := sessionID(c)
	if id == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	if err := h.sessions.Logout(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.SessionsRevokedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller and the view their role lands on.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := currentActor(c, h.users)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{
		User: toUserResponse(actor),
		View: string(domain.LandingView(actor.Role)),
	})
}
