package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/crudusers/user-admin/internal/core/domain"
	"github.com/crudusers/user-admin/internal/core/editor"
	"github.com/crudusers/user-admin/internal/core/ports"
)

// UserHandler serves the management surface for SuperAdmins and Admins.
type UserHandler struct {
	users  ports.UserService
	editor *editor.Editor
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users, editor: editor.New()}
}

// List handles GET /v1/users.
//
// @Summary      List users visible to the caller
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := currentActor(c, h.users)
	if err != nil {
		return err
	}

	users, err := h.users.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(users))
}

// Roles handles GET /v1/users/roles.
//
// @Summary      Roles the caller may assign
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  rolesResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/users/roles [get]
func (h *UserHandler) Roles(c echo.Context) error {
	actor, err := currentActor(c, h.users)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRolesResponse(domain.AllowedRolesForCreation(actor)))
}

// Create handles POST /v1/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := currentActor(c, h.users)
	if err != nil {
		return err
	}

	req, role, err := h.bindUser(c)
	if err != nil {
		return err
	}

	user, err := h.create(c, actor, userDraft(domain.DraftCreate, 0, role, req))
	observeMutation("create", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) create(c echo.Context, actor *domain.User, draft domain.Draft) (*domain.User, error) {
	valid, err := h.editor.Validate(draft)
	if err != nil {
		return nil, err
	}
	id, err := h.users.Create(c.Request().Context(), actor, valid.User, valid.Password)
	if err != nil {
		return nil, err
	}
	valid.User.ID = id
	creator := actor.ID
	valid.User.CreatedBy = &creator
	return valid.User, nil
}

// Update handles PUT /v1/users/:id. The username is immutable; an empty
// password keeps the current one.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "User id"
// @Param        body  body      userRequest  true  "User details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := currentActor(c, h.users)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	req, role, err := h.bindUser(c)
	if err != nil {
		return err
	}

	user, err := h.update(c, actor, id, role, req)
	observeMutation("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) update(c echo.Context, actor *domain.User, id int64, role domain.Role, req userRequest) (*domain.User, error) {
	ctx := c.Request().Context()

	current, err := h.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanManage(actor, current) {
		return nil, domain.ErrForbidden
	}
	req.Username = current.Username

	valid, err := h.editor.Validate(userDraft(domain.DraftEdit, id, role, req))
	if err != nil {
		return nil, err
	}
	if err := h.users.Update(ctx, actor, valid.User, valid.Password); err != nil {
		return nil, err
	}
	return h.users.Get(ctx, id)
}

// Delete handles DELETE /v1/users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := currentActor(c, h.users)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	err = h.users.Delete(c.Request().Context(), actor, id)
	observeMutation("delete", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Block handles PUT /v1/users/:id/block.
//
// @Summary      Block a user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id}/block [put]
func (h *UserHandler) Block(c echo.Context) error {
	return h.setBlocked(c, true)
}

// Unblock handles DELETE /v1/users/:id/block.
//
// @Summary      Unblock a user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id}/block [delete]
func (h *UserHandler) Unblock(c echo.Context) error {
	return h.setBlocked(c, false)
}

func (h *UserHandler) setBlocked(c echo.Context, blocked bool) error {
	actor, err := currentActor(c, h.users)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	op := "unblock"
	if blocked {
		op = "block"
	}
	err = h.users.SetBlocked(c.Request().Context(), actor, id, blocked)
	observeMutation(op, err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) bindUser(c echo.Context) (userRequest, domain.Role, error) {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return req, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, 0, err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return req, 0, domain.NewValidationError("role", err.Error())
	}
	return req, role, nil
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}
