package handler

import (
	"github.com/crudusers/user-admin/internal/core/domain"
)

// --- Request → Draft ---

func registerDraft(req registerRequest) domain.Draft {
	return domain.Draft{
		Mode:            domain.DraftRegister,
		Username:        req.Username,
		DisplayName:     req.DisplayName,
		Email:           req.Email,
		Role:            domain.RoleConventional,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
}

func userDraft(mode domain.DraftMode, id int64, role domain.Role, req userRequest) domain.Draft {
	return domain.Draft{
		Mode:            mode,
		ID:              id,
		Username:        req.Username,
		DisplayName:     req.DisplayName,
		Email:           req.Email,
		Role:            role,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
}

// --- Domain → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Username:        u.Username,
		DisplayName:     u.DisplayName,
		Email:           u.Email,
		Role:            u.Role.String(),
		RoleID:          int(u.Role),
		RoleDescription: u.Role.Description(),
		IsBlocked:       u.IsBlocked,
		CreatedAt:       u.CreatedAt,
		CreatedBy:       u.CreatedBy,
		LastLoginAt:     u.LastLoginAt,
	}
}

func toListResponse(users []*domain.User) listUsersResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return listUsersResponse{Users: out, Total: len(out)}
}

func toRolesResponse(roles []domain.Role) rolesResponse {
	out := make([]roleOption, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleOption{ID: int(r), Name: r.String(), Description: r.Description()})
	}
	return rolesResponse{Roles: out}
}
