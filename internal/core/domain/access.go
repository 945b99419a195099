package domain

// CanManage reports whether actor may edit, delete, block or unblock target.
// Nobody manages themselves; SuperAdmins manage everyone else and Admins
// manage only Conventional users.
func CanManage(actor, target *User) bool {
	if actor == nil || target == nil || target.ID == actor.ID {
		return false
	}
	switch actor.Role {
	case RoleSuperAdmin:
		return true
	case RoleAdmin:
		return target.Role == RoleConventional
	default:
		return false
	}
}

// AllowedRolesForCreation returns the roles actor may assign to a new or
// edited user.
func AllowedRolesForCreation(actor *User) []Role {
	if actor != nil && actor.Role == RoleSuperAdmin {
		return []Role{RoleSuperAdmin, RoleAdmin, RoleConventional}
	}
	return []Role{RoleConventional}
}

// CanAssignRole reports whether role is among AllowedRolesForCreation(actor).
func CanAssignRole(actor *User, role Role) bool {
	for _, r := range AllowedRolesForCreation(actor) {
		if r == role {
			return true
		}
	}
	return false
}
