package auth

import "github.com/spec-kit/maintenance-core/internal/domain"

// SelectableRoles lists the labels a session may adopt. Role is a label,
// not a secured identity; capability gating happens inside the store.
var SelectableRoles = []domain.Role{
	domain.RoleGuest,
	domain.RoleFrontDesk,
	domain.RoleTechnician,
	domain.RoleManager,
}

// ValidRole reports whether the label is one of the selectable roles.
func ValidRole(role domain.Role) bool {
	for _, candidate := range SelectableRoles {
		if candidate == role {
			return true
		}
	}
	return false
}
