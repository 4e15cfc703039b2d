package domain

// Role is a selectable actor label, not a secured identity.
type Role string

const (
	RoleGuest      Role = "GUEST"
	RoleFrontDesk  Role = "FRONT_DESK"
	RoleTechnician Role = "TECHNICIAN"
	RoleManager    Role = "MANAGER"
)

// Actor identifies who issued a command. Capability is derived from the
// role supplied by the caller; the core does not verify it beyond that.
type Actor struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// CanMaintain reports whether the actor may reserve, release or issue parts.
func (a Actor) CanMaintain() bool {
	return a.Role == RoleTechnician || a.Role == RoleManager
}

// CanManage reports whether the actor may create/receive purchase orders
// and adjust stock.
func (a Actor) CanManage() bool {
	return a.Role == RoleManager
}
