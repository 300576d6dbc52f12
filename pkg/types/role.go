package types

// Role governs visibility and authority. Members see only their own
// subscriptions; managers and admins see everything and may resolve
// approvals. Admin additionally manages users and departments.
type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanResolveApprovals reports whether the role may approve or reject
// pending requests.
func (r Role) CanResolveApprovals() bool {
	return r == RoleManager || r == RoleAdmin
}

// SeesAllSubscriptions reports whether list calls are unscoped for the role.
func (r Role) SeesAllSubscriptions() bool {
	return r == RoleManager || r == RoleAdmin
}
