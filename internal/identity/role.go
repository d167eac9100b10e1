package identity

// Role is a clan member's rank, totally ordered. Permission predicates
// compare roles directly ("at least SubLeader") rather than switching
// on named constants, per spec.md §9 "Role ordering".
type Role int32

const (
	RoleUnknown Role = iota
	RoleNonMember
	RoleMember
	RoleSubLeader
	RoleLeader
)

// AtLeast reports whether r is ordered at or above min.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

func (r Role) String() string {
	switch r {
	case RoleUnknown:
		return "Unknown"
	case RoleNonMember:
		return "NonMember"
	case RoleMember:
		return "Member"
	case RoleSubLeader:
		return "SubLeader"
	case RoleLeader:
		return "Leader"
	default:
		return "Unknown"
	}
}
