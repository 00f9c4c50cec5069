package widgets

import "strings"

// Role is a session user's rank in the organisation.
type Role string

const (
	RoleMember     Role = "MEMBER"
	RoleTeamLeader Role = "TEAM_LEADER"
	RoleDeptHead   Role = "DEPT_HEAD"
	RoleExecutive  Role = "EXECUTIVE"
	RoleCEO        Role = "CEO"
)

// roleHierarchy is ordered from least to most privileged.
var roleHierarchy = []Role{RoleMember, RoleTeamLeader, RoleDeptHead, RoleExecutive, RoleCEO}

// Roles returns the hierarchy, least privileged first.
func Roles() []Role {
	out := make([]Role, len(roleHierarchy))
	copy(out, roleHierarchy)
	return out
}

// ParseRole normalises a claim value. Unknown values are kept as-is and
// rank -1.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// Rank is the role's index in the hierarchy, or -1 when unknown.
func (r Role) Rank() int {
	for i, h := range roleHierarchy {
		if h == r {
			return i
		}
	}
	return -1
}

func (r Role) Valid() bool { return r.Rank() >= 0 }

// HasPermission reports whether userRole ranks at or above minRole. An
// unknown user role never passes.
func HasPermission(userRole, minRole Role) bool {
	rank := userRole.Rank()
	return rank >= 0 && rank >= minRole.Rank()
}
