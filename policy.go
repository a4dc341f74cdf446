package teamkit

import "strings"

// Policy holds the behavioral configuration of a Service. It replaces
// process-wide settings with explicit state passed at construction and
// is treated as immutable after NewService.
type Policy struct {
	// CaseInsensitiveEmail folds case when matching member emails in
	// HasUserWithEmail. The default is an exact, case-sensitive compare.
	CaseInsensitiveEmail bool

	// DefaultRoleName names a role to fall back to when a membership
	// carries no role. Empty (the default) means members without a role
	// have no role binding and no capabilities.
	DefaultRoleName string
}

// DefaultPolicy returns the default policy: exact email matching, no
// fallback role.
func DefaultPolicy() Policy {
	return Policy{}
}

// emailEqual compares two emails under the policy's matching rule.
func (p Policy) emailEqual(a, b string) bool {
	if p.CaseInsensitiveEmail {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// bindingFor resolves a member's role binding under the policy,
// applying the default role fallback for role-less memberships.
func (p Policy) bindingFor(team *Team, m *Membership) (RoleBinding, bool) {
	if m == nil {
		return RoleBinding{}, false
	}
	if m.RoleID != "" {
		if role := team.FindRoleByID(m.RoleID); role != nil {
			return NamedBinding(role), true
		}
		return RoleBinding{}, false
	}
	if p.DefaultRoleName != "" {
		if role := team.FindRoleByName(p.DefaultRoleName); role != nil {
			return NamedBinding(role), true
		}
	}
	return RoleBinding{}, false
}
