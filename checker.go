package teamkit

// Checker answers authorization questions for one user against one
// eagerly loaded team. It is typically created by the Service and stored
// in context for use in handlers.
//
// Every check re-reads the loaded aggregate only; callers needing
// current state after a mutation load a fresh Checker.
type Checker struct {
	userID string
	team   *Team
	policy Policy
}

// NewChecker creates a new Checker for a user and a loaded team.
func NewChecker(userID string, team *Team, policy Policy) *Checker {
	return &Checker{
		userID: userID,
		team:   team,
		policy: policy,
	}
}

// UserID returns the user ID this checker is for.
func (c *Checker) UserID() string {
	return c.userID
}

// Team returns the team this checker resolves against.
func (c *Checker) Team() *Team {
	return c.team
}

// IsOwner reports whether the user is the team owner.
func (c *Checker) IsOwner() bool {
	return c.userID != "" && c.userID == c.team.OwnerID
}

// IsMember reports whether the user is a member or the owner.
func (c *Checker) IsMember() bool {
	return c.team.HasUserID(c.userID)
}

// RoleBinding resolves the user's role binding: the Owner sentinel for
// the owner, the membership's role for members, nothing otherwise.
// Role-less memberships fall back to the policy's default role, if any.
func (c *Checker) RoleBinding() (RoleBinding, bool) {
	if c.IsOwner() {
		return OwnerBinding(), true
	}
	var m *Membership
	if c.team.byMemberID != nil {
		m = c.team.byMemberID[c.userID]
	} else {
		for _, cand := range c.team.Memberships {
			if cand.UserID == c.userID {
				m = cand
				break
			}
		}
	}
	return c.policy.bindingFor(c.team, m)
}

// HasCapability reports whether the user may perform the capability,
// optionally against a specific entity.
//
// Resolution order: owner always allows; non-members are always denied;
// then the member's role capabilities and the team's ability grants are
// consulted as a disjunction.
//
// Example:
//
//	checker.HasCapability("edit-post")
//	checker.HasCapability("edit-post", teamkit.NewEntity("Post", "5"))
func (c *Checker) HasCapability(code string, entity ...Entity) bool {
	if c.IsOwner() {
		return true
	}
	if !c.IsMember() {
		return false
	}

	if binding, ok := c.RoleBinding(); ok && binding.Allows(code) {
		return true
	}

	target := Entity{}
	if len(entity) > 0 {
		target = entity[0]
	}
	for _, grant := range c.team.Abilities {
		if grant.Matches(code, target) {
			return true
		}
	}
	return false
}

// HasAnyCapability reports whether the user has at least one of the
// capabilities.
func (c *Checker) HasAnyCapability(codes []string, entity ...Entity) bool {
	for _, code := range codes {
		if c.HasCapability(code, entity...) {
			return true
		}
	}
	return false
}

// HasAllCapabilities reports whether the user has every capability.
// An empty list is vacuously true for members and the owner, false for
// non-members.
func (c *Checker) HasAllCapabilities(codes []string, entity ...Entity) bool {
	if !c.IsMember() {
		return false
	}
	for _, code := range codes {
		if !c.HasCapability(code, entity...) {
			return false
		}
	}
	return true
}

// HasCapabilities checks a capability list with any-of or all-of
// semantics selected by requireAll.
func (c *Checker) HasCapabilities(codes []string, requireAll bool, entity ...Entity) bool {
	if requireAll {
		return c.HasAllCapabilities(codes, entity...)
	}
	return c.HasAnyCapability(codes, entity...)
}

// Capabilities returns the capability codes granted by the user's role.
// The Owner sentinel has no enumerable set; use IsOwner for the bypass.
// Team-wide and entity-scoped ability grants are not included.
func (c *Checker) Capabilities() []string {
	binding, ok := c.RoleBinding()
	if !ok {
		return nil
	}
	role, ok := binding.Role()
	if !ok {
		return nil
	}
	return role.CapabilityCodes()
}
