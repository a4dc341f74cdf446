package teamkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// acmeTeam builds the canonical fixture: owner U1, editor U2 with the
// "editor" role, role-less member U3, a Post#5-scoped grant and a
// team-wide grant.
func acmeTeam() *Team {
	team := newTestTeam("u1")
	editor := attachRole(team, "r-editor", "editor", "edit-post", "publish-post")
	attachRole(team, "r-viewer", "viewer", "view-post")
	attachMember(team, "u2", editor.ID)
	attachMember(team, "u3", "")
	attachAbility(team, "comment", Entity{})                  // team-wide
	attachAbility(team, "moderate", NewEntity("Post", "5"))   // Post#5 only
	return team
}

// TestCheckerOwner tests the owner bypass
func TestCheckerOwner(t *testing.T) {
	team := acmeTeam()
	checker := NewChecker("u1", team, DefaultPolicy())

	t.Run("Owner is owner and member", func(t *testing.T) {
		assert.True(t, checker.IsOwner())
		assert.True(t, checker.IsMember())
	})

	t.Run("Owner passes any capability, even undeclared ones", func(t *testing.T) {
		assert.True(t, checker.HasCapability("edit-post"))
		assert.True(t, checker.HasCapability("delete-team"))
		assert.True(t, checker.HasCapability("anything-at-all"))
	})

	t.Run("Owner passes entity-scoped checks", func(t *testing.T) {
		assert.True(t, checker.HasCapability("moderate", NewEntity("Post", "6")))
	})

	t.Run("Owner binding is the sentinel", func(t *testing.T) {
		binding, ok := checker.RoleBinding()

		assert.True(t, ok)
		assert.True(t, binding.IsOwner())
		assert.Equal(t, "owner", binding.Name())
	})

	t.Run("Owner capabilities are not enumerable", func(t *testing.T) {
		assert.Nil(t, checker.Capabilities())
	})
}

// TestCheckerMember tests role-based resolution for a regular member
func TestCheckerMember(t *testing.T) {
	team := acmeTeam()
	checker := NewChecker("u2", team, DefaultPolicy())

	t.Run("Member is member but not owner", func(t *testing.T) {
		assert.False(t, checker.IsOwner())
		assert.True(t, checker.IsMember())
	})

	t.Run("Role capability allows", func(t *testing.T) {
		assert.True(t, checker.HasCapability("edit-post"))
		assert.True(t, checker.HasCapability("publish-post"))
	})

	t.Run("Missing capability denies", func(t *testing.T) {
		assert.False(t, checker.HasCapability("delete-team"))
	})

	t.Run("Capabilities enumerates the role set", func(t *testing.T) {
		assert.Equal(t, []string{"edit-post", "publish-post"}, checker.Capabilities())
	})

	t.Run("Role binding carries the role", func(t *testing.T) {
		binding, ok := checker.RoleBinding()

		assert.True(t, ok)
		assert.Equal(t, "editor", binding.Name())
	})
}

// TestCheckerNonMember tests the hard deny for strangers
func TestCheckerNonMember(t *testing.T) {
	team := acmeTeam()
	checker := NewChecker("stranger", team, DefaultPolicy())

	t.Run("Not a member, not an owner", func(t *testing.T) {
		assert.False(t, checker.IsOwner())
		assert.False(t, checker.IsMember())
	})

	t.Run("Every capability denies, grants included", func(t *testing.T) {
		assert.False(t, checker.HasCapability("edit-post"))
		// "comment" is granted team-wide, but only to members
		assert.False(t, checker.HasCapability("comment"))
	})

	t.Run("Empty all-of list is still denied", func(t *testing.T) {
		assert.False(t, checker.HasAllCapabilities(nil))
	})
}

// TestCheckerAbilityGrants tests direct grant resolution
func TestCheckerAbilityGrants(t *testing.T) {
	team := acmeTeam()
	// u3 has no role; only ability grants can authorize it
	checker := NewChecker("u3", team, DefaultPolicy())

	t.Run("Team-wide grant applies to any member", func(t *testing.T) {
		assert.True(t, checker.HasCapability("comment"))
		assert.True(t, checker.HasCapability("comment", NewEntity("Post", "99")))
	})

	t.Run("Scoped grant applies only to its exact entity", func(t *testing.T) {
		assert.True(t, checker.HasCapability("moderate", NewEntity("Post", "5")))
		assert.False(t, checker.HasCapability("moderate", NewEntity("Post", "6")))
		assert.False(t, checker.HasCapability("moderate", NewEntity("Comment", "5")))
	})

	t.Run("Scoped grant does not apply without an entity", func(t *testing.T) {
		assert.False(t, checker.HasCapability("moderate"))
	})

	t.Run("Role-less member fails role capabilities", func(t *testing.T) {
		assert.False(t, checker.HasCapability("edit-post"))
	})

	t.Run("Role-less member has no binding", func(t *testing.T) {
		_, ok := checker.RoleBinding()

		assert.False(t, ok)
		assert.Nil(t, checker.Capabilities())
	})
}

// TestCheckerRoleAndGrantDisjunction verifies role capabilities and
// grants combine as an OR for members
func TestCheckerRoleAndGrantDisjunction(t *testing.T) {
	team := acmeTeam()
	checker := NewChecker("u2", team, DefaultPolicy())

	// from the role
	assert.True(t, checker.HasCapability("edit-post"))
	// from the team-wide grant
	assert.True(t, checker.HasCapability("comment"))
	// from the scoped grant
	assert.True(t, checker.HasCapability("moderate", NewEntity("Post", "5")))
	// from neither
	assert.False(t, checker.HasCapability("moderate", NewEntity("Post", "6")))
}

// TestCheckerAnyAll tests the list check semantics
func TestCheckerAnyAll(t *testing.T) {
	team := acmeTeam()
	member := NewChecker("u2", team, DefaultPolicy())
	owner := NewChecker("u1", team, DefaultPolicy())

	t.Run("HasAnyCapability passes on a single hit", func(t *testing.T) {
		assert.True(t, member.HasAnyCapability([]string{"delete-team", "edit-post"}))
		assert.False(t, member.HasAnyCapability([]string{"delete-team", "manage-billing"}))
		assert.False(t, member.HasAnyCapability(nil))
	})

	t.Run("HasAllCapabilities needs every one", func(t *testing.T) {
		assert.True(t, member.HasAllCapabilities([]string{"edit-post", "publish-post"}))
		assert.False(t, member.HasAllCapabilities([]string{"edit-post", "delete-team"}))
	})

	t.Run("Empty all-of list is vacuously true for members", func(t *testing.T) {
		assert.True(t, member.HasAllCapabilities(nil))
		assert.True(t, owner.HasAllCapabilities(nil))
	})

	t.Run("HasCapabilities selects semantics by flag", func(t *testing.T) {
		codes := []string{"edit-post", "delete-team"}

		assert.True(t, member.HasCapabilities(codes, false))
		assert.False(t, member.HasCapabilities(codes, true))
	})
}

// TestCheckerDefaultRolePolicy tests the role-less member fallback
func TestCheckerDefaultRolePolicy(t *testing.T) {
	team := acmeTeam()
	policy := Policy{DefaultRoleName: "viewer"}

	t.Run("Role-less member falls back to the default role", func(t *testing.T) {
		checker := NewChecker("u3", team, policy)

		binding, ok := checker.RoleBinding()
		assert.True(t, ok)
		assert.Equal(t, "viewer", binding.Name())
		assert.True(t, checker.HasCapability("view-post"))
	})

	t.Run("Explicit role wins over the default", func(t *testing.T) {
		checker := NewChecker("u2", team, policy)

		binding, ok := checker.RoleBinding()
		assert.True(t, ok)
		assert.Equal(t, "editor", binding.Name())
	})

	t.Run("Missing default role leaves the member role-less", func(t *testing.T) {
		checker := NewChecker("u3", team, Policy{DefaultRoleName: "ghost"})

		_, ok := checker.RoleBinding()
		assert.False(t, ok)
	})
}

// TestCheckerAccessors tests plain accessors
func TestCheckerAccessors(t *testing.T) {
	team := acmeTeam()
	checker := NewChecker("u2", team, DefaultPolicy())

	assert.Equal(t, "u2", checker.UserID())
	assert.Same(t, team, checker.Team())
}
