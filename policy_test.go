package teamkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPolicyEmailMatching tests the email comparison rule
func TestPolicyEmailMatching(t *testing.T) {
	t.Run("Default is case-sensitive", func(t *testing.T) {
		p := DefaultPolicy()

		assert.True(t, p.emailEqual("alice@example.com", "alice@example.com"))
		assert.False(t, p.emailEqual("alice@example.com", "Alice@Example.com"))
	})

	t.Run("Case-insensitive when enabled", func(t *testing.T) {
		p := Policy{CaseInsensitiveEmail: true}

		assert.True(t, p.emailEqual("alice@example.com", "Alice@Example.com"))
		assert.False(t, p.emailEqual("alice@example.com", "bob@example.com"))
	})
}

// TestPolicyBindingFor tests default-role fallback resolution
func TestPolicyBindingFor(t *testing.T) {
	team := newTestTeam("owner-1")
	editor := attachRole(team, "r1", "editor", "edit-post")
	attachRole(team, "r2", "viewer", "view-post")

	t.Run("Nil membership has no binding", func(t *testing.T) {
		_, ok := DefaultPolicy().bindingFor(team, nil)

		assert.False(t, ok)
	})

	t.Run("Membership with role resolves it", func(t *testing.T) {
		m := &Membership{UserID: "u2", RoleID: editor.ID}

		binding, ok := DefaultPolicy().bindingFor(team, m)
		assert.True(t, ok)
		assert.Equal(t, "editor", binding.Name())
	})

	t.Run("Dangling role ID has no binding", func(t *testing.T) {
		m := &Membership{UserID: "u2", RoleID: "gone"}

		_, ok := DefaultPolicy().bindingFor(team, m)
		assert.False(t, ok)
	})

	t.Run("Role-less membership uses the default role", func(t *testing.T) {
		m := &Membership{UserID: "u3"}
		p := Policy{DefaultRoleName: "viewer"}

		binding, ok := p.bindingFor(team, m)
		assert.True(t, ok)
		assert.Equal(t, "viewer", binding.Name())
	})

	t.Run("No default role means no binding", func(t *testing.T) {
		m := &Membership{UserID: "u3"}

		_, ok := DefaultPolicy().bindingFor(team, m)
		assert.False(t, ok)
	})
}
