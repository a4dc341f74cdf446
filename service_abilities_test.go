package teamkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGrantAbility tests grant creation rules
func TestGrantAbility(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service := helper.GetService()
	ctx := helper.GetContext()

	owner := helper.CreateTestUser("owner")
	team := helper.CreateTestTeam(owner, "grants")
	defer helper.CleanupTeam(team.ID)

	t.Run("Team-wide grant", func(t *testing.T) {
		ability, err := service.GrantAbility(ctx, team.ID, "comment")
		require.NoError(t, err)

		assert.NotEmpty(t, ability.ID)
		assert.True(t, ability.IsTeamWide())
	})

	t.Run("Entity-scoped grant", func(t *testing.T) {
		ability, err := service.GrantAbility(ctx, team.ID, "moderate", NewEntity("Post", "5"))
		require.NoError(t, err)

		assert.False(t, ability.IsTeamWide())
		assert.Equal(t, NewEntity("Post", "5"), ability.Entity())
	})

	t.Run("Same action, different entity is a distinct grant", func(t *testing.T) {
		_, err := service.GrantAbility(ctx, team.ID, "moderate", NewEntity("Post", "6"))

		assert.NoError(t, err)
	})

	t.Run("Duplicate grant returns ErrAbilityExists", func(t *testing.T) {
		_, err := service.GrantAbility(ctx, team.ID, "comment")
		assert.ErrorIs(t, err, ErrAbilityExists)

		_, err = service.GrantAbility(ctx, team.ID, "moderate", NewEntity("Post", "5"))
		assert.ErrorIs(t, err, ErrAbilityExists)
	})

	t.Run("Empty action is rejected", func(t *testing.T) {
		_, err := service.GrantAbility(ctx, team.ID, "")

		assert.Error(t, err)
	})
}

// TestRevokeAbility tests grant revocation
func TestRevokeAbility(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service := helper.GetService()
	ctx := helper.GetContext()

	owner := helper.CreateTestUser("owner")
	member := helper.CreateTestUser("member")
	team := helper.CreateTestTeam(owner, "revoke")
	defer helper.CleanupTeam(team.ID)
	helper.SetupMember(team.ID, member, "")

	_, err := service.GrantAbility(ctx, team.ID, "comment")
	require.NoError(t, err)
	_, err = service.GrantAbility(ctx, team.ID, "comment", NewEntity("Post", "5"))
	require.NoError(t, err)

	t.Run("Revoking the scoped grant keeps the team-wide one", func(t *testing.T) {
		err := service.RevokeAbility(ctx, team.ID, "comment", NewEntity("Post", "5"))
		require.NoError(t, err)

		helper.AssertCapabilityGranted(team.ID, member, "comment")
	})

	t.Run("Revoking the team-wide grant removes access", func(t *testing.T) {
		err := service.RevokeAbility(ctx, team.ID, "comment")
		require.NoError(t, err)

		helper.AssertCapabilityDenied(team.ID, member, "comment")
	})

	t.Run("Revoking a missing grant returns ErrAbilityNotFound", func(t *testing.T) {
		err := service.RevokeAbility(ctx, team.ID, "comment")

		assert.ErrorIs(t, err, ErrAbilityNotFound)
	})
}

// TestListAbilities tests grant enumeration with filters
func TestListAbilities(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service := helper.GetService()
	ctx := helper.GetContext()

	owner := helper.CreateTestUser("owner")
	team := helper.CreateTestTeam(owner, "list-grants")
	defer helper.CleanupTeam(team.ID)

	_, err := service.GrantAbility(ctx, team.ID, "comment")
	require.NoError(t, err)
	_, err = service.GrantAbility(ctx, team.ID, "moderate", NewEntity("Post", "5"))
	require.NoError(t, err)
	_, err = service.GrantAbility(ctx, team.ID, "moderate", NewEntity("Post", "6"))
	require.NoError(t, err)

	t.Run("By team", func(t *testing.T) {
		abilities, err := service.ListAbilities(ctx, NewAbilityFilter().WithTeam(team.ID))
		require.NoError(t, err)

		assert.Len(t, abilities, 3)
	})

	t.Run("By action", func(t *testing.T) {
		abilities, err := service.ListAbilities(ctx, NewAbilityFilter().WithTeam(team.ID).WithAction("moderate"))
		require.NoError(t, err)

		assert.Len(t, abilities, 2)
	})

	t.Run("By entity", func(t *testing.T) {
		abilities, err := service.ListAbilities(ctx, NewAbilityFilter().WithTeam(team.ID).WithEntity(NewEntity("Post", "5")))
		require.NoError(t, err)

		require.Len(t, abilities, 1)
		assert.Equal(t, "moderate", abilities[0].Action)
	})

	t.Run("Team-wide only", func(t *testing.T) {
		abilities, err := service.ListAbilities(ctx, NewAbilityFilter().WithTeam(team.ID).TeamWide())
		require.NoError(t, err)

		require.Len(t, abilities, 1)
		assert.Equal(t, "comment", abilities[0].Action)
	})

	t.Run("Pagination", func(t *testing.T) {
		abilities, err := service.ListAbilities(ctx, NewAbilityFilter().WithTeam(team.ID).WithPagination(2, 0))
		require.NoError(t, err)

		assert.Len(t, abilities, 2)
	})
}
