package teamkit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrorWrapping tests the Error wrapper against errors.Is
func TestErrorWrapping(t *testing.T) {
	t.Run("Wrapped sentinel matches with errors.Is", func(t *testing.T) {
		err := NewError(ErrRoleNotFound, "no role with this name").
			WithTeam("team-1").
			WithRole("editor")

		assert.ErrorIs(t, err, ErrRoleNotFound)
		assert.NotErrorIs(t, err, ErrTeamNotFound)
		assert.Equal(t, "team-1", err.TeamID)
		assert.Equal(t, "editor", err.Role)
	})

	t.Run("Error string includes message", func(t *testing.T) {
		err := NewError(ErrAlreadyMember, "user already belongs to this team")

		assert.Contains(t, err.Error(), ErrAlreadyMember.Error())
		assert.Contains(t, err.Error(), "user already belongs to this team")
	})

	t.Run("Error string without message is the sentinel", func(t *testing.T) {
		err := NewError(ErrTeamNotFound, "")

		assert.Equal(t, ErrTeamNotFound.Error(), err.Error())
	})

	t.Run("Unwrap returns the sentinel", func(t *testing.T) {
		err := NewError(ErrGroupExists, "code taken")

		assert.Equal(t, ErrGroupExists, errors.Unwrap(err))
	})

	t.Run("Survives a second fmt wrap", func(t *testing.T) {
		inner := NewError(ErrInvitationNotFound, "gone")
		outer := fmt.Errorf("accepting invitation: %w", inner)

		assert.ErrorIs(t, outer, ErrInvitationNotFound)
	})

	t.Run("Context builders chain", func(t *testing.T) {
		err := NewError(ErrAbilityExists, "duplicate grant").
			WithTeam("team-1").
			WithUser("user-2").
			WithGroup("eng").
			WithEntity(NewEntity("Post", "5"))

		assert.Equal(t, "team-1", err.TeamID)
		assert.Equal(t, "user-2", err.UserID)
		assert.Equal(t, "eng", err.Group)
		assert.Equal(t, NewEntity("Post", "5"), err.Entity)
	})
}

// TestErrorClassifiers tests the IsNotFound/IsConflict/IsUnauthorized helpers
func TestErrorClassifiers(t *testing.T) {
	t.Run("IsNotFound", func(t *testing.T) {
		for _, err := range []error{
			ErrTeamNotFound,
			ErrRoleNotFound,
			ErrGroupNotFound,
			ErrMemberNotFound,
			ErrInvitationNotFound,
			ErrAbilityNotFound,
		} {
			assert.True(t, IsNotFound(err), "%v", err)
			assert.True(t, IsNotFound(NewError(err, "wrapped")), "wrapped %v", err)
		}

		assert.False(t, IsNotFound(ErrRoleExists))
		assert.False(t, IsNotFound(nil))
	})

	t.Run("IsConflict", func(t *testing.T) {
		for _, err := range []error{
			ErrRoleExists,
			ErrGroupExists,
			ErrAlreadyMember,
			ErrInvitationExists,
			ErrAbilityExists,
			ErrOwnerIsImplicit,
		} {
			assert.True(t, IsConflict(err), "%v", err)
			assert.True(t, IsConflict(NewError(err, "wrapped")), "wrapped %v", err)
		}

		assert.False(t, IsConflict(ErrTeamNotFound))
		assert.False(t, IsConflict(nil))
	})

	t.Run("IsUnauthorized", func(t *testing.T) {
		assert.True(t, IsUnauthorized(ErrUnauthorized))
		assert.True(t, IsUnauthorized(NewError(ErrUnauthorized, "denied")))
		assert.False(t, IsUnauthorized(ErrNoUserID))
		assert.False(t, IsUnauthorized(nil))
	})
}
