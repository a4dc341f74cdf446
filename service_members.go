package teamkit

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// MEMBERSHIP OPERATIONS
// ============================================================================

// AddMember adds a user to a team, optionally with a role looked up by
// name. The owner's membership is implicit and cannot be added
// (ErrOwnerIsImplicit); adding an existing member returns
// ErrAlreadyMember; a non-empty roleName that misses returns
// ErrRoleNotFound.
//
// Example:
//
//	membership, err := service.AddMember(ctx, teamID, userID, "editor")
func (s *Service) AddMember(ctx context.Context, teamID, userID, roleName string) (*Membership, error) {
	membership := &Membership{TeamID: teamID, UserID: userID}

	err := s.Transaction(ctx, func(ctx context.Context, db dbkit.IDB) error {
		team := new(Team)
		err := dbkit.WithErr1(db.NewSelect().Model(team).Where("t.id = ?", teamID).Scan(ctx), "GetTeam").Err()
		if err != nil {
			if dbkit.IsNotFound(err) {
				return NewError(ErrTeamNotFound, "no team with this id").WithTeam(teamID)
			}
			return err
		}
		if team.OwnerID == userID {
			return NewError(ErrOwnerIsImplicit, "the owner is never a membership row").
				WithTeam(teamID).
				WithUser(userID)
		}

		exists, err := dbkit.Exists[Membership](ctx, db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("team_id = ? AND user_id = ?", teamID, userID)
		})
		if err != nil {
			return dbkit.WithErr1(err, "CheckMembership").Err()
		}
		if exists {
			return NewError(ErrAlreadyMember, "user already belongs to this team").
				WithTeam(teamID).
				WithUser(userID)
		}

		if roleName != "" {
			role, err := s.findRoleByName(ctx, db, teamID, roleName)
			if err != nil {
				return err
			}
			if role == nil {
				return NewError(ErrRoleNotFound, "no role with this name").
					WithTeam(teamID).
					WithRole(roleName)
			}
			membership.RoleID = role.ID
		}

		result, err := db.NewInsert().Model(membership).Returning("*").Exec(ctx)
		return dbkit.WithErr(result, err, "CreateMembership").Err()
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// SetMemberRole changes an existing member's role; an empty roleName
// clears it. Returns ErrMemberNotFound or ErrRoleNotFound on misses.
func (s *Service) SetMemberRole(ctx context.Context, teamID, userID, roleName string) error {
	return s.Transaction(ctx, func(ctx context.Context, db dbkit.IDB) error {
		var roleID string
		if roleName != "" {
			role, err := s.findRoleByName(ctx, db, teamID, roleName)
			if err != nil {
				return err
			}
			if role == nil {
				return NewError(ErrRoleNotFound, "no role with this name").
					WithTeam(teamID).
					WithRole(roleName)
			}
			roleID = role.ID
		}

		var result sql.Result
		var err error
		if roleID == "" {
			result, err = db.NewRaw("UPDATE team_members SET role_id = NULL WHERE team_id = ? AND user_id = ?", teamID, userID).Exec(ctx)
		} else {
			result, err = db.NewUpdate().Table("team_members").Set("role_id = ?", roleID).
				Where("team_id = ? AND user_id = ?", teamID, userID).Exec(ctx)
		}
		if err != nil {
			return dbkit.WithErr1(err, "SetMemberRole").Err()
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return NewError(ErrMemberNotFound, "user does not belong to this team").
				WithTeam(teamID).
				WithUser(userID)
		}
		return nil
	})
}

// RemoveMember removes the membership row linking a user and a team.
// Roles and other members are unaffected. Returns ErrMemberNotFound when
// the user is not a member.
func (s *Service) RemoveMember(ctx context.Context, teamID, userID string) error {
	result, err := s.db.NewDelete().Table("team_members").
		Where("team_id = ? AND user_id = ?", teamID, userID).Exec(ctx)
	if err = dbkit.WithErr(result, err, "RemoveMember").Err(); err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return NewError(ErrMemberNotFound, "user does not belong to this team").
			WithTeam(teamID).
			WithUser(userID)
	}
	return nil
}

// TeamUsers resolves every user of a team (members plus the owner,
// deduplicated) through the configured UserDirectory. Returns
// ErrNoDirectory when none was configured.
func (s *Service) TeamUsers(ctx context.Context, teamID string) ([]User, error) {
	if s.directory == nil {
		return nil, ErrNoDirectory
	}
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.directory.UsersByID(ctx, team.AllUserIDs())
}

// HasUserWithEmail reports whether any user of the team has the given
// email. Matching is an exact, case-sensitive compare unless the policy
// enables CaseInsensitiveEmail. Requires a UserDirectory.
func (s *Service) HasUserWithEmail(ctx context.Context, teamID, email string) (bool, error) {
	users, err := s.TeamUsers(ctx, teamID)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u != nil && s.policy.emailEqual(u.Email(), email) {
			return true, nil
		}
	}
	return false, nil
}

// CountMembers returns the number of membership rows a team has. The
// implicit owner is not counted.
func (s *Service) CountMembers(ctx context.Context, teamID string) (int, error) {
	return dbkit.Count[Membership](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("team_id = ?", teamID)
	})
}
