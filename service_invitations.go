package teamkit

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// INVITATION OPERATIONS
// ============================================================================

// Invitations have exactly two terminal transitions: accept (membership
// created, invitation deleted) and decline (invitation deleted). Both
// run as single transactions. Delivery of the invitation is up to the
// application.

// Invite records a pending invitation for an email address. A pending
// invitation for the same email in the same team returns
// ErrInvitationExists.
func (s *Service) Invite(ctx context.Context, teamID, email string) (*Invitation, error) {
	if email == "" {
		return nil, NewError(ErrInvitationNotFound, "invitation email cannot be empty").WithTeam(teamID)
	}

	invitation := &Invitation{TeamID: teamID, Email: email}
	err := s.Transaction(ctx, func(ctx context.Context, db dbkit.IDB) error {
		pending, err := dbkit.Exists[Invitation](ctx, db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("team_id = ? AND email = ?", teamID, email)
		})
		if err != nil {
			return dbkit.WithErr1(err, "CheckInvitation").Err()
		}
		if pending {
			return NewError(ErrInvitationExists, "email already has a pending invitation").
				WithTeam(teamID)
		}

		result, err := db.NewInsert().Model(invitation).Returning("*").Exec(ctx)
		return dbkit.WithErr(result, err, "CreateInvitation").Err()
	})
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

// AcceptInvitation consumes a pending invitation: the accepting user
// becomes a member (optionally with a role looked up by name) and the
// invitation row is deleted, in one transaction. Returns
// ErrInvitationNotFound when the id misses.
func (s *Service) AcceptInvitation(ctx context.Context, invitationID, userID, roleName string) (*Membership, error) {
	membership := &Membership{UserID: userID}

	err := s.Transaction(ctx, func(ctx context.Context, db dbkit.IDB) error {
		invitation := new(Invitation)
		err := dbkit.WithErr1(db.NewSelect().Model(invitation).Where("id = ?", invitationID).Scan(ctx), "GetInvitation").Err()
		if err != nil {
			if dbkit.IsNotFound(err) {
				return NewError(ErrInvitationNotFound, "no pending invitation with this id")
			}
			return err
		}
		membership.TeamID = invitation.TeamID

		team := new(Team)
		err = dbkit.WithErr1(db.NewSelect().Model(team).Where("t.id = ?", invitation.TeamID).Scan(ctx), "GetTeam").Err()
		if err != nil {
			return err
		}
		if team.OwnerID == userID {
			return NewError(ErrOwnerIsImplicit, "the owner is never a membership row").
				WithTeam(invitation.TeamID).
				WithUser(userID)
		}

		member, err := dbkit.Exists[Membership](ctx, db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("team_id = ? AND user_id = ?", invitation.TeamID, userID)
		})
		if err != nil {
			return dbkit.WithErr1(err, "CheckMembership").Err()
		}
		if member {
			return NewError(ErrAlreadyMember, "user already belongs to this team").
				WithTeam(invitation.TeamID).
				WithUser(userID)
		}

		if roleName != "" {
			role, err := s.findRoleByName(ctx, db, invitation.TeamID, roleName)
			if err != nil {
				return err
			}
			if role == nil {
				return NewError(ErrRoleNotFound, "no role with this name").
					WithTeam(invitation.TeamID).
					WithRole(roleName)
			}
			membership.RoleID = role.ID
		}

		result, err := db.NewInsert().Model(membership).Returning("*").Exec(ctx)
		if err = dbkit.WithErr(result, err, "CreateMembership").Err(); err != nil {
			return err
		}

		result, err = db.NewDelete().Table("team_invitations").Where("id = ?", invitationID).Exec(ctx)
		return dbkit.WithErr(result, err, "ConsumeInvitation").Err()
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// DeclineInvitation consumes a pending invitation without creating a
// membership. Returns ErrInvitationNotFound when the id misses.
func (s *Service) DeclineInvitation(ctx context.Context, invitationID string) error {
	result, err := s.db.NewDelete().Table("team_invitations").Where("id = ?", invitationID).Exec(ctx)
	if err = dbkit.WithErr(result, err, "DeclineInvitation").Err(); err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return NewError(ErrInvitationNotFound, "no pending invitation with this id")
	}
	return nil
}

// PendingInvitations retrieves pending invitations with optional filters.
func (s *Service) PendingInvitations(ctx context.Context, filter InvitationFilter) ([]Invitation, error) {
	var invitations []Invitation
	q := s.db.NewSelect().Model(&invitations)
	if filter.TeamID != "" {
		q = q.Where("team_id = ?", filter.TeamID)
	}
	if filter.Email != "" {
		q = q.Where("email = ?", filter.Email)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("created_at <= ?", filter.Until)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 100 // Default limit
	}
	q = q.Limit(limit)

	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	q = q.Order("created_at ASC")
	err := dbkit.WithErr1(q.Scan(ctx), "PendingInvitations").Err()
	if err != nil {
		return nil, err
	}

	return invitations, nil
}
