package teamkit

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// TEAM LIFECYCLE
// ============================================================================

// CreateTeam creates a team owned by ownerID. The owner is implicit and
// never gets a membership row.
//
// Example:
//
//	team, err := service.CreateTeam(ctx, ownerID, "Acme")
func (s *Service) CreateTeam(ctx context.Context, ownerID, name string) (*Team, error) {
	team := &Team{
		OwnerID: ownerID,
		Name:    name,
	}

	result, err := s.db.NewInsert().Model(team).Returning("*").Exec(ctx)
	if err = dbkit.WithErr(result, err, "CreateTeam").Err(); err != nil {
		return nil, err
	}

	team.index()
	return team, nil
}

// GetTeam loads a team together with its roles (capabilities attached),
// groups, memberships, and ability grants. This eager load is the
// aggregate's construction contract: every in-memory Team method assumes
// it. Returns ErrTeamNotFound when the id misses.
func (s *Service) GetTeam(ctx context.Context, teamID string) (*Team, error) {
	return s.getTeam(ctx, s.db, teamID)
}

func (s *Service) getTeam(ctx context.Context, db dbkit.IDB, teamID string) (*Team, error) {
	team := new(Team)
	err := dbkit.WithErr1(db.NewSelect().Model(team).Where("t.id = ?", teamID).Scan(ctx), "GetTeam").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrTeamNotFound, "no team with this id").WithTeam(teamID)
		}
		return nil, err
	}

	if err := s.loadTeamRelations(ctx, db, team); err != nil {
		return nil, err
	}

	team.index()
	return team, nil
}

func (s *Service) loadTeamRelations(ctx context.Context, db dbkit.IDB, team *Team) error {
	err := dbkit.WithErr1(db.NewSelect().Model(&team.Roles).Where("team_id = ?", team.ID).Order("created_at ASC").Scan(ctx), "LoadTeamRoles").Err()
	if err != nil {
		return err
	}
	if err := s.loadRoleCapabilities(ctx, db, team.Roles); err != nil {
		return err
	}

	err = dbkit.WithErr1(db.NewSelect().Model(&team.Groups).Where("team_id = ?", team.ID).Order("created_at ASC").Scan(ctx), "LoadTeamGroups").Err()
	if err != nil {
		return err
	}

	err = dbkit.WithErr1(db.NewSelect().Model(&team.Memberships).Where("team_id = ?", team.ID).Order("created_at ASC").Scan(ctx), "LoadTeamMemberships").Err()
	if err != nil {
		return err
	}

	err = dbkit.WithErr1(db.NewSelect().Model(&team.Abilities).Where("team_id = ?", team.ID).Order("created_at ASC").Scan(ctx), "LoadTeamAbilities").Err()
	if err != nil {
		return err
	}

	return nil
}

// roleCapabilityRow is the join projection used when attaching
// capabilities to loaded roles.
type roleCapabilityRow struct {
	RoleID string `bun:"role_id"`
	ID     string `bun:"id"`
	Code   string `bun:"code"`
}

func (s *Service) loadRoleCapabilities(ctx context.Context, db dbkit.IDB, roles []*Role) error {
	if len(roles) == 0 {
		return nil
	}

	byID := make(map[string]*Role, len(roles))
	roleIDs := make([]string, 0, len(roles))
	for _, r := range roles {
		r.Capabilities = nil
		byID[r.ID] = r
		roleIDs = append(roleIDs, r.ID)
	}

	var rows []roleCapabilityRow
	err := dbkit.WithErr1(db.NewRaw(
		"SELECT rc.role_id, c.id, c.code FROM role_capabilities rc JOIN capabilities c ON c.id = rc.capability_id WHERE rc.role_id IN (?) ORDER BY c.code ASC",
		bun.In(roleIDs)).Scan(ctx, &rows), "LoadRoleCapabilities").Err()
	if err != nil {
		return err
	}

	for _, row := range rows {
		role := byID[row.RoleID]
		if role == nil {
			continue
		}
		role.Capabilities = append(role.Capabilities, &Capability{ID: row.ID, Code: row.Code})
	}
	return nil
}

// PurgeTeam deletes a team and everything it owns: memberships, roles
// and their capability links, groups, ability grants, and invitations.
// The whole purge runs in one transaction so a partial purge can never
// leave orphaned child rows. Shared capability rows are untouched.
func (s *Service) PurgeTeam(ctx context.Context, teamID string) error {
	return s.Transaction(ctx, func(ctx context.Context, db dbkit.IDB) error {
		result, err := db.NewRaw(
			"DELETE FROM role_capabilities WHERE role_id IN (SELECT id FROM team_roles WHERE team_id = ?)",
			teamID).Exec(ctx)
		if err = dbkit.WithErr(result, err, "PurgeRoleCapabilities").Err(); err != nil {
			return err
		}

		// Memberships reference team_roles, so they must go first
		for _, table := range []string{"team_members", "team_roles", "team_groups", "team_abilities", "team_invitations"} {
			result, err := db.NewDelete().Table(table).Where("team_id = ?", teamID).Exec(ctx)
			if err = dbkit.WithErr(result, err, "PurgeTeamChildren").Err(); err != nil {
				return err
			}
		}

		result, err = db.NewDelete().Table("teams").Where("id = ?", teamID).Exec(ctx)
		if err = dbkit.WithErr(result, err, "PurgeTeam").Err(); err != nil {
			return err
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return NewError(ErrTeamNotFound, "no team with this id").WithTeam(teamID)
		}
		return nil
	})
}

// TeamsOwnedBy returns the teams owned by a user.
func (s *Service) TeamsOwnedBy(ctx context.Context, ownerID string) ([]Team, error) {
	var teams []Team
	err := dbkit.WithErr1(s.db.NewSelect().Model(&teams).Where("owner_id = ?", ownerID).Order("created_at ASC").Scan(ctx), "TeamsOwnedBy").Err()
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// TeamIDsForUser returns the ids of every team the user belongs to,
// owned teams first, then memberships, without duplicates.
func (s *Service) TeamIDsForUser(ctx context.Context, userID string) ([]string, error) {
	var owned []string
	err := dbkit.WithErr1(s.db.NewRaw("SELECT id FROM teams WHERE owner_id = ? ORDER BY created_at ASC", userID).Scan(ctx, &owned), "TeamIDsForUserOwned").Err()
	if err != nil {
		return nil, err
	}

	var member []string
	err = dbkit.WithErr1(s.db.NewRaw("SELECT team_id FROM team_members WHERE user_id = ? ORDER BY created_at ASC", userID).Scan(ctx, &member), "TeamIDsForUserMember").Err()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(owned)+len(member))
	ids := make([]string, 0, len(owned)+len(member))
	for _, id := range append(owned, member...) {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
