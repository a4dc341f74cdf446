package teamkit

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// ROLE OPERATIONS
// ============================================================================

// AddRole creates a role scoped to the team and links it to the given
// capability codes, creating any capability that does not exist yet
// (get-or-create by code). Codes are deduplicated before linking.
// Returns ErrRoleExists when the team already has a role with this name.
//
// Example:
//
//	role, err := service.AddRole(ctx, teamID, "editor", []string{"edit-post", "publish-post"})
func (s *Service) AddRole(ctx context.Context, teamID, name string, capabilityCodes []string) (*Role, error) {
	if name == "" {
		return nil, NewError(ErrRoleNotFound, "role name cannot be empty").WithTeam(teamID)
	}
	codes, err := validateCapabilityCodes(capabilityCodes)
	if err != nil {
		return nil, err
	}

	role := &Role{TeamID: teamID, Name: name}
	err = s.Transaction(ctx, func(ctx context.Context, db dbkit.IDB) error {
		taken, err := dbkit.Exists[Role](ctx, db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("team_id = ? AND name = ?", teamID, name)
		})
		if err != nil {
			return dbkit.WithErr1(err, "CheckRoleName").Err()
		}
		if taken {
			return NewError(ErrRoleExists, "team already has a role with this name").
				WithTeam(teamID).
				WithRole(name)
		}

		result, err := db.NewInsert().Model(role).Returning("*").Exec(ctx)
		if err = dbkit.WithErr(result, err, "CreateRole").Err(); err != nil {
			return err
		}

		links := make([]*RoleCapability, 0, len(codes))
		for _, code := range codes {
			capability, err := s.getOrCreateCapability(ctx, db, code)
			if err != nil {
				return err
			}
			links = append(links, &RoleCapability{RoleID: role.ID, CapabilityID: capability.ID})
			role.Capabilities = append(role.Capabilities, capability)
		}
		if len(links) == 0 {
			return nil
		}

		// The role is new, so no links can conflict
		_, err = dbkit.BatchInsert(ctx, db, links, dbkit.BatchSize)
		return dbkit.WithErr1(err, "LinkCapabilities").Err()
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// UpdateRole looks up a role by exact name within the team and replaces
// its capability set with the given codes: missing links are added,
// links outside the new set are removed, and links already present are
// left untouched. Unlinked capability rows persist in the global
// registry. Returns ErrRoleNotFound when the name misses.
func (s *Service) UpdateRole(ctx context.Context, teamID, name string, capabilityCodes []string) (*Role, error) {
	codes, err := validateCapabilityCodes(capabilityCodes)
	if err != nil {
		return nil, err
	}

	var role *Role
	err = s.Transaction(ctx, func(ctx context.Context, db dbkit.IDB) error {
		var txErr error
		role, txErr = s.findRoleByName(ctx, db, teamID, name)
		if txErr != nil {
			return txErr
		}
		if role == nil {
			return NewError(ErrRoleNotFound, "no role with this name").
				WithTeam(teamID).
				WithRole(name)
		}

		current := make(map[string]bool, len(role.Capabilities))
		for _, c := range role.Capabilities {
			current[c.Code] = true
		}

		// Add links missing from the current set
		for _, code := range codes {
			if current[code] {
				continue
			}
			capability, err := s.getOrCreateCapability(ctx, db, code)
			if err != nil {
				return err
			}
			if err := s.linkCapability(ctx, db, role.ID, capability); err != nil {
				return err
			}
		}

		// Remove links outside the new set
		for _, c := range role.Capabilities {
			if containsCode(codes, c.Code) {
				continue
			}
			result, err := db.NewDelete().Table("role_capabilities").
				Where("role_id = ? AND capability_id = ?", role.ID, c.ID).Exec(ctx)
			if err = dbkit.WithErr(result, err, "UnlinkCapability").Err(); err != nil {
				return err
			}
		}

		return s.loadRoleCapabilities(ctx, db, []*Role{role})
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// DeleteRole looks up a role by name within the team and deletes it,
// detaching its capability links. Memberships referencing the role keep
// their row but lose the role reference. Capability rows persist.
// Returns ErrRoleNotFound when the name misses; other roles are never
// touched.
func (s *Service) DeleteRole(ctx context.Context, teamID, name string) error {
	return s.Transaction(ctx, func(ctx context.Context, db dbkit.IDB) error {
		role, err := s.findRoleByName(ctx, db, teamID, name)
		if err != nil {
			return err
		}
		if role == nil {
			return NewError(ErrRoleNotFound, "no role with this name").
				WithTeam(teamID).
				WithRole(name)
		}

		result, err := db.NewDelete().Table("role_capabilities").Where("role_id = ?", role.ID).Exec(ctx)
		if err = dbkit.WithErr(result, err, "DetachRoleCapabilities").Err(); err != nil {
			return err
		}

		result, err = db.NewRaw("UPDATE team_members SET role_id = NULL WHERE team_id = ? AND role_id = ?", teamID, role.ID).Exec(ctx)
		if err = dbkit.WithErr(result, err, "ClearMembershipRole").Err(); err != nil {
			return err
		}

		result, err = db.NewDelete().Table("team_roles").Where("id = ?", role.ID).Exec(ctx)
		return dbkit.WithErr(result, err, "DeleteRole").Err()
	})
}

// FindRoleByID returns the team's role with the given id, capabilities
// attached, or nil with a nil error when the id misses.
func (s *Service) FindRoleByID(ctx context.Context, teamID, roleID string) (*Role, error) {
	role := new(Role)
	err := dbkit.WithErr1(s.db.NewSelect().Model(role).Where("team_id = ? AND id = ?", teamID, roleID).Scan(ctx), "FindRoleByID").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if err := s.loadRoleCapabilities(ctx, s.db, []*Role{role}); err != nil {
		return nil, err
	}
	return role, nil
}

// FindRoleByName returns the team's role with the given name,
// capabilities attached, or nil with a nil error when the name misses.
func (s *Service) FindRoleByName(ctx context.Context, teamID, name string) (*Role, error) {
	return s.findRoleByName(ctx, s.db, teamID, name)
}

func (s *Service) findRoleByName(ctx context.Context, db dbkit.IDB, teamID, name string) (*Role, error) {
	role := new(Role)
	err := dbkit.WithErr1(db.NewSelect().Model(role).Where("team_id = ? AND name = ?", teamID, name).Scan(ctx), "FindRoleByName").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if err := s.loadRoleCapabilities(ctx, db, []*Role{role}); err != nil {
		return nil, err
	}
	return role, nil
}

// getOrCreateCapability fetches the capability with the given code,
// creating it on first use. The conflict clause covers concurrent
// first-use races.
func (s *Service) getOrCreateCapability(ctx context.Context, db dbkit.IDB, code string) (*Capability, error) {
	capability := new(Capability)
	err := dbkit.WithErr1(db.NewSelect().Model(capability).Where("code = ?", code).Scan(ctx), "GetCapability").Err()
	if err == nil {
		return capability, nil
	}
	if !dbkit.IsNotFound(err) {
		return nil, err
	}

	capability = &Capability{Code: code}
	result, err := db.NewInsert().Model(capability).On("CONFLICT (code) DO NOTHING").Returning("*").Exec(ctx)
	if err = dbkit.WithErr(result, err, "CreateCapability").Err(); err != nil {
		return nil, err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Lost the race, re-read the winner
		err = dbkit.WithErr1(db.NewSelect().Model(capability).Where("code = ?", code).Scan(ctx), "GetCapability").Err()
		if err != nil {
			return nil, err
		}
	}
	return capability, nil
}

func (s *Service) linkCapability(ctx context.Context, db dbkit.IDB, roleID string, capability *Capability) error {
	link := &RoleCapability{RoleID: roleID, CapabilityID: capability.ID}
	result, err := db.NewInsert().Model(link).On("CONFLICT (role_id, capability_id) DO NOTHING").Exec(ctx)
	return dbkit.WithErr(result, err, "LinkCapability").Err()
}

// CountRoles returns the number of roles a team has.
func (s *Service) CountRoles(ctx context.Context, teamID string) (int, error) {
	return dbkit.Count[Role](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("team_id = ?", teamID)
	})
}
