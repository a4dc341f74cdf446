package teamkit

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// GROUP OPERATIONS
// ============================================================================

// AddGroup creates a group scoped to the team. Codes are unique per
// team; a taken code returns ErrGroupExists. Groups partition a team's
// membership for organizational purposes and carry no rights semantics.
//
// Example:
//
//	group, err := service.AddGroup(ctx, teamID, "backend", "Backend Guild")
func (s *Service) AddGroup(ctx context.Context, teamID, code, name string) (*Group, error) {
	if code == "" {
		return nil, NewError(ErrGroupNotFound, "group code cannot be empty").WithTeam(teamID)
	}

	group := &Group{TeamID: teamID, Code: code, Name: name}
	err := s.Transaction(ctx, func(ctx context.Context, db dbkit.IDB) error {
		taken, err := dbkit.Exists[Group](ctx, db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("team_id = ? AND code = ?", teamID, code)
		})
		if err != nil {
			return dbkit.WithErr1(err, "CheckGroupCode").Err()
		}
		if taken {
			return NewError(ErrGroupExists, "team already has a group with this code").
				WithTeam(teamID).
				WithGroup(code)
		}

		result, err := db.NewInsert().Model(group).Returning("*").Exec(ctx)
		return dbkit.WithErr(result, err, "CreateGroup").Err()
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup finds the first group matching code within the team,
// deletes it, and returns it. Returns ErrGroupNotFound when the code
// misses.
func (s *Service) DeleteGroup(ctx context.Context, teamID, code string) (*Group, error) {
	var group *Group
	err := s.Transaction(ctx, func(ctx context.Context, db dbkit.IDB) error {
		var txErr error
		group, txErr = s.findGroup(ctx, db, teamID, code)
		if txErr != nil {
			return txErr
		}
		if group == nil {
			return NewError(ErrGroupNotFound, "no group with this code").
				WithTeam(teamID).
				WithGroup(code)
		}

		result, err := db.NewDelete().Table("team_groups").Where("id = ?", group.ID).Exec(ctx)
		return dbkit.WithErr(result, err, "DeleteGroup").Err()
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// Group returns the first group matching code within the team, or nil
// with a nil error when the code misses.
func (s *Service) Group(ctx context.Context, teamID, code string) (*Group, error) {
	return s.findGroup(ctx, s.db, teamID, code)
}

func (s *Service) findGroup(ctx context.Context, db dbkit.IDB, teamID, code string) (*Group, error) {
	group := new(Group)
	err := dbkit.WithErr1(db.NewSelect().Model(group).Where("team_id = ? AND code = ?", teamID, code).Order("created_at ASC").Limit(1).Scan(ctx), "FindGroup").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return group, nil
}
