package teamkit

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// ABILITY GRANT OPERATIONS
// ============================================================================

// GrantAbility attaches a direct action grant to a team. With no entity
// the grant is team-wide; with one it applies only to checks targeting
// that exact entity. Action strings are free-form; capability codes are
// the common case. Granting the same action and entity twice returns
// ErrAbilityExists.
//
// Example:
//
//	service.GrantAbility(ctx, teamID, "edit-post")                                // team-wide
//	service.GrantAbility(ctx, teamID, "edit-post", teamkit.NewEntity("Post", "5")) // Post#5 only
func (s *Service) GrantAbility(ctx context.Context, teamID, action string, entity ...Entity) (*Ability, error) {
	if action == "" {
		return nil, NewError(ErrInvalidCapability, "ability action cannot be empty").WithTeam(teamID)
	}
	target := Entity{}
	if len(entity) > 0 {
		target = entity[0]
	}

	ability := &Ability{
		TeamID:     teamID,
		Action:     action,
		EntityType: target.Type,
		EntityID:   target.ID,
	}
	err := s.Transaction(ctx, func(ctx context.Context, db dbkit.IDB) error {
		exists, err := dbkit.Exists[Ability](ctx, db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("team_id = ? AND action = ? AND entity_type = ? AND entity_id = ?",
				teamID, action, target.Type, target.ID)
		})
		if err != nil {
			return dbkit.WithErr1(err, "CheckAbility").Err()
		}
		if exists {
			return NewError(ErrAbilityExists, "grant already present for this action and entity").
				WithTeam(teamID).
				WithEntity(target)
		}

		result, err := db.NewInsert().Model(ability).Returning("*").Exec(ctx)
		return dbkit.WithErr(result, err, "CreateAbility").Err()
	})
	if err != nil {
		return nil, err
	}
	return ability, nil
}

// RevokeAbility removes the grant matching action and entity. Returns
// ErrAbilityNotFound when no such grant exists.
func (s *Service) RevokeAbility(ctx context.Context, teamID, action string, entity ...Entity) error {
	target := Entity{}
	if len(entity) > 0 {
		target = entity[0]
	}

	result, err := s.db.NewDelete().Table("team_abilities").
		Where("team_id = ? AND action = ? AND entity_type = ? AND entity_id = ?",
			teamID, action, target.Type, target.ID).Exec(ctx)
	if err = dbkit.WithErr(result, err, "RevokeAbility").Err(); err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return NewError(ErrAbilityNotFound, "no grant for this action and entity").
			WithTeam(teamID).
			WithEntity(target)
	}
	return nil
}

// ListAbilities retrieves ability grants with optional filters.
func (s *Service) ListAbilities(ctx context.Context, filter AbilityFilter) ([]Ability, error) {
	var abilities []Ability
	q := s.db.NewSelect().Model(&abilities)
	if filter.TeamID != "" {
		q = q.Where("team_id = ?", filter.TeamID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	if filter.TeamWideOnly {
		q = q.Where("entity_type = '' AND entity_id = ''")
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
	err := dbkit.WithErr1(q.Scan(ctx), "ListAbilities").Err()
	if err != nil {
		return nil, err
	}

	return abilities, nil
}
