package teamkit

import "time"

// AbilityFilter provides options for filtering ability grant queries.
type AbilityFilter struct {
	// Filter by owning team
	TeamID string

	// Filter by action string
	Action string

	// Filter by scoped entity
	EntityType string
	EntityID   string

	// Only team-wide grants (no entity scope)
	TeamWideOnly bool

	// Pagination
	Limit  int
	Offset int
}

// NewAbilityFilter creates a new AbilityFilter with default values.
func NewAbilityFilter() AbilityFilter {
	return AbilityFilter{
		Limit: 100,
	}
}

// WithTeam sets the team filter.
func (f AbilityFilter) WithTeam(teamID string) AbilityFilter {
	f.TeamID = teamID
	return f
}

// WithAction sets the action filter.
func (f AbilityFilter) WithAction(action string) AbilityFilter {
	f.Action = action
	return f
}

// WithEntity sets the entity filter.
func (f AbilityFilter) WithEntity(entity Entity) AbilityFilter {
	f.EntityType = entity.Type
	f.EntityID = entity.ID
	return f
}

// TeamWide restricts results to grants without an entity scope.
func (f AbilityFilter) TeamWide() AbilityFilter {
	f.TeamWideOnly = true
	return f
}

// WithPagination sets both limit and offset.
func (f AbilityFilter) WithPagination(limit, offset int) AbilityFilter {
	f.Limit = limit
	f.Offset = offset
	return f
}

// InvitationFilter provides options for filtering invitation queries.
type InvitationFilter struct {
	// Filter by owning team
	TeamID string

	// Filter by invited email
	Email string

	// Filter by time range
	Since time.Time
	Until time.Time

	// Pagination
	Limit  int
	Offset int
}

// NewInvitationFilter creates a new InvitationFilter with default values.
func NewInvitationFilter() InvitationFilter {
	return InvitationFilter{
		Limit: 100,
	}
}

// WithTeam sets the team filter.
func (f InvitationFilter) WithTeam(teamID string) InvitationFilter {
	f.TeamID = teamID
	return f
}

// WithEmail sets the email filter.
func (f InvitationFilter) WithEmail(email string) InvitationFilter {
	f.Email = email
	return f
}

// WithTimeRange sets the time range filter.
func (f InvitationFilter) WithTimeRange(since, until time.Time) InvitationFilter {
	f.Since = since
	f.Until = until
	return f
}

// WithPagination sets both limit and offset.
func (f InvitationFilter) WithPagination(limit, offset int) InvitationFilter {
	f.Limit = limit
	f.Offset = offset
	return f
}
