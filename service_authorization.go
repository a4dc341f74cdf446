package teamkit

import "context"

// ============================================================================
// AUTHORIZATION
// ============================================================================

// GetChecker loads a team and creates a Checker for a user against it.
// The checker can be stored in context for use in handlers.
func (s *Service) GetChecker(ctx context.Context, teamID, userID string) (*Checker, error) {
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return NewChecker(userID, team, s.policy), nil
}

// GetCheckerFromContext creates a Checker using the user ID from context.
func (s *Service) GetCheckerFromContext(ctx context.Context, teamID string) (*Checker, error) {
	userID := GetUserID(ctx)
	if userID == "" {
		return nil, ErrNoUserID
	}
	return s.GetChecker(ctx, teamID, userID)
}

// HasCapability checks if a user may perform a capability in a team,
// optionally against a specific entity. A denied check and a failed
// lookup both read as false; use GetChecker when storage errors must be
// distinguished.
//
// Example:
//
//	if service.HasCapability(ctx, teamID, userID, "edit-post") {
//	    // allowed
//	}
func (s *Service) HasCapability(ctx context.Context, teamID, userID, code string, entity ...Entity) bool {
	checker, err := s.GetChecker(ctx, teamID, userID)
	if err != nil {
		return false
	}
	return checker.HasCapability(code, entity...)
}

// HasAnyCapability checks if a user has at least one of the capabilities.
func (s *Service) HasAnyCapability(ctx context.Context, teamID, userID string, codes []string, entity ...Entity) bool {
	checker, err := s.GetChecker(ctx, teamID, userID)
	if err != nil {
		return false
	}
	return checker.HasAnyCapability(codes, entity...)
}

// HasAllCapabilities checks if a user has every one of the capabilities.
func (s *Service) HasAllCapabilities(ctx context.Context, teamID, userID string, codes []string, entity ...Entity) bool {
	checker, err := s.GetChecker(ctx, teamID, userID)
	if err != nil {
		return false
	}
	return checker.HasAllCapabilities(codes, entity...)
}

// HasCapabilities checks a capability list with any-of or all-of
// semantics selected by requireAll.
func (s *Service) HasCapabilities(ctx context.Context, teamID, userID string, codes []string, requireAll bool, entity ...Entity) bool {
	checker, err := s.GetChecker(ctx, teamID, userID)
	if err != nil {
		return false
	}
	return checker.HasCapabilities(codes, requireAll, entity...)
}

// IsOwner checks if a user owns a team.
func (s *Service) IsOwner(ctx context.Context, teamID, userID string) bool {
	checker, err := s.GetChecker(ctx, teamID, userID)
	if err != nil {
		return false
	}
	return checker.IsOwner()
}

// IsMember checks if a user is a member or the owner of a team.
func (s *Service) IsMember(ctx context.Context, teamID, userID string) bool {
	checker, err := s.GetChecker(ctx, teamID, userID)
	if err != nil {
		return false
	}
	return checker.IsMember()
}

// UserRole resolves a user's role binding in a team: the Owner sentinel
// for the owner, the membership's role for members with one, ok=false
// otherwise.
func (s *Service) UserRole(ctx context.Context, teamID, userID string) (RoleBinding, bool, error) {
	checker, err := s.GetChecker(ctx, teamID, userID)
	if err != nil {
		return RoleBinding{}, false, err
	}
	binding, ok := checker.RoleBinding()
	return binding, ok, nil
}
