package teamkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for TeamKit operations.
var (
	// ErrTeamNotFound is returned when a team lookup misses.
	ErrTeamNotFound = errors.New("teamkit: team not found")

	// ErrRoleNotFound is returned when a role lookup-and-mutate misses.
	ErrRoleNotFound = errors.New("teamkit: role not found")

	// ErrGroupNotFound is returned when a group lookup-and-mutate misses.
	ErrGroupNotFound = errors.New("teamkit: group not found")

	// ErrMemberNotFound is returned when removing a user who is not a member.
	ErrMemberNotFound = errors.New("teamkit: member not found")

	// ErrInvitationNotFound is returned when accepting or declining a
	// missing invitation.
	ErrInvitationNotFound = errors.New("teamkit: invitation not found")

	// ErrAbilityNotFound is returned when revoking a grant that does not exist.
	ErrAbilityNotFound = errors.New("teamkit: ability not found")

	// ErrRoleExists is returned when adding a role whose name is taken.
	ErrRoleExists = errors.New("teamkit: role already exists")

	// ErrGroupExists is returned when adding a group whose code is taken.
	ErrGroupExists = errors.New("teamkit: group already exists")

	// ErrAlreadyMember is returned when adding a user who is already a member.
	ErrAlreadyMember = errors.New("teamkit: user already a member")

	// ErrInvitationExists is returned when inviting an email with a
	// pending invitation.
	ErrInvitationExists = errors.New("teamkit: invitation already pending")

	// ErrAbilityExists is returned when granting an ability that is
	// already granted for the same action and entity.
	ErrAbilityExists = errors.New("teamkit: ability already granted")

	// ErrOwnerIsImplicit is returned when trying to add the team owner as
	// a member. The owner is never a membership row.
	ErrOwnerIsImplicit = errors.New("teamkit: owner membership is implicit")

	// ErrInvalidCapability is returned when a capability code is malformed.
	ErrInvalidCapability = errors.New("teamkit: invalid capability code")

	// ErrUnauthorized is returned by middleware when a user fails a check.
	ErrUnauthorized = errors.New("teamkit: unauthorized")

	// ErrNoUserID is returned when a user ID is not found in context.
	ErrNoUserID = errors.New("teamkit: no user ID in context")

	// ErrNoDirectory is returned by operations that need a UserDirectory
	// when none was configured.
	ErrNoDirectory = errors.New("teamkit: no user directory configured")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("teamkit: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err     error  // Underlying sentinel error
	Message string // Additional context
	TeamID  string // Team involved
	UserID  string // User involved (if applicable)
	Role    string // Role name involved (if applicable)
	Group   string // Group code involved (if applicable)
	Entity  Entity // Entity involved (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithTeam adds team information to the error.
func (e *Error) WithTeam(teamID string) *Error {
	e.TeamID = teamID
	return e
}

// WithUser adds user information to the error.
func (e *Error) WithUser(userID string) *Error {
	e.UserID = userID
	return e
}

// WithRole adds role information to the error.
func (e *Error) WithRole(role string) *Error {
	e.Role = role
	return e
}

// WithGroup adds group information to the error.
func (e *Error) WithGroup(code string) *Error {
	e.Group = code
	return e
}

// WithEntity adds entity information to the error.
func (e *Error) WithEntity(entity Entity) *Error {
	e.Entity = entity
	return e
}

// IsNotFound checks if an error is any of the not-found signals.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTeamNotFound) ||
		errors.Is(err, ErrRoleNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrInvitationNotFound) ||
		errors.Is(err, ErrAbilityNotFound)
}

// IsConflict checks if an error is any of the duplicate signals.
func IsConflict(err error) bool {
	return errors.Is(err, ErrRoleExists) ||
		errors.Is(err, ErrGroupExists) ||
		errors.Is(err, ErrAlreadyMember) ||
		errors.Is(err, ErrInvitationExists) ||
		errors.Is(err, ErrAbilityExists) ||
		errors.Is(err, ErrOwnerIsImplicit)
}

// IsUnauthorized checks if an error is an authorization error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
