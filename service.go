package teamkit

import (
	"github.com/fernandezvara/dbkit"
)

// Service provides team, role, and permission management backed by dbkit.
//
// Error Handling:
// All database operations use dbkit's chainable error wrapping to
// provide context about failed operations. Lookup misses surface as
// TeamKit sentinel errors (ErrRoleNotFound, ErrGroupNotFound, ...) that
// callers classify with errors.Is; only unexpected storage failures
// propagate as other errors.
//
// Example:
//
//	err := service.AddRole(ctx, teamID, "editor", []string{"edit-post"})
//	if errors.Is(err, teamkit.ErrRoleExists) {
//	    // duplicate role name
//	}
type Service struct {
	db        dbkit.IDB
	policy    Policy
	directory UserDirectory
	txMonitor *transactionMonitor
}

// Option configures the Service.
type Option func(*Service)

// WithPolicy sets the service policy.
func WithPolicy(p Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithUserDirectory sets the user directory used to resolve user IDs to
// Users for TeamUsers and HasUserWithEmail.
func WithUserDirectory(d UserDirectory) Option {
	return func(s *Service) {
		s.directory = d
	}
}

// NewService creates a new TeamKit service.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := teamkit.NewService(db, teamkit.WithUserDirectory(users))
func NewService(db dbkit.IDB, opts ...Option) *Service {
	s := &Service{
		db:        db,
		policy:    DefaultPolicy(),
		txMonitor: newTransactionMonitor(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Policy returns the service policy.
func (s *Service) Policy() Policy {
	return s.policy
}
