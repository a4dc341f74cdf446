package teamkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Database defines the database operations interface for dependency injection
type Database interface {
	dbkit.IDB
}

// TransactionManager defines the transaction management interface
type TransactionManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context, db dbkit.IDB) error) error
	TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context, db dbkit.IDB) error) error
	ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, db dbkit.IDB) error) error
}

// MigrationManager defines the migration management interface
type MigrationManager interface {
	Migrations() []dbkit.Migration
	RunMigrations(ctx context.Context) (*MigrationStatus, error)
}

// HealthMonitor defines the health monitoring interface
type HealthMonitor interface {
	Health(ctx context.Context) dbkit.HealthStatus
	IsHealthy(ctx context.Context) bool
	Ping(ctx context.Context) error
	GetPoolStats() dbkit.PoolStats
}

// PoolManager defines the connection pool management interface
type PoolManager interface {
	ConfigureConnectionPool(config PoolConfig) error
	GetConnectionPoolConfig() (*PoolConfig, error)
	ResetConnectionPool() error
}

// TransactionMonitor defines the transaction monitoring interface
type TransactionMonitor interface {
	GetTransactionMetrics() TransactionMetrics
	ResetTransactionMetrics()
	IsTransactionHealthy() bool
}

// User is the external user collaborator. Users live outside TeamKit;
// only identity and email are required. Equality is by UserID.
type User interface {
	UserID() string
	Email() string
}

// TeamOwner is an optional User extension. Ownership of multiple teams
// is tracked on the user side, so Team.HasUser consults this predicate
// when the User implements it.
type TeamOwner interface {
	OwnsTeam(teamID string) bool
}

// UserDirectory resolves user IDs to Users. Configure one with
// WithUserDirectory to enable Service.TeamUsers and
// Service.HasUserWithEmail.
type UserDirectory interface {
	UsersByID(ctx context.Context, ids []string) ([]User, error)
}
