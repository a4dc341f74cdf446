package teamkit

import (
	"context"
	"fmt"

	"github.com/fernandezvara/dbkit"
)

// schemaTables lists every table the migrations create, in dependency
// order. Ready probes each of them.
var schemaTables = []string{
	"teams",
	"team_roles",
	"capabilities",
	"role_capabilities",
	"team_members",
	"team_abilities",
	"team_groups",
	"team_invitations",
}

// HealthService provides health monitoring functionality as an extension to Service
type HealthService struct {
	*Service
}

// NewHealthService creates a new health service extension
func NewHealthService(service *Service) *HealthService {
	return &HealthService{Service: service}
}

// Health performs a comprehensive health check of the database connection.
// Returns detailed status including connection pool statistics and error information.
func (hs *HealthService) Health(ctx context.Context) dbkit.HealthStatus {
	if db, ok := hs.db.(*dbkit.DBKit); ok {
		return db.Health(ctx)
	}

	// Transaction-scoped or custom databases only get a basic ping
	return dbkit.HealthStatus{
		Healthy: hs.IsHealthy(ctx),
		Error:   "Limited health check - not a DBKit instance",
	}
}

// IsHealthy performs a simple health check of the database connection.
// Returns true if the database is reachable, false otherwise.
func (hs *HealthService) IsHealthy(ctx context.Context) bool {
	if db, ok := hs.db.(*dbkit.DBKit); ok {
		return db.IsHealthy(ctx)
	}

	return hs.Ping(ctx) == nil
}

// Ping performs a basic connectivity test to the database.
// Returns an error if the database is not reachable.
func (hs *HealthService) Ping(ctx context.Context) error {
	var result int
	return hs.db.NewSelect().Model((*struct{})(nil)).ColumnExpr("1").Limit(1).Scan(ctx, &result)
}

// Ready reports whether the database is reachable AND the schema is in
// place: a reachable database with missing tables reads as not ready.
// Intended for readiness endpoints that must hold traffic until
// RunMigrations has completed.
func (hs *HealthService) Ready(ctx context.Context) error {
	if err := hs.Ping(ctx); err != nil {
		return err
	}

	for _, table := range schemaTables {
		var count int
		err := hs.db.NewRaw("SELECT count(*) FROM "+table+" WHERE false").Scan(ctx, &count)
		if err = dbkit.WithErr1(err, "SchemaReady").Err(); err != nil {
			return fmt.Errorf("table %s not ready: %w", table, err)
		}
	}
	return nil
}

// GetPoolStats returns connection pool statistics for monitoring.
// Returns zero values if the database instance doesn't support pool statistics.
func (hs *HealthService) GetPoolStats() dbkit.PoolStats {
	if db, ok := hs.db.(*dbkit.DBKit); ok {
		sqlStats := db.Stats()
		return dbkit.PoolStatsFromSQL(sqlStats)
	}

	return dbkit.PoolStats{}
}
