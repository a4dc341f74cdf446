package teamkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPoolConfigPresets tests the pool configuration presets
func TestPoolConfigPresets(t *testing.T) {
	base := DefaultPoolConfig()
	assert.NotZero(t, base.MaxOpenConnections)
	assert.NotZero(t, base.MaxIdleConnections)

	high := HighPerformancePoolConfig()
	assert.Greater(t, high.MaxOpenConnections, base.MaxOpenConnections)

	low := LowResourcePoolConfig()
	assert.Less(t, low.MaxOpenConnections, base.MaxOpenConnections)
}

// TestMigrationList tests that the migration list is well-formed
func TestMigrationList(t *testing.T) {
	ms := NewMigrationService(NewService(nil))
	migrations := ms.Migrations()

	require.NotEmpty(t, migrations)

	seen := make(map[string]bool)
	for _, m := range migrations {
		assert.NotEmpty(t, m.ID)
		assert.NotEmpty(t, m.Description)
		assert.NotEmpty(t, m.SQL)
		assert.False(t, seen[m.ID], "duplicate migration ID %s", m.ID)
		seen[m.ID] = true
	}
}

// TestSchemaTablesMatchMigrations tests that the readiness probe list
// covers exactly the tables the migrations create
func TestSchemaTablesMatchMigrations(t *testing.T) {
	migrations := NewMigrationService(NewService(nil)).Migrations()
	require.Equal(t, len(migrations), len(schemaTables))

	for _, table := range schemaTables {
		found := false
		for _, m := range migrations {
			if strings.Contains(m.SQL, "CREATE TABLE IF NOT EXISTS "+table+" ") {
				found = true
				break
			}
		}
		assert.True(t, found, "no migration creates table %s", table)
	}
}

// TestHealthService tests health monitoring against the database
func TestHealthService(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	ctx := helper.GetContext()

	hs := NewHealthService(helper.GetService())

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, hs.Ping(ctx))
	})

	t.Run("IsHealthy", func(t *testing.T) {
		assert.True(t, hs.IsHealthy(ctx))
	})

	t.Run("Health", func(t *testing.T) {
		status := hs.Health(ctx)

		assert.True(t, status.Healthy)
	})

	t.Run("GetPoolStats", func(t *testing.T) {
		stats := hs.GetPoolStats()

		assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	})

	t.Run("Ready after migrations", func(t *testing.T) {
		assert.NoError(t, hs.Ready(ctx))
	})
}

// TestPoolService tests pool configuration against the database
func TestPoolService(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}

	ps := NewPoolService(helper.GetService())

	t.Run("Configure and read back", func(t *testing.T) {
		err := ps.ConfigureConnectionPool(PoolConfig{
			MaxOpenConnections: 7,
			MaxIdleConnections: 3,
		})
		require.NoError(t, err)

		config, err := ps.GetConnectionPoolConfig()
		require.NoError(t, err)
		assert.Equal(t, 7, config.MaxOpenConnections)
	})

	t.Run("Reset to defaults", func(t *testing.T) {
		err := ps.ResetConnectionPool()
		require.NoError(t, err)

		config, err := ps.GetConnectionPoolConfig()
		require.NoError(t, err)
		assert.Equal(t, DefaultPoolConfig().MaxOpenConnections, config.MaxOpenConnections)
	})
}

// TestRunMigrationsIdempotent tests that migrations can run twice
func TestRunMigrationsIdempotent(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	ctx := helper.GetContext()

	ms := NewMigrationService(helper.GetService())

	// SetupTestDatabase already ran them once; a second run applies nothing
	status, err := ms.RunMigrations(ctx)
	require.NoError(t, err)

	assert.Empty(t, status.Applied)
	assert.Equal(t, len(ms.Migrations()), status.Total)
}
