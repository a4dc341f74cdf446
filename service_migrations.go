package teamkit

import (
	"context"
	"fmt"

	"github.com/fernandezvara/dbkit"
)

// MigrationService provides migration management functionality as an extension to Service
type MigrationService struct {
	*Service
}

// NewMigrationService creates a new migration service extension
func NewMigrationService(service *Service) *MigrationService {
	return &MigrationService{Service: service}
}

// MigrationStatus summarizes a migration run.
type MigrationStatus struct {
	// IDs of migrations applied by this run
	Applied []string

	// Total number of known migrations
	Total int
}

// RunMigrations applies all pending migrations. Requires a *dbkit.DBKit
// instance; transaction-scoped databases cannot run migrations.
func (ms *MigrationService) RunMigrations(ctx context.Context) (*MigrationStatus, error) {
	db, ok := ms.db.(*dbkit.DBKit)
	if !ok {
		return nil, fmt.Errorf("migrations require a dbkit.DBKit instance")
	}

	migrations := ms.Migrations()
	result, err := db.Migrate(ctx, migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	status := &MigrationStatus{Total: len(migrations)}
	for _, migration := range result.Applied {
		status.Applied = append(status.Applied, migration.ID)
	}
	return status, nil
}

// Migrations returns all database migrations required for TeamKit.
// Use dbkit's Migrate with this list, or call RunMigrations.
func (ms *MigrationService) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "teamkit-001",
			Description: "Create teams table",
			SQL: `
                CREATE TABLE IF NOT EXISTS teams (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    owner_id TEXT NOT NULL,
                    name TEXT NOT NULL,
                    created_at TIMESTAMPTZ DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "teamkit-002",
			Description: "Create team_roles table",
			SQL: `
                CREATE TABLE IF NOT EXISTS team_roles (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    team_id UUID NOT NULL REFERENCES teams(id),
                    name TEXT NOT NULL,
                    created_at TIMESTAMPTZ DEFAULT current_timestamp,
                    UNIQUE (team_id, name)
                )`,
		},
		{
			ID:          "teamkit-003",
			Description: "Create capabilities table",
			SQL: `
                CREATE TABLE IF NOT EXISTS capabilities (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    code TEXT NOT NULL UNIQUE,
                    created_at TIMESTAMPTZ DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "teamkit-004",
			Description: "Create role_capabilities table",
			SQL: `
                CREATE TABLE IF NOT EXISTS role_capabilities (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    role_id UUID NOT NULL REFERENCES team_roles(id),
                    capability_id UUID NOT NULL REFERENCES capabilities(id),
                    created_at TIMESTAMPTZ DEFAULT current_timestamp,
                    UNIQUE (role_id, capability_id)
                )`,
		},
		{
			ID:          "teamkit-005",
			Description: "Create team_members table",
			SQL: `
                CREATE TABLE IF NOT EXISTS team_members (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    team_id UUID NOT NULL REFERENCES teams(id),
                    user_id TEXT NOT NULL,
                    role_id UUID REFERENCES team_roles(id),
                    created_at TIMESTAMPTZ DEFAULT current_timestamp,
                    UNIQUE (team_id, user_id)
                )`,
		},
		{
			ID:          "teamkit-006",
			Description: "Create team_abilities table",
			SQL: `
                CREATE TABLE IF NOT EXISTS team_abilities (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    team_id UUID NOT NULL REFERENCES teams(id),
                    action TEXT NOT NULL,
                    entity_type TEXT NOT NULL DEFAULT '',
                    entity_id TEXT NOT NULL DEFAULT '',
                    created_at TIMESTAMPTZ DEFAULT current_timestamp,
                    UNIQUE (team_id, action, entity_type, entity_id)
                )`,
		},
		{
			ID:          "teamkit-007",
			Description: "Create team_groups table",
			SQL: `
                CREATE TABLE IF NOT EXISTS team_groups (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    team_id UUID NOT NULL REFERENCES teams(id),
                    code TEXT NOT NULL,
                    name TEXT NOT NULL,
                    created_at TIMESTAMPTZ DEFAULT current_timestamp,
                    UNIQUE (team_id, code)
                )`,
		},
		{
			ID:          "teamkit-008",
			Description: "Create team_invitations table",
			SQL: `
                CREATE TABLE IF NOT EXISTS team_invitations (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    team_id UUID NOT NULL REFERENCES teams(id),
                    email TEXT NOT NULL,
                    created_at TIMESTAMPTZ DEFAULT current_timestamp,
                    UNIQUE (team_id, email)
                )`,
		},
	}
}
