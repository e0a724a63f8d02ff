package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pantryapi/internal/logger"
)

type migrationStep struct {
	Name string
	SQL  string
}

// SentinelTable is checked before running; when it exists the schema is considered current.
const SentinelTable = "pantry_items"

var steps = []migrationStep{
	{
		Name: "create_table_pantry_items",
		SQL: `CREATE TABLE IF NOT EXISTS pantry_items (
  id         BIGSERIAL   PRIMARY KEY,
  name       TEXT        NOT NULL,
  quantity   INTEGER     NOT NULL DEFAULT 0,
  unit       TEXT        NOT NULL DEFAULT 'units',
  added_date TIMESTAMPTZ NOT NULL,
  barcode    TEXT        NULL,
  CONSTRAINT pantry_items_barcode_key UNIQUE (barcode)
);`,
	},
	{
		Name: "create_index_pantry_items_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_pantry_items_name ON pantry_items (name);`,
	},
}

// EnsureMigrated checks if the pantry_items table exists and runs the schema steps if it doesn't.
// Every step is idempotent, so a partially applied schema is completed on the next run.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logger.Logger, dbHost string) error {
	start := time.Now()
	ctx = log.WithField(ctx, "component", "database")

	log.Info(ctx).Str("event", "db_migration_check").Str("db_host", dbHost).Msg("checking schema")

	var exists bool
	query := "SELECT to_regclass('public." + SentinelTable + "') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error(ctx, err).
			Str("event", "db_migration_failed").
			Str("db_host", dbHost).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info(ctx).
			Str("event", "db_migration_skip").
			Str("db_host", dbHost).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info(ctx).Str("event", "db_migration_start").Str("db_host", dbHost).Msg("applying schema")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error(ctx, err).
				Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Str("db_host", dbHost).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info(ctx).
			Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	log.Info(ctx).
		Str("event", "db_migration_success").
		Str("db_host", dbHost).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema ready")

	return nil
}
