package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_media",
		SQL: `CREATE TABLE IF NOT EXISTS media (
  id            UUID        PRIMARY KEY,
  media_url     TEXT        NOT NULL,
  storage_key   TEXT        NOT NULL UNIQUE,
  file_type     TEXT        NOT NULL CHECK (file_type IN ('glb', 'gltf')),
  original_name TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_media_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_media_created_at ON media (created_at DESC, id DESC);`,
	},
	{
		Name: "create_table_settings",
		SQL: `CREATE TABLE IF NOT EXISTS settings (
  id               UUID        PRIMARY KEY,
  media_id         UUID        NOT NULL UNIQUE REFERENCES media (id) ON DELETE CASCADE,
  background_color TEXT        NOT NULL,
  wireframe_mode   BOOLEAN     NOT NULL DEFAULT false,
  material_type    TEXT        NOT NULL DEFAULT 'standard'
                   CHECK (material_type IN ('standard', 'metallic', 'plastic', 'leather')),
  hdri_preset      TEXT        NOT NULL DEFAULT 'sunset'
                   CHECK (hdri_preset IN ('sunset', 'dawn', 'night', 'warehouse', 'forest', 'apartment', 'studio', 'city')),
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated creates the schema unless the sentinel 'settings' table exists.
// The settings table is created last, so its presence means every step ran.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass('public.settings') IS NOT NULL").Scan(&exists)
	if err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("msg", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
