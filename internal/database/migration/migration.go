package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id                 TEXT        PRIMARY KEY,
  email              TEXT        NOT NULL UNIQUE,
  plan               TEXT        NOT NULL DEFAULT 'free',
  uploads_today      INTEGER     NOT NULL DEFAULT 0,
  uploads_today_date DATE        NULL
);`,
	},
	{
		Name: "create_table_photos",
		SQL: `CREATE TABLE IF NOT EXISTS photos (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  owner_id          TEXT        NOT NULL REFERENCES users (id),
  storage_key       TEXT        NOT NULL UNIQUE,
  original_filename TEXT        NOT NULL,
  content_type      TEXT        NOT NULL,
  size_bytes        BIGINT      NOT NULL CHECK (size_bytes >= 0),
  uploaded_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  description       TEXT        NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_table_hashtags",
		SQL: `CREATE TABLE IF NOT EXISTS hashtags (
  id  UUID PRIMARY KEY,
  tag TEXT NOT NULL UNIQUE
);`,
	},
	{
		Name: "create_table_photo_hashtags",
		SQL: `CREATE TABLE IF NOT EXISTS photo_hashtags (
  photo_id   UUID NOT NULL REFERENCES photos (id) ON DELETE CASCADE,
  hashtag_id UUID NOT NULL REFERENCES hashtags (id),
  PRIMARY KEY (photo_id, hashtag_id)
);`,
	},
	{
		Name: "create_table_action_logs",
		SQL: `CREATE TABLE IF NOT EXISTS action_logs (
  id            BIGSERIAL   PRIMARY KEY,
  user_id       TEXT        NULL,
  user_email    TEXT        NULL,
  action        TEXT        NOT NULL,
  entity_type   TEXT        NULL,
  entity_id     TEXT        NULL,
  timestamp_utc TIMESTAMPTZ NOT NULL DEFAULT now(),
  details       TEXT        NULL
);`,
	},
	{
		Name: "create_index_photos_owner_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_photos_owner_id ON photos (owner_id);`,
	},
	{
		Name: "create_index_photos_uploaded_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_photos_uploaded_at ON photos (uploaded_at);`,
	},
	{
		Name: "create_index_photo_hashtags_hashtag_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_photo_hashtags_hashtag_id ON photo_hashtags (hashtag_id);`,
	},
	{
		Name: "create_index_action_logs_timestamp_utc",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_action_logs_timestamp_utc ON action_logs (timestamp_utc);`,
	},
}

// EnsureMigrated checks if the 'photos' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.photos') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
