package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// migrate creates the schema. The DDL is shared by sqlite and postgres;
// timestamps are stored as fixed-width UTC text so they compare lexically.
func migrate(ctx context.Context, db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			subject_id TEXT NOT NULL DEFAULT '',
			store_id TEXT NOT NULL DEFAULT '',
			grade TEXT NOT NULL,
			gender TEXT NOT NULL,
			height DOUBLE PRECISION,
			weight DOUBLE PRECISION,
			grip_right DOUBLE PRECISION,
			grip_left DOUBLE PRECISION,
			jump DOUBLE PRECISION,
			dash DOUBLE PRECISION,
			dash_distance INTEGER NOT NULL DEFAULT 0,
			doublejump DOUBLE PRECISION,
			squat DOUBLE PRECISION,
			sidestep DOUBLE PRECISION,
			throw DOUBLE PRECISION,
			ball_diameter DOUBLE PRECISION NOT NULL DEFAULT 0,
			ball_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
			measured_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_measured_at ON records(measured_at)`,
		`CREATE INDEX IF NOT EXISTS idx_records_group ON records(grade, gender)`,
		`CREATE INDEX IF NOT EXISTS idx_records_store ON records(store_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_subject ON records(subject_id)`,

		`CREATE TABLE IF NOT EXISTS trainings (
			ability_key TEXT NOT NULL,
			age_group TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			reps TEXT NOT NULL DEFAULT '',
			effect TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trainings_ability ON trainings(ability_key, age_group)`,
	}

	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}
