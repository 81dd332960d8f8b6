// ABOUTME: Registered schema migrations, numbered from 1.
// ABOUTME: Each step builds on the schema registry definitions in schema.go.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/harperreed/lift/internal/models"
)

// CurrentSchemaVersion is the version a fully migrated database reports.
const CurrentSchemaVersion = 6

var migrations = map[int]Migration{
	1: migrateWorkoutTables,
	2: migrateRecordsAndSettings,
	3: migratePrograms,
	4: migrateProgramSetTargets,
	5: migrateSyncQueue,
	6: migrateExerciseNormalizedName,
}

func migrateWorkoutTables(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		ddlWorkoutTemplates,
		ddlExerciseTemplates,
		ddlWorkoutSessions,
		ddlExercises,
		ddlWorkoutSets,
	}
	return execAll(ctx, tx, append(stmts, indexesV1...)...)
}

func migrateRecordsAndSettings(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		ddlPRRecords,
		ddlUserSettings,
		`INSERT OR IGNORE INTO user_settings (id) VALUES (1)`,
	)
}

func migratePrograms(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		ddlPrograms,
		ddlProgramDays,
		ddlProgramDayExercises,
		ddlProgramHistory,
		`ALTER TABLE workout_sessions ADD COLUMN program_id TEXT REFERENCES programs(id) ON DELETE SET NULL`,
		`ALTER TABLE workout_sessions ADD COLUMN program_day_id TEXT REFERENCES program_days(id) ON DELETE SET NULL`,
	}
	return execAll(ctx, tx, append(stmts, indexesV3...)...)
}

// migrateProgramSetTargets adds per-set targets and expands the legacy
// target_sets/target_reps/target_weight prescription into set rows.
func migrateProgramSetTargets(ctx context.Context, tx *sql.Tx) error {
	if err := execAll(ctx, tx, append([]string{ddlProgramDayExerciseSets}, indexesV4...)...); err != nil {
		return err
	}

	type legacy struct {
		id     string
		sets   int
		reps   *int
		weight *float64
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT e.id, e.target_sets, e.target_reps, e.target_weight
		FROM program_day_exercises e
		WHERE e.target_sets IS NOT NULL AND e.target_sets > 0
		  AND NOT EXISTS (SELECT 1 FROM program_day_exercise_sets s WHERE s.exercise_id = e.id)
	`)
	if err != nil {
		return fmt.Errorf("query legacy targets: %w", err)
	}
	var pending []legacy
	for rows.Next() {
		var l legacy
		if err := rows.Scan(&l.id, &l.sets, &l.reps, &l.weight); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan legacy targets: %w", err)
		}
		pending = append(pending, l)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, l := range pending {
		for n := 1; n <= l.sets; n++ {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO program_day_exercise_sets (id, exercise_id, set_number, target_reps, target_weight)
				VALUES (?, ?, ?, ?, ?)
			`, uuid.NewString(), l.id, n, l.reps, l.weight)
			if err != nil {
				return fmt.Errorf("backfill set targets for %s: %w", l.id, err)
			}
		}
	}
	return nil
}

func migrateSyncQueue(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, append([]string{ddlSyncQueue}, indexesV5...)...)
}

// migrateExerciseNormalizedName stores each exercise's normalized name so
// grouping in SQL matches models.NormalizeExerciseName exactly. SQLite's
// LOWER and TRIM only handle ASCII letters and spaces.
func migrateExerciseNormalizedName(ctx context.Context, tx *sql.Tx) error {
	err := execAll(ctx, tx, `ALTER TABLE exercises ADD COLUMN normalized_name TEXT NOT NULL DEFAULT ''`)
	if err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, `SELECT id, name FROM exercises`)
	if err != nil {
		return fmt.Errorf("query exercise names: %w", err)
	}
	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan exercise name: %w", err)
		}
		names[id] = models.NormalizeExerciseName(name)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for id, normalized := range names {
		if _, err := tx.ExecContext(ctx, `UPDATE exercises SET normalized_name = ? WHERE id = ?`, normalized, id); err != nil {
			return fmt.Errorf("backfill normalized name for %s: %w", id, err)
		}
	}
	return execAll(ctx, tx, indexesV6...)
}
