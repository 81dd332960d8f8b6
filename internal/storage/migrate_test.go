// ABOUTME: Tests for the versioned migration engine.
// ABOUTME: Covers fresh databases, idempotence, gaps, failures, and backfill.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRawDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "raw.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func createTableStep(name string) Migration {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "CREATE TABLE "+name+" (id TEXT PRIMARY KEY)")
		return err
	}
}

func TestMigrateFreshDatabase(t *testing.T) {
	ctx := context.Background()
	db := openRawDB(t)

	require.NoError(t, DefaultMigrator(nil).Apply(ctx, db))

	v, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, v)
	for _, table := range Tables {
		assert.True(t, tableExists(t, db, table), "missing table %s", table)
	}

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM user_settings`).Scan(&rows))
	assert.Equal(t, 1, rows, "default settings row")
}

func TestMigrateUpToDateDoesNothing(t *testing.T) {
	ctx := context.Background()
	db := openRawDB(t)
	require.NoError(t, DefaultMigrator(nil).Apply(ctx, db))

	ran := false
	trap := map[int]Migration{}
	for i := 1; i <= CurrentSchemaVersion; i++ {
		trap[i] = func(context.Context, *sql.Tx) error {
			ran = true
			return errors.New("should not run")
		}
	}

	require.NoError(t, NewMigrator(trap, CurrentSchemaVersion, nil).Apply(ctx, db))
	require.NoError(t, DefaultMigrator(nil).Apply(ctx, db))
	assert.False(t, ran)

	v, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, v)
}

func TestMigrateRunsStepsInOrder(t *testing.T) {
	ctx := context.Background()
	db := openRawDB(t)

	var order []int
	step := func(n int) Migration {
		return func(context.Context, *sql.Tx) error {
			order = append(order, n)
			return nil
		}
	}
	steps := map[int]Migration{1: step(1), 2: step(2), 3: step(3), 4: step(4)}

	require.NoError(t, NewMigrator(steps, 2, nil).Apply(ctx, db))
	assert.Equal(t, []int{1, 2}, order)

	m := NewMigrator(steps, 4, nil)
	pending, err := m.Pending(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, pending)

	require.NoError(t, m.Apply(ctx, db))
	assert.Equal(t, []int{1, 2, 3, 4}, order)

	v, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}

func TestMigrateMissingStep(t *testing.T) {
	ctx := context.Background()
	db := openRawDB(t)

	steps := map[int]Migration{1: createTableStep("a"), 3: createTableStep("c")}
	err := NewMigrator(steps, 3, nil).Apply(ctx, db)

	var notFound *MigrationNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 2, notFound.Version)

	v, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "steps before the gap stay applied")
	assert.False(t, tableExists(t, db, "c"))
}

func TestMigrateFailedStepRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openRawDB(t)

	cause := errors.New("boom")
	steps := map[int]Migration{
		1: createTableStep("a"),
		2: func(ctx context.Context, tx *sql.Tx) error {
			if err := createTableStep("b")(ctx, tx); err != nil {
				return err
			}
			return cause
		},
	}
	err := NewMigrator(steps, 2, nil).Apply(ctx, db)

	var execErr *MigrationExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 2, execErr.Version)
	assert.ErrorIs(t, err, cause)

	v, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.True(t, tableExists(t, db, "a"))
	assert.False(t, tableExists(t, db, "b"), "partial step must roll back")

	// A fixed step picks up from the last good version.
	steps[2] = createTableStep("b")
	require.NoError(t, NewMigrator(steps, 2, nil).Apply(ctx, db))
	assert.True(t, tableExists(t, db, "b"))
}

func TestMigrateBackfillsLegacySetTargets(t *testing.T) {
	ctx := context.Background()
	db := openRawDB(t)

	require.NoError(t, NewMigrator(migrations, 3, nil).Apply(ctx, db))

	stmts := []string{
		`INSERT INTO programs (id, name, created_at, updated_at) VALUES ('p1', 'Legacy', 0, 0)`,
		`INSERT INTO program_days (id, program_id, day_index, name) VALUES ('d1', 'p1', 0, 'Day 1')`,
		`INSERT INTO program_day_exercises (id, day_id, exercise_name, sort_order, target_sets, target_reps, target_weight)
		 VALUES ('e1', 'd1', 'Squat', 0, 3, 5, 225)`,
		`INSERT INTO program_day_exercises (id, day_id, exercise_name, sort_order)
		 VALUES ('e2', 'd1', 'Plank', 1)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, DefaultMigrator(nil).Apply(ctx, db))

	rows, err := db.Query(`SELECT exercise_id, set_number, target_reps, target_weight FROM program_day_exercise_sets ORDER BY set_number`)
	require.NoError(t, err)
	defer rows.Close()

	var numbers []int
	for rows.Next() {
		var exerciseID string
		var n, reps int
		var weight float64
		require.NoError(t, rows.Scan(&exerciseID, &n, &reps, &weight))
		assert.Equal(t, "e1", exerciseID)
		assert.Equal(t, 5, reps)
		assert.Equal(t, 225.0, weight)
		numbers = append(numbers, n)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []int{1, 2, 3}, numbers)
}

func TestOpenReportsMigrationFailure(t *testing.T) {
	bad := NewMigrator(map[int]Migration{1: func(context.Context, *sql.Tx) error { return errors.New("nope") }}, 1, nil)

	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "lift.db"), WithMigrator(bad))
	var execErr *MigrationExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 1, execErr.Version)
}

func TestInspectSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lift.db")

	v, err := InspectSchema(ctx, path)
	require.NoError(t, err)
	assert.Zero(t, v, "missing file")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	v, err = InspectSchema(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, v)
}

func TestMigrateBackfillsNormalizedExerciseNames(t *testing.T) {
	ctx := context.Background()
	db := openRawDB(t)

	require.NoError(t, NewMigrator(migrations, 5, nil).Apply(ctx, db))

	stmts := []string{
		`INSERT INTO workout_sessions (id, name, start_time) VALUES ('s1', 'Old', 0)`,
		`INSERT INTO exercises (id, session_id, name, sort_order) VALUES ('e1', 's1', 'ÉCARTÉ Couché', 0)`,
		"INSERT INTO exercises (id, session_id, name, sort_order) VALUES ('e2', 's1', 'Squat\t', 1)",
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, DefaultMigrator(nil).Apply(ctx, db))

	want := map[string]string{"e1": "écarté couché", "e2": "squat"}
	for id, normalized := range want {
		var got string
		require.NoError(t, db.QueryRow(`SELECT normalized_name FROM exercises WHERE id = ?`, id).Scan(&got))
		assert.Equal(t, normalized, got, id)
	}
}
