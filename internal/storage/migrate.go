// ABOUTME: Versioned schema migration engine.
// ABOUTME: Applies numbered steps, persisting progress in PRAGMA user_version.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/harperreed/lift/internal/logging"
)

// Migration moves the schema from version k-1 to k. It runs inside a
// transaction that also records version k, so a step either fully applies
// or leaves the database at k-1.
type Migration func(ctx context.Context, tx *sql.Tx) error

// MigrationNotFoundError reports a gap in the registered steps.
type MigrationNotFoundError struct {
	Version int
}

func (e *MigrationNotFoundError) Error() string {
	return fmt.Sprintf("migration %d not found", e.Version)
}

// MigrationExecutionError reports a step that failed. The schema version
// stays at Version-1.
type MigrationExecutionError struct {
	Version int
	Err     error
}

func (e *MigrationExecutionError) Error() string {
	return fmt.Sprintf("migration %d failed: %v", e.Version, e.Err)
}

func (e *MigrationExecutionError) Unwrap() error { return e.Err }

// Migrator applies registered migrations up to a target version.
type Migrator struct {
	steps  map[int]Migration
	target int
	log    *log.Logger
}

// NewMigrator creates a migrator for steps 1..target.
func NewMigrator(steps map[int]Migration, target int, logger *log.Logger) *Migrator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Migrator{steps: steps, target: target, log: logger}
}

// DefaultMigrator returns the migrator for the current schema.
func DefaultMigrator(logger *log.Logger) *Migrator {
	return NewMigrator(migrations, CurrentSchemaVersion, logger)
}

// Target returns the version Apply migrates to.
func (m *Migrator) Target() int {
	return m.target
}

// SchemaVersion reads the persisted schema version; 0 for a new database.
func SchemaVersion(ctx context.Context, q querier) (int, error) {
	var v int
	if err := q.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// Pending returns the versions Apply would run, in order.
func (m *Migrator) Pending(ctx context.Context, db *sql.DB) ([]int, error) {
	v, err := SchemaVersion(ctx, db)
	if err != nil {
		return nil, err
	}
	var pending []int
	for i := v + 1; i <= m.target; i++ {
		pending = append(pending, i)
	}
	return pending, nil
}

// Apply brings db from its persisted version to the target. An up-to-date
// database is only read, never written.
func (m *Migrator) Apply(ctx context.Context, db *sql.DB) error {
	v, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if v >= m.target {
		return nil
	}

	m.log.Printf("[INFO] migrating schema from version %d to %d\n", v, m.target)
	for i := v + 1; i <= m.target; i++ {
		step, ok := m.steps[i]
		if !ok {
			m.log.Printf("[ERROR] migration %d is not registered\n", i)
			return &MigrationNotFoundError{Version: i}
		}
		if err := m.applyStep(ctx, db, i, step); err != nil {
			m.log.Printf("[ERROR] migration %d failed: %v\n", i, err)
			return &MigrationExecutionError{Version: i, Err: err}
		}
		m.log.Printf("[DEBUG] applied migration %d\n", i)
	}
	return nil
}

func (m *Migrator) applyStep(ctx context.Context, db *sql.DB, version int, step Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := step(ctx, tx); err != nil {
		return err
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return tx.Commit()
}

// execAll runs each statement in order.
func execAll(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
