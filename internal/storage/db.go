// ABOUTME: SQLite database handle and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required) over one connection.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/harperreed/lift/internal/logging"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection. All repository operations are
// methods on DB.
type DB struct {
	db     *sql.DB
	dbPath string
	log    *log.Logger
	locks  *keyedMutex
}

// Option configures Open.
type Option func(*options)

type options struct {
	migrator *Migrator
	logger   *log.Logger
}

// WithMigrator replaces the default migration set.
func WithMigrator(m *Migrator) Option {
	return func(o *options) { o.migrator = m }
}

// WithLogger sets the logger used by the store and its migrator.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens or creates a SQLite database at the given path and brings its
// schema up to date.
func Open(ctx context.Context, dbPath string, opts ...Option) (*DB, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}
	if o.migrator == nil {
		o.migrator = DefaultMigrator(o.logger)
	}

	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One process, one connection. Pragmas such as foreign_keys are
	// per-connection, so the pool must never grow.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	d := &DB{db: db, dbPath: dbPath, log: o.logger, locks: newKeyedMutex()}

	if err := d.configurePragmas(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	// Set file permissions
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	if err := o.migrator.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	d.log.Printf("[DEBUG] opened %s\n", dbPath)
	return d, nil
}

// InspectSchema reports the schema version of the database at dbPath
// without migrating it. A missing file reports 0.
func InspectSchema(ctx context.Context, dbPath string) (int, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return 0, nil
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	return SchemaVersion(ctx, db)
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "lift")
}

// DefaultDBPath returns the default database path following XDG spec.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "lift.db")
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// SQL exposes the underlying handle for read-only consumers such as the
// analytics aggregator.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// SchemaVersion returns the persisted schema version.
func (d *DB) SchemaVersion(ctx context.Context) (int, error) {
	return SchemaVersion(ctx, d.db)
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// configurePragmas sets up SQLite for a single embedded writer.
func (d *DB) configurePragmas(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any error. fn must only use tx; the pool has a single connection.
func (d *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		d.log.Printf("[DEBUG] rolled back transaction: %v\n", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		d.log.Printf("[ERROR] commit failed: %v\n", err)
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
