// ABOUTME: Connection manager that owns the single database handle.
// ABOUTME: Opens lazily, migrates once, and collapses concurrent initialization.
package storage

import (
	"context"
	"sync"

	"github.com/harperreed/lift/internal/apperrors"
	"golang.org/x/sync/singleflight"
)

// Manager hands out the process-wide *DB. Construct one at startup and pass
// it to whatever needs storage.
type Manager struct {
	path string
	opts []Option
	open func(ctx context.Context, path string, opts ...Option) (*DB, error)

	group singleflight.Group
	mu    sync.Mutex
	db    *DB
}

// NewManager creates a manager for the database at path. Nothing is opened
// until the first call to DB.
func NewManager(path string, opts ...Option) *Manager {
	return &Manager{path: path, opts: opts, open: Open}
}

// DB returns the shared handle, opening and migrating the database on first
// use. Concurrent first callers wait on the same initialization, which runs
// detached from any one caller's cancellation. A caller whose ctx ends stops
// waiting without affecting the others. A failed initialization is not
// cached; the next call tries again.
func (m *Manager) DB(ctx context.Context) (*DB, error) {
	if db := m.cached(); db != nil {
		return db, nil
	}

	initCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan("init", func() (any, error) {
		if db := m.cached(); db != nil {
			return db, nil
		}
		db, err := m.open(initCtx, m.path, m.opts...)
		if err != nil {
			return nil, &apperrors.InitializationError{Path: m.path, Err: err}
		}
		m.mu.Lock()
		m.db = db
		m.mu.Unlock()
		return db, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*DB), nil
	}
}

// Path returns the database path the manager opens.
func (m *Manager) Path() string {
	return m.path
}

// Close closes the handle if one is open. A later DB call reopens it.
func (m *Manager) Close() error {
	m.mu.Lock()
	db := m.db
	m.db = nil
	m.mu.Unlock()
	if db == nil {
		return nil
	}
	return db.Close()
}

func (m *Manager) cached() *DB {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db
}
