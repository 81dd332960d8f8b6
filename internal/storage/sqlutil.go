// ABOUTME: Conversion helpers between models and SQLite column values.
// ABOUTME: Timestamps are stored as integer milliseconds since epoch.
package storage

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// nullMillis converts an optional time to a bindable value.
func nullMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func timePtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64)
	return &t
}

// rowsAffected returns n, treating a driver error as zero rows.
func rowsAffected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// setList accumulates "col = ?" assignments for partial updates.
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, v)
}

func (s *setList) empty() bool {
	return len(s.cols) == 0
}

func (s *setList) String() string {
	return strings.Join(s.cols, ", ")
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
