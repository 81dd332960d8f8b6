// ABOUTME: Ordered sibling collections: append, compact, and reorder.
// ABOUTME: Keeps order/day_index/set_number fields contiguous with no gaps.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/lift/internal/apperrors"
)

// siblings describes a child table ordered within its parent. Table and
// column names are compile-time constants, never user input.
type siblings struct {
	entity    string
	table     string
	parentCol string
	orderCol  string
	base      int
}

var (
	templateExerciseSiblings = siblings{"template exercise", "exercise_templates", "template_id", "sort_order", 0}
	sessionExerciseSiblings  = siblings{"exercise", "exercises", "session_id", "sort_order", 0}
	workoutSetSiblings       = siblings{"set", "workout_sets", "exercise_id", "set_number", 1}
	programDaySiblings       = siblings{"program day", "program_days", "program_id", "day_index", 0}
	programExerciseSiblings  = siblings{"program exercise", "program_day_exercises", "day_id", "sort_order", 0}
	programSetSiblings       = siblings{"program set", "program_day_exercise_sets", "exercise_id", "set_number", 1}
)

// ids returns the child ids of parentID in their current order.
func (s siblings) ids(ctx context.Context, q querier, parentID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE %s = ? ORDER BY %s ASC, id ASC`, s.table, s.parentCol, s.orderCol)
	rows, err := q.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list %s ids: %w", s.entity, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s id: %w", s.entity, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// next returns the order value for a child appended to parentID.
func (s siblings) next(ctx context.Context, q querier, parentID string) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?`, s.table, s.parentCol)
	if err := q.QueryRowContext(ctx, query, parentID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.entity, err)
	}
	return n + s.base, nil
}

// parentOf returns the parent id of a child row.
func (s siblings) parentOf(ctx context.Context, q querier, id string) (string, error) {
	var parentID string
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, s.parentCol, s.table)
	err := q.QueryRowContext(ctx, query, id).Scan(&parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.NotFound(s.entity, id)
	}
	if err != nil {
		return "", fmt.Errorf("find parent of %s: %w", s.entity, err)
	}
	return parentID, nil
}

// assign writes base+i as the order of ids[i].
func (s siblings) assign(ctx context.Context, q querier, ids []string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = ? WHERE id = ?`, s.table, s.orderCol)
	for i, id := range ids {
		if _, err := q.ExecContext(ctx, query, s.base+i, id); err != nil {
			return fmt.Errorf("renumber %s: %w", s.entity, err)
		}
	}
	return nil
}

// compact renumbers the surviving children of parentID.
func (s siblings) compact(ctx context.Context, q querier, parentID string) error {
	ids, err := s.ids(ctx, q, parentID)
	if err != nil {
		return err
	}
	return s.assign(ctx, q, ids)
}

// reorder applies a full permutation of the current children.
func (s siblings) reorder(ctx context.Context, q querier, parentID string, ordered []string) error {
	current, err := s.ids(ctx, q, parentID)
	if err != nil {
		return err
	}
	if len(current) != len(ordered) {
		return apperrors.Invalid("ids", "expected %d %s ids, got %d", len(current), s.entity, len(ordered))
	}
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	for _, id := range ordered {
		if !known[id] {
			return apperrors.Invalid("ids", "%s %s is missing, duplicated, or belongs elsewhere", s.entity, id)
		}
		delete(known, id)
	}
	return s.assign(ctx, q, ordered)
}

func (s siblings) lockKey(parentID string) string {
	return s.table + ":" + parentID
}

// reorderSiblings rewrites the order of parentID's children to match ids.
func (d *DB) reorderSiblings(ctx context.Context, s siblings, parentID string, ids []string) error {
	unlock := d.locks.Lock(s.lockKey(parentID))
	defer unlock()

	return d.withTx(ctx, func(tx *sql.Tx) error {
		return s.reorder(ctx, tx, parentID, ids)
	})
}

// removeSibling deletes a child (cascading to its own children) and closes
// the gap it leaves. after, if set, runs in the same transaction.
func (d *DB) removeSibling(ctx context.Context, s siblings, id string, after func(tx *sql.Tx, parentID string) error) error {
	parentID, err := s.parentOf(ctx, d.db, id)
	if err != nil {
		return err
	}

	unlock := d.locks.Lock(s.lockKey(parentID))
	defer unlock()

	return d.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.table), id)
		if err != nil {
			return fmt.Errorf("delete %s: %w", s.entity, err)
		}
		if rowsAffected(res) == 0 {
			return apperrors.NotFound(s.entity, id)
		}
		if err := s.compact(ctx, tx, parentID); err != nil {
			return err
		}
		if after != nil {
			return after(tx, parentID)
		}
		return nil
	})
}
