// ABOUTME: Personal record storage: one row per (normalized exercise, reps).
// ABOUTME: Saving a record for an existing key overwrites it in place.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/lift/internal/apperrors"
	"github.com/harperreed/lift/internal/models"
)

const prColumns = `id, exercise_name, reps, weight, session_id, achieved_at, created_at`

// GetBestPR returns the record for an exercise at a rep count, or nil when
// none exists. The name is normalized before lookup.
func (d *DB) GetBestPR(ctx context.Context, exerciseName string, reps int) (*models.PRRecord, error) {
	return getBestPR(ctx, d.db, exerciseName, reps)
}

// SavePR inserts a record or replaces the existing one for the same
// normalized name and rep count. A replaced record takes every field of pr,
// including its id and creation time.
func (d *DB) SavePR(ctx context.Context, pr *models.PRRecord) error {
	return savePR(ctx, d.db, pr)
}

func getBestPR(ctx context.Context, q querier, exerciseName string, reps int) (*models.PRRecord, error) {
	row := q.QueryRowContext(ctx, `SELECT `+prColumns+` FROM pr_records WHERE exercise_name = ? AND reps = ?`,
		models.NormalizeExerciseName(exerciseName), reps)
	pr, err := scanPR(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return pr, err
}

func savePR(ctx context.Context, q querier, pr *models.PRRecord) error {
	ensureID(&pr.ID)
	pr.ExerciseName = models.NormalizeExerciseName(pr.ExerciseName)
	if pr.ExerciseName == "" {
		return apperrors.Invalid("exercise_name", "is required")
	}
	if pr.Reps < 1 {
		return apperrors.Invalid("reps", "must be at least 1")
	}
	if pr.Weight < 0 {
		return apperrors.Invalid("weight", "must not be negative")
	}
	if pr.CreatedAt.IsZero() {
		pr.CreatedAt = pr.AchievedAt
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO pr_records (id, exercise_name, reps, weight, session_id, achieved_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (exercise_name, reps) DO UPDATE SET
			id = excluded.id,
			weight = excluded.weight,
			session_id = excluded.session_id,
			achieved_at = excluded.achieved_at,
			created_at = excluded.created_at
	`, pr.ID, pr.ExerciseName, pr.Reps, pr.Weight, pr.SessionID, toMillis(pr.AchievedAt), toMillis(pr.CreatedAt))
	if err != nil {
		return fmt.Errorf("save pr: %w", err)
	}
	return nil
}

// ListPRs returns records ordered by exercise then reps. A non-empty
// exerciseName limits the result to that exercise.
func (d *DB) ListPRs(ctx context.Context, exerciseName string) ([]*models.PRRecord, error) {
	query := `SELECT ` + prColumns + ` FROM pr_records`
	var args []any
	if exerciseName != "" {
		query += ` WHERE exercise_name = ?`
		args = append(args, models.NormalizeExerciseName(exerciseName))
	}
	query += ` ORDER BY exercise_name ASC, reps ASC`
	return d.queryPRs(ctx, query, args...)
}

// ListRecentPRs returns the most recently achieved records.
func (d *DB) ListRecentPRs(ctx context.Context, limit int) ([]*models.PRRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return d.queryPRs(ctx, `SELECT `+prColumns+` FROM pr_records ORDER BY achieved_at DESC LIMIT ?`, limit)
}

// DeletePR removes a record.
func (d *DB) DeletePR(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM pr_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete pr: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("pr", id)
	}
	return nil
}

func (d *DB) queryPRs(ctx context.Context, query string, args ...any) ([]*models.PRRecord, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list prs: %w", err)
	}
	defer rows.Close()

	var prs []*models.PRRecord
	for rows.Next() {
		pr, err := scanPR(rows)
		if err != nil {
			return nil, err
		}
		prs = append(prs, pr)
	}
	return prs, rows.Err()
}

func scanPR(s scanner) (*models.PRRecord, error) {
	var pr models.PRRecord
	var achievedAt, createdAt int64
	err := s.Scan(&pr.ID, &pr.ExerciseName, &pr.Reps, &pr.Weight, &pr.SessionID, &achievedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan pr: %w", err)
	}
	pr.AchievedAt = fromMillis(achievedAt)
	pr.CreatedAt = fromMillis(createdAt)
	return &pr, nil
}
