// ABOUTME: WorkoutTemplate and ExerciseTemplate CRUD operations.
// ABOUTME: Multi-row writes run in one transaction; removals renumber siblings.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/lift/internal/apperrors"
	"github.com/harperreed/lift/internal/models"
)

// TemplateUpdate lists template fields to change. Nil fields are kept.
type TemplateUpdate struct {
	Name        *string
	Description *string
}

// ExerciseTemplateUpdate lists exercise definition fields to change.
type ExerciseTemplateUpdate struct {
	Name         *string
	TargetSets   *int
	TargetReps   *int
	TargetWeight *float64
	Notes        *string
}

func (u ExerciseTemplateUpdate) validate() error {
	if u.Name != nil {
		if err := models.ValidateExerciseName(*u.Name); err != nil {
			return err
		}
	}
	if err := models.ValidateRange("target_sets", u.TargetSets, 1, 20); err != nil {
		return err
	}
	if err := models.ValidateRange("target_reps", u.TargetReps, 1, 100); err != nil {
		return err
	}
	return models.ValidateNonNegative("target_weight", u.TargetWeight)
}

const templateColumns = `
	t.id, t.name, t.description, t.created_at, t.updated_at, t.last_used,
	(SELECT COUNT(*) FROM exercise_templates e WHERE e.template_id = t.id)`

// CreateTemplate stores a template together with its exercises.
func (d *DB) CreateTemplate(ctx context.Context, t *models.WorkoutTemplate) error {
	ensureID(&t.ID)
	if err := models.Validate(t); err != nil {
		return err
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		return insertTemplate(ctx, tx, t)
	})
}

// GetTemplate retrieves a template summary (exercise count, no exercises).
func (d *DB) GetTemplate(ctx context.Context, id string) (*models.WorkoutTemplate, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM workout_templates t WHERE t.id = ?`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("template", id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTemplateWithExercises retrieves a template with all its exercises.
func (d *DB) GetTemplateWithExercises(ctx context.Context, id string) (*models.WorkoutTemplate, error) {
	t, err := d.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Exercises, err = listTemplateExercises(ctx, d.db, id)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTemplates returns template summaries, most recently used first.
func (d *DB) ListTemplates(ctx context.Context) ([]*models.WorkoutTemplate, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+templateColumns+`
		FROM workout_templates t
		ORDER BY t.last_used IS NULL, t.last_used DESC, t.name COLLATE NOCASE ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.WorkoutTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// UpdateTemplate applies a partial update.
func (d *DB) UpdateTemplate(ctx context.Context, id string, u TemplateUpdate) error {
	var set setList
	if u.Name != nil {
		if *u.Name == "" {
			return apperrors.Invalid("name", "is required")
		}
		set.add("name", *u.Name)
	}
	if u.Description != nil {
		set.add("description", *u.Description)
	}
	set.add("updated_at", toMillis(time.Now()))

	res, err := d.db.ExecContext(ctx, `UPDATE workout_templates SET `+set.String()+` WHERE id = ?`, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("template", id)
	}
	return nil
}

// MarkTemplateUsed records when a template was last started.
func (d *DB) MarkTemplateUsed(ctx context.Context, id string, at time.Time) error {
	res, err := d.db.ExecContext(ctx, `UPDATE workout_templates SET last_used = ? WHERE id = ?`, toMillis(at), id)
	if err != nil {
		return fmt.Errorf("mark template used: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("template", id)
	}
	return nil
}

// DeleteTemplate removes a template and its exercises. Sessions started
// from it keep their data and lose the reference.
func (d *DB) DeleteTemplate(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM workout_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("template", id)
	}
	return nil
}

// AddTemplateExercise appends an exercise to a template.
func (d *DB) AddTemplateExercise(ctx context.Context, templateID string, e *models.ExerciseTemplate) error {
	ensureID(&e.ID)
	e.TemplateID = templateID
	if err := models.Validate(e); err != nil {
		return err
	}

	unlock := d.locks.Lock(templateExerciseSiblings.lockKey(templateID))
	defer unlock()

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := touchTemplate(ctx, tx, templateID); err != nil {
			return err
		}
		next, err := templateExerciseSiblings.next(ctx, tx, templateID)
		if err != nil {
			return err
		}
		e.Order = next
		return insertExerciseTemplate(ctx, tx, e)
	})
}

// UpdateTemplateExercise applies a partial update to an exercise definition.
func (d *DB) UpdateTemplateExercise(ctx context.Context, id string, u ExerciseTemplateUpdate) error {
	if err := u.validate(); err != nil {
		return err
	}

	var set setList
	if u.Name != nil {
		set.add("name", *u.Name)
	}
	if u.TargetSets != nil {
		set.add("target_sets", *u.TargetSets)
	}
	if u.TargetReps != nil {
		set.add("target_reps", *u.TargetReps)
	}
	if u.TargetWeight != nil {
		set.add("target_weight", *u.TargetWeight)
	}
	if u.Notes != nil {
		set.add("notes", *u.Notes)
	}
	if set.empty() {
		return nil
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		templateID, err := templateExerciseSiblings.parentOf(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE exercise_templates SET `+set.String()+` WHERE id = ?`, append(set.args, id)...); err != nil {
			return fmt.Errorf("update template exercise: %w", err)
		}
		return touchTemplate(ctx, tx, templateID)
	})
}

// RemoveTemplateExercise deletes an exercise definition and renumbers the
// remaining ones.
func (d *DB) RemoveTemplateExercise(ctx context.Context, id string) error {
	return d.removeSibling(ctx, templateExerciseSiblings, id, func(tx *sql.Tx, templateID string) error {
		return touchTemplate(ctx, tx, templateID)
	})
}

// ReorderTemplateExercises sets each exercise's order to its index in ids.
// ids must contain every exercise of the template exactly once.
func (d *DB) ReorderTemplateExercises(ctx context.Context, templateID string, ids []string) error {
	if _, err := d.GetTemplate(ctx, templateID); err != nil {
		return err
	}
	return d.reorderSiblings(ctx, templateExerciseSiblings, templateID, ids)
}

func touchTemplate(ctx context.Context, q querier, id string) error {
	res, err := q.ExecContext(ctx, `UPDATE workout_templates SET updated_at = ? WHERE id = ?`, toMillis(time.Now()), id)
	if err != nil {
		return fmt.Errorf("touch template: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("template", id)
	}
	return nil
}

func insertTemplate(ctx context.Context, q querier, t *models.WorkoutTemplate) error {
	ensureID(&t.ID)
	_, err := q.ExecContext(ctx, `
		INSERT INTO workout_templates (id, name, description, created_at, updated_at, last_used)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.Name, t.Description, toMillis(t.CreatedAt), toMillis(t.UpdatedAt), nullMillis(t.LastUsed))
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}

	for i := range t.Exercises {
		e := &t.Exercises[i]
		e.TemplateID = t.ID
		e.Order = i
		if err := insertExerciseTemplate(ctx, q, e); err != nil {
			return err
		}
	}
	t.ExerciseCount = len(t.Exercises)
	return nil
}

func insertExerciseTemplate(ctx context.Context, q querier, e *models.ExerciseTemplate) error {
	ensureID(&e.ID)
	_, err := q.ExecContext(ctx, `
		INSERT INTO exercise_templates (id, template_id, name, sort_order, target_sets, target_reps, target_weight, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.TemplateID, e.Name, e.Order, e.TargetSets, e.TargetReps, e.TargetWeight, e.Notes)
	if err != nil {
		return fmt.Errorf("insert template exercise: %w", err)
	}
	return nil
}

func listTemplateExercises(ctx context.Context, q querier, templateID string) ([]models.ExerciseTemplate, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, template_id, name, sort_order, target_sets, target_reps, target_weight, notes
		FROM exercise_templates
		WHERE template_id = ?
		ORDER BY sort_order ASC
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("list template exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.ExerciseTemplate
	for rows.Next() {
		var e models.ExerciseTemplate
		err := rows.Scan(&e.ID, &e.TemplateID, &e.Name, &e.Order, &e.TargetSets, &e.TargetReps, &e.TargetWeight, &e.Notes)
		if err != nil {
			return nil, fmt.Errorf("scan template exercise: %w", err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

func scanTemplate(s scanner) (*models.WorkoutTemplate, error) {
	var t models.WorkoutTemplate
	var createdAt, updatedAt int64
	var lastUsed sql.NullInt64

	err := s.Scan(&t.ID, &t.Name, &t.Description, &createdAt, &updatedAt, &lastUsed, &t.ExerciseCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan template: %w", err)
	}
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	t.LastUsed = timePtr(lastUsed)
	return &t, nil
}
