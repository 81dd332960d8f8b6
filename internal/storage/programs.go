// ABOUTME: Program, ProgramDay, ProgramDayExercise and per-set target operations.
// ABOUTME: Also owns program history and day advancement on session completion.
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

// ProgramUpdate lists program fields to change. Nil fields are kept.
type ProgramUpdate struct {
	Name        *string
	Description *string
}

// ProgramExerciseUpdate lists program day exercise fields to change.
type ProgramExerciseUpdate struct {
	Name         *string
	RestSeconds  *int
	Notes        *string
	TargetSets   *int
	TargetReps   *int
	TargetWeight *float64
}

func (u ProgramExerciseUpdate) validate() error {
	if u.Name != nil {
		if err := models.ValidateExerciseName(*u.Name); err != nil {
			return err
		}
	}
	if u.RestSeconds != nil && *u.RestSeconds < 0 {
		return apperrors.Invalid("rest_seconds", "must not be negative")
	}
	if err := models.ValidateRange("target_sets", u.TargetSets, 1, 20); err != nil {
		return err
	}
	if err := models.ValidateRange("target_reps", u.TargetReps, 1, 100); err != nil {
		return err
	}
	return models.ValidateNonNegative("target_weight", u.TargetWeight)
}

const programColumns = `
	p.id, p.name, p.description, p.is_active, p.current_day_index, p.total_workouts_completed,
	p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM program_days d WHERE d.program_id = p.id)`

// CreateProgram stores a program with its days, exercises and set targets
// in one transaction.
func (d *DB) CreateProgram(ctx context.Context, p *models.Program) error {
	ensureID(&p.ID)
	if err := models.Validate(p); err != nil {
		return err
	}
	if len(p.Days) > 0 && p.CurrentDayIndex >= len(p.Days) {
		p.CurrentDayIndex = 0
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if p.IsActive {
			if _, err := tx.ExecContext(ctx, `UPDATE programs SET is_active = 0 WHERE is_active = 1`); err != nil {
				return fmt.Errorf("deactivate programs: %w", err)
			}
		}
		return insertProgram(ctx, tx, p)
	})
}

// GetProgram retrieves a program summary (day count, no days).
func (d *DB) GetProgram(ctx context.Context, id string) (*models.Program, error) {
	return getProgram(ctx, d.db, id)
}

// GetProgramWithDays retrieves a program with days, exercises and set targets.
func (d *DB) GetProgramWithDays(ctx context.Context, id string) (*models.Program, error) {
	p, err := getProgram(ctx, d.db, id)
	if err != nil {
		return nil, err
	}
	p.Days, err = listProgramDays(ctx, d.db, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProgramDay retrieves one day with its exercises and set targets.
func (d *DB) GetProgramDay(ctx context.Context, id string) (*models.ProgramDay, error) {
	var day models.ProgramDay
	err := d.db.QueryRowContext(ctx, `SELECT id, program_id, day_index, name FROM program_days WHERE id = ?`, id).
		Scan(&day.ID, &day.ProgramID, &day.DayIndex, &day.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("program day", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get program day: %w", err)
	}

	days, err := listProgramDays(ctx, d.db, day.ProgramID)
	if err != nil {
		return nil, err
	}
	for _, candidate := range days {
		if candidate.ID == id {
			return &candidate, nil
		}
	}
	return &day, nil
}

// ListPrograms returns program summaries, active first then by name.
func (d *DB) ListPrograms(ctx context.Context) ([]*models.Program, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+programColumns+`
		FROM programs p
		ORDER BY p.is_active DESC, p.name COLLATE NOCASE ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var programs []*models.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// GetActiveProgram returns the active program with its days.
func (d *DB) GetActiveProgram(ctx context.Context) (*models.Program, error) {
	var id string
	err := d.db.QueryRowContext(ctx, `SELECT id FROM programs WHERE is_active = 1 LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("active program", "")
	}
	if err != nil {
		return nil, fmt.Errorf("get active program: %w", err)
	}
	return d.GetProgramWithDays(ctx, id)
}

// UpdateProgram applies a partial update.
func (d *DB) UpdateProgram(ctx context.Context, id string, u ProgramUpdate) error {
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

	res, err := d.db.ExecContext(ctx, `UPDATE programs SET `+set.String()+` WHERE id = ?`, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("program", id)
	}
	return nil
}

// ActivateProgram makes id the only active program.
func (d *DB) ActivateProgram(ctx context.Context, id string) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE programs SET is_active = 0 WHERE is_active = 1 AND id != ?`, id); err != nil {
			return fmt.Errorf("deactivate programs: %w", err)
		}
		res, err := tx.ExecContext(ctx, `UPDATE programs SET is_active = 1, updated_at = ? WHERE id = ?`, toMillis(time.Now()), id)
		if err != nil {
			return fmt.Errorf("activate program: %w", err)
		}
		if rowsAffected(res) == 0 {
			return apperrors.NotFound("program", id)
		}
		return nil
	})
}

// DeactivateProgram clears the active flag of a program.
func (d *DB) DeactivateProgram(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `UPDATE programs SET is_active = 0, updated_at = ? WHERE id = ?`, toMillis(time.Now()), id)
	if err != nil {
		return fmt.Errorf("deactivate program: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("program", id)
	}
	return nil
}

// SetCurrentDay points the program at the day with the given index.
func (d *DB) SetCurrentDay(ctx context.Context, programID string, index int) error {
	unlock := d.locks.Lock(programDaySiblings.lockKey(programID))
	defer unlock()

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getProgram(ctx, tx, programID); err != nil {
			return err
		}
		count, err := programDaySiblings.next(ctx, tx, programID)
		if err != nil {
			return err
		}
		if index < 0 || index >= count {
			return apperrors.Invalid("current_day_index", "must be between 0 and %d", count-1)
		}
		_, err = tx.ExecContext(ctx, `UPDATE programs SET current_day_index = ?, updated_at = ? WHERE id = ?`,
			index, toMillis(time.Now()), programID)
		if err != nil {
			return fmt.Errorf("set current day: %w", err)
		}
		return nil
	})
}

// DeleteProgram removes a program with its days and history. Sessions
// performed under it keep their data and lose the reference.
func (d *DB) DeleteProgram(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("program", id)
	}
	return nil
}

// AddProgramDay appends a day (with any exercises it carries) to a program.
func (d *DB) AddProgramDay(ctx context.Context, programID string, day *models.ProgramDay) error {
	ensureID(&day.ID)
	day.ProgramID = programID
	if err := models.Validate(day); err != nil {
		return err
	}

	unlock := d.locks.Lock(programDaySiblings.lockKey(programID))
	defer unlock()

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := touchProgram(ctx, tx, programID); err != nil {
			return err
		}
		next, err := programDaySiblings.next(ctx, tx, programID)
		if err != nil {
			return err
		}
		day.DayIndex = next
		return insertProgramDay(ctx, tx, day)
	})
}

// RenameProgramDay changes a day's name.
func (d *DB) RenameProgramDay(ctx context.Context, id, name string) error {
	if name == "" {
		return apperrors.Invalid("name", "is required")
	}
	res, err := d.db.ExecContext(ctx, `UPDATE program_days SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("rename program day: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("program day", id)
	}
	return nil
}

// RemoveProgramDay deletes a day with its exercises and renumbers the
// remaining days. A current day index left out of range resets to 0.
func (d *DB) RemoveProgramDay(ctx context.Context, id string) error {
	return d.removeSibling(ctx, programDaySiblings, id, func(tx *sql.Tx, programID string) error {
		return clampCurrentDay(ctx, tx, programID)
	})
}

// ReorderProgramDays sets each day's index to its position in ids.
func (d *DB) ReorderProgramDays(ctx context.Context, programID string, ids []string) error {
	if _, err := d.GetProgram(ctx, programID); err != nil {
		return err
	}
	return d.reorderSiblings(ctx, programDaySiblings, programID, ids)
}

// AddProgramDayExercise appends an exercise (with any set targets) to a day.
func (d *DB) AddProgramDayExercise(ctx context.Context, dayID string, e *models.ProgramDayExercise) error {
	ensureID(&e.ID)
	e.DayID = dayID
	if err := models.Validate(e); err != nil {
		return err
	}

	unlock := d.locks.Lock(programExerciseSiblings.lockKey(dayID))
	defer unlock()

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := programDaySiblings.parentOf(ctx, tx, dayID); err != nil {
			return err
		}
		next, err := programExerciseSiblings.next(ctx, tx, dayID)
		if err != nil {
			return err
		}
		e.Order = next
		return insertProgramDayExercise(ctx, tx, e)
	})
}

// UpdateProgramDayExercise applies a partial update.
func (d *DB) UpdateProgramDayExercise(ctx context.Context, id string, u ProgramExerciseUpdate) error {
	if err := u.validate(); err != nil {
		return err
	}

	var set setList
	if u.Name != nil {
		set.add("exercise_name", *u.Name)
	}
	if u.RestSeconds != nil {
		set.add("rest_seconds", *u.RestSeconds)
	}
	if u.Notes != nil {
		set.add("notes", *u.Notes)
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
	if set.empty() {
		return nil
	}

	res, err := d.db.ExecContext(ctx, `UPDATE program_day_exercises SET `+set.String()+` WHERE id = ?`, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("update program exercise: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("program exercise", id)
	}
	return nil
}

// RemoveProgramDayExercise deletes an exercise and renumbers the rest.
func (d *DB) RemoveProgramDayExercise(ctx context.Context, id string) error {
	return d.removeSibling(ctx, programExerciseSiblings, id, nil)
}

// ReorderProgramDayExercises sets each exercise's order to its index in ids.
func (d *DB) ReorderProgramDayExercises(ctx context.Context, dayID string, ids []string) error {
	if _, err := programDaySiblings.parentOf(ctx, d.db, dayID); err != nil {
		return err
	}
	return d.reorderSiblings(ctx, programExerciseSiblings, dayID, ids)
}

// AddProgramExerciseSet appends a per-set target to a program exercise.
func (d *DB) AddProgramExerciseSet(ctx context.Context, exerciseID string, set *models.ProgramDayExerciseSet) error {
	ensureID(&set.ID)
	set.ExerciseID = exerciseID
	if err := models.Validate(set); err != nil {
		return err
	}

	unlock := d.locks.Lock(programSetSiblings.lockKey(exerciseID))
	defer unlock()

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := programExerciseSiblings.parentOf(ctx, tx, exerciseID); err != nil {
			return err
		}
		next, err := programSetSiblings.next(ctx, tx, exerciseID)
		if err != nil {
			return err
		}
		if next > 20 {
			return apperrors.Invalid("sets", "at most 20 sets per exercise")
		}
		set.SetNumber = next
		return insertProgramSet(ctx, tx, set)
	})
}

// RemoveProgramExerciseSet deletes a set target and renumbers the rest.
func (d *DB) RemoveProgramExerciseSet(ctx context.Context, id string) error {
	return d.removeSibling(ctx, programSetSiblings, id, nil)
}

// ListProgramHistory returns completed program days, most recent first.
// A limit of 0 returns everything.
func (d *DB) ListProgramHistory(ctx context.Context, programID string, limit int) ([]*models.ProgramHistory, error) {
	query := `
		SELECT id, program_id, day_id, session_id, performed_at, duration_seconds
		FROM program_history
		WHERE program_id = ?
		ORDER BY performed_at DESC`
	args := []any{programID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list program history: %w", err)
	}
	defer rows.Close()

	var history []*models.ProgramHistory
	for rows.Next() {
		var h models.ProgramHistory
		var performedAt int64
		if err := rows.Scan(&h.ID, &h.ProgramID, &h.DayID, &h.SessionID, &performedAt, &h.DurationSeconds); err != nil {
			return nil, fmt.Errorf("scan program history: %w", err)
		}
		h.PerformedAt = fromMillis(performedAt)
		history = append(history, &h)
	}
	return history, rows.Err()
}

// recordProgramWorkout appends history for a completed program session and
// advances the program to the day after the one performed.
func recordProgramWorkout(ctx context.Context, tx *sql.Tx, s *models.WorkoutSession) error {
	p, err := getProgram(ctx, tx, *s.ProgramID)
	if err != nil {
		return err
	}

	performedAt := s.StartTime
	if s.EndTime != nil {
		performedAt = *s.EndTime
	}
	sessionID := s.ID
	err = insertProgramHistory(ctx, tx, &models.ProgramHistory{
		ProgramID:       p.ID,
		DayID:           s.ProgramDayID,
		SessionID:       &sessionID,
		PerformedAt:     performedAt,
		DurationSeconds: s.Duration,
	})
	if err != nil {
		return err
	}

	performed := p.CurrentDayIndex
	if s.ProgramDayID != nil {
		var idx int
		err := tx.QueryRowContext(ctx, `SELECT day_index FROM program_days WHERE id = ? AND program_id = ?`,
			*s.ProgramDayID, p.ID).Scan(&idx)
		switch {
		case err == nil:
			performed = idx
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("find performed day: %w", err)
		}
	}

	next := 0
	if p.DayCount > 0 {
		next = (performed + 1) % p.DayCount
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE programs
		SET current_day_index = ?, total_workouts_completed = total_workouts_completed + 1, updated_at = ?
		WHERE id = ?
	`, next, toMillis(time.Now()), p.ID)
	if err != nil {
		return fmt.Errorf("advance program: %w", err)
	}
	return nil
}

// clampCurrentDay resets current_day_index to 0 when it no longer points at
// an existing day.
func clampCurrentDay(ctx context.Context, q querier, programID string) error {
	_, err := q.ExecContext(ctx, `
		UPDATE programs
		SET current_day_index = 0, updated_at = ?
		WHERE id = ?
		  AND current_day_index >= (SELECT COUNT(*) FROM program_days WHERE program_id = ?)
	`, toMillis(time.Now()), programID, programID)
	if err != nil {
		return fmt.Errorf("clamp current day: %w", err)
	}
	return touchProgram(ctx, q, programID)
}

func touchProgram(ctx context.Context, q querier, id string) error {
	res, err := q.ExecContext(ctx, `UPDATE programs SET updated_at = ? WHERE id = ?`, toMillis(time.Now()), id)
	if err != nil {
		return fmt.Errorf("touch program: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("program", id)
	}
	return nil
}

func insertProgram(ctx context.Context, q querier, p *models.Program) error {
	ensureID(&p.ID)
	_, err := q.ExecContext(ctx, `
		INSERT INTO programs (id, name, description, is_active, current_day_index, total_workouts_completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.IsActive, p.CurrentDayIndex, p.TotalWorkoutsCompleted,
		toMillis(p.CreatedAt), toMillis(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create program: %w", err)
	}

	for i := range p.Days {
		day := &p.Days[i]
		day.ProgramID = p.ID
		day.DayIndex = i
		if err := insertProgramDay(ctx, q, day); err != nil {
			return err
		}
	}
	p.DayCount = len(p.Days)
	return nil
}

func insertProgramHistory(ctx context.Context, q querier, h *models.ProgramHistory) error {
	ensureID(&h.ID)
	_, err := q.ExecContext(ctx, `
		INSERT INTO program_history (id, program_id, day_id, session_id, performed_at, duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?)
	`, h.ID, h.ProgramID, h.DayID, h.SessionID, toMillis(h.PerformedAt), h.DurationSeconds)
	if err != nil {
		return fmt.Errorf("record program history: %w", err)
	}
	return nil
}

func insertProgramDay(ctx context.Context, q querier, day *models.ProgramDay) error {
	ensureID(&day.ID)
	_, err := q.ExecContext(ctx, `INSERT INTO program_days (id, program_id, day_index, name) VALUES (?, ?, ?, ?)`,
		day.ID, day.ProgramID, day.DayIndex, day.Name)
	if err != nil {
		return fmt.Errorf("insert program day: %w", err)
	}
	for i := range day.Exercises {
		e := &day.Exercises[i]
		e.DayID = day.ID
		e.Order = i
		if err := insertProgramDayExercise(ctx, q, e); err != nil {
			return err
		}
	}
	return nil
}

func insertProgramDayExercise(ctx context.Context, q querier, e *models.ProgramDayExercise) error {
	ensureID(&e.ID)
	_, err := q.ExecContext(ctx, `
		INSERT INTO program_day_exercises
			(id, day_id, exercise_name, sort_order, rest_seconds, notes, target_sets, target_reps, target_weight)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.DayID, e.ExerciseName, e.Order, e.RestSeconds, e.Notes, e.TargetSets, e.TargetReps, e.TargetWeight)
	if err != nil {
		return fmt.Errorf("insert program exercise: %w", err)
	}
	for i := range e.Sets {
		set := &e.Sets[i]
		set.ExerciseID = e.ID
		set.SetNumber = i + 1
		if err := insertProgramSet(ctx, q, set); err != nil {
			return err
		}
	}
	return nil
}

func insertProgramSet(ctx context.Context, q querier, set *models.ProgramDayExerciseSet) error {
	ensureID(&set.ID)
	_, err := q.ExecContext(ctx, `
		INSERT INTO program_day_exercise_sets (id, exercise_id, set_number, target_reps, target_weight)
		VALUES (?, ?, ?, ?, ?)
	`, set.ID, set.ExerciseID, set.SetNumber, set.TargetReps, set.TargetWeight)
	if err != nil {
		return fmt.Errorf("insert program set: %w", err)
	}
	return nil
}

func getProgram(ctx context.Context, q querier, id string) (*models.Program, error) {
	row := q.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs p WHERE p.id = ?`, id)
	p, err := scanProgram(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("program", id)
	}
	return p, err
}

// listProgramDays loads all days of a program with exercises and set targets
// using one query per level.
func listProgramDays(ctx context.Context, q querier, programID string) ([]models.ProgramDay, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, program_id, day_index, name
		FROM program_days
		WHERE program_id = ?
		ORDER BY day_index ASC
	`, programID)
	if err != nil {
		return nil, fmt.Errorf("list program days: %w", err)
	}
	var days []models.ProgramDay
	for rows.Next() {
		var day models.ProgramDay
		if err := rows.Scan(&day.ID, &day.ProgramID, &day.DayIndex, &day.Name); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan program day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	sets, err := listProgramSets(ctx, q, programID)
	if err != nil {
		return nil, err
	}

	rows, err = q.QueryContext(ctx, `
		SELECT e.id, e.day_id, e.exercise_name, e.sort_order, e.rest_seconds, e.notes,
		       e.target_sets, e.target_reps, e.target_weight
		FROM program_day_exercises e
		JOIN program_days d ON d.id = e.day_id
		WHERE d.program_id = ?
		ORDER BY d.day_index ASC, e.sort_order ASC
	`, programID)
	if err != nil {
		return nil, fmt.Errorf("list program exercises: %w", err)
	}
	defer rows.Close()

	dayIndex := make(map[string]int, len(days))
	for i, day := range days {
		dayIndex[day.ID] = i
	}
	for rows.Next() {
		var e models.ProgramDayExercise
		err := rows.Scan(&e.ID, &e.DayID, &e.ExerciseName, &e.Order, &e.RestSeconds, &e.Notes,
			&e.TargetSets, &e.TargetReps, &e.TargetWeight)
		if err != nil {
			return nil, fmt.Errorf("scan program exercise: %w", err)
		}
		e.Sets = sets[e.ID]
		if i, ok := dayIndex[e.DayID]; ok {
			days[i].Exercises = append(days[i].Exercises, e)
		}
	}
	return days, rows.Err()
}

func listProgramSets(ctx context.Context, q querier, programID string) (map[string][]models.ProgramDayExerciseSet, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT s.id, s.exercise_id, s.set_number, s.target_reps, s.target_weight
		FROM program_day_exercise_sets s
		JOIN program_day_exercises e ON e.id = s.exercise_id
		JOIN program_days d ON d.id = e.day_id
		WHERE d.program_id = ?
		ORDER BY s.exercise_id, s.set_number ASC
	`, programID)
	if err != nil {
		return nil, fmt.Errorf("list program sets: %w", err)
	}
	defer rows.Close()

	sets := make(map[string][]models.ProgramDayExerciseSet)
	for rows.Next() {
		var s models.ProgramDayExerciseSet
		if err := rows.Scan(&s.ID, &s.ExerciseID, &s.SetNumber, &s.TargetReps, &s.TargetWeight); err != nil {
			return nil, fmt.Errorf("scan program set: %w", err)
		}
		sets[s.ExerciseID] = append(sets[s.ExerciseID], s)
	}
	return sets, rows.Err()
}

func scanProgram(s scanner) (*models.Program, error) {
	var p models.Program
	var createdAt, updatedAt int64

	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.IsActive, &p.CurrentDayIndex, &p.TotalWorkoutsCompleted,
		&createdAt, &updatedAt, &p.DayCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan program: %w", err)
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return &p, nil
}
