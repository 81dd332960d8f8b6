// ABOUTME: WorkoutSession, Exercise, and WorkoutSet CRUD operations.
// ABOUTME: Sessions are written with their exercises and sets in one transaction.
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

// SessionStatus filters sessions by completion.
type SessionStatus int

const (
	SessionsAll SessionStatus = iota
	SessionsActive
	SessionsCompleted
)

// SessionQuery filters ListSessions. Zero values mean no filter.
type SessionQuery struct {
	Status     SessionStatus
	TemplateID string
	ProgramID  string
	Limit      int
	Offset     int
}

// SessionUpdate lists session fields to change. Nil fields are kept.
type SessionUpdate struct {
	Name      *string
	Notes     *string
	StartTime *time.Time
}

// ExerciseUpdate lists exercise fields to change.
type ExerciseUpdate struct {
	Name  *string
	Notes *string
}

// SetUpdate lists set fields to change. Setting Completed also stamps or
// clears CompletedAt.
type SetUpdate struct {
	Reps      *int
	Weight    *float64
	Completed *bool
}

const sessionColumns = `
	s.id, s.template_id, s.template_name, s.program_id, s.program_day_id, s.name,
	s.start_time, s.end_time, s.duration, s.notes,
	(SELECT COUNT(*) FROM exercises e WHERE e.session_id = s.id)`

// CreateSession stores a session row only.
func (d *DB) CreateSession(ctx context.Context, s *models.WorkoutSession) error {
	ensureID(&s.ID)
	if s.Name == "" {
		return apperrors.Invalid("name", "is required")
	}
	return insertSession(ctx, d.db, s)
}

// CreateSessionWithExercises stores a session together with every exercise
// and set it carries. Either all rows are written or none are. When the
// session references a template, the template's last-used time is updated
// in the same transaction.
func (d *DB) CreateSessionWithExercises(ctx context.Context, s *models.WorkoutSession) error {
	ensureID(&s.ID)
	if s.Name == "" {
		return apperrors.Invalid("name", "is required")
	}
	if err := models.Validate(s); err != nil {
		return err
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertSession(ctx, tx, s); err != nil {
			return err
		}
		for i := range s.Exercises {
			e := &s.Exercises[i]
			e.SessionID = s.ID
			e.Order = i
			if err := insertExercise(ctx, tx, e); err != nil {
				return err
			}
		}
		s.ExerciseCount = len(s.Exercises)

		if s.TemplateID != nil {
			_, err := tx.ExecContext(ctx, `UPDATE workout_templates SET last_used = ? WHERE id = ?`, toMillis(s.StartTime), *s.TemplateID)
			if err != nil {
				return fmt.Errorf("mark template used: %w", err)
			}
		}
		return nil
	})
}

// GetSession retrieves a session summary (exercise count, no exercises).
func (d *DB) GetSession(ctx context.Context, id string) (*models.WorkoutSession, error) {
	return getSession(ctx, d.db, id)
}

// GetSessionWithExercises retrieves a session with all exercises and sets.
func (d *DB) GetSessionWithExercises(ctx context.Context, id string) (*models.WorkoutSession, error) {
	return getSessionWithExercises(ctx, d.db, id)
}

// GetActiveSession returns the most recently started session that has not
// been completed.
func (d *DB) GetActiveSession(ctx context.Context) (*models.WorkoutSession, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM workout_sessions s
		WHERE s.end_time IS NULL
		ORDER BY s.start_time DESC
		LIMIT 1
	`)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("active session", "")
	}
	return s, err
}

// ListSessions returns session summaries, most recent first.
func (d *DB) ListSessions(ctx context.Context, q SessionQuery) ([]*models.WorkoutSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM workout_sessions s WHERE 1 = 1`
	var args []any

	switch q.Status {
	case SessionsActive:
		query += ` AND s.end_time IS NULL`
	case SessionsCompleted:
		query += ` AND s.end_time IS NOT NULL`
	}
	if q.TemplateID != "" {
		query += ` AND s.template_id = ?`
		args = append(args, q.TemplateID)
	}
	if q.ProgramID != "" {
		query += ` AND s.program_id = ?`
		args = append(args, q.ProgramID)
	}
	query += ` ORDER BY s.start_time DESC`

	if q.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.WorkoutSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// UpdateSession applies a partial update.
func (d *DB) UpdateSession(ctx context.Context, id string, u SessionUpdate) error {
	var set setList
	if u.Name != nil {
		if *u.Name == "" {
			return apperrors.Invalid("name", "is required")
		}
		set.add("name", *u.Name)
	}
	if u.Notes != nil {
		set.add("notes", *u.Notes)
	}
	if u.StartTime != nil {
		set.add("start_time", toMillis(*u.StartTime))
	}
	if set.empty() {
		_, err := d.GetSession(ctx, id)
		return err
	}

	res, err := d.db.ExecContext(ctx, `UPDATE workout_sessions SET `+set.String()+` WHERE id = ?`, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("session", id)
	}
	return nil
}

// CompleteSession moves a session from active to completed. It records the
// end time and duration and, for program sessions, appends program history
// and advances the program to its next day, all in one transaction.
// Completing an already completed session is a validation error.
func (d *DB) CompleteSession(ctx context.Context, id string, endTime time.Time) (*models.WorkoutSession, error) {
	var completed *models.WorkoutSession
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		completed, err = completeSession(ctx, tx, id, endTime)
		return err
	})
	if err != nil {
		return nil, err
	}
	d.log.Printf("[INFO] completed session %s\n", id)
	return completed, nil
}

func completeSession(ctx context.Context, tx *sql.Tx, id string, endTime time.Time) (*models.WorkoutSession, error) {
	s, err := getSession(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if s.IsCompleted() {
		return nil, apperrors.Invalid("end_time", "session %s is already completed", id)
	}
	if endTime.Before(s.StartTime) {
		return nil, apperrors.Invalid("end_time", "must not be before the start time")
	}

	duration := int(endTime.Sub(s.StartTime) / time.Second)
	_, err = tx.ExecContext(ctx, `UPDATE workout_sessions SET end_time = ?, duration = ? WHERE id = ?`,
		toMillis(endTime), duration, id)
	if err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}
	s.EndTime = &endTime
	s.Duration = &duration

	if s.ProgramID != nil {
		if err := recordProgramWorkout(ctx, tx, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// DeleteSession removes a session with all its exercises and sets.
func (d *DB) DeleteSession(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM workout_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("session", id)
	}
	return nil
}

// AddExercise appends an exercise (and any sets it carries) to a session.
func (d *DB) AddExercise(ctx context.Context, sessionID string, e *models.Exercise) error {
	ensureID(&e.ID)
	e.SessionID = sessionID
	if err := models.Validate(e); err != nil {
		return err
	}

	unlock := d.locks.Lock(sessionExerciseSiblings.lockKey(sessionID))
	defer unlock()

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getSession(ctx, tx, sessionID); err != nil {
			return err
		}
		next, err := sessionExerciseSiblings.next(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		e.Order = next
		return insertExercise(ctx, tx, e)
	})
}

// UpdateExercise applies a partial update to a session exercise.
func (d *DB) UpdateExercise(ctx context.Context, id string, u ExerciseUpdate) error {
	var set setList
	if u.Name != nil {
		if err := models.ValidateExerciseName(*u.Name); err != nil {
			return err
		}
		set.add("name", *u.Name)
		set.add("normalized_name", models.NormalizeExerciseName(*u.Name))
	}
	if u.Notes != nil {
		set.add("notes", *u.Notes)
	}
	if set.empty() {
		return nil
	}

	res, err := d.db.ExecContext(ctx, `UPDATE exercises SET `+set.String()+` WHERE id = ?`, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("exercise", id)
	}
	return nil
}

// RemoveExercise deletes an exercise with its sets and renumbers the rest.
func (d *DB) RemoveExercise(ctx context.Context, id string) error {
	return d.removeSibling(ctx, sessionExerciseSiblings, id, nil)
}

// ReorderExercises sets each exercise's order to its index in ids.
func (d *DB) ReorderExercises(ctx context.Context, sessionID string, ids []string) error {
	if _, err := d.GetSession(ctx, sessionID); err != nil {
		return err
	}
	return d.reorderSiblings(ctx, sessionExerciseSiblings, sessionID, ids)
}

// AddSet appends a set to an exercise.
func (d *DB) AddSet(ctx context.Context, exerciseID string, set *models.WorkoutSet) error {
	ensureID(&set.ID)
	set.ExerciseID = exerciseID
	if err := models.Validate(set); err != nil {
		return err
	}

	unlock := d.locks.Lock(workoutSetSiblings.lockKey(exerciseID))
	defer unlock()

	return d.withTx(ctx, func(tx *sql.Tx) error {
		sessionID, err := sessionExerciseSiblings.parentOf(ctx, tx, exerciseID)
		if err != nil {
			return err
		}
		next, err := workoutSetSiblings.next(ctx, tx, exerciseID)
		if err != nil {
			return err
		}
		set.SessionID = sessionID
		set.SetNumber = next
		return insertSet(ctx, tx, set)
	})
}

// UpdateSet applies a partial update to a set.
func (d *DB) UpdateSet(ctx context.Context, id string, u SetUpdate) error {
	var set setList
	if u.Reps != nil {
		if *u.Reps < 0 {
			return apperrors.Invalid("reps", "must not be negative")
		}
		set.add("reps", *u.Reps)
	}
	if err := models.ValidateNonNegative("weight", u.Weight); err != nil {
		return err
	}
	if u.Weight != nil {
		set.add("weight", *u.Weight)
	}
	if u.Completed != nil {
		set.add("completed", *u.Completed)
		if *u.Completed {
			set.add("completed_at", toMillis(time.Now()))
		} else {
			set.add("completed_at", nil)
		}
	}
	if set.empty() {
		return nil
	}

	res, err := d.db.ExecContext(ctx, `UPDATE workout_sets SET `+set.String()+` WHERE id = ?`, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("update set: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("set", id)
	}
	return nil
}

// RemoveSet deletes a set and renumbers the remaining sets of its exercise.
func (d *DB) RemoveSet(ctx context.Context, id string) error {
	return d.removeSibling(ctx, workoutSetSiblings, id, nil)
}

func insertSession(ctx context.Context, q querier, s *models.WorkoutSession) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO workout_sessions
			(id, template_id, template_name, program_id, program_day_id, name, start_time, end_time, duration, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.TemplateID, s.TemplateName, s.ProgramID, s.ProgramDayID, s.Name,
		toMillis(s.StartTime), nullMillis(s.EndTime), s.Duration, s.Notes)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func insertExercise(ctx context.Context, q querier, e *models.Exercise) error {
	ensureID(&e.ID)
	_, err := q.ExecContext(ctx, `
		INSERT INTO exercises (id, session_id, name, normalized_name, sort_order, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.SessionID, e.Name, models.NormalizeExerciseName(e.Name), e.Order, e.Notes)
	if err != nil {
		return fmt.Errorf("insert exercise: %w", err)
	}

	for i := range e.Sets {
		set := &e.Sets[i]
		set.ExerciseID = e.ID
		set.SessionID = e.SessionID
		set.SetNumber = i + 1
		if err := insertSet(ctx, q, set); err != nil {
			return err
		}
	}
	return nil
}

func insertSet(ctx context.Context, q querier, set *models.WorkoutSet) error {
	ensureID(&set.ID)
	if set.Completed && set.CompletedAt == nil {
		now := time.Now()
		set.CompletedAt = &now
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO workout_sets (id, exercise_id, session_id, set_number, reps, weight, completed, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, set.ID, set.ExerciseID, set.SessionID, set.SetNumber, set.Reps, set.Weight, set.Completed, nullMillis(set.CompletedAt))
	if err != nil {
		return fmt.Errorf("insert set: %w", err)
	}
	return nil
}

func getSessionWithExercises(ctx context.Context, q querier, id string) (*models.WorkoutSession, error) {
	s, err := getSession(ctx, q, id)
	if err != nil {
		return nil, err
	}
	s.Exercises, err = listExercises(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func getSession(ctx context.Context, q querier, id string) (*models.WorkoutSession, error) {
	row := q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM workout_sessions s WHERE s.id = ?`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("session", id)
	}
	return s, err
}

// listExercises loads a session's exercises with their sets.
func listExercises(ctx context.Context, q querier, sessionID string) ([]models.Exercise, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, session_id, name, sort_order, notes
		FROM exercises
		WHERE session_id = ?
		ORDER BY sort_order ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	var exercises []models.Exercise
	index := make(map[string]int)
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Name, &e.Order, &e.Notes); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		index[e.ID] = len(exercises)
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	sets, err := listSessionSets(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	for _, set := range sets {
		if i, ok := index[set.ExerciseID]; ok {
			exercises[i].Sets = append(exercises[i].Sets, set)
		}
	}
	return exercises, nil
}

func listSessionSets(ctx context.Context, q querier, sessionID string) ([]models.WorkoutSet, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, exercise_id, session_id, set_number, reps, weight, completed, completed_at
		FROM workout_sets
		WHERE session_id = ?
		ORDER BY exercise_id, set_number ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	var sets []models.WorkoutSet
	for rows.Next() {
		var s models.WorkoutSet
		var completedAt sql.NullInt64
		err := rows.Scan(&s.ID, &s.ExerciseID, &s.SessionID, &s.SetNumber, &s.Reps, &s.Weight, &s.Completed, &completedAt)
		if err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		s.CompletedAt = timePtr(completedAt)
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

func scanSession(s scanner) (*models.WorkoutSession, error) {
	var ws models.WorkoutSession
	var startTime int64
	var endTime sql.NullInt64

	err := s.Scan(&ws.ID, &ws.TemplateID, &ws.TemplateName, &ws.ProgramID, &ws.ProgramDayID, &ws.Name,
		&startTime, &endTime, &ws.Duration, &ws.Notes, &ws.ExerciseCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	ws.StartTime = fromMillis(startTime)
	ws.EndTime = timePtr(endTime)
	return &ws, nil
}
