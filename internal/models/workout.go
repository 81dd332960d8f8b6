// ABOUTME: WorkoutSession, Exercise, and WorkoutSet models for performed workouts.
// ABOUTME: A session owns ordered exercises, each owning ordered sets.
package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutSession is one concrete, time-bounded workout. It is active until
// EndTime is set.
type WorkoutSession struct {
	ID           string     `json:"id" yaml:"id"`
	TemplateID   *string    `json:"template_id,omitempty" yaml:"template_id,omitempty"`
	TemplateName *string    `json:"template_name,omitempty" yaml:"template_name,omitempty"`
	ProgramID    *string    `json:"program_id,omitempty" yaml:"program_id,omitempty"`
	ProgramDayID *string    `json:"program_day_id,omitempty" yaml:"program_day_id,omitempty"`
	Name         string     `json:"name" yaml:"name"`
	StartTime    time.Time  `json:"start_time" yaml:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Duration     *int       `json:"duration,omitempty" yaml:"duration,omitempty"` // seconds
	Notes        *string    `json:"notes,omitempty" yaml:"notes,omitempty"`

	Exercises     []Exercise `json:"exercises,omitempty" yaml:"exercises,omitempty" validate:"dive"` // Populated by deep reads
	ExerciseCount int        `json:"exercise_count" yaml:"-"`
}

// NewWorkoutSession creates an active session starting now.
func NewWorkoutSession(name string) *WorkoutSession {
	return &WorkoutSession{
		ID:        uuid.NewString(),
		Name:      name,
		StartTime: time.Now(),
	}
}

// WithStartTime sets a custom start timestamp.
func (s *WorkoutSession) WithStartTime(t time.Time) *WorkoutSession {
	s.StartTime = t
	return s
}

// WithNotes sets notes on the session.
func (s *WorkoutSession) WithNotes(notes string) *WorkoutSession {
	s.Notes = &notes
	return s
}

// WithTemplate records the template the session was started from.
func (s *WorkoutSession) WithTemplate(id, name string) *WorkoutSession {
	s.TemplateID = &id
	s.TemplateName = &name
	return s
}

// WithProgramDay records the program day the session was started from.
func (s *WorkoutSession) WithProgramDay(programID, dayID string) *WorkoutSession {
	s.ProgramID = &programID
	s.ProgramDayID = &dayID
	return s
}

// AddExercise appends an exercise to the session, assigning the next order.
func (s *WorkoutSession) AddExercise(name string) *Exercise {
	s.Exercises = append(s.Exercises, Exercise{
		ID:        uuid.NewString(),
		SessionID: s.ID,
		Name:      name,
		Order:     len(s.Exercises),
	})
	return &s.Exercises[len(s.Exercises)-1]
}

// IsCompleted reports whether the session has ended.
func (s *WorkoutSession) IsCompleted() bool {
	return s.EndTime != nil
}

// Exercise is one exercise performed within a session.
type Exercise struct {
	ID        string  `json:"id" yaml:"id"`
	SessionID string  `json:"session_id" yaml:"session_id"`
	Name      string  `json:"name" yaml:"name" validate:"exercise_name"`
	Order     int     `json:"order" yaml:"order"`
	Notes     *string `json:"notes,omitempty" yaml:"notes,omitempty"`

	Sets []WorkoutSet `json:"sets,omitempty" yaml:"sets,omitempty" validate:"dive"`
}

// AddSet appends a set, assigning the next set number.
func (e *Exercise) AddSet(reps int, weight float64) *WorkoutSet {
	e.Sets = append(e.Sets, WorkoutSet{
		ID:         uuid.NewString(),
		ExerciseID: e.ID,
		SessionID:  e.SessionID,
		SetNumber:  len(e.Sets) + 1,
		Reps:       reps,
		Weight:     weight,
	})
	return &e.Sets[len(e.Sets)-1]
}

// Volume is the sum of reps x weight over completed sets.
func (e *Exercise) Volume() float64 {
	var v float64
	for _, s := range e.Sets {
		if s.Completed {
			v += float64(s.Reps) * s.Weight
		}
	}
	return v
}

// WorkoutSet is a single set of an exercise.
type WorkoutSet struct {
	ID          string     `json:"id" yaml:"id"`
	ExerciseID  string     `json:"exercise_id" yaml:"exercise_id"`
	SessionID   string     `json:"session_id" yaml:"session_id"`
	SetNumber   int        `json:"set_number" yaml:"set_number"`
	Reps        int        `json:"reps" yaml:"reps" validate:"gte=0"`
	Weight      float64    `json:"weight" yaml:"weight" validate:"gte=0"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// MarkCompleted flags the set as done at the given time.
func (ws *WorkoutSet) MarkCompleted(at time.Time) *WorkoutSet {
	ws.Completed = true
	ws.CompletedAt = &at
	return ws
}
