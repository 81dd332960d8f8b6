// ABOUTME: Program models: multi-day training programs and their history.
// ABOUTME: Program -> days -> exercises -> per-set targets.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Program is a multi-day training plan. CurrentDayIndex points at the day
// to perform next and is always below the number of days.
type Program struct {
	ID                     string    `json:"id" yaml:"id"`
	Name                   string    `json:"name" yaml:"name" validate:"required"`
	Description            *string   `json:"description,omitempty" yaml:"description,omitempty"`
	IsActive               bool      `json:"is_active" yaml:"is_active"`
	CurrentDayIndex        int       `json:"current_day_index" yaml:"current_day_index" validate:"gte=0"`
	TotalWorkoutsCompleted int       `json:"total_workouts_completed" yaml:"total_workouts_completed" validate:"gte=0"`
	CreatedAt              time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" yaml:"updated_at"`

	Days     []ProgramDay `json:"days,omitempty" yaml:"days,omitempty" validate:"dive"` // Populated by deep reads
	DayCount int          `json:"day_count" yaml:"-"`
}

// NewProgram creates a program with a generated ID.
func NewProgram(name string) *Program {
	now := time.Now()
	return &Program{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithDescription sets the program description.
func (p *Program) WithDescription(desc string) *Program {
	p.Description = &desc
	return p
}

// AddDay appends a day with the next day index.
func (p *Program) AddDay(name string) *ProgramDay {
	p.Days = append(p.Days, ProgramDay{
		ID:        uuid.NewString(),
		ProgramID: p.ID,
		DayIndex:  len(p.Days),
		Name:      name,
	})
	return &p.Days[len(p.Days)-1]
}

// CurrentDay returns the day at CurrentDayIndex, or nil when days are not
// loaded or the index is out of range.
func (p *Program) CurrentDay() *ProgramDay {
	if p.CurrentDayIndex < 0 || p.CurrentDayIndex >= len(p.Days) {
		return nil
	}
	return &p.Days[p.CurrentDayIndex]
}

// ProgramDay is one named workout slot within a program.
type ProgramDay struct {
	ID        string `json:"id" yaml:"id"`
	ProgramID string `json:"program_id" yaml:"program_id"`
	DayIndex  int    `json:"day_index" yaml:"day_index"`
	Name      string `json:"name" yaml:"name" validate:"required"`

	Exercises []ProgramDayExercise `json:"exercises,omitempty" yaml:"exercises,omitempty" validate:"dive"`
}

// AddExercise appends an exercise with the next order.
func (d *ProgramDay) AddExercise(name string) *ProgramDayExercise {
	d.Exercises = append(d.Exercises, ProgramDayExercise{
		ID:           uuid.NewString(),
		DayID:        d.ID,
		ExerciseName: name,
		Order:        len(d.Exercises),
	})
	return &d.Exercises[len(d.Exercises)-1]
}

// ProgramDayExercise is an exercise prescribed on a program day. The
// Target* fields are the legacy flat prescription; Sets holds per-set
// targets when configured.
type ProgramDayExercise struct {
	ID           string   `json:"id" yaml:"id"`
	DayID        string   `json:"day_id" yaml:"day_id"`
	ExerciseName string   `json:"exercise_name" yaml:"exercise_name" validate:"exercise_name"`
	Order        int      `json:"order" yaml:"order"`
	RestSeconds  *int     `json:"rest_seconds,omitempty" yaml:"rest_seconds,omitempty" validate:"omitempty,gte=0"`
	Notes        *string  `json:"notes,omitempty" yaml:"notes,omitempty"`
	TargetSets   *int     `json:"target_sets,omitempty" yaml:"target_sets,omitempty" validate:"omitempty,min=1,max=20"`
	TargetReps   *int     `json:"target_reps,omitempty" yaml:"target_reps,omitempty" validate:"omitempty,min=1,max=100"`
	TargetWeight *float64 `json:"target_weight,omitempty" yaml:"target_weight,omitempty" validate:"omitempty,gte=0"`

	Sets []ProgramDayExerciseSet `json:"sets,omitempty" yaml:"sets,omitempty" validate:"max=20,dive"`
}

// AddSet appends a per-set target with the next set number.
func (e *ProgramDayExercise) AddSet(reps *int, weight *float64) *ProgramDayExerciseSet {
	e.Sets = append(e.Sets, ProgramDayExerciseSet{
		ID:           uuid.NewString(),
		ExerciseID:   e.ID,
		SetNumber:    len(e.Sets) + 1,
		TargetReps:   reps,
		TargetWeight: weight,
	})
	return &e.Sets[len(e.Sets)-1]
}

// ProgramDayExerciseSet is the target for one set of a program exercise.
type ProgramDayExerciseSet struct {
	ID           string   `json:"id" yaml:"id"`
	ExerciseID   string   `json:"exercise_id" yaml:"exercise_id"`
	SetNumber    int      `json:"set_number" yaml:"set_number"`
	TargetReps   *int     `json:"target_reps,omitempty" yaml:"target_reps,omitempty" validate:"omitempty,min=1,max=100"`
	TargetWeight *float64 `json:"target_weight,omitempty" yaml:"target_weight,omitempty" validate:"omitempty,gte=0"`
}

// ProgramHistory is an append-only record of a completed program day.
type ProgramHistory struct {
	ID              string    `json:"id" yaml:"id"`
	ProgramID       string    `json:"program_id" yaml:"program_id"`
	DayID           *string   `json:"day_id,omitempty" yaml:"day_id,omitempty"`
	SessionID       *string   `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	PerformedAt     time.Time `json:"performed_at" yaml:"performed_at"`
	DurationSeconds *int      `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
}
