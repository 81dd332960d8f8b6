// ABOUTME: WorkoutTemplate and ExerciseTemplate models.
// ABOUTME: Templates are reusable workout definitions copied into sessions.
package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutTemplate is a reusable, unstarted workout definition.
type WorkoutTemplate struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name" validate:"required"`
	Description *string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" yaml:"updated_at"`
	LastUsed    *time.Time `json:"last_used,omitempty" yaml:"last_used,omitempty"`

	Exercises     []ExerciseTemplate `json:"exercises,omitempty" yaml:"exercises,omitempty" validate:"dive"` // Populated by deep reads
	ExerciseCount int                `json:"exercise_count" yaml:"-"`
}

// NewWorkoutTemplate creates a template with a generated ID.
func NewWorkoutTemplate(name string) *WorkoutTemplate {
	now := time.Now()
	return &WorkoutTemplate{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithDescription sets the template description.
func (t *WorkoutTemplate) WithDescription(desc string) *WorkoutTemplate {
	t.Description = &desc
	return t
}

// AddExercise appends an exercise definition with the next order.
func (t *WorkoutTemplate) AddExercise(name string) *ExerciseTemplate {
	t.Exercises = append(t.Exercises, *NewExerciseTemplate(t.ID, name))
	e := &t.Exercises[len(t.Exercises)-1]
	e.Order = len(t.Exercises) - 1
	return e
}

// ExerciseTemplate is one exercise definition inside a template.
type ExerciseTemplate struct {
	ID           string   `json:"id" yaml:"id"`
	TemplateID   string   `json:"template_id" yaml:"template_id"`
	Name         string   `json:"name" yaml:"name" validate:"exercise_name"`
	Order        int      `json:"order" yaml:"order"`
	TargetSets   *int     `json:"target_sets,omitempty" yaml:"target_sets,omitempty" validate:"omitempty,min=1,max=20"`
	TargetReps   *int     `json:"target_reps,omitempty" yaml:"target_reps,omitempty" validate:"omitempty,min=1,max=100"`
	TargetWeight *float64 `json:"target_weight,omitempty" yaml:"target_weight,omitempty" validate:"omitempty,gte=0"`
	Notes        *string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NewExerciseTemplate creates an exercise definition for a template.
func NewExerciseTemplate(templateID, name string) *ExerciseTemplate {
	return &ExerciseTemplate{
		ID:         uuid.NewString(),
		TemplateID: templateID,
		Name:       name,
	}
}

// WithTargets sets target sets, reps and weight.
func (e *ExerciseTemplate) WithTargets(sets, reps int, weight float64) *ExerciseTemplate {
	e.TargetSets = &sets
	e.TargetReps = &reps
	e.TargetWeight = &weight
	return e
}
