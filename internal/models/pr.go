// ABOUTME: Personal record model and exercise-name normalization.
// ABOUTME: One record per (normalized exercise name, reps).
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PRRecord is the heaviest weight logged for an exercise at a rep count.
type PRRecord struct {
	ID           string    `json:"id" yaml:"id"`
	ExerciseName string    `json:"exercise_name" yaml:"exercise_name"`
	Reps         int       `json:"reps" yaml:"reps"`
	Weight       float64   `json:"weight" yaml:"weight"`
	SessionID    *string   `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	AchievedAt   time.Time `json:"achieved_at" yaml:"achieved_at"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// NewPRRecord creates a record with a normalized exercise name.
func NewPRRecord(exerciseName string, reps int, weight float64, sessionID string, achievedAt time.Time) *PRRecord {
	pr := &PRRecord{
		ID:           uuid.NewString(),
		ExerciseName: NormalizeExerciseName(exerciseName),
		Reps:         reps,
		Weight:       weight,
		AchievedAt:   achievedAt,
		CreatedAt:    time.Now(),
	}
	if sessionID != "" {
		pr.SessionID = &sessionID
	}
	return pr
}

// NormalizeExerciseName lowercases and trims a name so that case and
// whitespace variants share one PR lineage.
func NormalizeExerciseName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
