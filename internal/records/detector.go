// ABOUTME: Personal record detection for completed workout sessions.
// ABOUTME: Finds the heaviest completed set per rep count and saves those that beat stored PRs.
package records

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/models"
)

// Store is the storage the detector reads sessions from and writes PRs to.
// *storage.DB satisfies it.
type Store interface {
	GetSessionWithExercises(ctx context.Context, id string) (*models.WorkoutSession, error)
	GetBestPR(ctx context.Context, exerciseName string, reps int) (*models.PRRecord, error)
	SavePR(ctx context.Context, pr *models.PRRecord) error
}

// Candidate is the heaviest completed set of one exercise at one rep count
// within a session.
type Candidate struct {
	ExerciseName string // normalized
	Reps         int
	Weight       float64
}

// Detector finds and records personal records.
type Detector struct {
	store Store
	log   *log.Logger
	now   func() time.Time
}

// NewDetector creates a detector over store.
func NewDetector(store Store, logger *log.Logger) *Detector {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Detector{store: store, log: logger, now: time.Now}
}

// DetectAndSavePRs checks every candidate in the session against the stored
// best for its (exercise, reps) and saves those that are strictly heavier.
// It returns exactly the records it saved.
func (d *Detector) DetectAndSavePRs(ctx context.Context, sessionID string) ([]*models.PRRecord, error) {
	session, err := d.store.GetSessionWithExercises(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	achievedAt := d.now()
	if session.EndTime != nil {
		achievedAt = *session.EndTime
	}

	var saved []*models.PRRecord
	for _, c := range Candidates(session) {
		best, err := d.store.GetBestPR(ctx, c.ExerciseName, c.Reps)
		if err != nil {
			return saved, fmt.Errorf("look up PR for %s x%d: %w", c.ExerciseName, c.Reps, err)
		}
		if best != nil && c.Weight <= best.Weight {
			continue
		}

		pr := models.NewPRRecord(c.ExerciseName, c.Reps, c.Weight, session.ID, achievedAt)
		if err := d.store.SavePR(ctx, pr); err != nil {
			return saved, fmt.Errorf("save PR for %s x%d: %w", c.ExerciseName, c.Reps, err)
		}
		d.log.Printf("[INFO] new PR: %s %d x %g\n", c.ExerciseName, c.Reps, c.Weight)
		saved = append(saved, pr)
	}
	return saved, nil
}

// Candidates returns the heaviest completed set per (normalized exercise,
// reps) in the session, ignoring sets with no reps or no weight. Exercises
// whose names normalize to the same value are merged. The result is sorted
// by exercise name, then reps.
func Candidates(session *models.WorkoutSession) []Candidate {
	type key struct {
		name string
		reps int
	}
	best := make(map[key]float64)

	for _, e := range session.Exercises {
		name := models.NormalizeExerciseName(e.Name)
		for _, set := range e.Sets {
			if !set.Completed || set.Reps < 1 || set.Weight <= 0 {
				continue
			}
			k := key{name, set.Reps}
			if w, ok := best[k]; !ok || set.Weight > w {
				best[k] = set.Weight
			}
		}
	}

	out := make([]Candidate, 0, len(best))
	for k, w := range best {
		out = append(out, Candidate{ExerciseName: k.name, Reps: k.reps, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExerciseName != out[j].ExerciseName {
			return out[i].ExerciseName < out[j].ExerciseName
		}
		return out[i].Reps < out[j].Reps
	})
	return out
}
