// ABOUTME: Workout lifecycle: starting sessions from templates or program days
// ABOUTME: and finishing them with PR detection and sync staging.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/harperreed/lift/internal/apperrors"
	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/records"
	"github.com/harperreed/lift/internal/storage"
)

// Tracker starts and finishes workout sessions.
type Tracker struct {
	repo storage.Repository
	log  *log.Logger
	now  func() time.Time
}

// FinishResult is what finishing a session produced.
type FinishResult struct {
	Session *models.WorkoutSession `json:"session"`
	NewPRs  []*models.PRRecord     `json:"new_prs"`
}

// NewTracker creates a tracker over repo. A nil logger discards output.
func NewTracker(repo storage.Repository, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Tracker{
		repo: repo,
		log:  logger,
		now:  time.Now,
	}
}

// StartEmpty starts a session with no exercises.
func (t *Tracker) StartEmpty(ctx context.Context, name string) (*models.WorkoutSession, error) {
	if name == "" {
		name = "Workout"
	}
	s := models.NewWorkoutSession(name).WithStartTime(t.now())
	return s, t.start(ctx, s)
}

// StartFromTemplate starts a session pre-filled with the template's
// exercises and one uncompleted set per target set.
func (t *Tracker) StartFromTemplate(ctx context.Context, templateID string) (*models.WorkoutSession, error) {
	tmpl, err := t.repo.GetTemplateWithExercises(ctx, templateID)
	if err != nil {
		return nil, err
	}

	s := models.NewWorkoutSession(tmpl.Name).WithStartTime(t.now()).WithTemplate(tmpl.ID, tmpl.Name)
	for _, te := range tmpl.Exercises {
		e := s.AddExercise(te.Name)
		e.Notes = te.Notes
		for i := 0; i < deref(te.TargetSets); i++ {
			e.AddSet(deref(te.TargetReps), deref(te.TargetWeight))
		}
	}
	return s, t.start(ctx, s)
}

// StartFromProgramDay starts a session for a program day. An empty dayID
// means the program's current day. Per-set targets take precedence over the
// legacy flat prescription.
func (t *Tracker) StartFromProgramDay(ctx context.Context, programID, dayID string) (*models.WorkoutSession, error) {
	p, err := t.repo.GetProgramWithDays(ctx, programID)
	if err != nil {
		return nil, err
	}

	var day *models.ProgramDay
	if dayID == "" {
		day = p.CurrentDay()
		if day == nil {
			return nil, apperrors.Invalid("program", "%q has no days", p.Name)
		}
	} else {
		for i := range p.Days {
			if p.Days[i].ID == dayID {
				day = &p.Days[i]
				break
			}
		}
		if day == nil {
			return nil, apperrors.NotFound("program day", dayID)
		}
	}

	s := models.NewWorkoutSession(p.Name + " - " + day.Name).WithStartTime(t.now()).WithProgramDay(p.ID, day.ID)
	for _, pe := range day.Exercises {
		e := s.AddExercise(pe.ExerciseName)
		e.Notes = pe.Notes
		if len(pe.Sets) > 0 {
			for _, target := range pe.Sets {
				e.AddSet(deref(target.TargetReps), deref(target.TargetWeight))
			}
			continue
		}
		for i := 0; i < deref(pe.TargetSets); i++ {
			e.AddSet(deref(pe.TargetReps), deref(pe.TargetWeight))
		}
	}
	return s, t.start(ctx, s)
}

// Finish completes a session, detects and saves new PRs, and stages the
// finished session for sync. All of it commits together or not at all, so a
// failed finish leaves the session active. A zero endTime means now.
func (t *Tracker) Finish(ctx context.Context, sessionID string, endTime time.Time) (*FinishResult, error) {
	if endTime.IsZero() {
		endTime = t.now()
	}

	var result FinishResult
	err := t.repo.WithinTx(ctx, func(tx storage.TxRepository) error {
		if _, err := tx.CompleteSession(ctx, sessionID, endTime); err != nil {
			return err
		}

		prs, err := records.NewDetector(tx, t.log).DetectAndSavePRs(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("detect prs: %w", err)
		}

		session, err := tx.GetSessionWithExercises(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := stage(ctx, tx, session); err != nil {
			return err
		}
		result = FinishResult{Session: session, NewPRs: prs}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.log.Printf("[INFO] finished %s with %d new PRs\n", result.Session.Name, len(result.NewPRs))
	return &result, nil
}

// start refuses to open a second active session.
func (t *Tracker) start(ctx context.Context, s *models.WorkoutSession) error {
	active, err := t.repo.GetActiveSession(ctx)
	switch {
	case err == nil:
		return apperrors.Invalid("session", "%q is still active", active.Name)
	case !apperrors.IsNotFound(err):
		return err
	}

	if err := t.repo.CreateSessionWithExercises(ctx, s); err != nil {
		return err
	}
	t.log.Printf("[INFO] started %s\n", s.Name)
	return nil
}

func stage(ctx context.Context, tx storage.TxRepository, s *models.WorkoutSession) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	entry := models.NewSyncQueueEntry("workout_session", s.ID, models.SyncCreate, string(payload))
	if err := tx.EnqueueSync(ctx, entry); err != nil {
		return fmt.Errorf("stage session for sync: %w", err)
	}
	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
