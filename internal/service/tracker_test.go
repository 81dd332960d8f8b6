// ABOUTME: Tests for the workout lifecycle against a real SQLite store.
// ABOUTME: Covers template and program starts, finishing, and sync staging.
package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/lift/internal/apperrors"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTracker(t *testing.T) (*Tracker, *storage.DB, *time.Time) {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "lift.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := time.Date(2026, 4, 6, 18, 0, 0, 0, time.UTC)
	tr := NewTracker(db, nil)
	tr.now = func() time.Time { return clock }
	return tr, db, &clock
}

func completeAllSets(t *testing.T, db *storage.DB, s *models.WorkoutSession) {
	t.Helper()
	done := true
	for _, e := range s.Exercises {
		for _, set := range e.Sets {
			require.NoError(t, db.UpdateSet(context.Background(), set.ID, storage.SetUpdate{Completed: &done}))
		}
	}
}

func TestStartFromTemplate(t *testing.T) {
	tr, db, clock := setupTracker(t)
	ctx := context.Background()

	tmpl := models.NewWorkoutTemplate("Push Day")
	tmpl.AddExercise("Bench Press").WithTargets(3, 5, 185)
	tmpl.AddExercise("Dips")
	require.NoError(t, db.CreateTemplate(ctx, tmpl))

	s, err := tr.StartFromTemplate(ctx, tmpl.ID)
	require.NoError(t, err)

	got, err := db.GetSessionWithExercises(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Push Day", got.Name)
	require.NotNil(t, got.TemplateID)
	assert.Equal(t, tmpl.ID, *got.TemplateID)
	require.Len(t, got.Exercises, 2)

	bench := got.Exercises[0]
	require.Len(t, bench.Sets, 3)
	for i, set := range bench.Sets {
		assert.Equal(t, i+1, set.SetNumber)
		assert.Equal(t, 5, set.Reps)
		assert.Equal(t, 185.0, set.Weight)
		assert.False(t, set.Completed)
	}
	assert.Empty(t, got.Exercises[1].Sets)

	used, err := db.GetTemplate(ctx, tmpl.ID)
	require.NoError(t, err)
	require.NotNil(t, used.LastUsed)
	assert.True(t, used.LastUsed.Equal(*clock))
}

func TestStartRejectsSecondActiveSession(t *testing.T) {
	tr, _, _ := setupTracker(t)
	ctx := context.Background()

	_, err := tr.StartEmpty(ctx, "Morning")
	require.NoError(t, err)

	_, err = tr.StartEmpty(ctx, "Evening")
	assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
}

func TestProgramDayLifecycle(t *testing.T) {
	tr, db, clock := setupTracker(t)
	ctx := context.Background()

	p := models.NewProgram("Upper Lower")
	upper := p.AddDay("Upper")
	bench := upper.AddExercise("Bench Press")
	five, three := 5, 3
	light, heavy := 185.0, 205.0
	bench.AddSet(&five, &light)
	bench.AddSet(&three, &heavy)
	lower := p.AddDay("Lower")
	deadlift := lower.AddExercise("Deadlift")
	sets, reps, weight := 2, 5, 315.0
	deadlift.TargetSets, deadlift.TargetReps, deadlift.TargetWeight = &sets, &reps, &weight
	require.NoError(t, db.CreateProgram(ctx, p))

	s, err := tr.StartFromProgramDay(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Upper Lower - Upper", s.Name)
	require.Len(t, s.Exercises, 1)
	require.Len(t, s.Exercises[0].Sets, 2)
	assert.Equal(t, 3, s.Exercises[0].Sets[1].Reps)
	assert.Equal(t, 205.0, s.Exercises[0].Sets[1].Weight)

	completeAllSets(t, db, s)
	result, err := tr.Finish(ctx, s.ID, clock.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, result.Session.IsCompleted())
	assert.Len(t, result.NewPRs, 2)

	prog, err := db.GetProgram(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, prog.CurrentDayIndex)
	assert.Equal(t, 1, prog.TotalWorkoutsCompleted)

	pending, err := db.ListPendingSync(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, s.ID, pending[0].EntityID)
	assert.Equal(t, models.SyncCreate, pending[0].Operation)

	next, err := tr.StartFromProgramDay(ctx, p.ID, "")
	require.NoError(t, err)
	require.NotNil(t, next.ProgramDayID)
	assert.Equal(t, lower.ID, *next.ProgramDayID)
	require.Len(t, next.Exercises[0].Sets, 2, "legacy targets expand into sets")
	assert.Equal(t, 315.0, next.Exercises[0].Sets[0].Weight)
}

func TestFinishOnlyReportsNewRecords(t *testing.T) {
	tr, db, clock := setupTracker(t)
	ctx := context.Background()

	require.NoError(t, db.SavePR(ctx, models.NewPRRecord("Squat", 5, 300, "", clock.Add(-48*time.Hour))))

	s, err := tr.StartEmpty(ctx, "Legs")
	require.NoError(t, err)
	squat := &models.Exercise{Name: "Squat"}
	require.NoError(t, db.AddExercise(ctx, s.ID, squat))
	require.NoError(t, db.AddSet(ctx, squat.ID, &models.WorkoutSet{Reps: 5, Weight: 275, Completed: true}))
	require.NoError(t, db.AddSet(ctx, squat.ID, &models.WorkoutSet{Reps: 3, Weight: 315, Completed: true}))

	result, err := tr.Finish(ctx, s.ID, clock.Add(45*time.Minute))
	require.NoError(t, err)
	require.Len(t, result.NewPRs, 1)
	assert.Equal(t, 3, result.NewPRs[0].Reps)

	best, err := db.GetBestPR(ctx, "squat", 5)
	require.NoError(t, err)
	assert.Equal(t, 300.0, best.Weight)
}

func TestFinishErrors(t *testing.T) {
	tr, _, clock := setupTracker(t)
	ctx := context.Background()

	s, err := tr.StartEmpty(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Workout", s.Name)

	_, err = tr.Finish(ctx, s.ID, clock.Add(-time.Minute))
	assert.True(t, apperrors.IsValidation(err))

	_, err = tr.Finish(ctx, "missing", time.Time{})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = tr.StartFromProgramDay(ctx, "missing", "")
	assert.True(t, apperrors.IsNotFound(err))
}

// brokenRecords fails every PR lookup made inside a transaction.
type brokenRecords struct {
	*storage.DB
	broken bool
}

func (r *brokenRecords) WithinTx(ctx context.Context, fn func(storage.TxRepository) error) error {
	return r.DB.WithinTx(ctx, func(tx storage.TxRepository) error {
		if r.broken {
			return fn(brokenLookupTx{tx})
		}
		return fn(tx)
	})
}

type brokenLookupTx struct {
	storage.TxRepository
}

func (brokenLookupTx) GetBestPR(context.Context, string, int) (*models.PRRecord, error) {
	return nil, errors.New("disk I/O error")
}

func TestFinishRollsBackWhenDetectionFails(t *testing.T) {
	_, db, clock := setupTracker(t)
	ctx := context.Background()

	repo := &brokenRecords{DB: db, broken: true}
	tr := NewTracker(repo, nil)
	tr.now = func() time.Time { return *clock }

	s, err := tr.StartEmpty(ctx, "Push")
	require.NoError(t, err)
	bench := &models.Exercise{Name: "Bench Press"}
	require.NoError(t, db.AddExercise(ctx, s.ID, bench))
	require.NoError(t, db.AddSet(ctx, bench.ID, &models.WorkoutSet{Reps: 5, Weight: 185, Completed: true}))

	_, err = tr.Finish(ctx, s.ID, clock.Add(time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detect prs")

	active, err := db.GetActiveSession(ctx)
	require.NoError(t, err, "session should still be active")
	assert.Equal(t, s.ID, active.ID)
	assert.Nil(t, active.EndTime)

	prs, err := db.ListPRs(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, prs)
	pending, err := db.ListPendingSync(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	repo.broken = false
	result, err := tr.Finish(ctx, s.ID, clock.Add(time.Hour))
	require.NoError(t, err, "retry should succeed")
	assert.True(t, result.Session.IsCompleted())
	require.Len(t, result.NewPRs, 1)
	assert.Equal(t, "bench press", result.NewPRs[0].ExerciseName)

	pending, err = db.ListPendingSync(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
