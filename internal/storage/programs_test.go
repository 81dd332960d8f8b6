// ABOUTME: Tests for program, day, exercise and set target operations.
// ABOUTME: Covers deep creation, day advancement, and current day clamping.
package storage

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/lift/internal/apperrors"
	"github.com/harperreed/lift/internal/models"
)

func createPPLProgram(t *testing.T, db *DB) *models.Program {
	t.Helper()
	p := models.NewProgram("PPL")
	push := p.AddDay("Push")
	bench := push.AddExercise("Bench Press")
	bench.AddSet(intPtr(5), floatPtr(185))
	bench.AddSet(intPtr(5), floatPtr(185))
	bench.AddSet(intPtr(3), floatPtr(195))
	push.AddExercise("Dips")
	pull := p.AddDay("Pull")
	pull.AddExercise("Deadlift").AddSet(intPtr(5), floatPtr(315))
	legs := p.AddDay("Legs")
	legs.AddExercise("Squat").AddSet(intPtr(5), floatPtr(275))

	if err := db.CreateProgram(context.Background(), p); err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}
	return p
}

func completeProgramDay(t *testing.T, db *DB, p *models.Program, dayID string, start time.Time) *models.WorkoutSession {
	t.Helper()
	ctx := context.Background()
	s := models.NewWorkoutSession("Program day").WithProgramDay(p.ID, dayID).WithStartTime(start)
	if err := db.CreateSessionWithExercises(ctx, s); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := db.CompleteSession(ctx, s.ID, start.Add(time.Hour)); err != nil {
		t.Fatalf("CompleteSession failed: %v", err)
	}
	return s
}

func TestCreateProgramDeepRead(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	p := createPPLProgram(t, db)

	got, err := db.GetProgramWithDays(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProgramWithDays failed: %v", err)
	}
	if len(got.Days) != 3 || got.DayCount != 3 {
		t.Fatalf("Expected 3 days, got %d (count %d)", len(got.Days), got.DayCount)
	}
	for i, name := range []string{"Push", "Pull", "Legs"} {
		if got.Days[i].Name != name || got.Days[i].DayIndex != i {
			t.Errorf("Day %d: got %s index %d", i, got.Days[i].Name, got.Days[i].DayIndex)
		}
	}

	push := got.Days[0]
	if len(push.Exercises) != 2 || push.Exercises[0].ExerciseName != "Bench Press" || push.Exercises[1].Order != 1 {
		t.Fatalf("Unexpected push exercises: %+v", push.Exercises)
	}
	sets := push.Exercises[0].Sets
	if len(sets) != 3 {
		t.Fatalf("Expected 3 set targets, got %d", len(sets))
	}
	for i, s := range sets {
		if s.SetNumber != i+1 {
			t.Errorf("Set %d has number %d", i, s.SetNumber)
		}
	}
	if sets[2].TargetReps == nil || *sets[2].TargetReps != 3 || *sets[2].TargetWeight != 195 {
		t.Errorf("Unexpected third set target: %+v", sets[2])
	}
	if len(push.Exercises[1].Sets) != 0 {
		t.Errorf("Dips should have no set targets")
	}

	shallow, err := db.GetProgram(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProgram failed: %v", err)
	}
	if shallow.DayCount != 3 || shallow.Days != nil {
		t.Errorf("Shallow read: count %d, days %v", shallow.DayCount, shallow.Days)
	}
}

func TestCreateProgramRejectsTooManySets(t *testing.T) {
	db := setupTestDB(t)
	p := models.NewProgram("Volume")
	e := p.AddDay("Day 1").AddExercise("Squat")
	for i := 0; i < 21; i++ {
		e.AddSet(intPtr(5), floatPtr(100))
	}

	if err := db.CreateProgram(context.Background(), p); !apperrors.IsValidation(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if n := countRows(t, db, "programs"); n != 0 {
		t.Errorf("Expected nothing written, got %d programs", n)
	}
}

func TestCreateProgramRejectsNegativeCurrentDay(t *testing.T) {
	db := setupTestDB(t)
	p := models.NewProgram("Backwards")
	p.AddDay("Day 1").AddExercise("Squat")
	p.CurrentDayIndex = -1

	if err := db.CreateProgram(context.Background(), p); !apperrors.IsValidation(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if n := countRows(t, db, "programs"); n != 0 {
		t.Errorf("Expected nothing written, got %d programs", n)
	}
}

func TestActivateProgramIsExclusive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := createPPLProgram(t, db)
	b := models.NewProgram("5x5")
	b.AddDay("A")
	if err := db.CreateProgram(ctx, b); err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}

	if _, err := db.GetActiveProgram(ctx); !apperrors.IsNotFound(err) {
		t.Fatalf("Expected no active program, got %v", err)
	}

	if err := db.ActivateProgram(ctx, a.ID); err != nil {
		t.Fatalf("ActivateProgram failed: %v", err)
	}
	if err := db.ActivateProgram(ctx, b.ID); err != nil {
		t.Fatalf("ActivateProgram failed: %v", err)
	}

	active, err := db.GetActiveProgram(ctx)
	if err != nil {
		t.Fatalf("GetActiveProgram failed: %v", err)
	}
	if active.ID != b.ID || len(active.Days) != 1 {
		t.Errorf("Expected %s active with days loaded, got %s", b.ID, active.ID)
	}
	got, _ := db.GetProgram(ctx, a.ID)
	if got.IsActive {
		t.Errorf("Previous program should be deactivated")
	}

	if err := db.DeactivateProgram(ctx, b.ID); err != nil {
		t.Fatalf("DeactivateProgram failed: %v", err)
	}
	if _, err := db.GetActiveProgram(ctx); !apperrors.IsNotFound(err) {
		t.Errorf("Expected no active program after deactivation, got %v", err)
	}
	if err := db.ActivateProgram(ctx, "missing"); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestCompleteProgramSessionAdvancesDay(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	p := createPPLProgram(t, db)
	start := time.Now().Add(-72 * time.Hour)

	for i, day := range p.Days {
		completeProgramDay(t, db, p, day.ID, start.Add(time.Duration(i)*24*time.Hour))

		got, _ := db.GetProgram(ctx, p.ID)
		want := (i + 1) % len(p.Days)
		if got.CurrentDayIndex != want {
			t.Errorf("After day %d: current day %d, want %d", i, got.CurrentDayIndex, want)
		}
		if got.TotalWorkoutsCompleted != i+1 {
			t.Errorf("After day %d: total workouts %d, want %d", i, got.TotalWorkoutsCompleted, i+1)
		}
	}

	history, err := db.ListProgramHistory(ctx, p.ID, 0)
	if err != nil {
		t.Fatalf("ListProgramHistory failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("Expected 3 history entries, got %d", len(history))
	}
	if history[0].DayID == nil || *history[0].DayID != p.Days[2].ID {
		t.Errorf("Expected most recent history for Legs day")
	}
	if history[0].DurationSeconds == nil || *history[0].DurationSeconds != 3600 {
		t.Errorf("Expected history duration 3600, got %v", history[0].DurationSeconds)
	}

	limited, _ := db.ListProgramHistory(ctx, p.ID, 1)
	if len(limited) != 1 {
		t.Errorf("Expected 1 history entry with limit, got %d", len(limited))
	}
}

func TestCompleteOffScheduleDayAdvancesFromPerformedDay(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	p := createPPLProgram(t, db)

	// Current day is Push; performing Pull moves the pointer to Legs.
	completeProgramDay(t, db, p, p.Days[1].ID, time.Now().Add(-2*time.Hour))

	got, _ := db.GetProgram(ctx, p.ID)
	if got.CurrentDayIndex != 2 {
		t.Errorf("Expected current day 2, got %d", got.CurrentDayIndex)
	}
}

func TestSetCurrentDay(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	p := createPPLProgram(t, db)

	if err := db.SetCurrentDay(ctx, p.ID, 2); err != nil {
		t.Fatalf("SetCurrentDay failed: %v", err)
	}
	got, _ := db.GetProgram(ctx, p.ID)
	if got.CurrentDayIndex != 2 {
		t.Errorf("Expected current day 2, got %d", got.CurrentDayIndex)
	}

	for _, idx := range []int{-1, 3} {
		if err := db.SetCurrentDay(ctx, p.ID, idx); !apperrors.IsValidation(err) {
			t.Errorf("Index %d: expected validation error, got %v", idx, err)
		}
	}
	if err := db.SetCurrentDay(ctx, "missing", 0); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestRemoveProgramDayClampsCurrentDay(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	p := createPPLProgram(t, db)

	if err := db.SetCurrentDay(ctx, p.ID, 2); err != nil {
		t.Fatalf("SetCurrentDay failed: %v", err)
	}
	if err := db.RemoveProgramDay(ctx, p.Days[2].ID); err != nil {
		t.Fatalf("RemoveProgramDay failed: %v", err)
	}

	got, err := db.GetProgramWithDays(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProgramWithDays failed: %v", err)
	}
	if got.CurrentDayIndex != 0 {
		t.Errorf("Expected current day reset to 0, got %d", got.CurrentDayIndex)
	}
	if len(got.Days) != 2 {
		t.Errorf("Expected 2 days, got %d", len(got.Days))
	}
	if n := countRows(t, db, "program_day_exercises"); n != 3 {
		t.Errorf("Expected Legs exercises to cascade, %d left", n)
	}
}

func TestRemoveProgramDayKeepsIndexContiguous(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	p := createPPLProgram(t, db)

	if err := db.RemoveProgramDay(ctx, p.Days[0].ID); err != nil {
		t.Fatalf("RemoveProgramDay failed: %v", err)
	}

	got, _ := db.GetProgramWithDays(ctx, p.ID)
	for i, name := range []string{"Pull", "Legs"} {
		if got.Days[i].Name != name || got.Days[i].DayIndex != i {
			t.Errorf("Day %d: got %s index %d", i, got.Days[i].Name, got.Days[i].DayIndex)
		}
	}
	if got.CurrentDayIndex != 0 {
		t.Errorf("Expected current day to stay at 0, got %d", got.CurrentDayIndex)
	}
}

func TestAddRenameAndReorderProgramDays(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	p := createPPLProgram(t, db)

	rest := &models.ProgramDay{Name: "Arms"}
	rest.Exercises = []models.ProgramDayExercise{{ExerciseName: "Curl"}}
	if err := db.AddProgramDay(ctx, p.ID, rest); err != nil {
		t.Fatalf("AddProgramDay failed: %v", err)
	}
	if rest.DayIndex != 3 {
		t.Errorf("Expected day index 3, got %d", rest.DayIndex)
	}

	if err := db.RenameProgramDay(ctx, rest.ID, "Arms & Abs"); err != nil {
		t.Fatalf("RenameProgramDay failed: %v", err)
	}
	if err := db.RenameProgramDay(ctx, rest.ID, ""); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}

	order := []string{rest.ID, p.Days[0].ID, p.Days[1].ID, p.Days[2].ID}
	if err := db.ReorderProgramDays(ctx, p.ID, order); err != nil {
		t.Fatalf("ReorderProgramDays failed: %v", err)
	}

	got, _ := db.GetProgramWithDays(ctx, p.ID)
	if got.Days[0].Name != "Arms & Abs" || len(got.Days[0].Exercises) != 1 {
		t.Errorf("Expected Arms & Abs first with its exercise, got %+v", got.Days[0])
	}
	for i, day := range got.Days {
		if day.ID != order[i] || day.DayIndex != i {
			t.Errorf("Position %d: got %s index %d", i, day.Name, day.DayIndex)
		}
	}

	if err := db.AddProgramDay(ctx, "missing", &models.ProgramDay{Name: "X"}); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestProgramDayExerciseOperations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	p := createPPLProgram(t, db)
	push := p.Days[0]

	ohp := &models.ProgramDayExercise{ExerciseName: "Overhead Press", RestSeconds: intPtr(120)}
	if err := db.AddProgramDayExercise(ctx, push.ID, ohp); err != nil {
		t.Fatalf("AddProgramDayExercise failed: %v", err)
	}
	if ohp.Order != 2 {
		t.Errorf("Expected order 2, got %d", ohp.Order)
	}

	err := db.UpdateProgramDayExercise(ctx, ohp.ID, ProgramExerciseUpdate{TargetSets: intPtr(4), TargetReps: intPtr(6)})
	if err != nil {
		t.Fatalf("UpdateProgramDayExercise failed: %v", err)
	}
	if err := db.UpdateProgramDayExercise(ctx, ohp.ID, ProgramExerciseUpdate{TargetReps: intPtr(101)}); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}

	if err := db.ReorderProgramDayExercises(ctx, push.ID, []string{ohp.ID, push.Exercises[0].ID, push.Exercises[1].ID}); err != nil {
		t.Fatalf("ReorderProgramDayExercises failed: %v", err)
	}
	if err := db.RemoveProgramDayExercise(ctx, push.Exercises[1].ID); err != nil {
		t.Fatalf("RemoveProgramDayExercise failed: %v", err)
	}

	day, err := db.GetProgramDay(ctx, push.ID)
	if err != nil {
		t.Fatalf("GetProgramDay failed: %v", err)
	}
	if len(day.Exercises) != 2 {
		t.Fatalf("Expected 2 exercises, got %d", len(day.Exercises))
	}
	first := day.Exercises[0]
	if first.ExerciseName != "Overhead Press" || first.Order != 0 || first.TargetSets == nil || *first.TargetSets != 4 {
		t.Errorf("Unexpected first exercise: %+v", first)
	}
	if day.Exercises[1].ExerciseName != "Bench Press" || day.Exercises[1].Order != 1 || len(day.Exercises[1].Sets) != 3 {
		t.Errorf("Unexpected second exercise: %+v", day.Exercises[1])
	}
}

func TestProgramExerciseSetTargets(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	p := createPPLProgram(t, db)
	bench := p.Days[0].Exercises[0]

	extra := &models.ProgramDayExerciseSet{TargetReps: intPtr(1), TargetWeight: floatPtr(225)}
	if err := db.AddProgramExerciseSet(ctx, bench.ID, extra); err != nil {
		t.Fatalf("AddProgramExerciseSet failed: %v", err)
	}
	if extra.SetNumber != 4 {
		t.Errorf("Expected set number 4, got %d", extra.SetNumber)
	}

	if err := db.RemoveProgramExerciseSet(ctx, bench.Sets[0].ID); err != nil {
		t.Fatalf("RemoveProgramExerciseSet failed: %v", err)
	}

	day, _ := db.GetProgramDay(ctx, p.Days[0].ID)
	sets := day.Exercises[0].Sets
	if len(sets) != 3 {
		t.Fatalf("Expected 3 set targets, got %d", len(sets))
	}
	for i, s := range sets {
		if s.SetNumber != i+1 {
			t.Errorf("Set %d has number %d", i, s.SetNumber)
		}
	}
	if *sets[2].TargetWeight != 225 {
		t.Errorf("Expected last set at 225, got %v", *sets[2].TargetWeight)
	}

	if err := db.AddProgramExerciseSet(ctx, bench.ID, &models.ProgramDayExerciseSet{TargetReps: intPtr(0)}); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestDeleteProgramDetachesSessions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	p := createPPLProgram(t, db)
	s := completeProgramDay(t, db, p, p.Days[0].ID, time.Now().Add(-2*time.Hour))

	if err := db.DeleteProgram(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProgram failed: %v", err)
	}
	for _, table := range []string{"program_days", "program_day_exercises", "program_day_exercise_sets", "program_history"} {
		if n := countRows(t, db, table); n != 0 {
			t.Errorf("Expected %s to cascade, %d rows left", table, n)
		}
	}

	got, err := db.GetSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("Session should survive program deletion: %v", err)
	}
	if got.ProgramID != nil || got.ProgramDayID != nil {
		t.Errorf("Expected program references cleared")
	}
}

func TestUpdateAndListPrograms(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	p := createPPLProgram(t, db)
	other := models.NewProgram("Arnold Split")
	if err := db.CreateProgram(ctx, other); err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}
	if err := db.ActivateProgram(ctx, p.ID); err != nil {
		t.Fatalf("ActivateProgram failed: %v", err)
	}

	if err := db.UpdateProgram(ctx, p.ID, ProgramUpdate{Description: stringPtr("3 day split")}); err != nil {
		t.Fatalf("UpdateProgram failed: %v", err)
	}

	list, err := db.ListPrograms(ctx)
	if err != nil {
		t.Fatalf("ListPrograms failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != p.ID {
		t.Fatalf("Expected active program first, got %+v", list)
	}
	if list[0].Description == nil || *list[0].Description != "3 day split" || list[0].DayCount != 3 {
		t.Errorf("Unexpected summary: %+v", list[0])
	}
	if err := db.UpdateProgram(ctx, "missing", ProgramUpdate{Name: stringPtr("x")}); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}
