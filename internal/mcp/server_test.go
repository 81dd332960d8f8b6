// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, the workout lifecycle through tools, and resource handlers.
package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/lift/internal/apperrors"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestServer creates a server over a test database in a temp directory.
func setupTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "lift-mcp-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "lift.db")
	db, err := storage.Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	server, err := NewServer(db, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
	if server.tracker == nil || server.stats == nil {
		t.Error("Expected tracker and stats to be wired")
	}
}

func TestHandleCreateAndGetTemplate(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	_, created, err := server.handleCreateTemplate(ctx, &mcp.CallToolRequest{}, createTemplateInput{
		Name: "Push Day",
		Exercises: []templateExerciseInput{
			{Name: "Bench Press", Sets: 3, Reps: 5, Weight: 185},
			{Name: "Dips"},
		},
	})
	if err != nil {
		t.Fatalf("handleCreateTemplate failed: %v", err)
	}
	if created.Exercises != 2 || created.ID == "" {
		t.Errorf("Unexpected output: %+v", created)
	}

	_, got, err := server.handleGetTemplate(ctx, &mcp.CallToolRequest{}, idInput{ID: created.ID[:8]})
	if err != nil {
		t.Fatalf("handleGetTemplate failed: %v", err)
	}
	tmpl, ok := got.(*models.WorkoutTemplate)
	if !ok {
		t.Fatalf("Expected *models.WorkoutTemplate, got %T", got)
	}
	if len(tmpl.Exercises) != 2 || *tmpl.Exercises[0].TargetSets != 3 {
		t.Errorf("Unexpected template: %+v", tmpl)
	}
	if tmpl.Exercises[1].TargetSets != nil {
		t.Errorf("Dips should have no targets")
	}
}

func TestHandleCreateTemplateInvalid(t *testing.T) {
	server, _ := setupTestServer(t)

	_, _, err := server.handleCreateTemplate(context.Background(), &mcp.CallToolRequest{}, createTemplateInput{
		Name:      "Bad",
		Exercises: []templateExerciseInput{{Name: "X"}},
	})
	if !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestHandleListEmpty(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	req := &mcp.CallToolRequest{}

	outputs := map[string]func() (any, error){
		"templates": func() (any, error) {
			_, out, err := server.handleListTemplates(ctx, req, struct{}{})
			return out, err
		},
		"workouts": func() (any, error) {
			_, out, err := server.handleListWorkouts(ctx, req, listWorkoutsInput{})
			return out, err
		},
		"programs": func() (any, error) {
			_, out, err := server.handleListPrograms(ctx, req, struct{}{})
			return out, err
		},
		"prs": func() (any, error) {
			_, out, err := server.handleListPRs(ctx, req, listPRsInput{})
			return out, err
		},
	}
	for name, call := range outputs {
		t.Run(name, func(t *testing.T) {
			out, err := call()
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			msg, ok := out.(map[string]any)
			if !ok || msg["message"] == nil {
				t.Errorf("Expected a message for empty results, got %v", out)
			}
		})
	}
}

func TestWorkoutLifecycle(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()
	req := &mcp.CallToolRequest{}

	_, started, err := server.handleStartWorkout(ctx, req, startWorkoutInput{Name: "Evening"})
	if err != nil {
		t.Fatalf("handleStartWorkout failed: %v", err)
	}

	_, ex, err := server.handleAddExercise(ctx, req, addExerciseInput{Name: "Bench Press"})
	if err != nil {
		t.Fatalf("handleAddExercise failed: %v", err)
	}

	for _, in := range []logSetInput{
		{ExerciseID: ex.ID[:8], Reps: 5, Weight: 185},
		{ExerciseID: ex.ID, Reps: 5, Weight: 195},
		{ExerciseID: ex.ID, Reps: 5, Weight: 205, Pending: true},
	} {
		if _, _, err := server.handleLogSet(ctx, req, in); err != nil {
			t.Fatalf("handleLogSet failed: %v", err)
		}
	}

	session, err := db.GetSessionWithExercises(ctx, started.ID)
	if err != nil {
		t.Fatalf("GetSessionWithExercises failed: %v", err)
	}
	sets := session.Exercises[0].Sets
	if len(sets) != 3 || sets[2].SetNumber != 3 || sets[2].Completed {
		t.Fatalf("Unexpected sets: %+v", sets)
	}

	reps := 4
	if _, _, err := server.handleUpdateSet(ctx, req, updateSetInput{SetID: sets[1].ID, Reps: &reps}); err != nil {
		t.Fatalf("handleUpdateSet failed: %v", err)
	}

	_, finished, err := server.handleFinishWorkout(ctx, req, finishWorkoutInput{})
	if err != nil {
		t.Fatalf("handleFinishWorkout failed: %v", err)
	}
	if finished.ID != started.ID {
		t.Errorf("Finished %s, want %s", finished.ID, started.ID)
	}
	if len(finished.NewPRs) != 2 {
		t.Fatalf("Expected 2 new PRs (5 reps and 4 reps), got %d", len(finished.NewPRs))
	}

	_, prs, err := server.handleListPRs(ctx, req, listPRsInput{Exercise: "BENCH PRESS"})
	if err != nil {
		t.Fatalf("handleListPRs failed: %v", err)
	}
	if list, ok := prs.([]*models.PRRecord); !ok || len(list) != 2 {
		t.Errorf("Expected 2 bench PRs, got %v", prs)
	}

	_, stats, err := server.handleGetStats(ctx, req, statsInput{})
	if err != nil {
		t.Fatalf("handleGetStats failed: %v", err)
	}
	if stats.Workouts != 1 || stats.Sets != 2 || stats.PRs != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.Volume != 5*185+4*195 {
		t.Errorf("Volume = %v, want %v", stats.Volume, 5*185+4*195)
	}

	_, progression, err := server.handleExerciseProgression(ctx, req, progressionInput{Exercise: "Bench Press"})
	if err != nil {
		t.Fatalf("handleExerciseProgression failed: %v", err)
	}
	data, _ := json.Marshal(progression)
	if !strings.Contains(string(data), `"max_weight":195`) {
		t.Errorf("Expected best weight 195 in %s", data)
	}
}

func TestHandleFinishWithoutActiveWorkout(t *testing.T) {
	server, _ := setupTestServer(t)

	_, _, err := server.handleFinishWorkout(context.Background(), &mcp.CallToolRequest{}, finishWorkoutInput{})
	if !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestHandleStartWorkoutFromProgram(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	p := models.NewProgram("Two Day")
	p.AddDay("A").AddExercise("Squat")
	b := p.AddDay("B")
	b.AddExercise("Deadlift")
	if err := db.CreateProgram(ctx, p); err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}

	_, out, err := server.handleStartWorkout(ctx, &mcp.CallToolRequest{}, startWorkoutInput{
		ProgramID: p.ID[:8],
		DayID:     b.ID[:8],
	})
	if err != nil {
		t.Fatalf("handleStartWorkout failed: %v", err)
	}
	if out.Name != "Two Day - B" || out.Exercises != 1 {
		t.Errorf("Unexpected output: %+v", out)
	}

	_, _, err = server.handleStartWorkout(ctx, &mcp.CallToolRequest{}, startWorkoutInput{
		TemplateID: "abc",
		ProgramID:  p.ID,
	})
	if !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for template and program, got %v", err)
	}
}

func TestHandleListWorkoutsStatus(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	req := &mcp.CallToolRequest{}

	if _, _, err := server.handleStartWorkout(ctx, req, startWorkoutInput{Name: "Running"}); err != nil {
		t.Fatalf("handleStartWorkout failed: %v", err)
	}

	_, out, err := server.handleListWorkouts(ctx, req, listWorkoutsInput{Status: "active"})
	if err != nil {
		t.Fatalf("handleListWorkouts failed: %v", err)
	}
	if list, ok := out.([]*models.WorkoutSession); !ok || len(list) != 1 {
		t.Errorf("Expected 1 active workout, got %v", out)
	}

	_, _, err = server.handleListWorkouts(ctx, req, listWorkoutsInput{Status: "paused"})
	if !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for unknown status, got %v", err)
	}
}

func TestHandleDeleteWorkout(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	_, started, err := server.handleStartWorkout(ctx, &mcp.CallToolRequest{}, startWorkoutInput{})
	if err != nil {
		t.Fatalf("handleStartWorkout failed: %v", err)
	}
	if _, _, err := server.handleDeleteWorkout(ctx, &mcp.CallToolRequest{}, idInput{ID: started.ID[:8]}); err != nil {
		t.Fatalf("handleDeleteWorkout failed: %v", err)
	}
	if _, err := db.GetSession(ctx, started.ID); !apperrors.IsNotFound(err) {
		t.Errorf("Expected workout to be deleted, got %v", err)
	}

	_, _, err = server.handleDeleteWorkout(ctx, &mcp.CallToolRequest{}, idInput{ID: "nonexistent"})
	if err == nil {
		t.Error("Expected error for nonexistent workout")
	}
}

func TestHandleActiveResource(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	result, err := server.handleActiveResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != "lift://active" {
		t.Errorf("URI = %s, want lift://active", result.Contents[0].URI)
	}
	if !strings.Contains(result.Contents[0].Text, `"active": false`) {
		t.Errorf("Expected inactive state, got %s", result.Contents[0].Text)
	}

	if _, _, err := server.handleStartWorkout(ctx, &mcp.CallToolRequest{}, startWorkoutInput{Name: "Legs"}); err != nil {
		t.Fatalf("handleStartWorkout failed: %v", err)
	}
	result, err = server.handleActiveResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	text := result.Contents[0].Text
	if !strings.Contains(text, `"active": true`) || !strings.Contains(text, "Legs") {
		t.Errorf("Expected active Legs workout, got %s", text)
	}
}

func TestHandleSummaryResource(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	p := models.NewProgram("PPL")
	p.IsActive = true
	p.AddDay("Push").AddExercise("Bench Press")
	if err := db.CreateProgram(ctx, p); err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}

	result, err := server.handleSummaryResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != "lift://summary" {
		t.Errorf("URI = %s, want lift://summary", result.Contents[0].URI)
	}
	if result.Contents[0].MIMEType != "application/json" {
		t.Errorf("MIMEType = %s, want application/json", result.Contents[0].MIMEType)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &parsed); err != nil {
		t.Fatalf("Summary is not JSON: %v", err)
	}
	for _, key := range []string{"last_30_days", "daily_volume", "recent_prs", "active_program"} {
		if _, ok := parsed[key]; !ok {
			t.Errorf("Expected %s section", key)
		}
	}
	program, _ := parsed["active_program"].(map[string]any)
	if program["next_day"] != "Push" {
		t.Errorf("Expected next day Push, got %v", program["next_day"])
	}
}
