// ABOUTME: MCP tool implementations for workout tracking.
// ABOUTME: Templates, sessions, sets, finishing, programs, PRs, and analytics.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/lift/internal/analytics"
	"github.com/harperreed/lift/internal/apperrors"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// templates
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_templates",
		Description: "List workout templates, most recently used first",
	}, s.handleListTemplates)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_template",
		Description: "Create a workout template with its exercises",
	}, s.handleCreateTemplate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_template",
		Description: "Get a template with all its exercises",
	}, s.handleGetTemplate)

	// sessions
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_workout",
		Description: "Start a workout from a template, a program day, or empty",
	}, s.handleStartWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add an exercise to a workout (the active one by default)",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Log a set for an exercise in a workout",
	}, s.handleLogSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_set",
		Description: "Change reps, weight, or completion of a set",
	}, s.handleUpdateSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_workout",
		Description: "Finish a workout, detecting new personal records",
	}, s.handleFinishWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List recent workouts, optionally only active or completed ones",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a workout with all its exercises and sets",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout with its exercises and sets",
	}, s.handleDeleteWorkout)

	// programs
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_programs",
		Description: "List training programs, the active one first",
	}, s.handleListPrograms)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_program",
		Description: "Get a program with its days, exercises, and set targets",
	}, s.handleGetProgram)

	// records and analytics
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_prs",
		Description: "List personal records, optionally for one exercise",
	}, s.handleListPRs)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_stats",
		Description: "Workout count, volume, sets, average duration, and PR count over recent days",
	}, s.handleGetStats)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "exercise_progression",
		Description: "Best weight and volume per session for one exercise, oldest first",
	}, s.handleExerciseProgression)
}

// Tool input/output types

type templateExerciseInput struct {
	Name   string  `json:"name" jsonschema:"Exercise name"`
	Sets   int     `json:"sets,omitempty" jsonschema:"Target number of sets"`
	Reps   int     `json:"reps,omitempty" jsonschema:"Target reps per set"`
	Weight float64 `json:"weight,omitempty" jsonschema:"Target weight per set"`
}

type createTemplateInput struct {
	Name        string                  `json:"name" jsonschema:"Template name"`
	Description string                  `json:"description,omitempty" jsonschema:"Optional description"`
	Exercises   []templateExerciseInput `json:"exercises,omitempty" jsonschema:"Exercises in order"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"ID or ID prefix"`
}

type startWorkoutInput struct {
	TemplateID string `json:"template_id,omitempty" jsonschema:"Template ID or prefix to start from"`
	ProgramID  string `json:"program_id,omitempty" jsonschema:"Program ID or prefix to start from"`
	DayID      string `json:"day_id,omitempty" jsonschema:"Program day ID or prefix; defaults to the current day"`
	Name       string `json:"name,omitempty" jsonschema:"Name for an empty workout"`
}

type entityOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Exercises int    `json:"exercises"`
	Message   string `json:"message"`
}

type addExerciseInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Workout ID or prefix; defaults to the active workout"`
	Name      string `json:"name" jsonschema:"Exercise name"`
	Notes     string `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type exerciseOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type logSetInput struct {
	ExerciseID string  `json:"exercise_id" jsonschema:"Exercise ID or prefix"`
	Reps       int     `json:"reps" jsonschema:"Repetitions performed"`
	Weight     float64 `json:"weight" jsonschema:"Weight used"`
	Pending    bool    `json:"pending,omitempty" jsonschema:"Log the set as planned rather than completed"`
}

type setOutput struct {
	ID        string `json:"id"`
	SetNumber int    `json:"set_number"`
	Message   string `json:"message"`
}

type updateSetInput struct {
	SetID     string   `json:"set_id" jsonschema:"Set ID or prefix"`
	Reps      *int     `json:"reps,omitempty" jsonschema:"New repetitions"`
	Weight    *float64 `json:"weight,omitempty" jsonschema:"New weight"`
	Completed *bool    `json:"completed,omitempty" jsonschema:"Mark the set completed or not"`
}

type finishWorkoutInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Workout ID or prefix; defaults to the active workout"`
}

type finishOutput struct {
	ID              string             `json:"id"`
	DurationSeconds int                `json:"duration_seconds"`
	NewPRs          []*models.PRRecord `json:"new_prs"`
	Message         string             `json:"message"`
}

type listWorkoutsInput struct {
	Status string `json:"status,omitempty" jsonschema:"all, active, or completed"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type listPRsInput struct {
	Exercise string `json:"exercise,omitempty" jsonschema:"Only records for this exercise"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max results when listing recent records (default 10)"`
}

type statsInput struct {
	Days      int    `json:"days,omitempty" jsonschema:"Days to look back (default 30)"`
	Filter    string `json:"filter,omitempty" jsonschema:"all, program, any-program, template, or free"`
	ProgramID string `json:"program_id,omitempty" jsonschema:"Program ID or prefix for the program filter"`
}

type progressionInput struct {
	Exercise  string `json:"exercise" jsonschema:"Exercise name"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Number of most recent workouts (default 10)"`
	Filter    string `json:"filter,omitempty" jsonschema:"all, program, any-program, template, or free"`
	ProgramID string `json:"program_id,omitempty" jsonschema:"Program ID or prefix for the program filter"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleListTemplates(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	templates, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if len(templates) == 0 {
		return nil, map[string]any{"message": "No templates found."}, nil
	}
	return nil, templates, nil
}

func (s *Server) handleCreateTemplate(ctx context.Context, req *mcp.CallToolRequest, input createTemplateInput) (*mcp.CallToolResult, entityOutput, error) {
	t := models.NewWorkoutTemplate(input.Name)
	if input.Description != "" {
		t.WithDescription(input.Description)
	}
	for _, e := range input.Exercises {
		et := t.AddExercise(e.Name)
		if e.Sets > 0 {
			et.WithTargets(e.Sets, e.Reps, e.Weight)
			if e.Reps == 0 {
				et.TargetReps = nil
			}
		}
	}

	if err := s.repo.CreateTemplate(ctx, t); err != nil {
		return nil, entityOutput{}, fmt.Errorf("failed to create template: %w", err)
	}
	return nil, entityOutput{
		ID:        t.ID,
		Name:      t.Name,
		Exercises: len(t.Exercises),
		Message:   fmt.Sprintf("Created template %s with %d exercises (ID: %s)", t.Name, len(t.Exercises), t.ID[:8]),
	}, nil
}

func (s *Server) handleGetTemplate(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	id, err := s.repo.ResolveID(ctx, "template", input.ID)
	if err != nil {
		return nil, nil, err
	}
	t, err := s.repo.GetTemplateWithExercises(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return nil, t, nil
}

func (s *Server) handleStartWorkout(ctx context.Context, req *mcp.CallToolRequest, input startWorkoutInput) (*mcp.CallToolResult, entityOutput, error) {
	var (
		session *models.WorkoutSession
		err     error
	)
	switch {
	case input.TemplateID != "" && input.ProgramID != "":
		return nil, entityOutput{}, apperrors.Invalid("template_id", "cannot be combined with program_id")
	case input.TemplateID != "":
		var id string
		if id, err = s.repo.ResolveID(ctx, "template", input.TemplateID); err != nil {
			return nil, entityOutput{}, err
		}
		session, err = s.tracker.StartFromTemplate(ctx, id)
	case input.ProgramID != "":
		var programID, dayID string
		if programID, err = s.repo.ResolveID(ctx, "program", input.ProgramID); err != nil {
			return nil, entityOutput{}, err
		}
		if input.DayID != "" {
			if dayID, err = s.repo.ResolveID(ctx, "program day", input.DayID); err != nil {
				return nil, entityOutput{}, err
			}
		}
		session, err = s.tracker.StartFromProgramDay(ctx, programID, dayID)
	default:
		session, err = s.tracker.StartEmpty(ctx, input.Name)
	}
	if err != nil {
		return nil, entityOutput{}, fmt.Errorf("failed to start workout: %w", err)
	}

	return nil, entityOutput{
		ID:        session.ID,
		Name:      session.Name,
		Exercises: len(session.Exercises),
		Message:   fmt.Sprintf("Started %s (ID: %s)", session.Name, session.ID[:8]),
	}, nil
}

// sessionID resolves an explicit session reference or falls back to the
// active session.
func (s *Server) sessionID(ctx context.Context, ref string) (string, error) {
	if ref != "" {
		return s.repo.ResolveID(ctx, "session", ref)
	}
	active, err := s.repo.GetActiveSession(ctx)
	if err != nil {
		return "", err
	}
	return active.ID, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	sessionID, err := s.sessionID(ctx, input.SessionID)
	if err != nil {
		return nil, exerciseOutput{}, err
	}
	e := &models.Exercise{Name: input.Name}
	if input.Notes != "" {
		e.Notes = &input.Notes
	}
	if err := s.repo.AddExercise(ctx, sessionID, e); err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to add exercise: %w", err)
	}
	return nil, exerciseOutput{
		ID:      e.ID,
		Message: fmt.Sprintf("Added %s (ID: %s)", e.Name, e.ID[:8]),
	}, nil
}

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, setOutput, error) {
	exerciseID, err := s.repo.ResolveID(ctx, "exercise", input.ExerciseID)
	if err != nil {
		return nil, setOutput{}, err
	}
	set := &models.WorkoutSet{Reps: input.Reps, Weight: input.Weight}
	if !input.Pending {
		set.MarkCompleted(time.Now())
	}
	if err := s.repo.AddSet(ctx, exerciseID, set); err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to log set: %w", err)
	}
	return nil, setOutput{
		ID:        set.ID,
		SetNumber: set.SetNumber,
		Message:   fmt.Sprintf("Set %d: %d x %g", set.SetNumber, set.Reps, set.Weight),
	}, nil
}

func (s *Server) handleUpdateSet(ctx context.Context, req *mcp.CallToolRequest, input updateSetInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.repo.ResolveID(ctx, "set", input.SetID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	u := storage.SetUpdate{Reps: input.Reps, Weight: input.Weight, Completed: input.Completed}
	if err := s.repo.UpdateSet(ctx, id, u); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to update set: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Updated set %s", id[:8])}, nil
}

func (s *Server) handleFinishWorkout(ctx context.Context, req *mcp.CallToolRequest, input finishWorkoutInput) (*mcp.CallToolResult, finishOutput, error) {
	sessionID, err := s.sessionID(ctx, input.SessionID)
	if err != nil {
		return nil, finishOutput{}, err
	}
	result, err := s.tracker.Finish(ctx, sessionID, time.Time{})
	if err != nil {
		return nil, finishOutput{}, fmt.Errorf("failed to finish workout: %w", err)
	}

	out := finishOutput{ID: result.Session.ID, NewPRs: result.NewPRs}
	if result.Session.Duration != nil {
		out.DurationSeconds = *result.Session.Duration
	}
	out.Message = fmt.Sprintf("Finished %s in %d min with %d new PRs",
		result.Session.Name, out.DurationSeconds/60, len(result.NewPRs))
	return nil, out, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	q := storage.SessionQuery{Limit: input.Limit}
	switch input.Status {
	case "", "all":
	case "active":
		q.Status = storage.SessionsActive
	case "completed":
		q.Status = storage.SessionsCompleted
	default:
		return nil, nil, apperrors.Invalid("status", "must be all, active, or completed")
	}

	sessions, err := s.repo.ListSessions(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	if len(sessions) == 0 {
		return nil, map[string]any{"message": "No workouts found."}, nil
	}
	return nil, sessions, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	id, err := s.repo.ResolveID(ctx, "session", input.ID)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.repo.GetSessionWithExercises(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return nil, session, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.repo.ResolveID(ctx, "session", input.ID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted workout: %s", id[:8])}, nil
}

func (s *Server) handleListPrograms(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	programs, err := s.repo.ListPrograms(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list programs: %w", err)
	}
	if len(programs) == 0 {
		return nil, map[string]any{"message": "No programs found."}, nil
	}
	return nil, programs, nil
}

func (s *Server) handleGetProgram(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	id, err := s.repo.ResolveID(ctx, "program", input.ID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.repo.GetProgramWithDays(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return nil, p, nil
}

func (s *Server) handleListPRs(ctx context.Context, req *mcp.CallToolRequest, input listPRsInput) (*mcp.CallToolResult, any, error) {
	var (
		prs []*models.PRRecord
		err error
	)
	if input.Exercise != "" {
		prs, err = s.repo.ListPRs(ctx, input.Exercise)
	} else {
		prs, err = s.repo.ListRecentPRs(ctx, input.Limit)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list PRs: %w", err)
	}
	if len(prs) == 0 {
		return nil, map[string]any{"message": "No personal records found."}, nil
	}
	return nil, prs, nil
}

// filter builds an analytics filter from tool input.
func (s *Server) filter(ctx context.Context, kind, programRef string) (*analytics.Filter, error) {
	k, err := analytics.ParseFilterKind(kind)
	if err != nil {
		return nil, err
	}
	f := &analytics.Filter{Kind: k}
	if programRef != "" {
		if f.ProgramID, err = s.repo.ResolveID(ctx, "program", programRef); err != nil {
			return nil, err
		}
		if k == analytics.All {
			f.Kind = analytics.Program
		}
	}
	return f, nil
}

func (s *Server) handleGetStats(ctx context.Context, req *mcp.CallToolRequest, input statsInput) (*mcp.CallToolResult, analytics.Summary, error) {
	if input.Days <= 0 {
		input.Days = 30
	}
	f, err := s.filter(ctx, input.Filter, input.ProgramID)
	if err != nil {
		return nil, analytics.Summary{}, err
	}
	end := time.Now()
	summary, err := s.stats.Summarize(ctx, end.AddDate(0, 0, -input.Days), end, f)
	if err != nil {
		return nil, analytics.Summary{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	return nil, *summary, nil
}

func (s *Server) handleExerciseProgression(ctx context.Context, req *mcp.CallToolRequest, input progressionInput) (*mcp.CallToolResult, any, error) {
	if input.Exercise == "" {
		return nil, nil, apperrors.Invalid("exercise", "is required")
	}
	f, err := s.filter(ctx, input.Filter, input.ProgramID)
	if err != nil {
		return nil, nil, err
	}
	points, err := s.stats.ExerciseProgression(ctx, input.Exercise, input.Limit, f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute progression: %w", err)
	}
	return nil, map[string]any{
		"exercise": models.NormalizeExerciseName(input.Exercise),
		"points":   points,
	}, nil
}
