// ABOUTME: MCP resource implementations for workout tracking.
// ABOUTME: Provides lift://active and lift://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/lift/internal/apperrors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	activeURI  = "lift://active"
	summaryURI = "lift://summary"
)

func (s *Server) registerResources() {
	// lift://active - the workout in progress, if any
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         activeURI,
		Name:        "Active Workout",
		Description: "The workout in progress with its exercises and sets",
		MIMEType:    "application/json",
	}, s.handleActiveResource)

	// lift://summary - last 30 days of training plus records and program position
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Training Summary",
		Description: "Last 30 days of training, recent PRs, and the active program's next day",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleActiveResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result := map[string]any{"active": false}

	active, err := s.repo.GetActiveSession(ctx)
	switch {
	case apperrors.IsNotFound(err):
	case err != nil:
		return nil, fmt.Errorf("failed to get active workout: %w", err)
	default:
		session, err := s.repo.GetSessionWithExercises(ctx, active.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load active workout: %w", err)
		}
		result["active"] = true
		result["session"] = session
		result["elapsed_seconds"] = int(time.Since(session.StartTime).Seconds())
	}

	return jsonResource(activeURI, result)
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	summary, err := s.stats.Summarize(ctx, start, end, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize: %w", err)
	}
	volume, err := s.stats.VolumeOverTime(ctx, start, end, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get volume: %w", err)
	}
	prs, err := s.repo.ListRecentPRs(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to list PRs: %w", err)
	}

	result := map[string]any{
		"generated_at":   end.Format(time.RFC3339),
		"last_30_days":   summary,
		"daily_volume":   volume,
		"recent_prs":     prs,
		"active_program": nil,
	}

	program, err := s.repo.GetActiveProgram(ctx)
	switch {
	case apperrors.IsNotFound(err):
	case err != nil:
		return nil, fmt.Errorf("failed to get active program: %w", err)
	default:
		next := map[string]any{
			"id":                 program.ID,
			"name":               program.Name,
			"workouts_completed": program.TotalWorkoutsCompleted,
		}
		if day := program.CurrentDay(); day != nil {
			next["next_day"] = day.Name
			next["next_day_id"] = day.ID
		}
		result["active_program"] = next
	}

	return jsonResource(summaryURI, result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
