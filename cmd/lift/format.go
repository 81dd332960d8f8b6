// ABOUTME: Shared CLI helpers for parsing input and formatting output.
// ABOUTME: Covers time parsing, exercise specs, IDs, and column padding.
package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/models"
)

var faint = color.New(color.Faint)

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// exerciseSpec is "Name", "Name:SETSxREPS", or "Name:SETSxREPS@WEIGHT".
var exerciseSpec = regexp.MustCompile(`^(\d+)x(\d+)(?:@(\d+(?:\.\d+)?))?$`)

type exerciseTargets struct {
	Name   string
	Sets   int
	Reps   int
	Weight float64
}

func parseExerciseSpec(s string) (exerciseTargets, error) {
	name, targets, found := strings.Cut(s, ":")
	t := exerciseTargets{Name: strings.TrimSpace(name)}
	if t.Name == "" {
		return t, fmt.Errorf("exercise %q has no name", s)
	}
	if !found {
		return t, nil
	}

	m := exerciseSpec.FindStringSubmatch(strings.TrimSpace(targets))
	if m == nil {
		return t, fmt.Errorf("invalid targets %q (use SETSxREPS or SETSxREPS@WEIGHT)", targets)
	}
	t.Sets, _ = strconv.Atoi(m[1])
	t.Reps, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		t.Weight, _ = strconv.ParseFloat(m[3], 64)
	}
	return t, nil
}

func formatDuration(seconds *int) string {
	if seconds == nil {
		return ""
	}
	return (time.Duration(*seconds) * time.Second).String()
}

func formatSet(s models.WorkoutSet, unit models.WeightUnit) string {
	mark := " "
	if s.Completed {
		mark = color.GreenString("✓")
	}
	return fmt.Sprintf("%s %d. %d x %g %s", mark, s.SetNumber, s.Reps, s.Weight, unit)
}
