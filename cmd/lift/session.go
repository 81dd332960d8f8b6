// ABOUTME: CLI commands for workout sessions: start, log sets, finish.
// ABOUTME: Starting and finishing go through the workout service so PRs and programs stay in step.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/service"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

var (
	sessionTemplate string
	sessionProgram  string
	sessionDay      string
	sessionStatus   string
	sessionLimit    int
	setPending      bool
	finishAt        string
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s", "workout"},
	Short:   "Start, log, and finish workouts",
	Long: `Track a workout from start to finish.

WORKFLOW:

  1. Start a session:      lift session start --template abc123
  2. Add an exercise:      lift session add "Barbell Row"
  3. Log a set:            lift session set <exercise-id> 5 185
  4. Finish:               lift session finish

Only one session can be active at a time. Finishing a session detects new
personal records and, for program sessions, advances the program to the
next day.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start [name]",
	Short: "Start a session",
	Long: `Start a session from a template, a program day, or empty.

Examples:
  lift session start "Evening lift"
  lift session start --template abc123
  lift session start --program def456            # current day
  lift session start --program def456 --day 0a1b # a specific day`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if sessionTemplate != "" && sessionProgram != "" {
			return fmt.Errorf("use either --template or --program, not both")
		}
		tracker := service.NewTracker(db, logger)

		var s *models.WorkoutSession
		switch {
		case sessionTemplate != "":
			id, err := db.ResolveID(ctx, "template", sessionTemplate)
			if err != nil {
				return err
			}
			s, err = tracker.StartFromTemplate(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}
		case sessionProgram != "":
			id, err := db.ResolveID(ctx, "program", sessionProgram)
			if err != nil {
				return err
			}
			dayID := ""
			if sessionDay != "" {
				if dayID, err = db.ResolveID(ctx, "program day", sessionDay); err != nil {
					return err
				}
			}
			s, err = tracker.StartFromProgramDay(ctx, id, dayID)
			if err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}
		default:
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			var err error
			s, err = tracker.StartEmpty(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Started %s\n", s.Name)
		fmt.Fprintf(out, "  ID: %s\n", shortID(s.ID))
		if len(s.Exercises) > 0 {
			fmt.Fprintf(out, "  Exercises: %d\n", len(s.Exercises))
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a session (the active one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := sessionArg(cmd, args)
		if err != nil {
			return err
		}
		s, err := db.GetSessionWithExercises(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		settings, err := db.GetSettings(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		status := color.YellowString("active")
		if s.IsCompleted() {
			status = color.GreenString("completed")
		}
		fmt.Fprintf(out, "Session: %s (%s) %s\n", s.Name, shortID(s.ID), status)
		fmt.Fprintf(out, "Started: %s\n", s.StartTime.Local().Format("2006-01-02 15:04"))
		if s.Duration != nil {
			fmt.Fprintf(out, "Duration: %s\n", formatDuration(s.Duration))
		}
		if s.Notes != nil {
			fmt.Fprintf(out, "Notes: %s\n", *s.Notes)
		}

		var volume float64
		for _, e := range s.Exercises {
			fmt.Fprintf(out, "\n%s %s\n", faint.Sprint(shortID(e.ID)), e.Name)
			for _, set := range e.Sets {
				fmt.Fprintf(out, "  %s %s\n", formatSet(set, settings.WeightUnit), faint.Sprint(shortID(set.ID)))
			}
			volume += e.Volume()
		}
		fmt.Fprintf(out, "\nVolume: %g %s\n", volume, settings.WeightUnit)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := storage.SessionQuery{Limit: sessionLimit}
		switch strings.ToLower(sessionStatus) {
		case "", "all":
		case "active":
			q.Status = storage.SessionsActive
		case "completed", "done":
			q.Status = storage.SessionsCompleted
		default:
			return fmt.Errorf("invalid status %q (use all, active, or completed)", sessionStatus)
		}

		sessions, err := db.ListSessions(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}

		for _, s := range sessions {
			state := color.YellowString("active")
			if s.IsCompleted() {
				state = formatDuration(s.Duration)
			}
			fmt.Fprintf(out, "%s %s %s %d exercises  %s\n",
				faint.Sprint(shortID(s.ID)),
				faint.Sprint(s.StartTime.Local().Format("2006-01-02 15:04")),
				padRight(truncate(s.Name, 24), 24),
				s.ExerciseCount,
				state)
		}
		return nil
	},
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise to the active session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		active, err := db.GetActiveSession(ctx)
		if err != nil {
			return fmt.Errorf("no active session: %w", err)
		}
		e := &models.Exercise{Name: args[0]}
		if err := db.AddExercise(ctx, active.ID, e); err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Added %s\n", e.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", shortID(e.ID))
		return nil
	},
}

var sessionSetCmd = &cobra.Command{
	Use:   "set <exercise-id> <reps> <weight>",
	Short: "Log a set",
	Long: `Log a set for an exercise. Sets are logged as completed unless --pending
is given.

Examples:
  lift session set 3f2a 5 185
  lift session set 3f2a 8 0 --pending`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		exerciseID, err := db.ResolveID(ctx, "exercise", args[0])
		if err != nil {
			return err
		}
		reps, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid reps: %w", err)
		}
		weight, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %w", err)
		}

		set := &models.WorkoutSet{Reps: reps, Weight: weight}
		if !setPending {
			set.MarkCompleted(time.Now())
		}
		if err := db.AddSet(ctx, exerciseID, set); err != nil {
			return fmt.Errorf("failed to log set: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Set %d: %d x %g\n", set.SetNumber, set.Reps, set.Weight)
		return nil
	},
}

var sessionDoneCmd = &cobra.Command{
	Use:   "done <set-id>",
	Short: "Mark a planned set as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := db.ResolveID(ctx, "set", args[0])
		if err != nil {
			return err
		}
		completed := true
		if err := db.UpdateSet(ctx, id, storage.SetUpdate{Completed: &completed}); err != nil {
			return fmt.Errorf("failed to update set: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Set completed")
		return nil
	},
}

var sessionFinishCmd = &cobra.Command{
	Use:   "finish [id]",
	Short: "Finish a session and detect new PRs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := sessionArg(cmd, args)
		if err != nil {
			return err
		}
		var end time.Time
		if finishAt != "" {
			if end, err = parseTime(finishAt); err != nil {
				return fmt.Errorf("invalid --at: %w", err)
			}
		}

		res, err := service.NewTracker(db, logger).Finish(ctx, id, end)
		if err != nil {
			return fmt.Errorf("failed to finish session: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Finished %s", res.Session.Name)
		if res.Session.Duration != nil {
			fmt.Fprintf(out, " in %s", formatDuration(res.Session.Duration))
		}
		fmt.Fprintln(out)
		for _, pr := range res.NewPRs {
			color.New(color.FgYellow, color.Bold).Fprintf(out, "  ★ New PR: %s %d x %g\n", pr.ExerciseName, pr.Reps, pr.Weight)
		}
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a session with its exercises and sets",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveID(cmd.Context(), "session", args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteSession(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Deleted session %s\n", shortID(id))
		return nil
	},
}

// sessionArg resolves an optional session argument, defaulting to the
// active session.
func sessionArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return db.ResolveID(cmd.Context(), "session", args[0])
	}
	active, err := db.GetActiveSession(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("no active session: %w", err)
	}
	return active.ID, nil
}

func init() {
	sessionStartCmd.Flags().StringVarP(&sessionTemplate, "template", "t", "", "template ID or prefix")
	sessionStartCmd.Flags().StringVarP(&sessionProgram, "program", "p", "", "program ID or prefix")
	sessionStartCmd.Flags().StringVar(&sessionDay, "day", "", "program day ID or prefix (default: current day)")
	sessionListCmd.Flags().StringVar(&sessionStatus, "status", "all", "all, active, or completed")
	sessionListCmd.Flags().IntVarP(&sessionLimit, "limit", "n", 20, "maximum sessions to show")
	sessionSetCmd.Flags().BoolVar(&setPending, "pending", false, "log the set as planned, not completed")
	sessionFinishCmd.Flags().StringVar(&finishAt, "at", "", "end time (YYYY-MM-DD HH:MM)")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionAddCmd)
	sessionCmd.AddCommand(sessionSetCmd)
	sessionCmd.AddCommand(sessionDoneCmd)
	sessionCmd.AddCommand(sessionFinishCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}
