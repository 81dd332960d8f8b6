// ABOUTME: CLI commands for multi-day training programs.
// ABOUTME: Supports create, list, show, activation, day and exercise editing, and history.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/models"
	"github.com/spf13/cobra"
)

var (
	programDescription string
	programDays        []string
	programRest        int
	historyLimit       int
)

var programCmd = &cobra.Command{
	Use:     "program",
	Aliases: []string{"p"},
	Short:   "Manage training programs",
	Long: `Programs are ordered lists of days. The active program tracks a current
day; finishing a session started from a program day moves it to the next day,
wrapping around after the last one.

EXAMPLES:

  lift program create "5/3/1" --day "Squat" --day "Bench" --day "Deadlift"
  lift program add-exercise <day-id> "Squat" --sets 3 --reps 5 --weight 225
  lift program activate <id>
  lift session start --program <id>`,
}

var programCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := models.NewProgram(args[0])
		if programDescription != "" {
			p.WithDescription(programDescription)
		}
		for _, day := range programDays {
			p.AddDay(day)
		}
		if err := db.CreateProgram(cmd.Context(), p); err != nil {
			return fmt.Errorf("failed to create program: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Created program %s\n", p.Name)
		fmt.Fprintf(out, "  ID: %s\n", shortID(p.ID))
		for _, d := range p.Days {
			fmt.Fprintf(out, "  Day %d: %s %s\n", d.DayIndex+1, d.Name, faint.Sprint(shortID(d.ID)))
		}
		return nil
	},
}

var programListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List programs",
	RunE: func(cmd *cobra.Command, args []string) error {
		programs, err := db.ListPrograms(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list programs: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(programs) == 0 {
			fmt.Fprintln(out, "No programs found.")
			return nil
		}
		for _, p := range programs {
			active := ""
			if p.IsActive {
				active = color.GreenString("active")
			}
			fmt.Fprintf(out, "%s %s %d days  %d workouts  %s\n",
				faint.Sprint(shortID(p.ID)),
				padRight(truncate(p.Name, 24), 24),
				p.DayCount,
				p.TotalWorkoutsCompleted,
				active)
		}
		return nil
	},
}

var programShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a program (the active one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := programArg(cmd, args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Program: %s (%s)\n", p.Name, shortID(p.ID))
		if p.Description != nil {
			fmt.Fprintf(out, "Description: %s\n", *p.Description)
		}
		fmt.Fprintf(out, "Workouts completed: %d\n", p.TotalWorkoutsCompleted)

		for _, d := range p.Days {
			marker := " "
			if p.IsActive && d.DayIndex == p.CurrentDayIndex {
				marker = color.GreenString("→")
			}
			fmt.Fprintf(out, "\n%s Day %d: %s %s\n", marker, d.DayIndex+1, d.Name, faint.Sprint(shortID(d.ID)))
			for _, e := range d.Exercises {
				fmt.Fprintf(out, "    %s %s %s\n", faint.Sprint(shortID(e.ID)), padRight(e.ExerciseName, 20), programTargets(e))
			}
		}
		return nil
	},
}

var programActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Make a program the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveID(cmd.Context(), "program", args[0])
		if err != nil {
			return err
		}
		if err := db.ActivateProgram(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to activate program: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Activated program %s\n", shortID(id))
		return nil
	},
}

var programDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveID(cmd.Context(), "program", args[0])
		if err != nil {
			return err
		}
		if err := db.DeactivateProgram(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to deactivate program: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Deactivated program %s\n", shortID(id))
		return nil
	},
}

var programAddDayCmd = &cobra.Command{
	Use:   "add-day <program-id> <name>",
	Short: "Append a day to a program",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveID(cmd.Context(), "program", args[0])
		if err != nil {
			return err
		}
		day := &models.ProgramDay{Name: args[1]}
		if err := db.AddProgramDay(cmd.Context(), id, day); err != nil {
			return fmt.Errorf("failed to add day: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Added day %d: %s\n", day.DayIndex+1, day.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", shortID(day.ID))
		return nil
	},
}

var programRemoveDayCmd = &cobra.Command{
	Use:   "remove-day <day-id>",
	Short: "Remove a day and its exercises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveID(cmd.Context(), "program day", args[0])
		if err != nil {
			return err
		}
		if err := db.RemoveProgramDay(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to remove day: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Removed day")
		return nil
	},
}

var programAddExerciseCmd = &cobra.Command{
	Use:   "add-exercise <day-id> <name>",
	Short: "Append an exercise to a program day",
	Long: `Append an exercise to a program day. With --sets, one set target per set
is created with the given --reps and --weight.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dayID, err := db.ResolveID(ctx, "program day", args[0])
		if err != nil {
			return err
		}

		e := &models.ProgramDayExercise{ExerciseName: args[1]}
		if programRest > 0 {
			e.RestSeconds = &programRest
		}
		for i := 0; i < targetSets; i++ {
			var reps *int
			var weight *float64
			if targetReps > 0 {
				reps = &targetReps
			}
			if targetWeight > 0 {
				weight = &targetWeight
			}
			e.AddSet(reps, weight)
		}
		if err := db.AddProgramDayExercise(ctx, dayID, e); err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Added %s %s\n", e.ExerciseName, programTargets(*e))
		return nil
	},
}

var programRemoveExerciseCmd = &cobra.Command{
	Use:   "remove-exercise <exercise-id>",
	Short: "Remove an exercise from a program day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveID(cmd.Context(), "program exercise", args[0])
		if err != nil {
			return err
		}
		if err := db.RemoveProgramDayExercise(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to remove exercise: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Removed exercise")
		return nil
	},
}

var programSetDayCmd = &cobra.Command{
	Use:   "set-day <program-id> <day-number>",
	Short: "Set the program's current day (1-based)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveID(cmd.Context(), "program", args[0])
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid day number: %w", err)
		}
		if err := db.SetCurrentDay(cmd.Context(), id, n-1); err != nil {
			return fmt.Errorf("failed to set current day: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Current day is now %d\n", n)
		return nil
	},
}

var programDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a program with its days and history",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveID(cmd.Context(), "program", args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteProgram(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete program: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Deleted program %s\n", shortID(id))
		return nil
	},
}

var programHistoryCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show completed program days",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := programArg(cmd, args)
		if err != nil {
			return err
		}
		history, err := db.ListProgramHistory(cmd.Context(), p.ID, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(history) == 0 {
			fmt.Fprintln(out, "No program history yet.")
			return nil
		}
		dayNames := make(map[string]string, len(p.Days))
		for _, d := range p.Days {
			dayNames[d.ID] = d.Name
		}
		for _, h := range history {
			day := faint.Sprint("(removed day)")
			if h.DayID != nil {
				day = dayNames[*h.DayID]
			}
			fmt.Fprintf(out, "%s %s %s\n",
				faint.Sprint(h.PerformedAt.Local().Format("2006-01-02 15:04")),
				padRight(day, 20),
				formatDuration(h.DurationSeconds))
		}
		return nil
	},
}

// programArg loads the program named by an optional argument, defaulting
// to the active program.
func programArg(cmd *cobra.Command, args []string) (*models.Program, error) {
	ctx := cmd.Context()
	if len(args) == 0 {
		p, err := db.GetActiveProgram(ctx)
		if err != nil {
			return nil, fmt.Errorf("no active program: %w", err)
		}
		return p, nil
	}
	id, err := db.ResolveID(ctx, "program", args[0])
	if err != nil {
		return nil, err
	}
	p, err := db.GetProgramWithDays(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	return p, nil
}

func programTargets(e models.ProgramDayExercise) string {
	if len(e.Sets) == 0 {
		if e.TargetSets == nil {
			return ""
		}
		s := fmt.Sprintf("%d sets", *e.TargetSets)
		if e.TargetReps != nil {
			s = fmt.Sprintf("%dx%d", *e.TargetSets, *e.TargetReps)
		}
		if e.TargetWeight != nil {
			s += fmt.Sprintf(" @ %g", *e.TargetWeight)
		}
		return s
	}

	first := e.Sets[0]
	uniform := true
	for _, s := range e.Sets[1:] {
		if !sameTarget(s, first) {
			uniform = false
			break
		}
	}
	if !uniform {
		return fmt.Sprintf("%d sets (varied)", len(e.Sets))
	}
	s := fmt.Sprintf("%d sets", len(e.Sets))
	if first.TargetReps != nil {
		s = fmt.Sprintf("%dx%d", len(e.Sets), *first.TargetReps)
	}
	if first.TargetWeight != nil {
		s += fmt.Sprintf(" @ %g", *first.TargetWeight)
	}
	return s
}

func sameTarget(a, b models.ProgramDayExerciseSet) bool {
	eqInt := (a.TargetReps == nil) == (b.TargetReps == nil) && (a.TargetReps == nil || *a.TargetReps == *b.TargetReps)
	eqWeight := (a.TargetWeight == nil) == (b.TargetWeight == nil) && (a.TargetWeight == nil || *a.TargetWeight == *b.TargetWeight)
	return eqInt && eqWeight
}

func init() {
	programCreateCmd.Flags().StringVarP(&programDescription, "description", "d", "", "program description")
	programCreateCmd.Flags().StringArrayVar(&programDays, "day", nil, "day name, repeatable, in order")
	addTargetFlags(programAddExerciseCmd)
	programAddExerciseCmd.Flags().IntVar(&programRest, "rest", 0, "rest between sets in seconds")
	programHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to show")

	programCmd.AddCommand(programCreateCmd)
	programCmd.AddCommand(programListCmd)
	programCmd.AddCommand(programShowCmd)
	programCmd.AddCommand(programActivateCmd)
	programCmd.AddCommand(programDeactivateCmd)
	programCmd.AddCommand(programAddDayCmd)
	programCmd.AddCommand(programRemoveDayCmd)
	programCmd.AddCommand(programAddExerciseCmd)
	programCmd.AddCommand(programRemoveExerciseCmd)
	programCmd.AddCommand(programSetDayCmd)
	programCmd.AddCommand(programDeleteCmd)
	programCmd.AddCommand(programHistoryCmd)
	rootCmd.AddCommand(programCmd)
}
