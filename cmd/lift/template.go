// ABOUTME: CLI commands for managing workout templates.
// ABOUTME: Supports create, list, show, delete, and exercise editing subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

var (
	templateDescription string
	templateExercises   []string
	targetSets          int
	targetReps          int
	targetWeight        float64
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"t"},
	Short:   "Manage workout templates",
	Long: `Templates are reusable workouts. Starting a session from a template copies
its exercises and creates one planned set per target set.

EXERCISE SPECS:

  "Bench Press"           no targets
  "Bench Press:3x5"       3 sets of 5
  "Bench Press:3x5@185"   3 sets of 5 at 185

EXAMPLES:

  lift template create "Push Day" -e "Bench Press:3x5@185" -e "Dips"
  lift template list
  lift template show abc123
  lift template add-exercise abc123 "Overhead Press" --sets 3 --reps 8`,
}

var templateCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := models.NewWorkoutTemplate(args[0])
		if templateDescription != "" {
			t.WithDescription(templateDescription)
		}
		for _, spec := range templateExercises {
			targets, err := parseExerciseSpec(spec)
			if err != nil {
				return err
			}
			e := t.AddExercise(targets.Name)
			if targets.Sets > 0 {
				e.WithTargets(targets.Sets, targets.Reps, targets.Weight)
			}
		}

		if err := db.CreateTemplate(cmd.Context(), t); err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Created template %s\n", t.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", shortID(t.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "  Exercises: %d\n", len(t.Exercises))
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := db.ListTemplates(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(templates) == 0 {
			fmt.Fprintln(out, "No templates found.")
			return nil
		}

		for _, t := range templates {
			lastUsed := "never"
			if t.LastUsed != nil {
				lastUsed = t.LastUsed.Format("2006-01-02")
			}
			fmt.Fprintf(out, "%s %s %d exercises  %s\n",
				faint.Sprint(shortID(t.ID)),
				padRight(truncate(t.Name, 24), 24),
				t.ExerciseCount,
				faint.Sprint("last used "+lastUsed))
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a template with its exercises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := db.ResolveID(ctx, "template", args[0])
		if err != nil {
			return err
		}
		t, err := db.GetTemplateWithExercises(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get template: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Template: %s (%s)\n", t.Name, shortID(t.ID))
		if t.Description != nil {
			fmt.Fprintf(out, "Description: %s\n", *t.Description)
		}
		fmt.Fprintln(out, "\nExercises:")
		for _, e := range t.Exercises {
			targets := ""
			if e.TargetSets != nil {
				targets = fmt.Sprintf("%d sets", *e.TargetSets)
				if e.TargetReps != nil {
					targets = fmt.Sprintf("%dx%d", *e.TargetSets, *e.TargetReps)
				}
				if e.TargetWeight != nil && *e.TargetWeight > 0 {
					targets += fmt.Sprintf(" @ %g", *e.TargetWeight)
				}
			}
			fmt.Fprintf(out, "  %d. %s %s %s\n", e.Order+1, faint.Sprint(shortID(e.ID)), padRight(e.Name, 20), targets)
		}
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a template",
	Long: `Delete a template and its exercises. Sessions started from the template
are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveID(cmd.Context(), "template", args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteTemplate(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Deleted template %s\n", shortID(id))
		return nil
	},
}

var templateAddExerciseCmd = &cobra.Command{
	Use:   "add-exercise <template-id> <name>",
	Short: "Append an exercise to a template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := db.ResolveID(ctx, "template", args[0])
		if err != nil {
			return err
		}
		e := models.NewExerciseTemplate(id, args[1])
		if targetSets > 0 {
			e.WithTargets(targetSets, targetReps, targetWeight)
			if targetReps == 0 {
				e.TargetReps = nil
			}
		}
		if err := db.AddTemplateExercise(ctx, id, e); err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Added %s as exercise %d\n", e.Name, e.Order+1)
		return nil
	},
}

var templateRemoveExerciseCmd = &cobra.Command{
	Use:   "remove-exercise <exercise-id>",
	Short: "Remove an exercise from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveID(cmd.Context(), "template exercise", args[0])
		if err != nil {
			return err
		}
		if err := db.RemoveTemplateExercise(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to remove exercise: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Removed exercise")
		return nil
	},
}

var templateRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveID(cmd.Context(), "template", args[0])
		if err != nil {
			return err
		}
		if err := db.UpdateTemplate(cmd.Context(), id, storage.TemplateUpdate{Name: &args[1]}); err != nil {
			return fmt.Errorf("failed to rename template: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Renamed to %s\n", args[1])
		return nil
	},
}

// addTargetFlags registers --sets, --reps and --weight on cmd.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&targetSets, "sets", 0, "target sets")
	cmd.Flags().IntVar(&targetReps, "reps", 0, "target reps per set")
	cmd.Flags().Float64Var(&targetWeight, "weight", 0, "target weight per set")
}

func init() {
	templateCreateCmd.Flags().StringVarP(&templateDescription, "description", "d", "", "template description")
	templateCreateCmd.Flags().StringArrayVarP(&templateExercises, "exercise", "e", nil, "exercise spec, repeatable (Name[:SETSxREPS[@WEIGHT]])")
	addTargetFlags(templateAddExerciseCmd)

	templateCmd.AddCommand(templateCreateCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	templateCmd.AddCommand(templateRenameCmd)
	templateCmd.AddCommand(templateAddExerciseCmd)
	templateCmd.AddCommand(templateRemoveExerciseCmd)
	rootCmd.AddCommand(templateCmd)
}
