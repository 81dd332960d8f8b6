// ABOUTME: CLI commands for personal records.
// ABOUTME: Lists recent or per-exercise PRs and deletes mistaken ones.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/models"
	"github.com/spf13/cobra"
)

var prLimit int

var prsCmd = &cobra.Command{
	Use:     "prs [exercise]",
	Aliases: []string{"pr"},
	Short:   "Show personal records",
	Long: `Show personal records. Without an exercise, the most recent records are
listed; with one, every rep count recorded for it.

PRs are detected automatically when a session is finished: the heaviest
completed set at each rep count that beats the stored best becomes the new
record. Exercise names are matched case-insensitively.

Examples:
  lift prs
  lift prs "bench press"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var (
			prs []*models.PRRecord
			err error
		)
		if len(args) > 0 {
			prs, err = db.ListPRs(ctx, args[0])
		} else {
			prs, err = db.ListRecentPRs(ctx, prLimit)
		}
		if err != nil {
			return fmt.Errorf("failed to list PRs: %w", err)
		}
		settings, err := db.GetSettings(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(prs) == 0 {
			fmt.Fprintln(out, "No personal records yet.")
			return nil
		}
		for _, pr := range prs {
			fmt.Fprintf(out, "%s %s %s %s\n",
				faint.Sprint(shortID(pr.ID)),
				faint.Sprint(pr.AchievedAt.Local().Format("2006-01-02")),
				padRight(truncate(pr.ExerciseName, 24), 24),
				fmt.Sprintf("%d x %g %s", pr.Reps, pr.Weight, settings.WeightUnit))
		}
		return nil
	},
}

var prsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a personal record",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveID(cmd.Context(), "pr", args[0])
		if err != nil {
			return err
		}
		if err := db.DeletePR(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete PR: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Deleted PR %s\n", shortID(id))
		return nil
	},
}

func init() {
	prsCmd.Flags().IntVarP(&prLimit, "limit", "n", 10, "maximum recent records to show")
	prsCmd.AddCommand(prsDeleteCmd)
	rootCmd.AddCommand(prsCmd)
}
