// ABOUTME: CLI commands for training analytics.
// ABOUTME: Summarizes a date range and charts per-exercise progression.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/analytics"
	"github.com/spf13/cobra"
)

var (
	statsDays    int
	statsFilter  string
	statsProgram string
	statsLimit   int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show training statistics",
	Long: `Show workouts, sets, volume, average duration, PRs, and top exercises
for the last --days days. Only finished sessions count.

FILTERS:

  all          every session (default)
  program      sessions from one program (requires --program)
  any-program  sessions from any program
  template     sessions started from a template outside a program
  free         sessions with neither template nor program

Examples:
  lift stats --days 7
  lift stats --filter program --program abc123
  lift stats progression "Bench Press"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f, err := statsFilterArg(cmd)
		if err != nil {
			return err
		}
		if statsDays <= 0 {
			return fmt.Errorf("--days must be positive")
		}
		end := time.Now()
		start := end.AddDate(0, 0, -statsDays)

		agg := analytics.New(db.SQL())
		sum, err := agg.Summarize(ctx, start, end, f)
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}
		daily, err := agg.VolumeOverTime(ctx, start, end, f)
		if err != nil {
			return fmt.Errorf("failed to compute volume: %w", err)
		}
		settings, err := db.GetSettings(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		bold := color.New(color.Bold)
		bold.Fprintf(out, "Last %d days\n", statsDays)
		fmt.Fprintf(out, "  Workouts:      %d\n", sum.Workouts)
		fmt.Fprintf(out, "  Sets:          %d\n", sum.Sets)
		fmt.Fprintf(out, "  Volume:        %g %s\n", sum.Volume, settings.WeightUnit)
		avg := int(sum.AverageDuration)
		fmt.Fprintf(out, "  Avg duration:  %s\n", formatDuration(&avg))
		fmt.Fprintf(out, "  PRs:           %d\n", sum.PRs)

		if len(sum.TopExercises) > 0 {
			bold.Fprintln(out, "\nTop exercises")
			for _, e := range sum.TopExercises {
				fmt.Fprintf(out, "  %s %g %s  %s\n",
					padRight(truncate(e.Name, 24), 24), e.Volume, settings.WeightUnit,
					faint.Sprintf("%d sessions, %d sets", e.Sessions, e.Sets))
			}
		}

		if len(daily) > 0 {
			bold.Fprintln(out, "\nDaily volume")
			peak := 0.0
			for _, p := range daily {
				peak = max(peak, p.Value)
			}
			for _, p := range daily {
				fmt.Fprintf(out, "  %s %s %g\n", p.Date.Format("2006-01-02"), bar(p.Value, peak, 30), p.Value)
			}
		}
		return nil
	},
}

var statsProgressionCmd = &cobra.Command{
	Use:   "progression <exercise>",
	Short: "Show an exercise across recent sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f, err := statsFilterArg(cmd)
		if err != nil {
			return err
		}
		points, err := analytics.New(db.SQL()).ExerciseProgression(ctx, args[0], statsLimit, f)
		if err != nil {
			return fmt.Errorf("failed to compute progression: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(points) == 0 {
			fmt.Fprintf(out, "No completed sets for %s.\n", args[0])
			return nil
		}
		for _, p := range points {
			fmt.Fprintf(out, "%s  max %-8g reps %-4d volume %g\n",
				faint.Sprint(p.Date.Local().Format("2006-01-02")), p.MaxWeight, p.TotalReps, p.Volume)
		}
		return nil
	},
}

func statsFilterArg(cmd *cobra.Command) (*analytics.Filter, error) {
	kind, err := analytics.ParseFilterKind(statsFilter)
	if err != nil {
		return nil, err
	}
	f := &analytics.Filter{Kind: kind}
	if statsProgram != "" {
		if kind != analytics.All && kind != analytics.Program {
			return nil, fmt.Errorf("--program only applies to the program filter")
		}
		id, err := db.ResolveID(cmd.Context(), "program", statsProgram)
		if err != nil {
			return nil, err
		}
		f = analytics.ForProgram(id)
	}
	return f, nil
}

func bar(v, peak float64, width int) string {
	n := 0
	if peak > 0 {
		n = int(v / peak * float64(width))
	}
	return strings.Repeat("█", n) + strings.Repeat(" ", width-n)
}

func init() {
	for _, c := range []*cobra.Command{statsCmd, statsProgressionCmd} {
		c.Flags().StringVar(&statsFilter, "filter", "all", "all, program, any-program, template, or free")
		c.Flags().StringVar(&statsProgram, "program", "", "program ID or prefix for the program filter")
	}
	statsCmd.Flags().IntVar(&statsDays, "days", 30, "number of days to summarize")
	statsProgressionCmd.Flags().IntVarP(&statsLimit, "limit", "n", 10, "number of recent sessions")

	statsCmd.AddCommand(statsProgressionCmd)
	rootCmd.AddCommand(statsCmd)
}
