// ABOUTME: CLI commands for user settings.
// ABOUTME: Shows and updates weight unit, rest time, and reminder toggles.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

var (
	settingUnit      string
	settingRest      int
	settingHaptics   bool
	settingReminders bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show user settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := db.GetSettings(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		printSettings(cmd, s)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update user settings",
	Long: `Update one or more settings. Only the flags given are changed.

Examples:
  lift settings set --unit kg
  lift settings set --rest 120 --haptics=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var u storage.SettingsUpdate
		flags := cmd.Flags()
		if flags.Changed("unit") {
			if !models.IsValidWeightUnit(settingUnit) {
				return fmt.Errorf("invalid unit %q (use lbs or kg)", settingUnit)
			}
			unit := models.WeightUnit(settingUnit)
			u.WeightUnit = &unit
		}
		if flags.Changed("rest") {
			u.DefaultRestTime = &settingRest
		}
		if flags.Changed("haptics") {
			u.EnableHaptics = &settingHaptics
		}
		if flags.Changed("sync-reminders") {
			u.EnableSyncReminders = &settingReminders
		}

		s, err := db.UpdateSettings(cmd.Context(), u)
		if err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Settings updated")
		printSettings(cmd, s)
		return nil
	},
}

func printSettings(cmd *cobra.Command, s models.UserSettings) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Weight unit:     %s\n", s.WeightUnit)
	fmt.Fprintf(out, "Default rest:    %ds\n", s.DefaultRestTime)
	fmt.Fprintf(out, "Haptics:         %t\n", s.EnableHaptics)
	fmt.Fprintf(out, "Sync reminders:  %t\n", s.EnableSyncReminders)
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingUnit, "unit", "", "weight unit (lbs or kg)")
	settingsSetCmd.Flags().IntVar(&settingRest, "rest", 0, "default rest time in seconds")
	settingsSetCmd.Flags().BoolVar(&settingHaptics, "haptics", true, "enable haptics")
	settingsSetCmd.Flags().BoolVar(&settingReminders, "sync-reminders", true, "enable sync reminders")

	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
