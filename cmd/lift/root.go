// ABOUTME: Root Cobra command for lift CLI.
// ABOUTME: Handles config loading and the database lifecycle via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/harperreed/lift/internal/config"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

// skipDB marks commands that must not open (and so migrate) the database.
const skipDB = "lift/skip-db"

var (
	cfg     *config.Config
	logger  *log.Logger
	manager *storage.Manager
	db      *storage.DB
)

var rootCmd = &cobra.Command{
	Use:   "lift",
	Short: "Strength training log",
	Long: `Lift is a CLI tool for logging strength training.

WHAT IT TRACKS:

  Templates   reusable workouts with target sets, reps, and weight
  Sessions    workouts you perform, with exercises and sets
  Programs    multi-day plans that advance a day each time you finish one
  PRs         best weight per exercise and rep count, detected automatically

QUICK START:

  $ lift template create "Push Day" -e "Bench Press:3x5@185" -e "Dips"
  $ lift session start --template <id>     # Start from a template
  $ lift session set <exercise-id> 5 185   # Log a set
  $ lift session finish                    # Finish and detect PRs
  $ lift prs                               # Recent personal records
  $ lift stats --days 30                   # Volume, sets, and more

MCP INTEGRATION:

  Run 'lift mcp' to start the Model Context Protocol server for use with
  MCP-compatible AI assistants:

  {
    "mcpServers": {
      "lift": { "command": "lift", "args": ["mcp"] }
    }
  }

CONFIGURATION:

  ~/.config/lift/config.json   data_dir, log_level, weight_unit
  ~/.config/lift/lift.env      LIFT_DATA_DIR, LIFT_LOG_LEVEL

DATA STORAGE:

  Data is stored in SQLite at ~/.local/share/lift/lift.db.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger = cfg.Logger("lift")

		if cmd.Name() == "help" || cmd.Annotations[skipDB] != "" {
			return nil
		}
		return openDB(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeDB()
	},
}

// openDB opens the configured database. A new database gets the configured
// default weight unit.
func openDB(cmd *cobra.Command) error {
	_, statErr := os.Stat(cfg.DBPath())
	fresh := errors.Is(statErr, os.ErrNotExist)

	manager = cfg.NewManager(logger)
	var err error
	db, err = manager.DB(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	unit, err := cfg.GetWeightUnit()
	if err != nil {
		return err
	}
	if fresh && unit != "" {
		if _, err := db.UpdateSettings(cmd.Context(), storage.SettingsUpdate{WeightUnit: &unit}); err != nil {
			return fmt.Errorf("failed to apply default weight unit: %w", err)
		}
	}
	return nil
}

func closeDB() error {
	db = nil
	if manager == nil {
		return nil
	}
	err := manager.Close()
	manager = nil
	return err
}
