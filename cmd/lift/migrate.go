// ABOUTME: CLI commands for inspecting and applying schema migrations.
// ABOUTME: status reads the schema version without opening (and so migrating) the database.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Inspect or apply database migrations",
	Long: `Every command that opens the database migrates it to the latest schema
first. These commands show where a database stands and apply pending
migrations explicitly.

USAGE:

  lift migrate status   # Show current and latest schema version
  lift migrate apply    # Apply pending migrations`,
}

var migrateStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show the schema version",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipDB: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.DBPath()
		version, err := storage.InspectSchema(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Database: %s\n", path)
		fmt.Fprintf(out, "Schema version: %d\n", version)
		fmt.Fprintf(out, "Latest version: %d\n", storage.CurrentSchemaVersion)
		switch {
		case version == 0:
			color.New(color.FgYellow).Fprintln(out, "Not initialized; any command will create it.")
		case version < storage.CurrentSchemaVersion:
			color.New(color.FgYellow).Fprintf(out, "%d migration(s) pending\n", storage.CurrentSchemaVersion-version)
		default:
			color.New(color.FgGreen).Fprintln(out, "✓ Up to date")
		}
		return nil
	},
}

var migrateApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// openDB has already migrated; report the result.
		version, err := db.SchemaVersion(cmd.Context())
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Schema at version %d\n", version)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateCmd.AddCommand(migrateApplyCmd)
	rootCmd.AddCommand(migrateCmd)
}
