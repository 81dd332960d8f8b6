// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server over the workout database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/lift/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout.

CONFIGURATION:

  {
    "mcpServers": {
      "lift": {
        "command": "lift",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_templates, get_template, create_template
  start_workout, add_exercise, log_set, update_set, finish_workout
  list_workouts, get_workout, delete_workout
  list_programs, get_program
  list_prs, get_stats, exercise_progression

AVAILABLE RESOURCES:

  lift://active     The active workout
  lift://summary    Last 30 days, recent PRs, and the active program`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(db, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
