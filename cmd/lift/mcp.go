// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
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

MCP lets AI assistants log sets and ask for recommendations through a
standardized protocol. The server communicates via stdin/stdout, so logs
go only to the log file.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "lift": {
        "command": "lift",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_set             Record a completed set with its RPE
  list_sets           List recent sets
  delete_set          Delete a set by ID
  start_session       Start a training session
  finish_session      Complete a session (volume and average RPE)
  cancel_session      Cancel an active session
  list_sessions       List recent sessions
  get_session         Get a session with all its sets
  recommend           Next-session weight, reps and rest
  volume_progression  Volume change between the two latest sets
  progress_report     Recommendation and volume for every exercise

AVAILABLE RESOURCES:

  lift://recent       Recent sets and sessions
  lift://summary      Stats and per-exercise progress`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, svc, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
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
