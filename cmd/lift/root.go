// ABOUTME: Root Cobra command for lift CLI.
// ABOUTME: Loads config, builds the logger and manages the repository lifecycle.
package main

import (
	"fmt"

	"github.com/harperreed/lift/internal/coach"
	"github.com/harperreed/lift/internal/config"
	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// skipRepo marks commands that must not open the configured repository.
const skipRepo = "skip-repo"

var (
	configPath string
	debug      bool

	cfg    *config.Config
	repo   storage.Repository
	svc    *coach.Service
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "lift",
	Short: "RPE auto-regulated strength training log",
	Long: `Lift is a CLI for logging strength training sets and getting
RPE-driven recommendations for your next session.

RPE (rate of perceived exertion) is scored 1-10 after every set.
Lift averages your three most recent sets of an exercise, looks at whether
effort is rising or falling, and tells you how to adjust weight, reps and rest.

QUICK START:

  $ lift log squat 100 5 --rpe 8        # Log a set
  $ lift recommend squat                # What to do next time
  $ lift sets --exercise squat          # Recent squat sets
  $ lift rpe                            # Explain the RPE scale

SESSIONS:

  $ lift session start "lower a"        # Start a session
  $ lift log squat 100 5 --rpe 8 --session abc123
  $ lift session finish abc123          # Compute volume and average RPE

PROGRESS:

  $ lift progress                       # Recommendation + volume per exercise
  $ lift stats                          # Weekly dashboard

MCP INTEGRATION:

  Run 'lift mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "lift": { "command": "lift", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  SQLite at ~/.local/share/lift/lift.db by default. Set "backend": "charm"
  in ~/.config/lift/config.json to store sets in Charm KV and sync them
  across devices.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Annotations[skipRepo] == "true" {
			return nil
		}

		var err error
		cfg, err = config.LoadFrom(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = newLogger(cfg, cmd.Name() == "mcp")

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		logger.Debug().Str("backend", cfg.GetBackend()).Msg("storage opened")

		svc = coach.NewService(repo, serviceOptions(cfg), logger)
		cmd.SetContext(logging.WithLogger(cmd.Context(), logging.WithOperation(logger, cmd.CommandPath())))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo == nil {
			return nil
		}
		err := repo.Close()
		repo = nil
		svc = nil
		return err
	},
}

// newLogger logs to the rotating file, and to stderr when --debug is set.
// The MCP server never logs to the console because stdout carries the protocol.
func newLogger(c *config.Config, mcpMode bool) zerolog.Logger {
	lc := logging.DefaultLogConfig()
	lc.Level = c.LogLevel
	lc.File = true
	lc.FilePath = c.GetLogFile()
	lc.Console = debug && !mcpMode
	if debug {
		lc.Level = "debug"
	}
	return logging.NewLogger(lc)
}

func serviceOptions(c *config.Config) coach.Options {
	return coach.Options{
		TargetRPE:          c.TargetRPE,
		DefaultRestSeconds: c.DefaultRestSeconds,
		HistoryWindow:      c.HistoryWindow,
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ~/.config/lift/config.json)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
}
