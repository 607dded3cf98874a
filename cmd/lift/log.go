// ABOUTME: CLI command for logging a completed set.
// ABOUTME: Validates the RPE rating and optionally attaches the set to a session.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/models"
	"github.com/spf13/cobra"
)

var (
	logRPE     int
	logRest    int
	logSession string
	logAt      string
	logNotes   string
)

var logCmd = &cobra.Command{
	Use:     "log <exercise> <weight> <reps>",
	Aliases: []string{"add", "a"},
	Short:   "Log a completed set",
	Long: `Log a completed set with its RPE rating.

Weight is in kilograms. RPE is required and must be between 1 and 10
(run 'lift rpe' for the scale). Exercise names are case-insensitive, so
"Bench Press" and "bench press" share one history.

Examples:
  lift log squat 100 5 --rpe 8
  lift log "bench press" 82.5 6 --rpe 9 --rest 180
  lift log deadlift 160 3 --rpe 8 --session abc123
  lift log row 70 10 --rpe 7 --at "2025-03-10 18:30" --notes "strict"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[1])
		}
		reps, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[2])
		}

		s := models.NewSet(args[0], weight, reps, logRPE)

		if logRest != 0 {
			s.WithRest(logRest)
		}
		if logAt != "" {
			t, err := parseTime(logAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", logAt)
			}
			s.WithCompletedAt(t)
		}
		if logNotes != "" {
			s.WithNotes(logNotes)
		}
		if logSession != "" {
			session, err := repo.GetSession(logSession)
			if err != nil {
				return fmt.Errorf("session not found: %s: %w", logSession, err)
			}
			s.WithSession(session.ID)
		}

		if err := svc.LogSet(cmd.Context(), s); err != nil {
			return fmt.Errorf("failed to log set: %w", err)
		}

		color.Green("✓ Logged %s", s.Exercise)
		fmt.Printf("  %s %s\n", faint.Sprint(shortID(s.ID)), s.String())
		if s.SessionID != nil {
			fmt.Printf("  Set %d of session %s\n", s.SetNumber, shortID(*s.SessionID))
		}

		return nil
	},
}

func init() {
	logCmd.Flags().IntVar(&logRPE, "rpe", 0, "rate of perceived exertion (1-10, required)")
	logCmd.Flags().IntVar(&logRest, "rest", 0, "rest taken before this set in seconds")
	logCmd.Flags().StringVarP(&logSession, "session", "s", "", "session ID or prefix")
	logCmd.Flags().StringVar(&logAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "notes for the set")
	rootCmd.AddCommand(logCmd)
}
