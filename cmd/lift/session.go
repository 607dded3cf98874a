// ABOUTME: CLI commands for managing training sessions.
// ABOUTME: Supports start, finish, cancel, list, show and delete subcommands.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/models"
	"github.com/spf13/cobra"
)

var (
	sessionNotes   string
	sessionAt      string
	sessionProgram string
	sessionStatus  string
	sessionLimit   int
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Manage training sessions",
	Long: `Group sets into training sessions.

WORKFLOW:

  1. Start a session:      lift session start --program upper-a
  2. Log sets into it:     lift log bench 80 5 --rpe 8 --session abc123
  3. Finish it:            lift session finish abc123
  4. Review it:            lift session show abc123

Finishing a session records its total volume (weight × reps summed over
its sets) and its average RPE. Only active sessions accept new sets.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start [label]",
	Short: "Start a new session",
	Long: `Start a new session.

--program must name a built-in program (see "lift program list"). A label
that matches a program is treated the same way; any other label is kept
as free text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		program := ""
		if len(args) == 1 {
			program = svc.ProgramLabel(args[0])
		}
		if sessionProgram != "" {
			if len(args) == 1 {
				return fmt.Errorf("give either a label or --program, not both")
			}
			p, err := svc.Programs().Find(sessionProgram)
			if err != nil {
				return fmt.Errorf("%w (see lift program list)", err)
			}
			program = p.ID
		}

		session := models.NewSession(program)
		if sessionAt != "" {
			t, err := parseTime(sessionAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", sessionAt)
			}
			session.WithStartedAt(t)
		}
		if sessionNotes != "" {
			session.WithNotes(sessionNotes)
		}

		if err := repo.CreateSession(session); err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		color.Green("✓ Started session")
		fmt.Printf("  ID: %s\n", shortID(session.ID))
		if p, err := svc.Programs().Find(program); err == nil {
			fmt.Printf("  Program: %s\n", p.Name)
			for _, e := range p.Exercises {
				fmt.Printf("    %s %d × %s @ RPE %s\n", padRight(e.Name, 24), e.Sets, e.Reps, e.RPE)
			}
		} else if program != "" {
			fmt.Printf("  Label: %s\n", program)
		}
		return nil
	},
}

var sessionFinishCmd = &cobra.Command{
	Use:   "finish <id>",
	Short: "Finish an active session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := svc.FinishSession(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to finish session: %w", err)
		}

		color.Green("✓ Finished session %s", shortID(session.ID))
		fmt.Printf("  Sets: %d\n", len(session.Sets))
		fmt.Printf("  Volume: %gkg\n", session.TotalVolume)
		if session.AverageRPE != nil {
			fmt.Printf("  Average RPE: %d\n", *session.AverageRPE)
		}
		fmt.Printf("  Duration: %s\n", session.Duration().Round(time.Minute))
		return nil
	},
}

var sessionCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel an active session",
	Long:  `Cancel an active session. Sets already logged in it are kept.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := svc.CancelSession(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to cancel session: %w", err)
		}
		color.Yellow("✗ Cancelled session %s", shortID(session.ID))
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		var status *models.SessionStatus
		if sessionStatus != "" {
			if !models.IsValidSessionStatus(sessionStatus) {
				return fmt.Errorf("unknown status: %s (use active, completed or cancelled)", sessionStatus)
			}
			st := models.SessionStatus(sessionStatus)
			status = &st
		}

		sessions, err := repo.ListSessions(status, sessionLimit)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		for _, s := range sessions {
			summary := ""
			if s.Status == models.SessionCompleted {
				summary = fmt.Sprintf("%gkg", s.TotalVolume)
				if s.AverageRPE != nil {
					summary += fmt.Sprintf(" @ RPE %d", *s.AverageRPE)
				}
			}
			fmt.Printf("%s %s %s %s %s\n",
				faint.Sprint(shortID(s.ID)),
				faint.Sprint(s.StartedAt.Local().Format("2006-01-02 15:04")),
				padRight(string(s.Status), 10),
				padRight(s.Program, 16),
				summary)
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a session with its sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := repo.GetSessionWithSets(args[0])
		if err != nil {
			return fmt.Errorf("session not found: %s: %w", args[0], err)
		}

		title := session.Program
		if title == "" {
			title = "session"
		}
		color.New(color.Bold).Printf("%s (%s)\n", title, session.Status)
		fmt.Printf("  ID: %s\n", session.ID)
		fmt.Printf("  Started: %s\n", session.StartedAt.Local().Format("2006-01-02 15:04"))
		if session.EndedAt != nil {
			fmt.Printf("  Ended: %s\n", session.EndedAt.Local().Format("2006-01-02 15:04"))
			fmt.Printf("  Volume: %gkg\n", session.TotalVolume)
			if session.AverageRPE != nil {
				fmt.Printf("  Average RPE: %d\n", *session.AverageRPE)
			}
		}
		if session.Notes != nil && *session.Notes != "" {
			fmt.Printf("  Notes: %s\n", *session.Notes)
		}

		if len(session.Sets) == 0 {
			fmt.Println("\n  No sets logged.")
			return nil
		}

		fmt.Println()
		for _, s := range session.Sets {
			fmt.Printf("  %2d. %s %s\n", s.SetNumber, padRight(s.Exercise, 18), s.String())
		}
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a session and its sets",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := repo.GetSession(args[0])
		if err != nil {
			return fmt.Errorf("session not found: %s: %w", args[0], err)
		}
		if err := repo.DeleteSession(session.ID.String()); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		color.Yellow("✗ Deleted session %s %s", shortID(session.ID), strings.TrimSpace(session.Program))
		return nil
	},
}

func init() {
	sessionStartCmd.Flags().StringVar(&sessionNotes, "notes", "", "notes for the session")
	sessionStartCmd.Flags().StringVar(&sessionAt, "at", "", "start time (YYYY-MM-DD HH:MM)")
	sessionStartCmd.Flags().StringVarP(&sessionProgram, "program", "p", "", "built-in program ID or name")
	sessionListCmd.Flags().StringVar(&sessionStatus, "status", "", "filter by status (active, completed, cancelled)")
	sessionListCmd.Flags().IntVarP(&sessionLimit, "limit", "n", 20, "max number of results")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionFinishCmd)
	sessionCmd.AddCommand(sessionCancelCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}
