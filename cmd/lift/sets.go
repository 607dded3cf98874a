// ABOUTME: CLI commands for listing and deleting sets.
// ABOUTME: Supports filtering by exercise and session, and deletion by ID prefix.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

var (
	setsExercise string
	setsSession  string
	setsLimit    int
)

var setsCmd = &cobra.Command{
	Use:     "sets",
	Aliases: []string{"list", "ls", "l"},
	Short:   "List logged sets",
	Long: `List recent sets, newest first.

OUTPUT FORMAT:

  Each line shows: ID  TIMESTAMP  EXERCISE  WEIGHT × REPS @ RPE  (NOTES)

  The ID is an 8-character prefix you can use with 'lift delete'.

EXAMPLES:

  lift sets                         # Last 20 sets
  lift sets --exercise squat        # Only squat
  lift sets --session abc123        # Sets from one session
  lift sets -n 50                   # Last 50 sets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := storage.SetFilter{Exercise: setsExercise, Limit: setsLimit}
		if setsSession != "" {
			session, err := repo.GetSession(setsSession)
			if err != nil {
				return fmt.Errorf("session not found: %s: %w", setsSession, err)
			}
			filter.SessionID = &session.ID
		}

		sets, err := repo.ListSets(filter)
		if err != nil {
			return fmt.Errorf("failed to list sets: %w", err)
		}

		if len(sets) == 0 {
			fmt.Println("No sets found.")
			return nil
		}

		for _, s := range sets {
			printSet(s)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a set",
	Long: `Delete a set by its ID or ID prefix.

The ID prefix is shown in the first column of 'lift sets' output.

EXAMPLES:

  lift delete abc12345              # Delete by 8-char prefix
  lift rm abc1                      # Short prefix (if unique)

CAUTION:

  This permanently deletes the set. There is no undo.
  If the prefix matches multiple sets, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idOrPrefix := args[0]

		s, err := repo.GetSet(idOrPrefix)
		if err != nil {
			return fmt.Errorf("set not found: %s: %w", idOrPrefix, err)
		}

		if err := repo.DeleteSet(s.ID.String()); err != nil {
			return fmt.Errorf("failed to delete set: %w", err)
		}

		color.Yellow("✗ Deleted %s", s.Exercise)
		fmt.Printf("  %s %s\n", faint.Sprint(shortID(s.ID)), s.String())
		return nil
	},
}

func init() {
	setsCmd.Flags().StringVarP(&setsExercise, "exercise", "e", "", "filter by exercise")
	setsCmd.Flags().StringVarP(&setsSession, "session", "s", "", "filter by session ID or prefix")
	setsCmd.Flags().IntVarP(&setsLimit, "limit", "n", 20, "max number of results")
	rootCmd.AddCommand(setsCmd)
	rootCmd.AddCommand(deleteCmd)
}
