// ABOUTME: CLI commands for browsing the built-in training programs.
// ABOUTME: Programs are static, so these commands skip opening storage.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/models"
	"github.com/spf13/cobra"
)

var programCmd = &cobra.Command{
	Use:     "program",
	Aliases: []string{"programs"},
	Short:   "Browse the built-in training programs",
	Long: `Browse the built-in training programs.

Start a session with a program and recommendations for its exercises use
the program's target RPE and rest time:

  lift session start --program lower-a
  lift recommend squat`,
	Annotations: map[string]string{skipRepo: "true"},
}

var programListCmd = &cobra.Command{
	Use:         "list",
	Aliases:     []string{"ls"},
	Short:       "List programs",
	Annotations: map[string]string{skipRepo: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range models.DefaultCatalog().Programs() {
			fmt.Printf("%s %s %s %s\n",
				padRight(p.ID, 8),
				padRight(p.Name, 24),
				faint.Sprint(padRight(string(p.Type), 12)),
				faint.Sprintf("%d exercises, ~%d min", len(p.Exercises), p.EstimatedMinutes))
		}
		return nil
	},
}

var programShowCmd = &cobra.Command{
	Use:         "show <id>",
	Short:       "Show a program's exercises",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipRepo: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := models.DefaultCatalog().Find(args[0])
		if err != nil {
			return err
		}

		color.New(color.Bold).Printf("%s (%s)\n", p.Name, p.ID)
		fmt.Printf("  %s\n", p.Description)
		fmt.Printf("  %s, %s, ~%d min\n\n", p.Type, p.TargetMuscles, p.EstimatedMinutes)
		for i, e := range p.Exercises {
			fmt.Printf("  %d. %s %d × %s  rest %ds  RPE %s\n",
				i+1, padRight(e.Name, 24), e.Sets, padRight(e.Reps.String(), 5), e.RestSeconds, e.RPE)
			if e.Notes != "" {
				fmt.Printf("     %s\n", faint.Sprint(e.Notes))
			}
		}
		return nil
	},
}

func init() {
	programCmd.AddCommand(programListCmd)
	programCmd.AddCommand(programShowCmd)
	rootCmd.AddCommand(programCmd)
}
