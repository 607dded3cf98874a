// ABOUTME: CLI command for next-session recommendations.
// ABOUTME: Prints the RPE assessment, the adjustment and the concrete targets.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/autoreg"
	"github.com/harperreed/lift/internal/coach"
	"github.com/spf13/cobra"
)

var (
	recommendTarget  float64
	recommendRest    int
	recommendProgram string
)

var recommendCmd = &cobra.Command{
	Use:     "recommend <exercise>",
	Aliases: []string{"rec", "next"},
	Short:   "Recommend weight, reps and rest for next time",
	Long: `Recommend the next session's targets for an exercise.

The average RPE of your three most recent sets decides the band:

  too easy    below target - 0.5      increase weight 5% (7.5% if RPE is falling)
  optimal     within target ± 0.5     +2.5% if RPE is steady, +1 rep if falling
  high        up to target + 1.5      +15s rest, back off if RPE is rising
  too high    above that              -5% weight, -1 rep, +30s rest

The target defaults to RPE 8 (two reps in reserve). When the last set was
logged in a session started with --program, or --program is given here,
the program's RPE range and rest time for the exercise are used instead.

EXAMPLES:

  lift recommend squat
  lift recommend "bench press" --target-rpe 7.5
  lift recommend deadlift --rest 240
  lift recommend squat --program lower-b`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if recommendTarget != 0 && (recommendTarget < 1 || recommendTarget > 10) {
			return fmt.Errorf("target RPE %g out of range (1-10)", recommendTarget)
		}

		advice, err := svc.Recommend(cmd.Context(), args[0], coach.RecommendOptions{
			TargetRPE:   recommendTarget,
			RestSeconds: recommendRest,
			Program:     recommendProgram,
		})
		if err != nil {
			return fmt.Errorf("failed to recommend: %w", err)
		}

		printAdvice(advice)
		return nil
	},
}

func printAdvice(advice *coach.Advice) {
	color.New(color.Bold).Println(advice.Exercise)

	a := advice.Assessment
	if a.Band == autoreg.BandFirstSession {
		fmt.Println("  No history yet.")
	} else {
		fmt.Printf("  Last %d sets: average RPE %s (%s, target %g)\n",
			a.Sessions,
			rpeColor(a.AverageRPE).Sprintf("%.1f", a.AverageRPE),
			a.Trend,
			advice.TargetRPE)
		fmt.Printf("  Band: %s\n", a.Band)
	}
	if advice.LastSet != nil {
		fmt.Printf("  Last set: %s\n", advice.LastSet.String())
	}
	if rx := advice.Prescription; rx != nil {
		fmt.Printf("  Program %s: %d × %s @ RPE %s, rest %ds\n",
			advice.Program, rx.Sets, rx.Reps, rx.RPE, rx.RestSeconds)
	}

	r := advice.Recommendation
	fmt.Println()
	color.Cyan("  Next: %gkg × %d, rest %ds", r.RecommendedWeight, r.RecommendedReps, r.RecommendedRest)
	fmt.Println()
	for _, line := range strings.Split(r.Explanation, "\n") {
		fmt.Printf("  %s\n", line)
	}
}

func init() {
	recommendCmd.Flags().Float64Var(&recommendTarget, "target-rpe", 0, "target RPE (default from config)")
	recommendCmd.Flags().IntVar(&recommendRest, "rest", 0, "rest taken after the last set in seconds")
	recommendCmd.Flags().StringVar(&recommendProgram, "program", "", "program whose prescription sets the defaults")
	rootCmd.AddCommand(recommendCmd)
}
