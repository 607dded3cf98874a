// ABOUTME: CLI commands for progress reports and dashboard statistics.
// ABOUTME: Progress evaluates every exercise concurrently through the coach service.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/autoreg"
	"github.com/harperreed/lift/internal/coach"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:     "progress [exercise...]",
	Aliases: []string{"p"},
	Short:   "Show progress and next targets per exercise",
	Long: `Show, for each exercise, its personal records (heaviest set, best
single-set volume, most reps), the volume change between the two most
recent sets and the recommendation for next time.

With no arguments every logged exercise is included.

EXAMPLES:

  lift progress
  lift progress squat "bench press"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := svc.ProgressReport(cmd.Context(), args...)
		if err != nil {
			return fmt.Errorf("failed to build progress report: %w", err)
		}

		if len(report) == 0 {
			fmt.Println("No exercises logged yet.")
			return nil
		}

		for i, p := range report {
			if i > 0 {
				fmt.Println()
			}
			color.New(color.Bold).Printf("%s", p.Exercise)
			fmt.Printf(" %s\n", faint.Sprintf("(%d sets)", p.TotalSets))
			for _, rec := range p.Records.List() {
				fmt.Printf("  %s %s\n", padRight(recordLabel(rec.Type)+":", 10), rec.Set.String())
			}
			fmt.Printf("  Volume: %gkg %s\n", p.Volume.CurrentVolume, volumeLabel(p.Volume))
			if p.Advice != nil {
				r := p.Advice.Recommendation
				fmt.Printf("  Next: %gkg × %d, rest %ds (%s)\n",
					r.RecommendedWeight, r.RecommendedReps, r.RecommendedRest,
					p.Advice.Adjustment.Suggestion)
			}
		}
		return nil
	},
}

func recordLabel(t coach.RecordType) string {
	switch t {
	case coach.RecordHeaviest:
		return "Heaviest"
	case coach.RecordVolume:
		return "Volume"
	default:
		return "Most reps"
	}
}

func volumeLabel(v autoreg.VolumeProgression) string {
	if v.ProgressionLabel == autoreg.LabelInsufficientData {
		return faint.Sprint(v.ProgressionLabel)
	}
	c := color.New(color.FgGreen)
	if v.VolumeChange < 0 {
		c = color.New(color.FgRed)
	}
	return c.Sprintf("%+.1f%% %s", v.VolumeChange, v.ProgressionLabel)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show training statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := svc.Stats(cmd.Context(), time.Now())
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}

		color.New(color.Bold).Println("Training stats")
		fmt.Printf("  Sessions this week: %d\n", stats.WeeklySessions)
		fmt.Printf("  Completed sessions: %d\n", stats.CompletedSessions)
		if stats.ActiveSessions > 0 {
			color.Yellow("  Active sessions:    %d", stats.ActiveSessions)
		}
		fmt.Printf("  Total volume:       %.1fk kg\n", stats.TotalVolumeK)
		fmt.Printf("  Sets logged:        %d\n", stats.TotalSets)
		fmt.Printf("  Exercises:          %d\n", stats.Exercises)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(statsCmd)
}
