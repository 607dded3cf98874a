// ABOUTME: CLI command explaining the RPE scale.
// ABOUTME: Needs no storage, so it skips opening the repository.
package main

import (
	"fmt"

	"github.com/harperreed/lift/internal/models"
	"github.com/spf13/cobra"
)

var rpeCmd = &cobra.Command{
	Use:         "rpe",
	Short:       "Explain the RPE scale",
	Annotations: map[string]string{skipRepo: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Rate of perceived exertion, scored after each set:")
		fmt.Println()
		for rpe := models.MaxRPE; rpe >= models.MinRPE; rpe-- {
			fmt.Printf("  %s  %s\n",
				rpeColor(float64(rpe)).Sprintf("%2d", rpe),
				models.RPEDescription(rpe))
		}
		fmt.Println()
		fmt.Println("Most working sets should land around 8.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rpeCmd)
}
