// ABOUTME: Recommendation generator turning an adjustment into concrete targets.
// ABOUTME: Rounds weight to the nearest half unit and floors reps and rest.
package autoreg

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Floors applied to every recommendation.
const (
	MinReps        = 1
	MinRestSeconds = 30
)

// WeightUnit is the unit printed in explanations.
const WeightUnit = "kg"

// Recommendation holds the next-session targets.
type Recommendation struct {
	RecommendedWeight float64 `json:"recommended_weight"`
	RecommendedReps   int     `json:"recommended_reps"`
	RecommendedRest   int     `json:"recommended_rest"`
	Explanation       string  `json:"explanation"`
}

// ComputeRecommendation applies adj to the last known actuals.
func ComputeRecommendation(lastWeight float64, lastReps, lastRestTime int, adj Adjustment) Recommendation {
	weight := roundToHalf(lastWeight + adj.WeightAdjustment/100*lastWeight)
	reps := max(MinReps, lastReps+adj.RepsAdjustment)
	rest := max(MinRestSeconds, lastRestTime+adj.RestAdjustment)

	return Recommendation{
		RecommendedWeight: weight,
		RecommendedReps:   reps,
		RecommendedRest:   rest,
		Explanation:       explain(weight, adj),
	}
}

func explain(weight float64, adj Adjustment) string {
	var b strings.Builder
	b.WriteString(adj.Suggestion)
	b.WriteString("\n")

	if adj.WeightAdjustment != 0 {
		sign := ""
		if adj.WeightAdjustment > 0 {
			sign = "+"
		}
		fmt.Fprintf(&b, "• %s weight to %s%s (%s%s%%)\n",
			direction(adj.WeightAdjustment > 0, "increase", "decrease"),
			formatNumber(weight), WeightUnit,
			sign, formatNumber(adj.WeightAdjustment))
	}

	if adj.RepsAdjustment != 0 {
		fmt.Fprintf(&b, "• %s %d rep(s)\n",
			direction(adj.RepsAdjustment > 0, "add", "remove"),
			abs(adj.RepsAdjustment))
	}

	if adj.RestAdjustment != 0 {
		fmt.Fprintf(&b, "• %s rest by %ds\n",
			direction(adj.RestAdjustment > 0, "increase", "decrease"),
			abs(adj.RestAdjustment))
	}

	b.WriteString("\nReason: ")
	b.WriteString(adj.Rationale)
	return b.String()
}

func roundToHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

// formatNumber prints 105 as "105" and 102.5 as "102.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func direction(up bool, upWord, downWord string) string {
	if up {
		return upWord
	}
	return downWord
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
