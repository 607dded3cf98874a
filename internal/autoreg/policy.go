// ABOUTME: Adjustment policy engine mapping average RPE and trend to a load change.
// ABOUTME: The decision table is an ordered list of bands evaluated first-match.
package autoreg

import "fmt"

// DefaultTargetRPE is the effort the policy steers toward (two reps in reserve).
const DefaultTargetRPE = 8.0

// Adjustment is the structured change the policy recommends for the next session.
type Adjustment struct {
	// WeightAdjustment is a signed percentage of the last weight.
	WeightAdjustment float64 `json:"weight_adjustment"`
	// RepsAdjustment is a signed rep delta.
	RepsAdjustment int `json:"reps_adjustment"`
	// RestAdjustment is a signed rest delta in seconds.
	RestAdjustment int    `json:"rest_adjustment"`
	Suggestion     string `json:"suggestion"`
	Rationale      string `json:"rationale"`
}

// Band is one row of the decision table.
type Band struct {
	Name    string
	Matches func(avgRPE, targetRPE float64) bool
	Outcome func(avgRPE float64, trend Trend) Adjustment
}

// Band names.
const (
	BandFirstSession = "first session"
	BandTooEasy      = "too easy"
	BandOptimal      = "optimal"
	BandHigh         = "high"
	BandTooHigh      = "too high"
)

// Edges are offsets from the target RPE.
const (
	optimalHalfWidth = 0.5
	highUpperOffset  = 1.5
)

// Bands is the decision table, evaluated in order. The last band always matches.
var Bands = []Band{
	{
		Name: BandTooEasy,
		Matches: func(avg, target float64) bool {
			return avg < target-optimalHalfWidth
		},
		Outcome: func(avg float64, trend Trend) Adjustment {
			weight := 5.0
			if trend == TrendDecreasing {
				weight = 7.5
			}
			return Adjustment{
				WeightAdjustment: weight,
				Suggestion:       "increase the weight",
				Rationale:        fmt.Sprintf("average RPE %.1f — you can push harder", avg),
			}
		},
	},
	{
		Name: BandOptimal,
		Matches: func(avg, target float64) bool {
			return avg <= target+optimalHalfWidth
		},
		Outcome: func(avg float64, trend Trend) Adjustment {
			a := Adjustment{
				Suggestion: "maintain this intensity",
				Rationale:  fmt.Sprintf("optimal RPE %.1f — controlled progression", avg),
			}
			if trend == TrendStable {
				a.WeightAdjustment = 2.5
			}
			if trend == TrendDecreasing {
				a.RepsAdjustment = 1
			}
			return a
		},
	},
	{
		Name: BandHigh,
		Matches: func(avg, target float64) bool {
			return avg < target+highUpperOffset
		},
		Outcome: func(avg float64, trend Trend) Adjustment {
			a := Adjustment{
				RestAdjustment: 15,
				Suggestion:     "high intensity — prioritise recovery",
				Rationale:      fmt.Sprintf("RPE %.1f — avoid overtraining", avg),
			}
			if trend == TrendIncreasing {
				a.WeightAdjustment = -2.5
				a.RepsAdjustment = -1
			}
			return a
		},
	},
	{
		Name: BandTooHigh,
		Matches: func(float64, float64) bool {
			return true
		},
		Outcome: func(avg float64, _ Trend) Adjustment {
			return Adjustment{
				WeightAdjustment: -5,
				RepsAdjustment:   -1,
				RestAdjustment:   30,
				Suggestion:       "reduce the intensity",
				Rationale:        fmt.Sprintf("RPE %.1f — overreaching risk", avg),
			}
		},
	},
}

// FirstSessionAdjustment is returned when there is no history at all.
func FirstSessionAdjustment() Adjustment {
	return Adjustment{
		Suggestion: "start with a moderate load",
		Rationale:  "first session — establish a baseline",
	}
}

// Assessment is what the engine derived from history before applying the policy.
type Assessment struct {
	// Sessions is the number of records in the analysed window.
	Sessions   int     `json:"sessions"`
	AverageRPE float64 `json:"average_rpe"`
	Trend      Trend   `json:"trend"`
	Band       string  `json:"band"`
}

// Assess computes the window, average RPE, trend and matching band for history.
func Assess(history []Record, targetRPE float64) Assessment {
	window := recentWindow(history)
	if len(window) == 0 {
		return Assessment{Trend: TrendStable, Band: BandFirstSession}
	}

	avg := averageRPE(window)
	band := matchBand(avg, normalizeTarget(targetRPE))
	return Assessment{
		Sessions:   len(window),
		AverageRPE: avg,
		Trend:      classifyWindow(window),
		Band:       band.Name,
	}
}

// ComputeAdjustment recommends an adjustment from history. A non-positive
// targetRPE falls back to DefaultTargetRPE. History may be in any order.
func ComputeAdjustment(history []Record, targetRPE float64) Adjustment {
	if len(history) == 0 {
		return FirstSessionAdjustment()
	}
	window := recentWindow(history)
	avg := averageRPE(window)
	band := matchBand(avg, normalizeTarget(targetRPE))
	return band.Outcome(avg, classifyWindow(window))
}

// DecideAdjustment applies the decision table directly to an average RPE and trend.
func DecideAdjustment(avgRPE float64, trend Trend, targetRPE float64) Adjustment {
	return matchBand(avgRPE, normalizeTarget(targetRPE)).Outcome(avgRPE, trend)
}

func matchBand(avg, target float64) Band {
	for _, b := range Bands {
		if b.Matches(avg, target) {
			return b
		}
	}
	return Bands[len(Bands)-1]
}

func normalizeTarget(target float64) float64 {
	if target <= 0 {
		return DefaultTargetRPE
	}
	return target
}
