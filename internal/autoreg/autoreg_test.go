// ABOUTME: Tests for the auto-regulation engine.
// ABOUTME: Covers trend classification, policy bands, recommendations and volume.
package autoreg

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var baseDate = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

// rec builds a bench press record daysAgo days before baseDate.
func rec(weight float64, reps int, rpe float64, daysAgo int) Record {
	return Record{
		ExerciseID: "bench press",
		Weight:     weight,
		Reps:       reps,
		RPE:        rpe,
		Date:       baseDate.AddDate(0, 0, -daysAgo),
	}
}

func TestSortByRecencyDoesNotMutateInput(t *testing.T) {
	history := []Record{rec(90, 5, 7, 14), rec(100, 5, 9, 0), rec(95, 5, 8, 7)}
	original := append([]Record(nil), history...)

	sorted := SortByRecency(history)

	if diff := cmp.Diff(original, history); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
	want := []Record{history[1], history[2], history[0]}
	if diff := cmp.Diff(want, sorted); diff != "" {
		t.Errorf("SortByRecency mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name    string
		history []Record
		want    Trend
	}{
		{"empty", nil, TrendStable},
		{"single record", []Record{rec(100, 5, 9, 0)}, TrendStable},
		{"increasing", []Record{rec(100, 5, 9, 0), rec(95, 5, 7, 7)}, TrendIncreasing},
		{"decreasing", []Record{rec(100, 5, 6, 0), rec(95, 5, 8, 7)}, TrendDecreasing},
		{"within margin up", []Record{rec(100, 5, 8.5, 0), rec(95, 5, 8, 7)}, TrendStable},
		{"within margin down", []Record{rec(100, 5, 7.5, 0), rec(95, 5, 8, 7)}, TrendStable},
		{"equal", []Record{rec(100, 5, 8, 0), rec(95, 5, 8, 7)}, TrendStable},
		{
			name:    "caller order ignored",
			history: []Record{rec(95, 5, 7, 7), rec(90, 5, 6, 14), rec(100, 5, 9, 0)},
			want:    TrendIncreasing,
		},
		{
			name: "only the two most recent count",
			history: []Record{
				rec(100, 5, 8, 0), rec(100, 5, 8, 3), rec(100, 5, 5, 6), rec(100, 5, 10, 9),
			},
			want: TrendStable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyTrend(tt.history); got != tt.want {
				t.Errorf("ClassifyTrend() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestComputeAdjustmentEmptyHistory(t *testing.T) {
	got := ComputeAdjustment(nil, DefaultTargetRPE)
	want := Adjustment{
		Suggestion: "start with a moderate load",
		Rationale:  "first session — establish a baseline",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeAdjustment(empty) mismatch (-want +got):\n%s", diff)
	}
}

func TestDecideAdjustmentBands(t *testing.T) {
	tests := []struct {
		avg    float64
		trend  Trend
		weight float64
		reps   int
		rest   int
	}{
		{6, TrendStable, 5, 0, 0},
		{6, TrendIncreasing, 5, 0, 0},
		{6, TrendDecreasing, 7.5, 0, 0},
		{7.49, TrendStable, 5, 0, 0},
		{7.5, TrendStable, 2.5, 0, 0},
		{8, TrendIncreasing, 0, 0, 0},
		{8, TrendDecreasing, 0, 1, 0},
		{8.5, TrendStable, 2.5, 0, 0},
		{8.51, TrendStable, 0, 0, 15},
		{9, TrendIncreasing, -2.5, -1, 15},
		{9, TrendDecreasing, 0, 0, 15},
		{9.49, TrendStable, 0, 0, 15},
		{9.5, TrendStable, -5, -1, 30},
		{10, TrendDecreasing, -5, -1, 30},
	}

	for _, tt := range tests {
		got := DecideAdjustment(tt.avg, tt.trend, DefaultTargetRPE)
		if got.WeightAdjustment != tt.weight || got.RepsAdjustment != tt.reps || got.RestAdjustment != tt.rest {
			t.Errorf("DecideAdjustment(%.2f, %s) = {%v %d %d}, want {%v %d %d}",
				tt.avg, tt.trend,
				got.WeightAdjustment, got.RepsAdjustment, got.RestAdjustment,
				tt.weight, tt.reps, tt.rest)
		}
	}
}

func TestDecideAdjustmentRationale(t *testing.T) {
	tests := []struct {
		avg  float64
		want string
	}{
		{7, "average RPE 7.0 — you can push harder"},
		{8, "optimal RPE 8.0 — controlled progression"},
		{9, "RPE 9.0 — avoid overtraining"},
		{9.7, "RPE 9.7 — overreaching risk"},
	}
	for _, tt := range tests {
		got := DecideAdjustment(tt.avg, TrendStable, DefaultTargetRPE)
		if got.Rationale != tt.want {
			t.Errorf("Rationale for %.1f = %q, want %q", tt.avg, got.Rationale, tt.want)
		}
		if got.Suggestion == "" {
			t.Errorf("Suggestion for %.1f is empty", tt.avg)
		}
	}
}

func TestTargetRPEShiftsBands(t *testing.T) {
	// With a target of 7 the optimal band is 6.5-7.5, so 8 is already "high".
	got := DecideAdjustment(8, TrendStable, 7)
	if got.RestAdjustment != 15 {
		t.Errorf("expected high band for avg 8 at target 7, got %+v", got)
	}

	// Non-positive targets fall back to the default.
	if diff := cmp.Diff(DecideAdjustment(8, TrendStable, DefaultTargetRPE), DecideAdjustment(8, TrendStable, 0)); diff != "" {
		t.Errorf("zero target should use default (-want +got):\n%s", diff)
	}
}

func TestScenarioIncreasingInOptimalBand(t *testing.T) {
	history := []Record{rec(100, 5, 9, 0), rec(95, 5, 7, 7)}

	if got := ClassifyTrend(history); got != TrendIncreasing {
		t.Fatalf("trend = %s, want increasing", got)
	}

	assessment := Assess(history, DefaultTargetRPE)
	want := Assessment{Sessions: 2, AverageRPE: 8, Trend: TrendIncreasing, Band: BandOptimal}
	if diff := cmp.Diff(want, assessment); diff != "" {
		t.Errorf("Assess mismatch (-want +got):\n%s", diff)
	}

	adj := ComputeAdjustment(history, DefaultTargetRPE)
	if adj.WeightAdjustment != 0 || adj.RepsAdjustment != 0 || adj.RestAdjustment != 0 {
		t.Errorf("expected zero deltas, got %+v", adj)
	}
}

func TestComputeAdjustmentUsesThreeMostRecent(t *testing.T) {
	// The oldest record (RPE 3) falls outside the window: avg of 9, 9, 9 is 9.
	history := []Record{rec(100, 5, 3, 30), rec(100, 5, 9, 0), rec(100, 5, 9, 7), rec(100, 5, 9, 14)}

	a := Assess(history, DefaultTargetRPE)
	if a.Sessions != 3 || a.AverageRPE != 9 || a.Band != BandHigh {
		t.Errorf("Assess = %+v, want 3 sessions, avg 9, high band", a)
	}
}

func TestAssessEmpty(t *testing.T) {
	want := Assessment{Trend: TrendStable, Band: BandFirstSession}
	if diff := cmp.Diff(want, Assess(nil, DefaultTargetRPE)); diff != "" {
		t.Errorf("Assess(nil) mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeRecommendation(t *testing.T) {
	tests := []struct {
		name       string
		lastWeight float64
		lastReps   int
		lastRest   int
		adj        Adjustment
		want       Recommendation
	}{
		{
			name:       "five percent increase",
			lastWeight: 100, lastReps: 8, lastRest: 120,
			adj: Adjustment{WeightAdjustment: 5, Suggestion: "increase the weight", Rationale: "average RPE 7.0 — you can push harder"},
			want: Recommendation{
				RecommendedWeight: 105,
				RecommendedReps:   8,
				RecommendedRest:   120,
				Explanation:       "increase the weight\n• increase weight to 105kg (+5%)\n\nReason: average RPE 7.0 — you can push harder",
			},
		},
		{
			name:       "rounds to nearest half",
			lastWeight: 62, lastReps: 10, lastRest: 90,
			adj: Adjustment{WeightAdjustment: 2.5, Suggestion: "s", Rationale: "r"},
			// 62 * 1.025 = 63.55 -> 63.5
			want: Recommendation{
				RecommendedWeight: 63.5,
				RecommendedReps:   10,
				RecommendedRest:   90,
				Explanation:       "s\n• increase weight to 63.5kg (+2.5%)\n\nReason: r",
			},
		},
		{
			name:       "every component",
			lastWeight: 100, lastReps: 5, lastRest: 180,
			adj: Adjustment{WeightAdjustment: -5, RepsAdjustment: -1, RestAdjustment: 30, Suggestion: "reduce the intensity", Rationale: "RPE 9.7 — overreaching risk"},
			want: Recommendation{
				RecommendedWeight: 95,
				RecommendedReps:   4,
				RecommendedRest:   210,
				Explanation: "reduce the intensity\n" +
					"• decrease weight to 95kg (-5%)\n" +
					"• remove 1 rep(s)\n" +
					"• increase rest by 30s\n" +
					"\nReason: RPE 9.7 — overreaching risk",
			},
		},
		{
			name:       "floors",
			lastWeight: 0, lastReps: 1, lastRest: 10,
			adj: Adjustment{RepsAdjustment: -1, Suggestion: "s", Rationale: "r"},
			want: Recommendation{
				RecommendedWeight: 0,
				RecommendedReps:   1,
				RecommendedRest:   30,
				Explanation:       "s\n• remove 1 rep(s)\n\nReason: r",
			},
		},
		{
			name:       "added rep",
			lastWeight: 80, lastReps: 8, lastRest: 120,
			adj: Adjustment{RepsAdjustment: 1, Suggestion: "maintain this intensity", Rationale: "optimal RPE 8.0 — controlled progression"},
			want: Recommendation{
				RecommendedWeight: 80,
				RecommendedReps:   9,
				RecommendedRest:   120,
				Explanation:       "maintain this intensity\n• add 1 rep(s)\n\nReason: optimal RPE 8.0 — controlled progression",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRecommendation(tt.lastWeight, tt.lastReps, tt.lastRest, tt.adj)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeRecommendation mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExplanationLineOrder(t *testing.T) {
	adj := DecideAdjustment(9, TrendIncreasing, DefaultTargetRPE)
	r := ComputeRecommendation(100, 5, 120, adj)

	lines := strings.Split(r.Explanation, "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d: %q", len(lines), r.Explanation)
	}
	if lines[0] != adj.Suggestion {
		t.Errorf("line 0 = %q, want suggestion", lines[0])
	}
	for i, prefix := range []string{"• decrease weight", "• remove", "• increase rest"} {
		if !strings.HasPrefix(lines[i+1], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i+1, lines[i+1], prefix)
		}
	}
	if lines[4] != "" {
		t.Errorf("line 4 = %q, want blank", lines[4])
	}
	if lines[5] != "Reason: "+adj.Rationale {
		t.Errorf("line 5 = %q, want rationale", lines[5])
	}
}

func TestComputeVolumeProgression(t *testing.T) {
	tests := []struct {
		name    string
		history []Record
		want    VolumeProgression
	}{
		{
			name:    "empty",
			history: nil,
			want:    VolumeProgression{ProgressionLabel: LabelInsufficientData},
		},
		{
			name:    "single record",
			history: []Record{rec(100, 5, 8, 0)},
			want:    VolumeProgression{CurrentVolume: 500, ProgressionLabel: LabelInsufficientData},
		},
		{
			name:    "rapid",
			history: []Record{rec(100, 10, 8, 0), rec(100, 8, 8, 7)},
			want:    VolumeProgression{CurrentVolume: 1000, VolumeChange: 25, ProgressionLabel: LabelRapid},
		},
		{
			name:    "normal",
			history: []Record{rec(105, 10, 8, 0), rec(100, 10, 8, 7)},
			want:    VolumeProgression{CurrentVolume: 1050, VolumeChange: 5, ProgressionLabel: LabelNormal},
		},
		{
			name:    "stable",
			history: []Record{rec(100, 10, 8, 0), rec(100, 10, 8, 7)},
			want:    VolumeProgression{CurrentVolume: 1000, VolumeChange: 0, ProgressionLabel: LabelStable},
		},
		{
			name:    "regression",
			history: []Record{rec(90, 10, 8, 0), rec(100, 10, 8, 7)},
			want:    VolumeProgression{CurrentVolume: 900, VolumeChange: -10, ProgressionLabel: LabelRegression},
		},
		{
			name:    "zero previous volume",
			history: []Record{rec(20, 10, 8, 0), rec(0, 10, 8, 7)},
			want:    VolumeProgression{CurrentVolume: 200, ProgressionLabel: LabelInsufficientData},
		},
		{
			name:    "caller order ignored",
			history: []Record{rec(100, 8, 8, 7), rec(100, 10, 8, 0)},
			want:    VolumeProgression{CurrentVolume: 1000, VolumeChange: 25, ProgressionLabel: LabelRapid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeVolumeProgression(tt.history)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeVolumeProgression mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
