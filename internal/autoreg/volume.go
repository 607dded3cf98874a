// ABOUTME: Volume progression estimator comparing the two most recent sets.
// ABOUTME: Reports percentage change in weight × reps with a qualitative label.
package autoreg

// Progression labels.
const (
	LabelInsufficientData = "insufficient data"
	LabelRapid            = "rapid progression"
	LabelNormal           = "normal progression"
	LabelStable           = "stable progression"
	LabelRegression       = "regression — adjustment needed"
)

// VolumeProgression summarises session-over-session volume change.
type VolumeProgression struct {
	CurrentVolume    float64 `json:"current_volume"`
	VolumeChange     float64 `json:"volume_change"`
	ProgressionLabel string  `json:"progression_label"`
}

// ComputeVolumeProgression compares the two most recent records of history.
// History may be in any order. A zero previous volume is reported as insufficient data.
func ComputeVolumeProgression(history []Record) VolumeProgression {
	sorted := SortByRecency(history)
	if len(sorted) == 0 {
		return VolumeProgression{ProgressionLabel: LabelInsufficientData}
	}

	current := sorted[0].Volume()
	if len(sorted) < 2 {
		return VolumeProgression{CurrentVolume: current, ProgressionLabel: LabelInsufficientData}
	}

	previous := sorted[1].Volume()
	if previous == 0 {
		return VolumeProgression{CurrentVolume: current, ProgressionLabel: LabelInsufficientData}
	}

	change := (current - previous) / previous * 100
	return VolumeProgression{
		CurrentVolume:    current,
		VolumeChange:     change,
		ProgressionLabel: progressionLabel(change),
	}
}

func progressionLabel(change float64) string {
	switch {
	case change > 10:
		return LabelRapid
	case change > 2.5:
		return LabelNormal
	case change > -2.5:
		return LabelStable
	default:
		return LabelRegression
	}
}
