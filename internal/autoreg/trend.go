// ABOUTME: Trend classifier reducing recent effort into a directional signal.
// ABOUTME: Compares the two most recent RPE values with a half-point noise margin.
package autoreg

// Trend is the short-term direction of perceived effort.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// trendMargin absorbs RPE differences too small to count as a change.
const trendMargin = 0.5

// ClassifyTrend classifies the effort trend of history.
// History may be in any order; fewer than two records yields TrendStable.
func ClassifyTrend(history []Record) Trend {
	return classifyWindow(recentWindow(history))
}

// classifyWindow expects a window already ordered most recent first.
func classifyWindow(window []Record) Trend {
	if len(window) < 2 {
		return TrendStable
	}

	recent := window[0].RPE
	previous := window[1].RPE

	switch {
	case recent > previous+trendMargin:
		return TrendIncreasing
	case recent < previous-trendMargin:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
