package estimate

// ConfidenceLevel is a qualitative band over a 0-100 confidence score.
type ConfidenceLevel string

// Confidence levels, lowest first.
const (
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceVeryHigh ConfidenceLevel = "very_high"
)

// Rank returns the position of the level in the ordered set (low = 0).
func (c ConfidenceLevel) Rank() int {
	switch c {
	case ConfidenceMedium:
		return 1
	case ConfidenceHigh:
		return 2
	case ConfidenceVeryHigh:
		return 3
	default:
		return 0
	}
}

// Bands holds the inclusive lower bounds of each confidence band above low.
type Bands struct {
	VeryHigh float64
	High     float64
	Medium   float64
}

// DefaultBands returns the stock thresholds: 90, 75 and 50.
func DefaultBands() Bands {
	return Bands{VeryHigh: 90, High: 75, Medium: 50}
}

// Level maps a score to its band.
func (b Bands) Level(score float64) ConfidenceLevel {
	switch {
	case score >= b.VeryHigh:
		return ConfidenceVeryHigh
	case score >= b.High:
		return ConfidenceHigh
	case score >= b.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ScoreToConfidenceLevel bands a score with DefaultBands.
func ScoreToConfidenceLevel(score float64) ConfidenceLevel {
	return DefaultBands().Level(score)
}
