package complexity

// LengthTier awards Points when an item's text is at least MinChars long.
type LengthTier struct {
	MinChars int
	Points   float64
}

// Weights holds the tunable constants used for scoring and similarity.
// Zero values are not meaningful; start from DefaultWeights.
type Weights struct {
	// LengthTiers must be ordered by MinChars ascending. The highest tier
	// reached applies.
	LengthTiers []LengthTier

	// IndicatorPoints is awarded per distinct complexity indicator found,
	// up to IndicatorCap.
	IndicatorPoints float64
	IndicatorCap    float64

	// PriorityPoints by priority rank (low, medium, high, critical).
	PriorityPoints [4]float64

	// DependencyPoints is awarded per dependency, up to DependencyCap.
	DependencyPoints float64
	DependencyCap    float64

	// Similarity contributions. They should sum to 1.
	TextWeight     float64
	PriorityWeight float64
	AssigneeWeight float64
}

// DefaultWeights returns the stock weights. The four score contributions
// cap at 3+3+2+2 so a fully loaded item reaches exactly MaxScore.
func DefaultWeights() Weights {
	return Weights{
		LengthTiers: []LengthTier{
			{MinChars: 0, Points: 0.5},
			{MinChars: 200, Points: 1.0},
			{MinChars: 500, Points: 2.0},
			{MinChars: 1000, Points: 3.0},
		},
		IndicatorPoints:  0.75,
		IndicatorCap:     3.0,
		PriorityPoints:   [4]float64{0, 0.5, 1.5, 2.0},
		DependencyPoints: 0.5,
		DependencyCap:    2.0,
		TextWeight:       0.6,
		PriorityWeight:   0.2,
		AssigneeWeight:   0.2,
	}
}
