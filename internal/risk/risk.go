// Package risk identifies project-level and item-level risks and suggests
// how to mitigate them.
package risk

import (
	"sort"
)

// Level is the severity of a risk.
type Level string

// Risk levels, least severe first.
const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Rank returns the position of the level in the ordered set (low = 0).
func (l Level) Rank() int {
	switch l {
	case LevelMedium:
		return 1
	case LevelHigh:
		return 2
	case LevelCritical:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether l is as severe as other.
func (l Level) AtLeast(other Level) bool {
	return l.Rank() >= other.Rank()
}

// Risk types.
const (
	TypeSingleDeveloper = "Single-Developer Risk"
	TypeCollaboration   = "Collaboration Risk"
	TypeQuality         = "Quality Risk"
	TypeComplexity      = "Complexity Risk"
	TypeDependency      = "Dependency Risk"
	TypeSchedule        = "Schedule Risk"
	TypeOwnership       = "Ownership Risk"
)

// Assessment describes one identified risk.
type Assessment struct {
	RiskType              string   `json:"risk_type" toml:"risk_type"`
	RiskLevel             Level    `json:"risk_level" toml:"risk_level"`
	Probability           float64  `json:"probability" toml:"probability"`
	ImpactScore           float64  `json:"impact_score" toml:"impact_score"`
	Description           string   `json:"description" toml:"description"`
	MitigationSuggestions []string `json:"mitigation_suggestions" toml:"mitigation_suggestions"`
	// DeadlineImpactDays is the schedule slip the risk would cause, when it
	// affects the schedule at all.
	DeadlineImpactDays *int `json:"deadline_impact_days,omitempty" toml:"deadline_impact_days,omitempty"`
	// ItemID is set for item-level risks.
	ItemID string `json:"item_id,omitempty" toml:"item_id,omitempty"`
}

// Exposure is probability times impact.
func (a Assessment) Exposure() float64 {
	return a.Probability * a.ImpactScore
}

// ImpactDays returns the deadline impact, or zero when there is none.
func (a Assessment) ImpactDays() int {
	if a.DeadlineImpactDays == nil {
		return 0
	}
	return *a.DeadlineImpactDays
}

// SortBySeverity orders risks most severe first: by level, then exposure,
// then type and item ID for a stable result.
func SortBySeverity(list []Assessment) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.RiskLevel.Rank() != b.RiskLevel.Rank() {
			return a.RiskLevel.Rank() > b.RiskLevel.Rank()
		}
		if a.Exposure() != b.Exposure() {
			return a.Exposure() > b.Exposure()
		}
		if a.RiskType != b.RiskType {
			return a.RiskType < b.RiskType
		}
		return a.ItemID < b.ItemID
	})
}

// CountByLevel tallies risks per level. Every level is present in the result.
func CountByLevel(list []Assessment) map[Level]int {
	counts := map[Level]int{
		LevelLow:      0,
		LevelMedium:   0,
		LevelHigh:     0,
		LevelCritical: 0,
	}
	for _, a := range list {
		counts[a.RiskLevel]++
	}
	return counts
}

func days(n int) *int {
	return &n
}
