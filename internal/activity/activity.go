// Package activity derives team and code-quality signals from version control
// history. The engine consumes it through the Analyzer interface.
package activity

//go:generate moq -stub -out analyzer_mock.go . Analyzer:AnalyzerMock

import (
	"context"
	"errors"
)

// ErrNoHistory is returned when there is no version control history to analyze.
var ErrNoHistory = errors.New("no version control history available")

// ErrUnknownContributor is returned when a contributor has no recorded activity.
var ErrUnknownContributor = errors.New("contributor has no recorded activity")

// TeamInsights summarises who is contributing and how much their work overlaps.
type TeamInsights struct {
	ContributorCount int
	// AverageCollaborationScore is the mean, over contributors, of the share
	// of files they touched that someone else also touched. Range 0-1.
	AverageCollaborationScore float64
}

// QualityTrends summarises the character of recent changes.
type QualityTrends struct {
	Commits int
	// BugFixRatio is the share of commits that are fixes. Range 0-1.
	BugFixRatio float64
	// LargeChangeRatio is the share of commits above the large-change line
	// threshold. Range 0-1.
	LargeChangeRatio float64
}

// Productivity describes one contributor.
type Productivity struct {
	Name    string
	Commits int
	// ProductivityScore is the contributor's commit count relative to the
	// most active contributor. Range 0-1.
	ProductivityScore float64
	// SpecializationTerms are the path components the contributor touches most.
	SpecializationTerms []string
}

// Analyzer provides activity signals.
type Analyzer interface {
	// TeamInsights summarises contributors over the last windowDays.
	TeamInsights(ctx context.Context, windowDays int) (TeamInsights, error)
	// QualityTrends summarises change quality over the last windowDays.
	QualityTrends(ctx context.Context, windowDays int) (QualityTrends, error)
	// ContributorProductivity describes the named contributor.
	ContributorProductivity(ctx context.Context, name string) (Productivity, error)
}

// IsMissingData reports whether err only signals absent history, which
// callers treat as degraded input rather than failure.
func IsMissingData(err error) bool {
	return errors.Is(err, ErrNoHistory) || errors.Is(err, ErrUnknownContributor)
}
