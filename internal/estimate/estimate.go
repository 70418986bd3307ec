// Package estimate produces effort estimates for work items from their
// intrinsic complexity and the recorded effort of similar completed items.
package estimate

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/newhook/outlook/internal/activity"
	"github.com/newhook/outlook/internal/complexity"
	"github.com/newhook/outlook/internal/items"
	"github.com/newhook/outlook/internal/logging"
)

// Contributor factor bounds.
const (
	MinContributorFactor = 0.5
	MaxContributorFactor = 2.0
)

// Range is an uncertainty interval in hours.
type Range struct {
	Low  float64 `json:"low" toml:"low"`
	High float64 `json:"high" toml:"high"`
}

// Result is the estimate for one item. It is never modified after it is returned.
type Result struct {
	ItemID            string          `json:"item_id" toml:"item_id"`
	EstimatedHours    float64         `json:"estimated_hours" toml:"estimated_hours"`
	ConfidenceLevel   ConfidenceLevel `json:"confidence_level" toml:"confidence_level"`
	ConfidenceScore   float64         `json:"confidence_score" toml:"confidence_score"`
	FactorsConsidered []string        `json:"factors_considered" toml:"factors_considered"`
	UncertaintyRange  Range           `json:"uncertainty_range" toml:"uncertainty_range"`
}

// Settings holds the estimator's tuning constants.
type Settings struct {
	// BaseHours is the baseline for an item of zero complexity.
	BaseHours float64
	// HoursPerPoint is added to the baseline per complexity point.
	HoursPerPoint float64
	// MinSimilarity drops historical items less alike than this.
	MinSimilarity float64
	// MaxHistory caps how many similar items contribute.
	MaxHistory int
	// MinHours is the floor for any estimate.
	MinHours float64
	Bands    Bands
}

// DefaultSettings returns the stock estimator settings.
func DefaultSettings() Settings {
	return Settings{
		BaseHours:     2,
		HoursPerPoint: 1.5,
		MinSimilarity: 0.2,
		MaxHistory:    10,
		MinHours:      0.5,
		Bands:         DefaultBands(),
	}
}

// Estimator estimates remaining effort for work items.
type Estimator struct {
	repo     items.Repository
	analyzer activity.Analyzer
	scorer   *complexity.Scorer
	settings Settings
}

// New creates an Estimator. analyzer may be nil, in which case contributor
// adjustments are skipped.
func New(repo items.Repository, analyzer activity.Analyzer, scorer *complexity.Scorer, settings Settings) *Estimator {
	if scorer == nil {
		scorer = complexity.Default()
	}
	return &Estimator{
		repo:     repo,
		analyzer: analyzer,
		scorer:   scorer,
		settings: settings,
	}
}

// EstimateIssueTime estimates one item. If contributor is non-empty the
// estimate is scaled by that contributor's factor.
func (e *Estimator) EstimateIssueTime(ctx context.Context, item items.WorkItem, contributor string) (Result, error) {
	history, err := e.history(ctx)
	if err != nil {
		return Result{}, err
	}
	return e.estimate(ctx, item, contributor, history)
}

// BatchEstimateIssues estimates each item, returning results in input order.
func (e *Estimator) BatchEstimateIssues(ctx context.Context, list []items.WorkItem) ([]Result, error) {
	results := make([]Result, 0, len(list))
	if len(list) == 0 {
		return results, nil
	}

	history, err := e.history(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range list {
		r, err := e.estimate(ctx, item, "", history)
		if err != nil {
			return nil, fmt.Errorf("estimating %s: %w", item.ID, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// history returns completed items with recorded effort.
func (e *Estimator) history(ctx context.Context) ([]items.WorkItem, error) {
	if e.repo == nil {
		return nil, nil
	}
	all, err := e.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading historical items: %w", err)
	}
	var history []items.WorkItem
	for _, item := range items.Completed(all) {
		if _, ok := item.RecordedHours(); ok {
			history = append(history, item)
		}
	}
	if len(history) == 0 {
		logging.DebugContext(ctx, "no historical items with recorded effort")
	}
	return history, nil
}

type evidence struct {
	item       items.WorkItem
	similarity float64
	hours      float64
}

func (e *Estimator) estimate(ctx context.Context, item items.WorkItem, contributor string, history []items.WorkItem) (Result, error) {
	s := e.settings
	score := e.scorer.Score(item)

	factors := []string{fmt.Sprintf("Complexity score %.1f/10", score)}
	if terms := complexity.IndicatorTerms(item); len(terms) > 0 {
		factors = append(factors, "Complexity indicators: "+strings.Join(terms, ", "))
	}
	factors = append(factors, fmt.Sprintf("Priority: %s", item.Priority))
	if n := len(item.Dependencies); n > 0 {
		factors = append(factors, fmt.Sprintf("%d %s", n, plural(n, "dependency", "dependencies")))
	}

	baseline := s.BaseHours + score*s.HoursPerPoint
	hours := baseline

	used := e.similar(item, history)
	avgSim := 0.0
	if len(used) > 0 {
		weightSum, weighted := 0.0, 0.0
		for _, ev := range used {
			weightSum += ev.similarity
			weighted += ev.similarity * ev.hours
		}
		avgSim = weightSum / float64(len(used))
		historical := weighted / weightSum
		alpha := weightSum / (weightSum + 1)
		hours = alpha*historical + (1-alpha)*baseline
		factors = append(factors, fmt.Sprintf("Based on %d similar completed %s (average similarity %.2f)",
			len(used), plural(len(used), "item", "items"), avgSim))
	} else if len(history) == 0 {
		factors = append(factors, "No historical data available; estimate based on complexity only")
	} else {
		factors = append(factors, "No similar completed items; estimate based on complexity only")
	}

	confidence := 25 + math.Min(float64(len(used)), 10)*4 + avgSim*30

	if item.EstimatedHours != nil && *item.EstimatedHours > 0 {
		hours = (hours + *item.EstimatedHours) / 2
		confidence += 10
		factors = append(factors, fmt.Sprintf("Blended with recorded estimate of %.1fh", *item.EstimatedHours))
	}

	if p := item.ProgressFraction(); p > 0 {
		hours *= 1 - p
		factors = append(factors, fmt.Sprintf("%.0f%% complete", p*100))
	}

	if contributor != "" {
		factor, note, err := e.contributorFactor(ctx, item, contributor)
		if err != nil {
			return Result{}, err
		}
		hours *= factor
		factors = append(factors, note)
	}

	hours = math.Max(hours, s.MinHours)
	confidence = round(math.Max(0, math.Min(100, confidence)), 1)

	// Lower confidence widens the range: 15% at full confidence, 100% at none.
	spread := 0.15 + 0.85*(1-confidence/100)
	r := Result{
		ItemID:            item.ID,
		EstimatedHours:    round(hours, 2),
		ConfidenceLevel:   s.Bands.Level(confidence),
		ConfidenceScore:   confidence,
		FactorsConsidered: factors,
		UncertaintyRange: Range{
			Low:  round(hours/(1+spread), 2),
			High: round(hours*(1+spread), 2),
		},
	}
	checkResult(r)
	return r, nil
}

// similar returns the most similar historical items above the threshold,
// most similar first with ties broken by ID.
func (e *Estimator) similar(item items.WorkItem, history []items.WorkItem) []evidence {
	var found []evidence
	for _, h := range history {
		if h.ID == item.ID {
			continue
		}
		sim := e.scorer.Similarity(item, h)
		// Zero-similarity items carry no weight.
		if sim <= 0 || sim < e.settings.MinSimilarity {
			continue
		}
		hours, _ := h.RecordedHours()
		found = append(found, evidence{item: h, similarity: sim, hours: hours})
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].similarity != found[j].similarity {
			return found[i].similarity > found[j].similarity
		}
		return found[i].item.ID < found[j].item.ID
	})
	if len(found) > e.settings.MaxHistory {
		found = found[:e.settings.MaxHistory]
	}
	return found
}

// contributorFactor scales an estimate for the named contributor. Higher
// productivity and overlapping specialization both shorten the estimate.
func (e *Estimator) contributorFactor(ctx context.Context, item items.WorkItem, name string) (float64, string, error) {
	if e.analyzer == nil {
		return 1.0, fmt.Sprintf("No activity data for %s; no contributor adjustment", name), nil
	}
	prod, err := e.analyzer.ContributorProductivity(ctx, name)
	if activity.IsMissingData(err) {
		logging.DebugContext(ctx, "no productivity data for contributor", "contributor", name, "error", err)
		return 1.0, fmt.Sprintf("No recorded activity for %s; no contributor adjustment", name), nil
	}
	if err != nil {
		return 0, "", fmt.Errorf("reading productivity for %s: %w", name, err)
	}

	factor := 1.25 - 0.5*prod.ProductivityScore
	overlap := complexity.Overlap(item.Text(), prod.SpecializationTerms)
	if overlap {
		factor *= 0.75
	}
	factor = math.Max(MinContributorFactor, math.Min(MaxContributorFactor, factor))

	note := fmt.Sprintf("Contributor factor %.2f for %s", factor, name)
	if overlap {
		note += " (specialization matches)"
	}
	return factor, note, nil
}

// checkResult guards the result invariants. A violation is a bug.
func checkResult(r Result) {
	for _, v := range []float64{r.EstimatedHours, r.ConfidenceScore, r.UncertaintyRange.Low, r.UncertaintyRange.High} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("estimate: non-finite value for %s: %+v", r.ItemID, r))
		}
	}
	if r.EstimatedHours <= 0 || r.UncertaintyRange.Low <= 0 || r.UncertaintyRange.Low >= r.UncertaintyRange.High {
		panic(fmt.Sprintf("estimate: invalid result for %s: %+v", r.ItemID, r))
	}
	if len(r.FactorsConsidered) == 0 {
		panic(fmt.Sprintf("estimate: no factors recorded for %s", r.ItemID))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
