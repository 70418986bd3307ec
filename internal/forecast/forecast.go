// Package forecast predicts when open work will be finished, how likely it is
// to miss a target date, and what would most improve the outlook.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/newhook/outlook/internal/estimate"
	"github.com/newhook/outlook/internal/items"
	"github.com/newhook/outlook/internal/logging"
	"github.com/newhook/outlook/internal/risk"
)

// Scenario names used as keys of Forecast.ScenarioAnalysis.
const (
	ScenarioBest   = "best"
	ScenarioLikely = "likely"
	ScenarioWorst  = "worst"
)

// ErrNoItems is returned when a milestone forecast names no existing items.
var ErrNoItems = errors.New("no matching work items")

// completeMessage is the sole suggestion of a forecast with nothing left to do.
const completeMessage = "All work items are complete"

// Forecast is a completion prediction for a set of work items.
type Forecast struct {
	TargetDate              *time.Time               `json:"target_date,omitempty" toml:"target_date,omitempty"`
	PredictedCompletion     time.Time                `json:"predicted_completion" toml:"predicted_completion"`
	ConfidenceLevel         estimate.ConfidenceLevel `json:"confidence_level" toml:"confidence_level"`
	DelayProbability        float64                  `json:"delay_probability" toml:"delay_probability"`
	CriticalPathIssues      []string                 `json:"critical_path_issues" toml:"critical_path_issues"`
	OptimizationSuggestions []string                 `json:"optimization_suggestions" toml:"optimization_suggestions"`
	ScenarioAnalysis        map[string]time.Time     `json:"scenario_analysis" toml:"scenario_analysis"`
	OpenItems               int                      `json:"open_items" toml:"open_items"`
	RemainingHours          float64                  `json:"remaining_hours" toml:"remaining_hours"`
}

// Estimator estimates a batch of items.
type Estimator interface {
	BatchEstimateIssues(ctx context.Context, list []items.WorkItem) ([]estimate.Result, error)
}

// RiskPredictor assesses project and item risks.
type RiskPredictor interface {
	AssessProjectRisks(ctx context.Context, windowDays int) ([]risk.Assessment, error)
	PredictIssueRisks(item items.WorkItem) []risk.Assessment
}

// Settings holds the forecaster's tuning constants.
type Settings struct {
	// HoursPerDay is the productive hours one person delivers per calendar day.
	HoursPerDay float64
	// TeamSize overrides the team size derived from assignees when positive.
	TeamSize int
	// CriticalPathSize caps the number of critical path items reported.
	CriticalPathSize int
	// RiskWindowDays is the activity window used for project risks.
	RiskWindowDays int
	// MinDelayScaleDays bounds how sharply delay probability changes with
	// the distance between the target and the predicted date.
	MinDelayScaleDays float64
	Bands             estimate.Bands
}

// DefaultSettings returns the stock forecaster settings.
func DefaultSettings() Settings {
	return Settings{
		HoursPerDay:       6,
		CriticalPathSize:  10,
		RiskWindowDays:    30,
		MinDelayScaleDays: 3,
		Bands:             estimate.DefaultBands(),
	}
}

// Forecaster produces completion forecasts.
type Forecaster struct {
	repo      items.Repository
	estimator Estimator
	risks     RiskPredictor
	settings  Settings
	nowFunc   func() time.Time // For testing; defaults to time.Now
}

// New creates a Forecaster.
func New(repo items.Repository, estimator Estimator, risks RiskPredictor, settings Settings) *Forecaster {
	return &Forecaster{
		repo:      repo,
		estimator: estimator,
		risks:     risks,
		settings:  settings,
		nowFunc:   time.Now,
	}
}

// SetNowFunc sets the clock forecasts are computed from.
func (f *Forecaster) SetNowFunc(fn func() time.Time) {
	f.nowFunc = fn
}

// ForecastProjectCompletion forecasts completion of every open item. target
// may be nil.
func (f *Forecaster) ForecastProjectCompletion(ctx context.Context, target *time.Time) (Forecast, error) {
	list, err := f.repo.ListItems(ctx)
	if err != nil {
		return Forecast{}, fmt.Errorf("listing items: %w", err)
	}
	return f.forecast(ctx, items.Open(list), target)
}

// ForecastMilestoneCompletion forecasts completion of the named items only.
// Remaining work, risks and the critical path are all computed over that
// subset. The target is the latest due date among the items, if any.
func (f *Forecaster) ForecastMilestoneCompletion(ctx context.Context, ids []string) (Forecast, error) {
	if len(ids) == 0 {
		return Forecast{}, fmt.Errorf("milestone forecast: %w", ErrNoItems)
	}
	list, err := f.repo.ListItems(ctx)
	if err != nil {
		return Forecast{}, fmt.Errorf("listing items: %w", err)
	}

	index := items.Index(list)
	var subset []items.WorkItem
	var target *time.Time
	for _, id := range dedupe(ids) {
		item, ok := index[id]
		if !ok {
			logging.WarnContext(ctx, "milestone item not found", "item_id", id)
			continue
		}
		subset = append(subset, item)
		if item.DueDate != nil && (target == nil || item.DueDate.After(*target)) {
			due := *item.DueDate
			target = &due
		}
	}
	if len(subset) == 0 {
		return Forecast{}, fmt.Errorf("milestone forecast for %s: %w", strings.Join(ids, ", "), ErrNoItems)
	}
	return f.forecast(ctx, items.Open(subset), target)
}

func (f *Forecaster) forecast(ctx context.Context, open []items.WorkItem, target *time.Time) (Forecast, error) {
	now := f.nowFunc()
	fc := Forecast{
		TargetDate:              target,
		CriticalPathIssues:      []string{},
		OptimizationSuggestions: []string{},
		ScenarioAnalysis:        map[string]time.Time{},
		OpenItems:               len(open),
	}

	if len(open) == 0 {
		fc.PredictedCompletion = now
		fc.ConfidenceLevel = estimate.ConfidenceVeryHigh
		fc.ScenarioAnalysis[ScenarioBest] = now
		fc.ScenarioAnalysis[ScenarioLikely] = now
		fc.ScenarioAnalysis[ScenarioWorst] = now
		fc.OptimizationSuggestions = []string{completeMessage}
		return fc, nil
	}

	results, err := f.estimator.BatchEstimateIssues(ctx, open)
	if err != nil {
		return Forecast{}, fmt.Errorf("estimating open items: %w", err)
	}
	projectRisks, err := f.risks.AssessProjectRisks(ctx, f.settings.RiskWindowDays)
	if err != nil {
		return Forecast{}, fmt.Errorf("assessing project risks: %w", err)
	}

	var hours, low, high, confidence float64
	estimates := make(map[string]float64, len(results))
	for _, r := range results {
		hours += r.EstimatedHours
		low += r.UncertaintyRange.Low
		high += r.UncertaintyRange.High
		confidence += r.ConfidenceScore
		estimates[r.ItemID] = r.EstimatedHours
	}
	confidence /= float64(len(results))

	itemRisks := make(map[string][]risk.Assessment, len(open))
	var likelyDelay, worstDelay float64
	for _, item := range open {
		rs := f.risks.PredictIssueRisks(item)
		itemRisks[item.ID] = rs
		for _, r := range rs {
			d := float64(r.ImpactDays())
			likelyDelay += r.Probability * d
			worstDelay += d
		}
	}

	// Risk delays are absorbed in parallel across the team.
	team := float64(f.teamSize(open))
	capacity := f.settings.HoursPerDay * team
	best := addDays(now, low/capacity)
	likely := addDays(now, hours/capacity+likelyDelay/team)
	worst := addDays(now, high/capacity+worstDelay/team)
	if best.After(likely) || likely.After(worst) {
		panic(fmt.Sprintf("forecast: scenarios out of order: best %s, likely %s, worst %s", best, likely, worst))
	}

	fc.ScenarioAnalysis[ScenarioBest] = best
	fc.ScenarioAnalysis[ScenarioLikely] = likely
	fc.ScenarioAnalysis[ScenarioWorst] = worst
	fc.PredictedCompletion = likely
	fc.RemainingHours = round(hours, 2)

	fc.DelayProbability = f.delayProbability(target, best, likely, worst, open, itemRisks, projectRisks)
	fc.ConfidenceLevel = f.settings.Bands.Level(confidence * (1 - 0.5*fc.DelayProbability))
	fc.CriticalPathIssues = f.criticalPath(open, estimates)
	fc.OptimizationSuggestions = f.suggestions(fc, open, itemRisks, projectRisks)

	logging.DebugContext(ctx, "computed forecast",
		"open_items", len(open),
		"remaining_hours", fc.RemainingHours,
		"team_size", team,
		"predicted_completion", likely,
		"delay_probability", fc.DelayProbability)
	return fc, nil
}

// delayProbability is a logistic function of the days between the target
// and the most likely date, scaled by the scenario spread. Without a target
// it is derived from the probabilities of the schedule-affecting risks.
func (f *Forecaster) delayProbability(target *time.Time, best, likely, worst time.Time, open []items.WorkItem, itemRisks map[string][]risk.Assessment, projectRisks []risk.Assessment) float64 {
	if target != nil {
		gap := target.Sub(likely).Hours() / 24
		spread := worst.Sub(best).Hours() / 24
		scale := math.Max(f.settings.MinDelayScaleDays, spread/4)
		return round(1/(1+math.Exp(gap/scale)), 4)
	}

	var sum float64
	var n int
	for _, item := range open {
		for _, r := range itemRisks[item.ID] {
			if r.ImpactDays() > 0 {
				sum += r.Probability
				n++
			}
		}
	}
	for _, r := range projectRisks {
		if r.ImpactDays() > 0 || r.RiskLevel.AtLeast(risk.LevelHigh) {
			sum += r.Probability
			n++
		}
	}
	if n == 0 {
		return 0.1
	}
	return round(math.Max(0.05, math.Min(0.95, 0.8*sum/float64(n))), 4)
}

// criticalPath returns the urgent or blocking open items, most pressing
// first: by priority, then how many open items they block, then size.
// When nothing is urgent or blocking, all open items are candidates.
func (f *Forecaster) criticalPath(open []items.WorkItem, estimates map[string]float64) []string {
	isOpen := make(map[string]bool, len(open))
	for _, item := range open {
		isOpen[item.ID] = true
	}
	blocking := make(map[string]int)
	for _, item := range open {
		for _, dep := range dedupe(item.Dependencies) {
			if isOpen[dep] && dep != item.ID {
				blocking[dep]++
			}
		}
	}

	var candidates []items.WorkItem
	for _, item := range open {
		if item.Priority.IsUrgent() || blocking[item.ID] > 0 {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		candidates = append(candidates, open...)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		if blocking[a.ID] != blocking[b.ID] {
			return blocking[a.ID] > blocking[b.ID]
		}
		if estimates[a.ID] != estimates[b.ID] {
			return estimates[a.ID] > estimates[b.ID]
		}
		return a.ID < b.ID
	})

	limit := f.settings.CriticalPathSize
	if limit <= 0 || limit > len(candidates) {
		limit = len(candidates)
	}
	ids := make([]string, 0, limit)
	for _, item := range candidates[:limit] {
		ids = append(ids, item.ID)
	}
	return ids
}

const maxListed = 5

func (f *Forecaster) suggestions(fc Forecast, open []items.WorkItem, itemRisks map[string][]risk.Assessment, projectRisks []risk.Assessment) []string {
	var out []string

	if fc.TargetDate != nil && fc.PredictedCompletion.After(*fc.TargetDate) {
		late := int(math.Ceil(fc.PredictedCompletion.Sub(*fc.TargetDate).Hours() / 24))
		out = append(out, fmt.Sprintf("Predicted completion %s is %d %s after the target date; reduce scope or add capacity",
			fc.PredictedCompletion.Format(time.DateOnly), late, plural(late, "day", "days")))
	}
	if fc.DelayProbability > 0.5 {
		out = append(out, fmt.Sprintf("Delay probability is %.0f%%; focus the team on critical path items first", fc.DelayProbability*100))
	}

	var complex, coupled, overdue []string
	for _, item := range open {
		for _, r := range itemRisks[item.ID] {
			switch {
			case r.RiskType == risk.TypeComplexity && r.RiskLevel.AtLeast(risk.LevelHigh):
				complex = append(complex, item.ID)
			case r.RiskType == risk.TypeDependency && r.RiskLevel.AtLeast(risk.LevelHigh):
				coupled = append(coupled, item.ID)
			case r.RiskType == risk.TypeSchedule:
				overdue = append(overdue, item.ID)
			}
		}
	}
	if len(complex) > 0 {
		out = append(out, "Break down high-complexity items: "+joinIDs(complex))
	}
	if len(coupled) > 0 {
		out = append(out, "Resolve dependencies early for: "+joinIDs(coupled))
	}
	if len(overdue) > 0 {
		out = append(out, "Re-plan overdue items: "+joinIDs(overdue))
	}

	index := items.Index(open)
	var unowned []string
	for _, id := range fc.CriticalPathIssues {
		if index[id].Assignee == "" {
			unowned = append(unowned, id)
		}
	}
	if len(unowned) > 0 {
		out = append(out, "Assign owners to critical path items: "+joinIDs(unowned))
	}

	for _, r := range projectRisks {
		if r.ItemID == "" && r.RiskLevel.AtLeast(risk.LevelHigh) && len(r.MitigationSuggestions) > 0 {
			out = append(out, fmt.Sprintf("%s: %s", r.RiskType, r.MitigationSuggestions[0]))
		}
	}

	if len(out) == 0 {
		out = append(out, "Current plan is on track; keep monitoring progress")
	}
	return dedupe(out)
}

// teamSize is the configured size, or the number of distinct assignees of
// the open items, at least one.
func (f *Forecaster) teamSize(open []items.WorkItem) int {
	if f.settings.TeamSize > 0 {
		return f.settings.TeamSize
	}
	seen := make(map[string]struct{})
	for _, item := range open {
		if a := strings.ToLower(strings.TrimSpace(item.Assignee)); a != "" {
			seen[a] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return 1
	}
	return len(seen)
}

func addDays(t time.Time, days float64) time.Time {
	return t.Add(time.Duration(math.Round(days*24*60)) * time.Minute)
}

func joinIDs(ids []string) string {
	ids = dedupe(ids)
	if len(ids) > maxListed {
		return strings.Join(ids[:maxListed], ", ") + fmt.Sprintf(" and %d more", len(ids)-maxListed)
	}
	return strings.Join(ids, ", ")
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
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
