// Package report compiles forecasts, risks and estimates into a single
// intelligence report, optionally written to disk.
package report

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/newhook/outlook/internal/estimate"
	"github.com/newhook/outlook/internal/forecast"
	"github.com/newhook/outlook/internal/items"
	"github.com/newhook/outlook/internal/logging"
	"github.com/newhook/outlook/internal/risk"
)

// IntelligenceReport is the combined output of the engine. Sections whose
// component failed are omitted and the failure is described in Error.
type IntelligenceReport struct {
	ReportID                    string               `json:"report_id" toml:"report_id"`
	ReportGenerated             time.Time            `json:"report_generated" toml:"report_generated"`
	TargetDate                  *time.Time           `json:"target_date,omitempty" toml:"target_date,omitempty"`
	Error                       string               `json:"error,omitempty" toml:"error,omitempty"`
	OptimizationRecommendations []string             `json:"optimization_recommendations" toml:"optimization_recommendations"`
	Forecast                    *forecast.Forecast   `json:"forecast,omitempty" toml:"forecast,omitempty"`
	RiskSummary                 *RiskSummary         `json:"risk_summary,omitempty" toml:"risk_summary,omitempty"`
	WorkEstimateSummary         *WorkEstimateSummary `json:"work_estimate_summary,omitempty" toml:"work_estimate_summary,omitempty"`
	DetailedEstimates           []estimate.Result    `json:"detailed_estimates" toml:"detailed_estimates"`
}

// RiskSummary aggregates project-level risks.
type RiskSummary struct {
	TotalRisks int                `json:"total_risks" toml:"total_risks"`
	ByLevel    map[risk.Level]int `json:"by_level" toml:"by_level"`
	TopRisks   []risk.Assessment  `json:"top_risks" toml:"top_risks"`
}

// WorkEstimateSummary aggregates the per-item estimates.
type WorkEstimateSummary struct {
	TotalOpenItems      int     `json:"total_open_items" toml:"total_open_items"`
	TotalEstimatedHours float64 `json:"total_estimated_hours" toml:"total_estimated_hours"`
	AverageConfidence   float64 `json:"average_confidence" toml:"average_confidence"`
}

// Forecaster forecasts project completion.
type Forecaster interface {
	ForecastProjectCompletion(ctx context.Context, target *time.Time) (forecast.Forecast, error)
}

// RiskAssessor assesses project-level risks.
type RiskAssessor interface {
	AssessProjectRisks(ctx context.Context, windowDays int) ([]risk.Assessment, error)
}

// Estimator estimates a batch of items.
type Estimator interface {
	BatchEstimateIssues(ctx context.Context, list []items.WorkItem) ([]estimate.Result, error)
}

// Settings controls report assembly.
type Settings struct {
	// TopRisks caps the number of risks listed in the summary.
	TopRisks       int
	RiskWindowDays int
}

// DefaultSettings returns the stock report settings.
func DefaultSettings() Settings {
	return Settings{TopRisks: 5, RiskWindowDays: 30}
}

// Generator builds intelligence reports.
type Generator struct {
	repo       items.Repository
	forecaster Forecaster
	risks      RiskAssessor
	estimator  Estimator
	settings   Settings
	nowFunc    func() time.Time // For testing; defaults to time.Now
	newID      func() string
}

// NewGenerator creates a Generator.
func NewGenerator(repo items.Repository, forecaster Forecaster, risks RiskAssessor, estimator Estimator, settings Settings) *Generator {
	return &Generator{
		repo:       repo,
		forecaster: forecaster,
		risks:      risks,
		estimator:  estimator,
		settings:   settings,
		nowFunc:    time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// SetNowFunc sets the clock used for the generation timestamp.
func (g *Generator) SetNowFunc(fn func() time.Time) {
	g.nowFunc = fn
}

// GenerateIntelligenceReport assembles a report. It never fails: errors and
// panics from any component are recorded in the report's Error field and
// the remaining sections are still filled in. When destination is not
// empty the report is also written there.
func (g *Generator) GenerateIntelligenceReport(ctx context.Context, target *time.Time, destination string) *IntelligenceReport {
	rep := &IntelligenceReport{
		ReportID:                    g.newID(),
		ReportGenerated:             g.nowFunc(),
		TargetDate:                  target,
		OptimizationRecommendations: []string{},
		DetailedEstimates:           []estimate.Result{},
	}

	var errs []string
	run := func(section string, fn func() error) {
		defer func() {
			if r := recover(); r != nil {
				logging.ErrorContext(ctx, "report section panicked", "section", section, "panic", r)
				errs = append(errs, fmt.Sprintf("%s: panic: %v", section, r))
			}
		}()
		if err := fn(); err != nil {
			logging.ErrorContext(ctx, "report section failed", "section", section, "error", err)
			errs = append(errs, fmt.Sprintf("%s: %v", section, err))
		}
	}

	var recommendations []string
	run("forecast", func() error {
		fc, err := g.forecaster.ForecastProjectCompletion(ctx, target)
		if err != nil {
			return err
		}
		rep.Forecast = &fc
		recommendations = append(recommendations, fc.OptimizationSuggestions...)
		return nil
	})

	run("risks", func() error {
		risks, err := g.risks.AssessProjectRisks(ctx, g.settings.RiskWindowDays)
		if err != nil {
			return err
		}
		rep.RiskSummary = g.summarizeRisks(risks)
		for _, r := range rep.RiskSummary.TopRisks {
			if r.RiskLevel.AtLeast(risk.LevelHigh) && len(r.MitigationSuggestions) > 0 {
				recommendations = append(recommendations, fmt.Sprintf("%s: %s", r.RiskType, r.MitigationSuggestions[0]))
			}
		}
		return nil
	})

	run("estimates", func() error {
		list, err := g.repo.ListItems(ctx)
		if err != nil {
			return fmt.Errorf("listing items: %w", err)
		}
		open := items.Open(list)
		results, err := g.estimator.BatchEstimateIssues(ctx, open)
		if err != nil {
			return err
		}
		rep.DetailedEstimates = append(rep.DetailedEstimates, results...)
		rep.WorkEstimateSummary = summarizeEstimates(results)
		return nil
	})

	rep.OptimizationRecommendations = dedupe(recommendations)

	if destination != "" {
		if err := Write(rep, destination); err != nil {
			logging.ErrorContext(ctx, "failed to write report", "destination", destination, "error", err)
			errs = append(errs, fmt.Sprintf("write: %v", err))
		} else {
			logging.InfoContext(ctx, "wrote report", "report_id", rep.ReportID, "destination", destination)
		}
	}

	if len(errs) > 0 {
		rep.Error = strings.Join(errs, "; ")
	}
	return rep
}

func (g *Generator) summarizeRisks(list []risk.Assessment) *RiskSummary {
	sorted := append([]risk.Assessment(nil), list...)
	risk.SortBySeverity(sorted)

	top := sorted
	if g.settings.TopRisks > 0 && len(top) > g.settings.TopRisks {
		top = top[:g.settings.TopRisks]
	}
	if top == nil {
		top = []risk.Assessment{}
	}
	return &RiskSummary{
		TotalRisks: len(list),
		ByLevel:    risk.CountByLevel(list),
		TopRisks:   top,
	}
}

func summarizeEstimates(results []estimate.Result) *WorkEstimateSummary {
	s := &WorkEstimateSummary{TotalOpenItems: len(results)}
	if len(results) == 0 {
		return s
	}
	var confidence float64
	for _, r := range results {
		s.TotalEstimatedHours += r.EstimatedHours
		confidence += r.ConfidenceScore
	}
	s.TotalEstimatedHours = math.Round(s.TotalEstimatedHours*100) / 100
	s.AverageConfidence = math.Round(confidence/float64(len(results))*10) / 10
	return s
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
