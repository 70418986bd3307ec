package report

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newhook/outlook/internal/estimate"
	"github.com/newhook/outlook/internal/forecast"
	"github.com/newhook/outlook/internal/items"
	"github.com/newhook/outlook/internal/risk"
)

var now = time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)

type fakeForecaster struct {
	err error
}

func (f fakeForecaster) ForecastProjectCompletion(ctx context.Context, target *time.Time) (forecast.Forecast, error) {
	if f.err != nil {
		return forecast.Forecast{}, f.err
	}
	return forecast.Forecast{
		TargetDate:              target,
		PredictedCompletion:     now.AddDate(0, 0, 3),
		ConfidenceLevel:         estimate.ConfidenceMedium,
		DelayProbability:        0.2,
		CriticalPathIssues:      []string{"A-1"},
		OptimizationSuggestions: []string{"Assign owners to critical path items: A-1"},
		ScenarioAnalysis: map[string]time.Time{
			forecast.ScenarioBest:   now.AddDate(0, 0, 2),
			forecast.ScenarioLikely: now.AddDate(0, 0, 3),
			forecast.ScenarioWorst:  now.AddDate(0, 0, 5),
		},
		OpenItems:      2,
		RemainingHours: 14,
	}, nil
}

type fakeRisks struct {
	risks []risk.Assessment
	panic bool
}

func (f fakeRisks) AssessProjectRisks(ctx context.Context, windowDays int) ([]risk.Assessment, error) {
	if f.panic {
		panic("risk table corrupted")
	}
	return f.risks, nil
}

type fakeEstimator struct{}

func (fakeEstimator) BatchEstimateIssues(ctx context.Context, list []items.WorkItem) ([]estimate.Result, error) {
	out := make([]estimate.Result, 0, len(list))
	for i, item := range list {
		out = append(out, estimate.Result{
			ItemID:            item.ID,
			EstimatedHours:    float64(4 * (i + 1)),
			ConfidenceLevel:   estimate.ConfidenceMedium,
			ConfidenceScore:   float64(50 + 10*i),
			FactorsConsidered: []string{"Complexity score 1.0/10"},
			UncertaintyRange:  estimate.Range{Low: 2, High: 20},
		})
	}
	return out, nil
}

func sampleRisks() []risk.Assessment {
	impact := 3
	return []risk.Assessment{
		{RiskType: risk.TypeQuality, RiskLevel: risk.LevelMedium, Probability: 0.5, ImpactScore: 6, Description: "50% of recent commits are bug fixes", MitigationSuggestions: []string{"Increase test coverage"}},
		{RiskType: risk.TypeSingleDeveloper, RiskLevel: risk.LevelHigh, Probability: 0.7, ImpactScore: 8, Description: "One contributor", MitigationSuggestions: []string{"Pair on critical areas"}},
		{RiskType: risk.TypeSchedule, RiskLevel: risk.LevelHigh, Probability: 0.9, ImpactScore: 5, Description: "1 open item is past due: A-2", MitigationSuggestions: []string{"Re-plan overdue items"}, DeadlineImpactDays: &impact},
	}
}

func newGenerator(f Forecaster, r RiskAssessor, settings Settings) *Generator {
	repo := &items.RepositoryMock{
		ListItemsFunc: func(ctx context.Context) ([]items.WorkItem, error) {
			return []items.WorkItem{
				{ID: "A-1", Status: items.StatusTodo},
				{ID: "A-2", Status: items.StatusInProgress},
				{ID: "A-3", Status: items.StatusDone},
			}, nil
		},
	}
	g := NewGenerator(repo, f, r, fakeEstimator{}, settings)
	g.SetNowFunc(func() time.Time { return now })
	g.newID = func() string { return "report-1" }
	return g
}

func TestGenerateIntelligenceReport(t *testing.T) {
	g := newGenerator(fakeForecaster{}, fakeRisks{risks: sampleRisks()}, DefaultSettings())
	target := now.AddDate(0, 0, 7)

	rep := g.GenerateIntelligenceReport(context.Background(), &target, "")

	assert.Equal(t, "report-1", rep.ReportID)
	assert.Equal(t, now, rep.ReportGenerated)
	assert.Equal(t, &target, rep.TargetDate)
	assert.Empty(t, rep.Error)
	require.NotNil(t, rep.Forecast)

	require.NotNil(t, rep.RiskSummary)
	assert.Equal(t, 3, rep.RiskSummary.TotalRisks)
	assert.Equal(t, 2, rep.RiskSummary.ByLevel[risk.LevelHigh])
	assert.Equal(t, 1, rep.RiskSummary.ByLevel[risk.LevelMedium])
	require.Len(t, rep.RiskSummary.TopRisks, 3)
	assert.Equal(t, risk.TypeSingleDeveloper, rep.RiskSummary.TopRisks[0].RiskType)

	require.NotNil(t, rep.WorkEstimateSummary)
	assert.Equal(t, 2, rep.WorkEstimateSummary.TotalOpenItems)
	assert.InDelta(t, 12.0, rep.WorkEstimateSummary.TotalEstimatedHours, 0.001)
	assert.InDelta(t, 55.0, rep.WorkEstimateSummary.AverageConfidence, 0.001)
	require.Len(t, rep.DetailedEstimates, 2)
	assert.Equal(t, "A-1", rep.DetailedEstimates[0].ItemID)

	assert.Equal(t, []string{
		"Assign owners to critical path items: A-1",
		"Single-Developer Risk: Pair on critical areas",
		"Schedule Risk: Re-plan overdue items",
	}, rep.OptimizationRecommendations)
}

func TestGenerateIntelligenceReportTopRisksCap(t *testing.T) {
	g := newGenerator(fakeForecaster{}, fakeRisks{risks: sampleRisks()}, Settings{TopRisks: 1, RiskWindowDays: 30})

	rep := g.GenerateIntelligenceReport(context.Background(), nil, "")
	require.NotNil(t, rep.RiskSummary)
	assert.Equal(t, 3, rep.RiskSummary.TotalRisks)
	require.Len(t, rep.RiskSummary.TopRisks, 1)
	assert.Equal(t, risk.TypeSingleDeveloper, rep.RiskSummary.TopRisks[0].RiskType)
}

func TestGenerateIntelligenceReportForecasterFailure(t *testing.T) {
	g := newGenerator(fakeForecaster{err: errors.New("repository offline")}, fakeRisks{}, DefaultSettings())

	rep := g.GenerateIntelligenceReport(context.Background(), nil, "")
	assert.Contains(t, rep.Error, "forecast: repository offline")
	assert.Nil(t, rep.Forecast)
	assert.NotNil(t, rep.RiskSummary, "other sections are still produced")
	assert.NotNil(t, rep.WorkEstimateSummary)

	data, err := Encode(rep, "json")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "error")
	assert.Contains(t, doc, "report_generated")
	assert.NotContains(t, doc, "forecast")
}

func TestGenerateIntelligenceReportRecoversPanics(t *testing.T) {
	g := newGenerator(fakeForecaster{err: errors.New("boom")}, fakeRisks{panic: true}, DefaultSettings())

	var rep *IntelligenceReport
	require.NotPanics(t, func() {
		rep = g.GenerateIntelligenceReport(context.Background(), nil, "")
	})
	assert.Contains(t, rep.Error, "forecast: boom")
	assert.Contains(t, rep.Error, "risks: panic: risk table corrupted")
	assert.Nil(t, rep.RiskSummary)
	assert.Len(t, rep.DetailedEstimates, 2)
}

func TestGenerateIntelligenceReportWritesJSON(t *testing.T) {
	g := newGenerator(fakeForecaster{}, fakeRisks{risks: sampleRisks()}, DefaultSettings())
	dest := filepath.Join(t.TempDir(), "reports", "latest.json")

	rep := g.GenerateIntelligenceReport(context.Background(), nil, dest)
	require.Empty(t, rep.Error)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{"report_id", "report_generated", "forecast", "risk_summary", "work_estimate_summary", "optimization_recommendations", "detailed_estimates"} {
		assert.Contains(t, doc, key)
	}
	assert.NotContains(t, doc, "target_date")

	fc := doc["forecast"].(map[string]any)
	scenarios := fc["scenario_analysis"].(map[string]any)
	assert.Len(t, scenarios, 3)
	assert.Contains(t, scenarios, "best")
	assert.Contains(t, scenarios, "likely")
	assert.Contains(t, scenarios, "worst")
}

func TestGenerateIntelligenceReportWritesTOML(t *testing.T) {
	g := newGenerator(fakeForecaster{}, fakeRisks{risks: sampleRisks()}, DefaultSettings())
	dest := filepath.Join(t.TempDir(), "latest.toml")

	rep := g.GenerateIntelligenceReport(context.Background(), nil, dest)
	require.Empty(t, rep.Error)

	var doc map[string]any
	_, err := toml.DecodeFile(dest, &doc)
	require.NoError(t, err)
	assert.Equal(t, "report-1", doc["report_id"])
	assert.Contains(t, doc, "risk_summary")
	assert.Contains(t, doc, "detailed_estimates")
}

func TestGenerateIntelligenceReportWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	g := newGenerator(fakeForecaster{}, fakeRisks{}, DefaultSettings())
	rep := g.GenerateIntelligenceReport(context.Background(), nil, filepath.Join(blocker, "report.json"))
	assert.Contains(t, rep.Error, "write:")
	assert.NotNil(t, rep.Forecast)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "toml", Format("out/report.TOML"))
	assert.Equal(t, "json", Format("out/report.json"))
	assert.Equal(t, "json", Format("report"))

	_, err := Encode(&IntelligenceReport{}, "yaml")
	require.Error(t, err)
}
