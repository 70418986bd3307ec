package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newhook/outlook/internal/estimate"
	"github.com/newhook/outlook/internal/forecast"
	"github.com/newhook/outlook/internal/report"
	"github.com/newhook/outlook/internal/risk"
)

func plain(b *bytes.Buffer) string {
	return ansi.Strip(b.String())
}

func TestEstimates(t *testing.T) {
	results := []estimate.Result{
		{ItemID: "A-1", EstimatedHours: 4, ConfidenceLevel: estimate.ConfidenceHigh, UncertaintyRange: estimate.Range{Low: 3, High: 5}},
		{ItemID: "A-2", EstimatedHours: 6.5, ConfidenceLevel: estimate.ConfidenceLow, UncertaintyRange: estimate.Range{Low: 3, High: 12}},
	}
	titles := map[string]string{"A-1": strings.Repeat("very long title ", 20)}

	var buf bytes.Buffer
	require.NoError(t, Estimates(&buf, results, titles, 80))
	out := plain(&buf)

	assert.Contains(t, out, "Estimates (2 items)")
	assert.Contains(t, out, "A-1")
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "(3.0-12.0h)")
	assert.Contains(t, out, "Total: 10.5h")
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 80, "line too wide: %q", line)
	}
}

func TestEstimatesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Estimates(&buf, nil, nil, 0))
	assert.Contains(t, plain(&buf), "No open items")
}

func TestEstimateDetail(t *testing.T) {
	r := estimate.Result{
		ItemID:            "A-1",
		EstimatedHours:    4,
		ConfidenceLevel:   estimate.ConfidenceMedium,
		ConfidenceScore:   61,
		FactorsConsidered: []string{"Complexity score 2.5/10", "No historical data available; estimate based on complexity only"},
		UncertaintyRange:  estimate.Range{Low: 2.5, High: 6.4},
	}
	var buf bytes.Buffer
	require.NoError(t, EstimateDetail(&buf, r, "Billing export", 60))
	out := plain(&buf)

	assert.Contains(t, out, "A-1: Billing export")
	assert.Contains(t, out, "MEDIUM")
	assert.Contains(t, out, "(61/100)")
	assert.Contains(t, out, "- Complexity score 2.5/10")
}

func TestRisks(t *testing.T) {
	days := 8
	risks := []risk.Assessment{{
		RiskType:              risk.TypeDependency,
		RiskLevel:             risk.LevelHigh,
		Probability:           0.6,
		ImpactScore:           6,
		Description:           "Item depends on 4 dependencies",
		MitigationSuggestions: []string{"Confirm owners and delivery dates for each dependency"},
		DeadlineImpactDays:    &days,
		ItemID:                "A-4",
	}}
	var buf bytes.Buffer
	require.NoError(t, Risks(&buf, risks, 80))
	out := plain(&buf)

	assert.Contains(t, out, "HIGH Dependency Risk [A-4]")
	assert.Contains(t, out, "probability 60%, impact 6.0, +8 days")
	assert.Contains(t, out, "> Confirm owners")

	buf.Reset()
	require.NoError(t, Risks(&buf, nil, 80))
	assert.Contains(t, plain(&buf), "No risks identified")
}

func TestForecastAndReport(t *testing.T) {
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	fc := forecast.Forecast{
		PredictedCompletion: day,
		ConfidenceLevel:     estimate.ConfidenceVeryHigh,
		DelayProbability:    0.25,
		CriticalPathIssues:  []string{"A-1", "A-2"},
		OptimizationSuggestions: []string{
			"Break down high-complexity items: A-1",
		},
		ScenarioAnalysis: map[string]time.Time{
			forecast.ScenarioBest:   day.AddDate(0, 0, -2),
			forecast.ScenarioLikely: day,
			forecast.ScenarioWorst:  day.AddDate(0, 0, 5),
		},
		OpenItems:      2,
		RemainingHours: 20,
	}
	rep := &report.IntelligenceReport{
		ReportID:        "r-1",
		ReportGenerated: day,
		Error:           "risks: repository offline",
		Forecast:        &fc,
		WorkEstimateSummary: &report.WorkEstimateSummary{
			TotalOpenItems:      2,
			TotalEstimatedHours: 20,
			AverageConfidence:   62,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Report(&buf, rep, 100))
	out := plain(&buf)

	assert.Contains(t, out, "Project Intelligence Report")
	assert.Contains(t, out, "Errors: risks: repository offline")
	assert.Contains(t, out, "2026-05-04")
	assert.Contains(t, out, "best 2026-05-02")
	assert.Contains(t, out, "worst 2026-05-09")
	assert.Contains(t, out, "A-1 A-2")
	assert.Contains(t, out, "VERY_HIGH")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "2 open items, 20.0h estimated")
	assert.NotContains(t, out, "Risks:")
}
