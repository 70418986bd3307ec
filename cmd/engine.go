package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/newhook/outlook/internal/complexity"
	"github.com/newhook/outlook/internal/estimate"
	"github.com/newhook/outlook/internal/forecast"
	"github.com/newhook/outlook/internal/project"
	"github.com/newhook/outlook/internal/report"
	"github.com/newhook/outlook/internal/risk"
)

// dateLayout is the layout accepted by --target.
const dateLayout = "2006-01-02"

// engine wires the prediction components over an opened project.
type engine struct {
	proj       *project.Project
	estimator  *estimate.Estimator
	predictor  *risk.Predictor
	forecaster *forecast.Forecaster
	reports    *report.Generator
}

func openEngine(ctx context.Context) (*engine, error) {
	proj, err := project.Find(ctx, flagProject)
	if err != nil {
		return nil, fmt.Errorf("not in a project directory: %w", err)
	}
	return newEngine(proj), nil
}

func newEngine(proj *project.Project) *engine {
	cfg := proj.Config
	scorer := complexity.New(cfg.Complexity.Weights())

	est := estimate.New(proj.Store, proj.Analyzer, scorer, cfg.Estimation.Settings())
	pred := risk.New(proj.Store, proj.Analyzer, scorer, cfg.Risk.Thresholds())
	fc := forecast.New(proj.Store, est, pred, cfg.ForecastSettings())
	gen := report.NewGenerator(proj.Store, fc, pred, est, cfg.ReportSettings())

	return &engine{
		proj:       proj,
		estimator:  est,
		predictor:  pred,
		forecaster: fc,
		reports:    gen,
	}
}

func (e *engine) Close() error {
	return e.proj.Close()
}

// parseTarget parses a --target value. Empty means no target.
func parseTarget(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid target date %q (want YYYY-MM-DD): %w", s, err)
	}
	// A target date means the end of that day.
	t = t.Add(24*time.Hour - time.Second)
	return &t, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
