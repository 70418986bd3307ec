// Package render formats engine output for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/newhook/outlook/internal/estimate"
	"github.com/newhook/outlook/internal/forecast"
	"github.com/newhook/outlook/internal/report"
	"github.com/newhook/outlook/internal/risk"
)

// DefaultWidth is used when the caller does not know the terminal width.
const DefaultWidth = 100

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	levelStyles = map[string]lipgloss.Style{
		"low":       lipgloss.NewStyle().Foreground(lipgloss.Color("70")),
		"medium":    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		"high":      lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"critical":  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		"very_high": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("70")),
	}
)

func level(s string) string {
	style, ok := levelStyles[s]
	if !ok {
		return s
	}
	return style.Render(strings.ToUpper(s))
}

// confidenceLevel colours confidence so that higher is greener, the
// opposite of risk.
func confidenceLevel(c estimate.ConfidenceLevel) string {
	switch c {
	case estimate.ConfidenceLow:
		return levelStyles["high"].Render("LOW")
	case estimate.ConfidenceMedium:
		return levelStyles["medium"].Render("MEDIUM")
	default:
		return levelStyles["low"].Render(strings.ToUpper(string(c)))
	}
}

func width(w int) int {
	if w <= 20 {
		return DefaultWidth
	}
	return w
}

// pad right-pads s to n visible cells.
func pad(s string, n int) string {
	if gap := n - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func indent(text string, n, w int) string {
	prefix := strings.Repeat(" ", n)
	wrapped := wordwrap.String(text, w-n)
	return prefix + strings.ReplaceAll(wrapped, "\n", "\n"+prefix)
}

// Estimates writes a table of estimates. titles maps item IDs to titles and
// may be nil.
func Estimates(out io.Writer, results []estimate.Result, titles map[string]string, w int) error {
	w = width(w)
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Estimates (%d items)", len(results))))
	b.WriteString("\n")
	if len(results) == 0 {
		b.WriteString(dimStyle.Render("No open items"))
		b.WriteString("\n")
		_, err := io.WriteString(out, b.String())
		return err
	}

	var total float64
	for _, r := range results {
		total += r.EstimatedHours
		line := fmt.Sprintf("%s %s %s",
			pad(labelStyle.Render(r.ItemID), 12),
			pad(valueStyle.Render(fmt.Sprintf("%6.1fh", r.EstimatedHours)), 8),
			pad(dimStyle.Render(fmt.Sprintf("(%.1f-%.1fh)", r.UncertaintyRange.Low, r.UncertaintyRange.High)), 16))
		line += " " + pad(confidenceLevel(r.ConfidenceLevel), 10)
		if title := titles[r.ItemID]; title != "" {
			room := w - ansi.StringWidth(line) - 1
			if room > 3 {
				line += " " + ansi.Truncate(title, room, "...")
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Total:"), valueStyle.Render(fmt.Sprintf("%.1fh", total)))

	_, err := io.WriteString(out, b.String())
	return err
}

// EstimateDetail writes one estimate with the factors behind it.
func EstimateDetail(out io.Writer, r estimate.Result, title string, w int) error {
	w = width(w)
	var b strings.Builder

	header := r.ItemID
	if title != "" {
		room := w - len(r.ItemID) - 2
		if room < 4 {
			room = 4
		}
		header += ": " + truncate.StringWithTail(title, uint(room), "...")
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Estimate:"), valueStyle.Render(fmt.Sprintf("%.1fh (%.1f-%.1fh)", r.EstimatedHours, r.UncertaintyRange.Low, r.UncertaintyRange.High)))
	fmt.Fprintf(&b, "%s %s %s\n", labelStyle.Render("Confidence:"), confidenceLevel(r.ConfidenceLevel), dimStyle.Render(fmt.Sprintf("(%.0f/100)", r.ConfidenceScore)))
	b.WriteString(labelStyle.Render("Factors:"))
	b.WriteString("\n")
	for _, f := range r.FactorsConsidered {
		b.WriteString(indent("- "+f, 2, w))
		b.WriteString("\n")
	}

	_, err := io.WriteString(out, b.String())
	return err
}

// Risks writes risk assessments, most severe first as given.
func Risks(out io.Writer, risks []risk.Assessment, w int) error {
	w = width(w)
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Risks (%d)", len(risks))))
	b.WriteString("\n")
	if len(risks) == 0 {
		b.WriteString(dimStyle.Render("No risks identified"))
		b.WriteString("\n")
	}
	for _, r := range risks {
		head := fmt.Sprintf("%s %s", level(string(r.RiskLevel)), labelStyle.Render(r.RiskType))
		if r.ItemID != "" {
			head += " " + dimStyle.Render("["+r.ItemID+"]")
		}
		meta := fmt.Sprintf("probability %.0f%%, impact %.1f", r.Probability*100, r.ImpactScore)
		if r.DeadlineImpactDays != nil {
			meta += fmt.Sprintf(", +%d days", *r.DeadlineImpactDays)
		}
		b.WriteString(head + " " + dimStyle.Render("("+meta+")"))
		b.WriteString("\n")
		b.WriteString(indent(r.Description, 2, w))
		b.WriteString("\n")
		for _, m := range r.MitigationSuggestions {
			b.WriteString(indent("> "+m, 4, w))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(out, b.String())
	return err
}

// Forecast writes a completion forecast.
func Forecast(out io.Writer, fc forecast.Forecast, w int) error {
	w = width(w)
	var b strings.Builder

	b.WriteString(titleStyle.Render("Forecast"))
	b.WriteString("\n")
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", pad(labelStyle.Render(label), 22), value)
	}
	row("Open items:", valueStyle.Render(fmt.Sprintf("%d (%.1fh remaining)", fc.OpenItems, fc.RemainingHours)))
	row("Predicted completion:", valueStyle.Render(formatDate(fc.PredictedCompletion)))
	if fc.TargetDate != nil {
		row("Target date:", valueStyle.Render(formatDate(*fc.TargetDate)))
	}
	row("Confidence:", confidenceLevel(fc.ConfidenceLevel))
	row("Delay probability:", valueStyle.Render(fmt.Sprintf("%.0f%%", fc.DelayProbability*100)))
	row("Scenarios:", fmt.Sprintf("%s %s  %s %s  %s %s",
		dimStyle.Render("best"), formatDate(fc.ScenarioAnalysis[forecast.ScenarioBest]),
		dimStyle.Render("likely"), formatDate(fc.ScenarioAnalysis[forecast.ScenarioLikely]),
		dimStyle.Render("worst"), formatDate(fc.ScenarioAnalysis[forecast.ScenarioWorst])))
	if len(fc.CriticalPathIssues) > 0 {
		row("Critical path:", valueStyle.Render(strings.Join(fc.CriticalPathIssues, " ")))
	}
	if len(fc.OptimizationSuggestions) > 0 {
		b.WriteString(labelStyle.Render("Suggestions:"))
		b.WriteString("\n")
		for _, s := range fc.OptimizationSuggestions {
			b.WriteString(indent("- "+s, 2, w))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(out, b.String())
	return err
}

// Report writes a full intelligence report summary.
func Report(out io.Writer, rep *report.IntelligenceReport, w int) error {
	w = width(w)
	var b strings.Builder

	b.WriteString(titleStyle.Render("Project Intelligence Report"))
	b.WriteString(" ")
	b.WriteString(dimStyle.Render(rep.ReportID + " " + rep.ReportGenerated.Format(time.RFC3339)))
	b.WriteString("\n")
	if rep.Error != "" {
		b.WriteString(errorStyle.Render(indent("Errors: "+rep.Error, 0, w)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if _, err := io.WriteString(out, b.String()); err != nil {
		return err
	}

	if rep.Forecast != nil {
		if err := Forecast(out, *rep.Forecast, w); err != nil {
			return err
		}
		if _, err := io.WriteString(out, "\n"); err != nil {
			return err
		}
	}

	if s := rep.WorkEstimateSummary; s != nil {
		text := fmt.Sprintf("%s %d open items, %.1fh estimated, average confidence %.0f/100\n\n",
			labelStyle.Render("Work:"), s.TotalOpenItems, s.TotalEstimatedHours, s.AverageConfidence)
		if _, err := io.WriteString(out, text); err != nil {
			return err
		}
	}

	if s := rep.RiskSummary; s != nil {
		counts := fmt.Sprintf("%s %d total (%d critical, %d high, %d medium, %d low)\n",
			labelStyle.Render("Risks:"), s.TotalRisks,
			s.ByLevel[risk.LevelCritical], s.ByLevel[risk.LevelHigh], s.ByLevel[risk.LevelMedium], s.ByLevel[risk.LevelLow])
		if _, err := io.WriteString(out, counts); err != nil {
			return err
		}
		if err := Risks(out, s.TopRisks, w); err != nil {
			return err
		}
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}
