package risk

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/newhook/outlook/internal/activity"
	"github.com/newhook/outlook/internal/complexity"
	"github.com/newhook/outlook/internal/items"
	"github.com/newhook/outlook/internal/logging"
)

// Thresholds holds the limits that turn signals into risks.
type Thresholds struct {
	// Complexity score boundaries for medium, high and critical.
	ComplexityMedium   float64
	ComplexityHigh     float64
	ComplexityCritical float64

	// LowCollaboration flags teams whose average collaboration score is below it.
	LowCollaboration float64
	// BugFixRatio and LargeChangeRatio flag quality trends above them.
	BugFixRatio      float64
	LargeChangeRatio float64

	// DaysPerDependency is the schedule slip attributed to each dependency.
	DaysPerDependency int
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ComplexityMedium:   3,
		ComplexityHigh:     5,
		ComplexityCritical: 7.5,
		LowCollaboration:   0.3,
		BugFixRatio:        0.4,
		LargeChangeRatio:   0.2,
		DaysPerDependency:  2,
	}
}

// Predictor assesses risks from team activity and work items.
type Predictor struct {
	repo       items.Repository
	analyzer   activity.Analyzer
	scorer     *complexity.Scorer
	thresholds Thresholds
	nowFunc    func() time.Time // For testing; defaults to time.Now
}

// New creates a Predictor. Either repo or analyzer may be nil, in which case
// the risks derived from it are skipped.
func New(repo items.Repository, analyzer activity.Analyzer, scorer *complexity.Scorer, thresholds Thresholds) *Predictor {
	if scorer == nil {
		scorer = complexity.Default()
	}
	return &Predictor{
		repo:       repo,
		analyzer:   analyzer,
		scorer:     scorer,
		thresholds: thresholds,
		nowFunc:    time.Now,
	}
}

// SetNowFunc sets the clock used for due-date checks.
func (p *Predictor) SetNowFunc(fn func() time.Time) {
	p.nowFunc = fn
}

// AssessProjectRisks evaluates team and quality signals over the last
// windowDays, plus open work item hygiene. Missing history removes the
// affected categories; any other collaborator failure is returned.
func (p *Predictor) AssessProjectRisks(ctx context.Context, windowDays int) ([]Assessment, error) {
	var risks []Assessment

	if p.analyzer != nil {
		insights, err := p.analyzer.TeamInsights(ctx, windowDays)
		switch {
		case err == nil:
			risks = append(risks, p.teamRisks(insights)...)
		case activity.IsMissingData(err):
			logging.DebugContext(ctx, "skipping team risks", "error", err)
		default:
			return nil, fmt.Errorf("reading team insights: %w", err)
		}

		trends, err := p.analyzer.QualityTrends(ctx, windowDays)
		switch {
		case err == nil:
			risks = append(risks, p.qualityRisks(trends)...)
		case activity.IsMissingData(err):
			logging.DebugContext(ctx, "skipping quality risks", "error", err)
		default:
			return nil, fmt.Errorf("reading quality trends: %w", err)
		}
	}

	if p.repo != nil {
		list, err := p.repo.ListItems(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing items: %w", err)
		}
		risks = append(risks, p.backlogRisks(items.Open(list))...)
	}

	SortBySeverity(risks)
	if risks == nil {
		risks = []Assessment{}
	}
	return risks, nil
}

func (p *Predictor) teamRisks(t activity.TeamInsights) []Assessment {
	var risks []Assessment
	if t.ContributorCount == 1 {
		risks = append(risks, Assessment{
			RiskType:    TypeSingleDeveloper,
			RiskLevel:   LevelHigh,
			Probability: 0.7,
			ImpactScore: 8,
			Description: "All recent activity comes from a single contributor; their absence would stall the project",
			MitigationSuggestions: []string{
				"Pair on critical areas to spread knowledge",
				"Document key subsystems and design decisions",
				"Have a second developer review changes",
			},
		})
	}
	if t.ContributorCount > 1 && t.AverageCollaborationScore < p.thresholds.LowCollaboration {
		risks = append(risks, Assessment{
			RiskType:    TypeCollaboration,
			RiskLevel:   LevelMedium,
			Probability: 0.5,
			ImpactScore: 5,
			Description: fmt.Sprintf("Average collaboration score is %.2f; contributors rarely work in the same areas", t.AverageCollaborationScore),
			MitigationSuggestions: []string{
				"Rotate code review across areas of the codebase",
				"Hold regular design walkthroughs",
			},
		})
	}
	return risks
}

func (p *Predictor) qualityRisks(q activity.QualityTrends) []Assessment {
	if q.Commits == 0 {
		return nil
	}
	var risks []Assessment
	if q.BugFixRatio > p.thresholds.BugFixRatio {
		level := LevelMedium
		if q.BugFixRatio > 2*p.thresholds.BugFixRatio {
			level = LevelHigh
		}
		risks = append(risks, Assessment{
			RiskType:    TypeQuality,
			RiskLevel:   level,
			Probability: q.BugFixRatio,
			ImpactScore: 6,
			Description: fmt.Sprintf("%.0f%% of recent commits are bug fixes", q.BugFixRatio*100),
			MitigationSuggestions: []string{
				"Increase test coverage on frequently fixed areas",
				"Add a root-cause review for recurring bugs",
			},
		})
	}
	if q.LargeChangeRatio > p.thresholds.LargeChangeRatio {
		risks = append(risks, Assessment{
			RiskType:    TypeQuality,
			RiskLevel:   LevelMedium,
			Probability: q.LargeChangeRatio,
			ImpactScore: 5,
			Description: fmt.Sprintf("%.0f%% of recent commits are unusually large changes", q.LargeChangeRatio*100),
			MitigationSuggestions: []string{
				"Split large changes into smaller reviewable commits",
				"Use feature flags to land work incrementally",
			},
		})
	}
	return risks
}

// backlogRisks flags overdue and unowned urgent work across the open set.
func (p *Predictor) backlogRisks(open []items.WorkItem) []Assessment {
	now := p.nowFunc()
	var overdue, unowned []string
	maxLate := 0
	for _, item := range open {
		if item.IsOverdue(now) {
			overdue = append(overdue, item.ID)
			if late := daysLate(*item.DueDate, now); late > maxLate {
				maxLate = late
			}
		}
		if item.Assignee == "" && item.Priority.IsUrgent() {
			unowned = append(unowned, item.ID)
		}
	}

	var risks []Assessment
	if n := len(overdue); n > 0 {
		level := LevelMedium
		switch {
		case n >= 5:
			level = LevelCritical
		case n >= 2:
			level = LevelHigh
		}
		risks = append(risks, Assessment{
			RiskType:    TypeSchedule,
			RiskLevel:   level,
			Probability: 0.9,
			ImpactScore: math.Min(10, 4+float64(n)),
			Description: fmt.Sprintf("%d open %s past due: %s", n, plural(n, "item is", "items are"), strings.Join(overdue, ", ")),
			MitigationSuggestions: []string{
				"Re-plan overdue items with their owners",
				"Move non-essential overdue work out of the current milestone",
			},
			DeadlineImpactDays: days(maxLate),
		})
	}
	if n := len(unowned); n > 0 {
		level := LevelMedium
		if n >= 3 {
			level = LevelHigh
		}
		risks = append(risks, Assessment{
			RiskType:    TypeOwnership,
			RiskLevel:   level,
			Probability: 0.6,
			ImpactScore: 5,
			Description: fmt.Sprintf("%d urgent open %s no assignee: %s", n, plural(n, "item has", "items have"), strings.Join(unowned, ", ")),
			MitigationSuggestions: []string{
				"Assign an owner to every high and critical priority item",
			},
		})
	}
	return risks
}

// PredictIssueRisks returns the risks of a single item. The complexity risk
// is always present; the others appear when they apply.
func (p *Predictor) PredictIssueRisks(item items.WorkItem) []Assessment {
	t := p.thresholds
	score := p.scorer.Score(item)

	risks := []Assessment{p.complexityRisk(item, score)}

	if n := len(item.Dependencies); n > 0 {
		level := LevelLow
		switch {
		case n > 5:
			level = LevelCritical
		case n >= 4:
			level = LevelHigh
		case n >= 2:
			level = LevelMedium
		}
		mitigations := []string{
			"Confirm owners and delivery dates for each dependency",
			"Start with the parts that do not wait on dependencies",
		}
		if level.AtLeast(LevelHigh) {
			mitigations = append(mitigations, "Reduce coupling by splitting the item")
		}
		risks = append(risks, Assessment{
			RiskType:              TypeDependency,
			RiskLevel:             level,
			Probability:           math.Min(0.2+0.1*float64(n), 0.9),
			ImpactScore:           math.Min(10, 2+float64(n)),
			Description:           fmt.Sprintf("Item depends on %d %s", n, plural(n, "dependency", "dependencies")),
			MitigationSuggestions: mitigations,
			DeadlineImpactDays:    days(n * t.DaysPerDependency),
			ItemID:                item.ID,
		})
	}

	now := p.nowFunc()
	if item.IsOverdue(now) {
		late := daysLate(*item.DueDate, now)
		risks = append(risks, Assessment{
			RiskType:    TypeSchedule,
			RiskLevel:   LevelHigh,
			Probability: 0.9,
			ImpactScore: math.Min(10, 4+float64(late)/7),
			Description: fmt.Sprintf("Item is %d %s past its due date", late, plural(late, "day", "days")),
			MitigationSuggestions: []string{
				"Agree a new due date or reduce the item's scope",
			},
			DeadlineImpactDays: days(late),
			ItemID:             item.ID,
		})
	}

	if item.IsOpen() && item.Assignee == "" && item.Priority.IsUrgent() {
		risks = append(risks, Assessment{
			RiskType:    TypeOwnership,
			RiskLevel:   LevelMedium,
			Probability: 0.6,
			ImpactScore: 5,
			Description: fmt.Sprintf("Item has %s priority but no assignee", item.Priority),
			MitigationSuggestions: []string{
				"Assign an owner before work is scheduled",
			},
			ItemID: item.ID,
		})
	}
	return risks
}

func (p *Predictor) complexityRisk(item items.WorkItem, score float64) Assessment {
	t := p.thresholds
	level := LevelLow
	switch {
	case score >= t.ComplexityCritical:
		level = LevelCritical
	case score >= t.ComplexityHigh:
		level = LevelHigh
	case score >= t.ComplexityMedium:
		level = LevelMedium
	}

	desc := fmt.Sprintf("Complexity score %.1f/10", score)
	if terms := complexity.IndicatorTerms(item); len(terms) > 0 {
		desc += "; indicators: " + strings.Join(terms, ", ")
	}

	var mitigations []string
	switch level {
	case LevelLow:
		mitigations = []string{"Proceed with standard review"}
	case LevelMedium:
		mitigations = []string{
			"Clarify acceptance criteria before starting",
			"Plan a mid-point review",
		}
	default:
		mitigations = []string{
			"Break the item into smaller pieces",
			"Hold a design review before implementation",
			"Reserve extra time for testing",
		}
	}

	return Assessment{
		RiskType:              TypeComplexity,
		RiskLevel:             level,
		Probability:           math.Max(0.05, math.Min(0.95, score/complexity.MaxScore)),
		ImpactScore:           math.Max(score, 0.5),
		Description:           desc,
		MitigationSuggestions: mitigations,
		ItemID:                item.ID,
	}
}

// daysLate is the number of whole days, rounded up, since due.
func daysLate(due, now time.Time) int {
	d := int(math.Ceil(now.Sub(due).Hours() / 24))
	if d < 1 {
		d = 1
	}
	return d
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
