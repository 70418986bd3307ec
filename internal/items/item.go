// Package items defines the work item model the engine reads from and the
// repository interface it is read through.
package items

import (
	"strings"
	"time"
)

// Priority is the ordered priority of a work item.
type Priority string

// Priority values, lowest first.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ParsePriority normalizes a priority string. Unknown values map to medium.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "p3", "3":
		return PriorityLow
	case "high", "p1", "1":
		return PriorityHigh
	case "critical", "p0", "0":
		return PriorityCritical
	default:
		return PriorityMedium
	}
}

// Rank returns the position of the priority in the ordered set (low = 0).
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityHigh:
		return 2
	case PriorityCritical:
		return 3
	default:
		return 1
	}
}

// IsUrgent reports whether the priority is high or critical.
func (p Priority) IsUrgent() bool {
	return p.Rank() >= PriorityHigh.Rank()
}

// WorkItem is a trackable unit of work. It is owned by the repository and
// never modified by the engine.
type WorkItem struct {
	ID             string
	Title          string
	Body           string
	Priority       Priority
	Status         Status
	Assignee       string
	Milestone      string
	Dependencies   []string
	EstimatedHours *float64 // planned effort, if recorded
	ActualHours    *float64 // recorded effort for completed items
	Progress       *float64 // percent complete, 0-100
	DueDate        *time.Time
	CreatedAt      time.Time
	ClosedAt       *time.Time
}

// IsOpen reports whether work remains on the item.
func (w WorkItem) IsOpen() bool {
	return w.Status.IsOpen()
}

// IsCompleted reports whether the item was finished (not cancelled).
func (w WorkItem) IsCompleted() bool {
	return w.Status == StatusDone
}

// Text returns the title and body joined, the text used for scoring.
func (w WorkItem) Text() string {
	if w.Body == "" {
		return w.Title
	}
	return w.Title + "\n" + w.Body
}

// RecordedHours returns the effort a completed item actually took. It falls
// back to the planned estimate and reports false when neither is set.
func (w WorkItem) RecordedHours() (float64, bool) {
	if w.ActualHours != nil && *w.ActualHours > 0 {
		return *w.ActualHours, true
	}
	if w.EstimatedHours != nil && *w.EstimatedHours > 0 {
		return *w.EstimatedHours, true
	}
	return 0, false
}

// ProgressFraction returns progress clamped to [0,1].
func (w WorkItem) ProgressFraction() float64 {
	if w.Progress == nil {
		return 0
	}
	p := *w.Progress / 100
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// IsOverdue reports whether an open item is past its due date at now.
func (w WorkItem) IsOverdue(now time.Time) bool {
	return w.IsOpen() && w.DueDate != nil && w.DueDate.Before(now)
}

// Float returns a pointer to v, for populating optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
