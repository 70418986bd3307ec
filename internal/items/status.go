package items

import "strings"

// Status is the lifecycle status of a work item.
type Status string

// Status values.
const (
	StatusTodo       Status = "todo"        // Default status for new items
	StatusInProgress Status = "in_progress" // Actively being worked on
	StatusReview     Status = "review"      // Awaiting review
	StatusBlocked    Status = "blocked"     // Cannot proceed due to dependencies
	StatusDone       Status = "done"        // Completed
	StatusCancelled  Status = "cancelled"   // Dropped without completion
)

// ParseStatus normalizes a status string. Common tracker spellings are
// accepted; anything unrecognised is treated as todo.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "-", "_"))) {
	case "in_progress", "inprogress", "doing", "started":
		return StatusInProgress
	case "review", "in_review":
		return StatusReview
	case "blocked":
		return StatusBlocked
	case "done", "closed", "completed", "resolved":
		return StatusDone
	case "cancelled", "canceled", "wontfix":
		return StatusCancelled
	default:
		return StatusTodo
	}
}

// IsOpen returns true if the status means work remains.
func (s Status) IsOpen() bool {
	switch s {
	case StatusDone, StatusCancelled:
		return false
	default:
		return true
	}
}
