package items

//go:generate moq -stub -out repository_mock.go . Repository:RepositoryMock

import (
	"context"
	"sort"
)

// Repository provides read access to tracked work items.
// Implementations must return an empty slice, not an error, when no items exist.
type Repository interface {
	// ListItems returns every tracked item.
	ListItems(ctx context.Context) ([]WorkItem, error)
	// GetItem returns the item with the given ID, or nil if it does not exist.
	GetItem(ctx context.Context, id string) (*WorkItem, error)
}

// Open filters a list down to the items with remaining work.
func Open(list []WorkItem) []WorkItem {
	var open []WorkItem
	for _, item := range list {
		if item.IsOpen() {
			open = append(open, item)
		}
	}
	return open
}

// Completed filters a list down to finished items.
func Completed(list []WorkItem) []WorkItem {
	var done []WorkItem
	for _, item := range list {
		if item.IsCompleted() {
			done = append(done, item)
		}
	}
	return done
}

// Index maps item IDs to items.
func Index(list []WorkItem) map[string]WorkItem {
	m := make(map[string]WorkItem, len(list))
	for _, item := range list {
		m[item.ID] = item
	}
	return m
}

// InMilestone returns the IDs of the items in the named milestone, sorted.
func InMilestone(list []WorkItem, milestone string) []string {
	var ids []string
	for _, item := range list {
		if item.Milestone != "" && item.Milestone == milestone {
			ids = append(ids, item.ID)
		}
	}
	sort.Strings(ids)
	return ids
}
