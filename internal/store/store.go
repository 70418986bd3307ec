// Package store persists work items in SQLite and serves them to the engine
// through items.Repository.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/newhook/outlook/internal/items"
	"github.com/newhook/outlook/internal/signal"
	"github.com/newhook/outlook/internal/store/sqlc"
)

var _ items.Repository = (*Store)(nil)

// Store wraps the SQLite database holding the tracked items and its sqlc
// queries.
type Store struct {
	db      *sql.DB
	queries *sqlc.Queries
	nowFunc func() time.Time // For testing; defaults to time.Now
}

// OpenPath opens the database at path, creating it if needed, and runs
// migrations. Use ":memory:" for a throwaway store.
func OpenPath(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{db: db, queries: sqlc.New(db), nowFunc: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetNowFunc sets the clock used for created and updated timestamps.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.nowFunc = fn
}

// ListItems returns every item ordered by ID.
func (s *Store) ListItems(ctx context.Context) ([]items.WorkItem, error) {
	rows, err := s.queries.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	deps, err := s.queries.ListDependencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	byItem := groupDependencies(deps)

	list := make([]items.WorkItem, 0, len(rows))
	for i := range rows {
		item, err := itemFromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		item.Dependencies = byItem[item.ID]
		list = append(list, item)
	}
	return list, nil
}

// GetItem returns the item with the given ID, or nil if there is none.
func (s *Store) GetItem(ctx context.Context, id string) (*items.WorkItem, error) {
	row, err := s.queries.GetItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %s: %w", id, err)
	}
	item, err := itemFromRow(&row)
	if err != nil {
		return nil, err
	}

	deps, err := s.queries.ListItemDependencies(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies of %s: %w", id, err)
	}
	item.Dependencies = groupDependencies(deps)[id]
	return &item, nil
}

// UpsertItems inserts or replaces the given items and their dependency
// lists in one transaction. It returns the number of items written.
func (s *Store) UpsertItems(ctx context.Context, list []items.WorkItem) (int, error) {
	if len(list) == 0 {
		return 0, nil
	}
	err := signal.Critical(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		qtx := s.queries.WithTx(tx)
		now := formatTime(s.nowFunc())
		for _, item := range list {
			if strings.TrimSpace(item.ID) == "" {
				return fmt.Errorf("item %q has no id", item.Title)
			}
			if err := upsertItem(ctx, qtx, item, now); err != nil {
				return fmt.Errorf("failed to save item %s: %w", item.ID, err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// DeleteItem removes an item and its dependency list. Deleting a missing
// item is not an error.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	return signal.Critical(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		qtx := s.queries.WithTx(tx)
		if err := qtx.DeleteItemDependencies(ctx, id); err != nil {
			return fmt.Errorf("failed to delete dependencies of %s: %w", id, err)
		}
		if err := qtx.DeleteItem(ctx, id); err != nil {
			return fmt.Errorf("failed to delete item %s: %w", id, err)
		}
		return tx.Commit()
	})
}

func upsertItem(ctx context.Context, q *sqlc.Queries, item items.WorkItem, now string) error {
	created := now
	if !item.CreatedAt.IsZero() {
		created = formatTime(item.CreatedAt)
	}
	priority := item.Priority
	if priority == "" {
		priority = items.PriorityMedium
	}
	status := item.Status
	if status == "" {
		status = items.StatusTodo
	}

	err := q.UpsertItem(ctx, sqlc.UpsertItemParams{
		ID:             item.ID,
		Title:          item.Title,
		Body:           item.Body,
		Priority:       string(priority),
		Status:         string(status),
		Assignee:       item.Assignee,
		Milestone:      item.Milestone,
		EstimatedHours: nullFloat(item.EstimatedHours),
		ActualHours:    nullFloat(item.ActualHours),
		Progress:       nullFloat(item.Progress),
		DueDate:        nullTime(item.DueDate),
		CreatedAt:      created,
		ClosedAt:       nullTime(item.ClosedAt),
		UpdatedAt:      now,
	})
	if err != nil {
		return err
	}

	if err := q.DeleteItemDependencies(ctx, item.ID); err != nil {
		return err
	}
	for i, dep := range item.Dependencies {
		err := q.InsertItemDependency(ctx, sqlc.InsertItemDependencyParams{
			ItemID:      item.ID,
			DependsOnID: dep,
			Position:    int64(i),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// groupDependencies maps item IDs to their dependency lists in row order.
func groupDependencies(rows []sqlc.ItemDependency) map[string][]string {
	deps := make(map[string][]string)
	for _, r := range rows {
		deps[r.ItemID] = append(deps[r.ItemID], r.DependsOnID)
	}
	return deps
}

// itemFromRow converts an sqlc.Item to a WorkItem.
func itemFromRow(r *sqlc.Item) (items.WorkItem, error) {
	item := items.WorkItem{
		ID:             r.ID,
		Title:          r.Title,
		Body:           r.Body,
		Priority:       items.ParsePriority(r.Priority),
		Status:         items.ParseStatus(r.Status),
		Assignee:       r.Assignee,
		Milestone:      r.Milestone,
		EstimatedHours: floatPtr(r.EstimatedHours),
		ActualHours:    floatPtr(r.ActualHours),
		Progress:       floatPtr(r.Progress),
	}
	var err error
	if item.DueDate, err = timePtr(r.DueDate); err != nil {
		return item, fmt.Errorf("item %s due_date: %w", item.ID, err)
	}
	if item.ClosedAt, err = timePtr(r.ClosedAt); err != nil {
		return item, fmt.Errorf("item %s closed_at: %w", item.ID, err)
	}
	if item.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return item, fmt.Errorf("item %s created_at: %w", item.ID, err)
	}
	return item, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func timePtr(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := parseTime(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
