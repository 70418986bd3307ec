package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/newhook/outlook/internal/items"
)

var importCmd = &cobra.Command{
	Use:   "import <items.toml>",
	Short: "Load work items into the project's item store",
	Long: `Insert or update work items from a TOML file of [[items]] tables:

  [[items]]
  id = "API-12"
  title = "Migrate session store"
  body = "Move sessions to the shared cache and add a fallback."
  priority = "high"          # low, medium, high, critical
  status = "in_progress"     # todo, in_progress, review, blocked, done, cancelled
  assignee = "alice"
  milestone = "v2"
  dependencies = ["API-10"]
  estimated_hours = 8.0
  progress = 25.0
  due_date = 2026-11-30

Items are matched by id; existing items are replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// itemsFile is the on-disk import format.
type itemsFile struct {
	Items []itemRecord `toml:"items"`
}

type itemRecord struct {
	ID             string     `toml:"id"`
	Title          string     `toml:"title"`
	Body           string     `toml:"body"`
	Priority       string     `toml:"priority"`
	Status         string     `toml:"status"`
	Assignee       string     `toml:"assignee"`
	Milestone      string     `toml:"milestone"`
	Dependencies   []string   `toml:"dependencies"`
	EstimatedHours *float64   `toml:"estimated_hours"`
	ActualHours    *float64   `toml:"actual_hours"`
	Progress       *float64   `toml:"progress"`
	DueDate        *time.Time `toml:"due_date"`
	CreatedAt      *time.Time `toml:"created_at"`
	ClosedAt       *time.Time `toml:"closed_at"`
}

// decodeItems parses an items file. Records without an id are rejected.
func decodeItems(data string) ([]items.WorkItem, error) {
	var f itemsFile
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse items file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in items file: %s", strings.Join(keys, ", "))
	}

	list := make([]items.WorkItem, 0, len(f.Items))
	seen := make(map[string]bool, len(f.Items))
	for i, rec := range f.Items {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			return nil, fmt.Errorf("item %d has no id", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate item id %s", id)
		}
		seen[id] = true

		item := items.WorkItem{
			ID:             id,
			Title:          rec.Title,
			Body:           rec.Body,
			Priority:       items.ParsePriority(rec.Priority),
			Status:         items.ParseStatus(rec.Status),
			Assignee:       strings.TrimSpace(rec.Assignee),
			Milestone:      strings.TrimSpace(rec.Milestone),
			Dependencies:   rec.Dependencies,
			EstimatedHours: rec.EstimatedHours,
			ActualHours:    rec.ActualHours,
			Progress:       rec.Progress,
			DueDate:        rec.DueDate,
			ClosedAt:       rec.ClosedAt,
		}
		if rec.CreatedAt != nil {
			item.CreatedAt = *rec.CreatedAt
		}
		list = append(list, item)
	}
	return list, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := GetContext()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read items file: %w", err)
	}
	list, err := decodeItems(string(data))
	if err != nil {
		return err
	}

	eng, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	n, err := eng.proj.Store.UpsertItems(ctx, list)
	if err != nil {
		return fmt.Errorf("failed to store items: %w", err)
	}
	fmt.Printf("Imported %d items into %s\n", n, eng.proj.DBPath())
	return nil
}
