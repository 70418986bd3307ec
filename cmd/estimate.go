package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newhook/outlook/internal/items"
	"github.com/newhook/outlook/internal/render"
)

var flagEstimateContributor string

var estimateCmd = &cobra.Command{
	Use:   "estimate [item-id...]",
	Short: "Estimate the effort of work items",
	Long: `Estimate the hours needed for the given work items, or for every open item
when no IDs are given. With a single item, --contributor adjusts the estimate
for that person's recent productivity.`,
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVar(&flagEstimateContributor, "contributor", "", "contributor to tailor a single-item estimate to")
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	if flagEstimateContributor != "" && len(args) != 1 {
		return fmt.Errorf("--contributor requires exactly one item ID")
	}

	eng, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	if len(args) == 1 {
		item, err := eng.proj.Store.GetItem(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to load item %s: %w", args[0], err)
		}
		if item == nil {
			return fmt.Errorf("item %s not found", args[0])
		}
		res, err := eng.estimator.EstimateIssueTime(ctx, *item, flagEstimateContributor)
		if err != nil {
			return fmt.Errorf("failed to estimate %s: %w", item.ID, err)
		}
		if flagJSON {
			return printJSON(res)
		}
		return render.EstimateDetail(os.Stdout, res, item.Title, flagWidth)
	}

	all, err := eng.proj.Store.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	var list []items.WorkItem
	if len(args) == 0 {
		list = items.Open(all)
	} else {
		byID := make(map[string]items.WorkItem, len(all))
		for _, item := range all {
			byID[item.ID] = item
		}
		for _, id := range args {
			item, ok := byID[id]
			if !ok {
				return fmt.Errorf("item %s not found", id)
			}
			list = append(list, item)
		}
	}

	results, err := eng.estimator.BatchEstimateIssues(ctx, list)
	if err != nil {
		return fmt.Errorf("failed to estimate items: %w", err)
	}
	if flagJSON {
		return printJSON(results)
	}
	return render.Estimates(os.Stdout, results, titles(list), flagWidth)
}

func titles(list []items.WorkItem) map[string]string {
	m := make(map[string]string, len(list))
	for _, item := range list {
		m[item.ID] = item.Title
	}
	return m
}

