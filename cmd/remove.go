package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <item-id...>",
	Short: "Remove work items from the item store",
	Long: `Remove work items and their dependency lists from the item store. Items
that depend on a removed item keep the reference; it is treated as a
missing dependency target.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	eng, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	for _, id := range args {
		item, err := eng.proj.Store.GetItem(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load item %s: %w", id, err)
		}
		if item == nil {
			fmt.Printf("Item %s not found, skipping\n", id)
			continue
		}
		if err := eng.proj.Store.DeleteItem(ctx, id); err != nil {
			return fmt.Errorf("failed to remove item %s: %w", id, err)
		}
		fmt.Printf("Removed %s\n", id)
	}
	return nil
}
