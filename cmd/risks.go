package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newhook/outlook/internal/render"
	"github.com/newhook/outlook/internal/risk"
)

var (
	flagRisksItems  []string
	flagRisksWindow int
)

var risksCmd = &cobra.Command{
	Use:   "risks",
	Short: "Predict project and item risks",
	Long: `Assess project-level risks from team activity, code quality trends and the
backlog, or item-level risks for the items named with --item.`,
	Args: cobra.NoArgs,
	RunE: runRisks,
}

func init() {
	risksCmd.Flags().StringSliceVar(&flagRisksItems, "item", nil, "assess these items instead of the project (repeatable)")
	risksCmd.Flags().IntVar(&flagRisksWindow, "window", 0, "git history window in days (default: risk.window_days from config)")
	rootCmd.AddCommand(risksCmd)
}

func runRisks(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	eng, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	var list []risk.Assessment
	if len(flagRisksItems) == 0 {
		window := flagRisksWindow
		if window <= 0 {
			window = eng.proj.Config.Risk.GetWindowDays()
		}
		list, err = eng.predictor.AssessProjectRisks(ctx, window)
		if err != nil {
			return fmt.Errorf("failed to assess project risks: %w", err)
		}
	} else {
		for _, id := range flagRisksItems {
			item, err := eng.proj.Store.GetItem(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load item %s: %w", id, err)
			}
			if item == nil {
				return fmt.Errorf("item %s not found", id)
			}
			list = append(list, eng.predictor.PredictIssueRisks(*item)...)
		}
		risk.SortBySeverity(list)
	}

	if flagJSON {
		if list == nil {
			list = []risk.Assessment{}
		}
		return printJSON(list)
	}
	return render.Risks(os.Stdout, list, flagWidth)
}
