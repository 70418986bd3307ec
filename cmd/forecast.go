package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newhook/outlook/internal/forecast"
	"github.com/newhook/outlook/internal/items"
	"github.com/newhook/outlook/internal/render"
)

var (
	flagForecastTarget    string
	flagForecastMilestone string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast [item-id...]",
	Short: "Forecast completion of the project or a milestone",
	Long: `Forecast when the open work will be complete. With item IDs or --milestone,
only that subset is forecast and its target is the latest due date among its
items.

Examples:
  outlook forecast --target 2026-12-01
  outlook forecast --milestone v2
  outlook forecast API-12 API-14`,
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().StringVar(&flagForecastTarget, "target", "", "target date (YYYY-MM-DD) for the whole project")
	forecastCmd.Flags().StringVar(&flagForecastMilestone, "milestone", "", "forecast the items of this milestone")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	subset := len(args) > 0 || flagForecastMilestone != ""
	if subset && flagForecastTarget != "" {
		return fmt.Errorf("--target applies to project forecasts only")
	}
	target, err := parseTarget(flagForecastTarget)
	if err != nil {
		return err
	}

	eng, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	var fc forecast.Forecast
	if subset {
		ids := args
		if flagForecastMilestone != "" {
			all, err := eng.proj.Store.ListItems(ctx)
			if err != nil {
				return fmt.Errorf("failed to list items: %w", err)
			}
			ids = append(ids, items.InMilestone(all, flagForecastMilestone)...)
		}
		fc, err = eng.forecaster.ForecastMilestoneCompletion(ctx, ids)
	} else {
		fc, err = eng.forecaster.ForecastProjectCompletion(ctx, target)
	}
	if err != nil {
		return fmt.Errorf("failed to forecast: %w", err)
	}

	if flagJSON {
		return printJSON(fc)
	}
	return render.Forecast(os.Stdout, fc, flagWidth)
}
