package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/newhook/outlook/internal/render"
	outlooksignal "github.com/newhook/outlook/internal/signal"
)

var (
	// rootCtx holds the signal-cancellable context for the application
	rootCtx    context.Context
	rootCancel context.CancelFunc

	flagProject string
	flagJSON    bool
	flagWidth   int
)

var rootCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Predictive project intelligence for a backlog of work items",
	Long: `outlook estimates open work items, predicts delivery risks and forecasts
completion dates from the project's item store and its git history.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		rootCtx, rootCancel = outlooksignal.WithSignalCancel(context.Background())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rootCancel != nil {
			rootCancel()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// GetContext returns the root context that is cancelled on SIGINT/SIGTERM.
// This should be used by all subcommands instead of context.Background().
func GetContext() context.Context {
	if rootCtx == nil {
		return context.Background()
	}
	return rootCtx
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProject, "project", "", "project directory (default: auto-detect from cwd)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print machine-readable JSON instead of text")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", render.DefaultWidth, "output width for text rendering")
}
