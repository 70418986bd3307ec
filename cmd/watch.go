package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/newhook/outlook/internal/logging"
	"github.com/newhook/outlook/internal/render"
	"github.com/newhook/outlook/internal/watcher"
)

var (
	flagWatchTarget   string
	flagWatchOut      string
	flagWatchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the report whenever the item store changes",
	Long: `Print an intelligence report, then print a fresh one each time the item
database changes (for example after 'outlook import'). Each change also
re-reads git activity. Stops on Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchTarget, "target", "", "target date (YYYY-MM-DD)")
	watchCmd.Flags().StringVarP(&flagWatchOut, "out", "o", "", "also write each report to this file")
	watchCmd.Flags().DurationVar(&flagWatchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before regenerating")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	target, err := parseTarget(flagWatchTarget)
	if err != nil {
		return err
	}

	eng, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	w, err := watcher.New(watcher.Config{DBPath: eng.proj.DBPath(), DebounceDur: flagWatchDebounce})
	if err != nil {
		return err
	}
	events := w.Broker().Subscribe(ctx)
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	regenerate := func() error {
		rep := eng.reports.GenerateIntelligenceReport(ctx, target, flagWatchOut)
		if rep.Error != "" {
			logging.Warn("report incomplete", "error", rep.Error)
		}
		return render.Report(os.Stdout, rep, flagWidth)
	}

	if err := regenerate(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Watching %s for changes...\n", eng.proj.DBPath())

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			if evt.Payload.Type != watcher.DBChanged {
				continue
			}
			logging.Debug("item store changed", "path", evt.Payload.Path)
			if err := eng.proj.Analyzer.Flush(ctx); err != nil {
				logging.Warn("failed to flush activity cache", "error", err)
			}
			fmt.Printf("\n--- %s ---\n", evt.Payload.At.Format(time.DateTime))
			if err := regenerate(); err != nil {
				return err
			}
		}
	}
}
