package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newhook/outlook/internal/render"
	"github.com/newhook/outlook/internal/report"
)

var (
	flagReportTarget string
	flagReportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate an intelligence report",
	Long: `Generate a report combining the completion forecast, project risks and
per-item estimates. With --out the report is also written to a file, as TOML
when the file name ends in .toml and JSON otherwise.

Sections that fail are left out and described in the report's error field.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&flagReportTarget, "target", "", "target date (YYYY-MM-DD)")
	reportCmd.Flags().StringVarP(&flagReportOut, "out", "o", "", "write the report to this file")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	target, err := parseTarget(flagReportTarget)
	if err != nil {
		return err
	}

	eng, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	rep := eng.reports.GenerateIntelligenceReport(ctx, target, flagReportOut)
	if err := printReport(rep); err != nil {
		return err
	}
	if rep.Error != "" {
		fmt.Fprintf(os.Stderr, "Warning: report is incomplete: %s\n", rep.Error)
	}
	if flagReportOut != "" && !strings.Contains(rep.Error, "write:") {
		fmt.Fprintf(os.Stderr, "Report written to %s (%s)\n", flagReportOut, report.Format(flagReportOut))
	}
	return nil
}

func printReport(rep *report.IntelligenceReport) error {
	if flagJSON {
		data, err := report.Encode(rep, "json")
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	return render.Report(os.Stdout, rep, flagWidth)
}
