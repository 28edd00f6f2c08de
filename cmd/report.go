package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carelytics/carelytics-cli/internal/analysis"
	"github.com/carelytics/carelytics-cli/internal/chart"
	"github.com/carelytics/carelytics-cli/internal/report"
	"github.com/carelytics/carelytics-cli/internal/utils"
)

var (
	repFlags   datasetFlags
	repTarget  string
	repOp      string
	repGroupBy []string
	repChart   string
	repOutput  string
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Run an analysis and export it as a PDF report",
	Long: `Report runs the same pipeline as analyze and serializes the outcome into a
PDF: title, generation timestamp, descriptive statistics of a bounded sample,
the summary table, and the rendered chart. The report lands in the configured
reports directory unless --output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		var (
			summary *analysis.SummaryTable
			fig     *chart.Figure
		)
		ds, err := repFlags.load(path)
		if err != nil {
			return err
		}
		if repOp != "" {
			op, err := analysis.ParseOperation(repOp)
			if err != nil {
				return err
			}
			if summary, err = analysis.Aggregate(ds, repTarget, op, repGroupBy); err != nil {
				return err
			}
		}
		if repChart != "" && summary != nil {
			fig = chart.Render(summary, repChart, repTarget, repGroupBy)
			if fig.Degraded() {
				fmt.Printf("⚠ Chart degraded to fallback: %s\n", fig.FallbackReason)
			}
		}

		out := repOutput
		if out == "" {
			if err := utils.EnsureDir(cfg.ReportsDir); err != nil {
				return fmt.Errorf("reports dir: %w", err)
			}
			out = utils.ReportPath(cfg.ReportsDir, path)
		}

		b := report.NewBuilder()
		b.PageSize = cfg.PageSize
		if cfg.SampleRows > 0 {
			b.SampleLimit = cfg.SampleRows
		}
		if cfg.SummaryRows > 0 {
			b.SummaryLimit = cfg.SummaryRows
		}
		meta := &report.Meta{Source: filepath.Base(path), Rows: ds.Len()}
		if err := b.Build(out, ds, summary, fig, meta); err != nil {
			return err
		}
		fmt.Printf("✓ Report written to %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	repFlags.register(reportCmd)
	reportCmd.Flags().StringVarP(&repTarget, "target", "t", "", "column the operation is performed on")
	reportCmd.Flags().StringVar(&repOp, "op", "", "operation: "+strings.Join(analysis.OperationNames(), " | ")+" (omit to skip the analysis section)")
	reportCmd.Flags().StringSliceVarP(&repGroupBy, "group-by", "g", nil, "columns to group by (comma-separated, order preserved)")
	reportCmd.Flags().StringVar(&repChart, "chart", "", "chart type: "+strings.Join(chart.Types(), " | "))
	reportCmd.Flags().StringVar(&repOutput, "output", "", "explicit output path for the PDF")
}
