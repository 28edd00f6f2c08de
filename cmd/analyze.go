package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carelytics/carelytics-cli/internal/analysis"
	"github.com/carelytics/carelytics-cli/internal/chart"
)

var (
	anaFlags    datasetFlags
	anaTarget   string
	anaOp       string
	anaGroupBy  []string
	anaChart    string
	anaChartOut string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Aggregate a dataset and print the summary table",
	Long: `Analyze loads a dataset, applies the selection/cleaning/filter flags,
runs one aggregation (` + strings.Join(analysis.OperationNames(), ", ") + `)
optionally grouped by columns, and prints the summary table. With --chart the
result is also rendered (` + strings.Join(chart.Types(), ", ") + `).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := analysis.ParseOperation(anaOp)
		if err != nil {
			return err
		}
		ds, err := anaFlags.load(args[0])
		if err != nil {
			return err
		}
		summary, err := analysis.Aggregate(ds, anaTarget, op, anaGroupBy)
		if err != nil {
			return err
		}
		fmt.Print(summary.String())

		if anaChart != "" {
			fig := chart.Render(summary, anaChart, anaTarget, anaGroupBy)
			if fig.Degraded() {
				fmt.Printf("⚠ Chart degraded to fallback: %s\n", fig.FallbackReason)
			}
			if anaChartOut != "" {
				if err := fig.WriteFile(anaChartOut); err != nil {
					return err
				}
				fmt.Printf("✓ Wrote chart to %s\n", anaChartOut)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaTarget, "target", "t", "", "column the operation is performed on")
	analyzeCmd.Flags().StringVar(&anaOp, "op", "Count", "operation: "+strings.Join(analysis.OperationNames(), " | "))
	analyzeCmd.Flags().StringSliceVarP(&anaGroupBy, "group-by", "g", nil, "columns to group by (comma-separated, order preserved)")
	analyzeCmd.Flags().StringVar(&anaChart, "chart", "", "chart type: "+strings.Join(chart.Types(), " | "))
	analyzeCmd.Flags().StringVar(&anaChartOut, "chart-out", "", "write the rendered chart PNG to this path")
}
