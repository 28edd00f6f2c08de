package chart

import (
	"fmt"

	"github.com/carelytics/carelytics-cli/internal/analysis"
)

// Chart type names accepted by Render. Unknown names render the generic plot.
const (
	Bar         = "Bar"
	Line        = "Line"
	Pie         = "Pie"
	Histogram   = "Histogram"
	Box         = "Box"
	Scatter     = "Scatter"
	Bubble      = "Bubble"
	StackedArea = "Stacked Area"
	Heatmap     = "Heatmap (correlation)"
)

// Default figure dimensions in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 400
)

// Types lists the chart types in display order.
func Types() []string {
	return []string{Bar, Line, Pie, Histogram, Box, Scatter, Bubble, StackedArea, Heatmap}
}

// Render maps a summary table to a figure. It never fails: any rendering
// error (or panic inside the chart library) is collapsed into a fallback plot
// whose title carries the error text. Charting is best-effort and must not
// block the rest of the workflow.
func Render(table *analysis.SummaryTable, chartType, target string, groupBy []string) *Figure {
	fig, err := render(table, chartType, target)
	if err == nil {
		return fig
	}
	return fallback(table, err)
}

// render dispatches on the chart type and returns an explicit error for the
// boundary above to collapse.
func render(table *analysis.SummaryTable, chartType, target string) (fig *Figure, err error) {
	defer func() {
		if r := recover(); r != nil {
			fig, err = nil, fmt.Errorf("render %s: %v", chartType, r)
		}
	}()

	if table == nil || len(table.Columns) == 0 {
		return nil, fmt.Errorf("render %s: empty result table", chartType)
	}

	switch chartType {
	case Bar:
		return renderBar(table, "Bar chart")
	case Line:
		return renderLine(table, "Line chart", lineOptions{})
	case Pie:
		return renderPie(table)
	case Histogram:
		return renderHistogram(table, target)
	case Box:
		return renderBox(table, target)
	case Scatter:
		return renderLine(table, "Scatter", lineOptions{pointsOnly: true})
	case Bubble:
		return renderBubble(table)
	case StackedArea:
		return renderLine(table, "Stacked area", lineOptions{fill: true})
	case Heatmap:
		return renderHeatmap(table)
	default:
		return renderLine(table, "Result", lineOptions{})
	}
}

// fallback renders the raw table as a generic line plot titled with the
// triggering error. If even that fails, it degrades to a blank placeholder
// so the caller always receives a figure.
func fallback(table *analysis.SummaryTable, cause error) *Figure {
	title := fmt.Sprintf("Chart (fallback): %v", cause)
	fig, err := render(table, "", "")
	if err != nil {
		return &Figure{
			Title:          title,
			PNG:            placeholderPNG(DefaultWidth, DefaultHeight),
			FallbackReason: cause.Error(),
		}
	}
	fig.Title = title
	fig.FallbackReason = cause.Error()
	return fig
}
