package chart

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"
	chartlib "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/carelytics/carelytics-cli/internal/analysis"
	"github.com/carelytics/carelytics-cli/internal/dataset"
)

// tableXY extracts the default encoding from a summary table: first column as
// category labels, last column as values. A single-column table uses the row
// index as labels. Rows whose value cell does not coerce are skipped.
func tableXY(table *analysis.SummaryTable) (labels []string, ys []float64, err error) {
	valIdx := len(table.Columns) - 1
	labelIdx := 0
	soleColumn := len(table.Columns) == 1

	for r, row := range table.Rows {
		if valIdx >= len(row) {
			continue
		}
		f, ok := valueAsFloat(row[valIdx])
		if !ok {
			continue
		}
		if soleColumn {
			labels = append(labels, strconv.Itoa(r))
		} else {
			labels = append(labels, row[labelIdx].String())
		}
		ys = append(ys, f)
	}
	if len(ys) == 0 {
		return nil, nil, fmt.Errorf("no numeric values in result table")
	}
	return labels, ys, nil
}

func renderBar(table *analysis.SummaryTable, title string) (*Figure, error) {
	labels, ys, err := tableXY(table)
	if err != nil {
		return nil, err
	}
	bars := make([]chartlib.Value, len(ys))
	for i := range ys {
		bars[i] = chartlib.Value{Label: labels[i], Value: ys[i]}
	}
	bc := chartlib.BarChart{
		Title:    title,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		BarWidth: barWidth(len(bars)),
		Bars:     bars,
	}
	return encode(title, func(buf *bytes.Buffer) error { return bc.Render(chartlib.PNG, buf) })
}

func renderPie(table *analysis.SummaryTable) (*Figure, error) {
	labels, ys, err := tableXY(table)
	if err != nil {
		return nil, err
	}
	values := make([]chartlib.Value, len(ys))
	for i := range ys {
		values[i] = chartlib.Value{Label: labels[i], Value: ys[i]}
	}
	pc := chartlib.PieChart{
		Title:  "Pie chart",
		Width:  DefaultHeight, // square canvas reads better for pies
		Height: DefaultHeight,
		Values: values,
	}
	return encode("Pie chart", func(buf *bytes.Buffer) error { return pc.Render(chartlib.PNG, buf) })
}

type lineOptions struct {
	pointsOnly bool
	fill       bool
}

func renderLine(table *analysis.SummaryTable, title string, opt lineOptions) (*Figure, error) {
	labels, ys, err := tableXY(table)
	if err != nil {
		return nil, err
	}
	xs := indexXs(len(ys))
	// go-chart needs at least two X values; pad a lone point.
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
		labels = append(labels, labels[0])
	}

	style := chartlib.Style{StrokeColor: chartlib.ColorBlue}
	if opt.pointsOnly {
		style = pointStyle()
	}
	if opt.fill {
		style.FillColor = chartlib.ColorBlue.WithAlpha(80)
	}

	graph := chartlib.Chart{
		Title:  title,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		XAxis:  chartlib.XAxis{Ticks: categoryTicks(labels)},
		Series: []chartlib.Series{
			chartlib.ContinuousSeries{XValues: xs, YValues: ys, Style: style},
		},
	}
	return encode(title, func(buf *bytes.Buffer) error { return graph.Render(chartlib.PNG, buf) })
}

func renderBubble(table *analysis.SummaryTable) (*Figure, error) {
	if len(table.Columns) < 3 {
		// Degrades to a single-axis scatter of the first column.
		first := &analysis.SummaryTable{Columns: []string{table.Columns[0]}}
		for _, row := range table.Rows {
			if len(row) > 0 {
				first.Rows = append(first.Rows, row[:1])
			}
		}
		return renderLine(first, "Bubble chart", lineOptions{pointsOnly: true})
	}

	type point struct{ x, y, size float64 }
	var pts []point
	for _, row := range table.Rows {
		if len(row) < 3 {
			continue
		}
		x, okX := valueAsFloat(row[0])
		y, okY := valueAsFloat(row[1])
		s, okS := valueAsFloat(row[2])
		if !okX || !okY {
			continue
		}
		if !okS {
			s = 0
		}
		pts = append(pts, point{x, y, s})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("no numeric point data for bubble chart")
	}

	minS, maxS := pts[0].size, pts[0].size
	for _, p := range pts {
		if p.size < minS {
			minS = p.size
		}
		if p.size > maxS {
			maxS = p.size
		}
	}
	// One series per point so each dot gets its own scaled width.
	series := make([]chartlib.Series, 0, len(pts))
	for _, p := range pts {
		width := 6.0
		if maxS > minS {
			width = 4 + 16*(p.size-minS)/(maxS-minS)
		}
		st := pointStyle()
		st.DotWidth = width
		xs := []float64{p.x, p.x}
		ys := []float64{p.y, p.y}
		series = append(series, chartlib.ContinuousSeries{XValues: xs, YValues: ys, Style: st})
	}
	graph := chartlib.Chart{
		Title:  "Bubble chart",
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Series: series,
	}
	return encode("Bubble chart", func(buf *bytes.Buffer) error { return graph.Render(chartlib.PNG, buf) })
}

func renderHistogram(table *analysis.SummaryTable, target string) (*Figure, error) {
	vals, err := targetColumn(table, target)
	if err != nil {
		return nil, err
	}
	sorted := append([]float64{}, vals...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		hi = lo + 1
	}
	nb := 10
	if len(sorted) < nb {
		nb = len(sorted)
	}
	dividers := make([]float64, nb+1)
	width := (hi - lo) / float64(nb)
	for i := range dividers {
		dividers[i] = lo + width*float64(i)
	}
	dividers[nb] = hi + width/1e6 // half-open last bin must include the max
	counts := stat.Histogram(nil, dividers, sorted, nil)

	bars := make([]chartlib.Value, len(counts))
	for i, c := range counts {
		bars[i] = chartlib.Value{
			Label: fmt.Sprintf("%.3g", dividers[i]),
			Value: c,
		}
	}
	bc := chartlib.BarChart{
		Title:    "Histogram",
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		BarWidth: barWidth(len(bars)),
		Bars:     bars,
	}
	return encode("Histogram", func(buf *bytes.Buffer) error { return bc.Render(chartlib.PNG, buf) })
}

func renderBox(table *analysis.SummaryTable, target string) (*Figure, error) {
	vals, err := targetColumn(table, target)
	if err != nil {
		return nil, err
	}
	q, err := stats.Quartile(vals)
	if err != nil {
		return nil, fmt.Errorf("quartiles: %w", err)
	}
	minV, err := stats.Min(vals)
	if err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	maxV, err := stats.Max(vals)
	if err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	bars := []chartlib.Value{
		{Label: "Min", Value: minV},
		{Label: "Q1", Value: q.Q1},
		{Label: "Median", Value: q.Q2},
		{Label: "Q3", Value: q.Q3},
		{Label: "Max", Value: maxV},
	}
	bc := chartlib.BarChart{
		Title:    "Box plot",
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		BarWidth: barWidth(len(bars)),
		Bars:     bars,
	}
	return encode("Box plot", func(buf *bytes.Buffer) error { return bc.Render(chartlib.PNG, buf) })
}

// targetColumn coerces the named table column to floats; the histogram and
// box encodings address the target column directly, ignoring table shape.
func targetColumn(table *analysis.SummaryTable, target string) ([]float64, error) {
	idx, ok := table.ColumnIndex(target)
	if !ok {
		return nil, fmt.Errorf("column %q not in result table", target)
	}
	vals, _ := table.NumericColumn(idx)
	if len(vals) == 0 {
		return nil, fmt.Errorf("column %q has no numeric values", target)
	}
	return vals, nil
}

func valueAsFloat(v dataset.Value) (float64, bool) {
	return dataset.AsNumber(v)
}

// pointStyle renders points only, no connecting line.
func pointStyle() chartlib.Style {
	return chartlib.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    chartlib.ColorBlue,
	}
}

func indexXs(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// categoryTicks labels an index-based axis, thinning labels past a dozen.
func categoryTicks(labels []string) []chartlib.Tick {
	step := 1
	if len(labels) > 12 {
		step = (len(labels) + 11) / 12
	}
	var ticks []chartlib.Tick
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, chartlib.Tick{Value: float64(i), Label: labels[i]})
	}
	if len(ticks) == 1 {
		ticks = append(ticks, chartlib.Tick{Value: ticks[0].Value + 1, Label: ""})
	}
	return ticks
}

func barWidth(n int) int {
	if n <= 0 {
		return 40
	}
	w := (DefaultWidth - 100) / n
	if w > 60 {
		w = 60
	}
	if w < 4 {
		w = 4
	}
	return w
}

func encode(title string, renderTo func(*bytes.Buffer) error) (*Figure, error) {
	var buf bytes.Buffer
	if err := renderTo(&buf); err != nil {
		return nil, err
	}
	return &Figure{Title: title, PNG: buf.Bytes()}, nil
}
