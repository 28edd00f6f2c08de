// Package profile computes per-column descriptive statistics of a dataset.
// The report's statistics section and the describe command both render it.
package profile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/carelytics/carelytics-cli/internal/dataset"
)

// Profile summarizes a dataset: row count plus one summary per column.
type Profile struct {
	Source  string
	Rows    int
	Columns []ColumnSummary
}

// ColumnSummary captures the declared kind and statistics for one column.
type ColumnSummary struct {
	Name    string
	Kind    string
	NonNull int
	Missing int
	Unique  int
	// Numeric statistics (valid when NumCount > 0)
	NumCount  int
	Min, Max  float64
	Mean, Std float64
	Median    float64
	// Top categorical values by frequency
	TopValues []CategoryCount
}

// CategoryCount is one categorical value with its occurrence count.
type CategoryCount struct {
	Value string
	Count int
}

// Describe profiles every column of the dataset.
func Describe(ds *dataset.Dataset, source string) *Profile {
	p := &Profile{Source: source, Rows: ds.Len()}
	for i, col := range ds.Columns {
		p.Columns = append(p.Columns, describeColumn(ds, i, col))
	}
	return p
}

func describeColumn(ds *dataset.Dataset, idx int, col dataset.Column) ColumnSummary {
	s := ColumnSummary{Name: col.Name, Kind: col.Kind.String()}

	var nums []float64
	cats := make(map[string]int)
	for _, row := range ds.Rows {
		if idx >= len(row) || row[idx].IsMissing() {
			s.Missing++
			continue
		}
		s.NonNull++
		v := row[idx]
		if f, ok := dataset.AsNumber(v); ok {
			nums = append(nums, f)
		}
		cats[v.String()]++
	}
	s.Unique = len(cats)
	s.NumCount = len(nums)

	if len(nums) > 0 {
		s.Min, _ = stats.Min(nums)
		s.Max, _ = stats.Max(nums)
		s.Mean, _ = stats.Mean(nums)
		s.Median, _ = stats.Median(nums)
		if len(nums) > 1 {
			s.Std, _ = stats.StandardDeviationSample(nums)
		}
	}

	if col.Kind == dataset.KindText {
		tops := make([]CategoryCount, 0, len(cats))
		for v, c := range cats {
			tops = append(tops, CategoryCount{Value: v, Count: c})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > 8 {
			tops = tops[:8]
		}
		s.TopValues = tops
	}
	return s
}

// String renders the profile as a preformatted text block.
func (p *Profile) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s\n", p.Source)
	fmt.Fprintf(&b, "Rows: %d\n", p.Rows)
	for _, c := range p.Columns {
		fmt.Fprintf(&b, "- %s: %s (non-null %d, missing %d, unique %d)\n",
			c.Name, c.Kind, c.NonNull, c.Missing, c.Unique)
		if c.NumCount > 0 {
			fmt.Fprintf(&b, "    min %.4g  max %.4g  mean %.4g  median %.4g  std %.4g\n",
				c.Min, c.Max, c.Mean, c.Median, c.Std)
		}
		if len(c.TopValues) > 0 {
			parts := make([]string, 0, len(c.TopValues))
			for _, tv := range c.TopValues {
				parts = append(parts, fmt.Sprintf("%s(%d)", tv.Value, tv.Count))
			}
			fmt.Fprintf(&b, "    top: %s\n", strings.Join(parts, ", "))
		}
	}
	return b.String()
}
