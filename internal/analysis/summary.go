package analysis

import (
	"fmt"
	"strings"

	"github.com/carelytics/carelytics-cli/internal/dataset"
)

// SummaryTable is the engine's output: group-by columns first (in the
// caller-supplied order), the derived value column last.
type SummaryTable struct {
	Columns []string
	Rows    [][]dataset.Value
}

// Len returns the number of result rows.
func (t *SummaryTable) Len() int { return len(t.Rows) }

// Head returns a table holding at most n leading rows.
func (t *SummaryTable) Head(n int) *SummaryTable {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &SummaryTable{Columns: t.Columns, Rows: t.Rows[:n]}
}

// ColumnIndex returns the position of a named result column.
func (t *SummaryTable) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// ColumnValues returns the cells of column i across all rows.
func (t *SummaryTable) ColumnValues(i int) []dataset.Value {
	out := make([]dataset.Value, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out
}

// NumericColumn coerces column i to floats, skipping rows where coercion
// fails; ok reports whether every non-missing cell coerced and at least one
// value was produced.
func (t *SummaryTable) NumericColumn(i int) (vals []float64, ok bool) {
	ok = true
	for _, row := range t.Rows {
		if i >= len(row) {
			continue
		}
		v := row[i]
		if v.IsMissing() {
			continue
		}
		f, coerced := dataset.AsNumber(v)
		if !coerced {
			ok = false
			continue
		}
		vals = append(vals, f)
	}
	if len(vals) == 0 {
		ok = false
	}
	return vals, ok
}

// String renders the table as aligned preformatted text, the shape the report
// embeds and the CLI prints.
func (t *SummaryTable) String() string {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = len(c)
	}
	cells := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		cells[r] = make([]string, len(t.Columns))
		for i := range t.Columns {
			s := ""
			if i < len(row) {
				s = row[i].String()
			}
			cells[r][i] = s
			if len(s) > widths[i] {
				widths[i] = len(s)
			}
		}
	}
	var b strings.Builder
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "%-*s", widths[i], c)
	}
	b.WriteByte('\n')
	for _, row := range cells {
		for i, s := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], s)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
