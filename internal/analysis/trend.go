package analysis

import (
	"sort"
	"time"

	"github.com/carelytics/carelytics-cli/internal/dataset"
)

// TemporalAxisKind is the three-state outcome of temporal axis resolution.
type TemporalAxisKind int

const (
	// TemporalNone means no temporal axis exists; Trend degrades to the
	// ordinal fallback.
	TemporalNone TemporalAxisKind = iota
	// TemporalTyped means a column was already timestamp-typed at load.
	TemporalTyped
	// TemporalGroupBy means the first group-by column is treated as a
	// temporal candidate and parsed per row (uncoercible values become
	// missing).
	TemporalGroupBy
)

// TemporalAxis identifies the column Trend buckets on, if any.
type TemporalAxis struct {
	Kind   TemporalAxisKind
	Column string
}

// ResolveTemporalAxis locates the axis for a Trend aggregation: the first
// timestamp-typed dataset column wins; failing that, a non-empty group-by
// nominates its first column as a parse-per-row candidate; otherwise there is
// no temporal axis.
func ResolveTemporalAxis(ds *dataset.Dataset, groupBy []string) TemporalAxis {
	for _, c := range ds.Columns {
		if c.Kind == dataset.KindTimestamp {
			return TemporalAxis{Kind: TemporalTyped, Column: c.Name}
		}
	}
	if len(groupBy) > 0 {
		return TemporalAxis{Kind: TemporalGroupBy, Column: groupBy[0]}
	}
	return TemporalAxis{Kind: TemporalNone}
}

// aggregateTrend buckets rows by calendar day on the temporal axis, summing
// the coerced target per day with sub-grouping by the remaining group-by
// columns. Rows whose axis value cannot be parsed are excluded; absent days
// are not synthesized; a bucket whose target values are all missing sums to
// zero. With no axis at all it returns the ordinal fallback: one row per
// input row, 0-based index against the coerced target.
func aggregateTrend(ds *dataset.Dataset, target string, groupBy []string) (*SummaryTable, error) {
	axis := ResolveTemporalAxis(ds, groupBy)
	if axis.Kind == TemporalNone {
		return trendOrdinalFallback(ds, target), nil
	}

	dtIdx, ok := ds.ColumnIndex(axis.Column)
	if !ok {
		return nil, &ColumnNotFoundError{Column: axis.Column}
	}
	var others []string
	for _, g := range groupBy {
		if g != axis.Column {
			others = append(others, g)
		}
	}
	otherIdxs := make([]int, len(others))
	for i, name := range others {
		otherIdxs[i], _ = ds.ColumnIndex(name)
	}

	type bucket struct {
		day     time.Time
		keyVals []dataset.Value
		keyStr  string
		sum     float64
		n       int
	}
	byKey := make(map[string]*bucket)
	var buckets []*bucket

	for r, row := range ds.Rows {
		t, ok := dataset.AsTime(row[dtIdx])
		if !ok {
			continue
		}
		day := dataset.Day(t)
		key := day.Format("2006-01-02") + "\x1f"
		keyVals := make([]dataset.Value, len(otherIdxs))
		for i, j := range otherIdxs {
			keyVals[i] = row[j]
			key += row[j].GroupKeyPart() + "\x1f"
		}
		b := byKey[key]
		if b == nil {
			b = &bucket{day: day, keyVals: keyVals, keyStr: key}
			byKey[key] = b
			buckets = append(buckets, b)
		}
		if f, ok := dataset.AsNumber(ds.Cell(r, target)); ok {
			b.sum += f
			b.n++
		}
	}

	sort.Slice(buckets, func(i, j int) bool {
		if !buckets[i].day.Equal(buckets[j].day) {
			return buckets[i].day.Before(buckets[j].day)
		}
		return buckets[i].keyStr < buckets[j].keyStr
	})

	columns := append([]string{axis.Column}, others...)
	columns = append(columns, target)
	rows := make([][]dataset.Value, 0, len(buckets))
	for _, b := range buckets {
		row := make([]dataset.Value, 0, len(b.keyVals)+2)
		row = append(row, dataset.Timestamp(b.day))
		row = append(row, b.keyVals...)
		row = append(row, dataset.Number(b.sum))
		rows = append(rows, row)
	}
	return &SummaryTable{Columns: columns, Rows: rows}, nil
}

func trendOrdinalFallback(ds *dataset.Dataset, target string) *SummaryTable {
	rows := make([][]dataset.Value, ds.Len())
	for i := range ds.Rows {
		v := dataset.Missing()
		if f, ok := dataset.AsNumber(ds.Cell(i, target)); ok {
			v = dataset.Number(f)
		}
		rows[i] = []dataset.Value{dataset.Number(float64(i)), v}
	}
	return &SummaryTable{Columns: []string{"index", target}, Rows: rows}
}
