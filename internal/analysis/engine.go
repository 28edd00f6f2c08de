package analysis

import (
	"github.com/carelytics/carelytics-cli/internal/dataset"
)

// Aggregate runs one operation over the dataset and returns a summary table.
// Numeric operations coerce the target column with skip-missing semantics;
// an Average/Min/Max over a group with no coercible values yields the missing
// sentinel, never zero. Identical inputs always recompute the same result:
// the engine holds no state between calls.
func Aggregate(ds *dataset.Dataset, target string, op Operation, groupBy []string) (*SummaryTable, error) {
	for _, g := range groupBy {
		if _, ok := ds.ColumnIndex(g); !ok {
			return nil, &ColumnNotFoundError{Column: g}
		}
	}
	if op != OpCount {
		if _, ok := ds.ColumnIndex(target); !ok {
			return nil, &ColumnNotFoundError{Column: target}
		}
	}

	if op == OpTrend {
		return aggregateTrend(ds, target, groupBy)
	}

	columns := append(append([]string{}, groupBy...), op.derivedColumn())

	// Without grouping, Count and the numeric operations still produce a
	// single row, even over an empty dataset.
	if len(groupBy) == 0 {
		all := make([]int, ds.Len())
		for i := range all {
			all[i] = i
		}
		row := []dataset.Value{derive(ds, target, op, all)}
		return &SummaryTable{Columns: columns, Rows: [][]dataset.Value{row}}, nil
	}

	groups := groupRows(ds, groupBy)
	rows := make([][]dataset.Value, 0, len(groups))
	for _, g := range groups {
		row := make([]dataset.Value, 0, len(g.keyValues)+1)
		row = append(row, g.keyValues...)
		row = append(row, derive(ds, target, op, g.rows))
		rows = append(rows, row)
	}
	return &SummaryTable{Columns: columns, Rows: rows}, nil
}

// group is one distinct group key with its member row indices.
type group struct {
	keyValues []dataset.Value
	rows      []int
}

// groupRows partitions row indices by group key, preserving first-seen group
// order. Rows with a missing value in a group-by column form their own group.
func groupRows(ds *dataset.Dataset, groupBy []string) []group {
	idxs := make([]int, len(groupBy))
	for i, name := range groupBy {
		idxs[i], _ = ds.ColumnIndex(name)
	}

	byKey := make(map[string]int)
	var groups []group
	for r, row := range ds.Rows {
		key := ""
		for _, j := range idxs {
			key += row[j].GroupKeyPart() + "\x1f"
		}
		gi, seen := byKey[key]
		if !seen {
			gi = len(groups)
			byKey[key] = gi
			keyVals := make([]dataset.Value, len(idxs))
			for i, j := range idxs {
				keyVals[i] = row[j]
			}
			groups = append(groups, group{keyValues: keyVals})
		}
		groups[gi].rows = append(groups[gi].rows, r)
	}
	return groups
}

// derive computes one aggregate cell over the member rows of a group.
func derive(ds *dataset.Dataset, target string, op Operation, rows []int) dataset.Value {
	if op == OpCount {
		return dataset.Number(float64(len(rows)))
	}

	var (
		sum      float64
		n        int
		min, max float64
	)
	for _, r := range rows {
		f, ok := dataset.AsNumber(ds.Cell(r, target))
		if !ok {
			continue
		}
		if n == 0 || f < min {
			min = f
		}
		if n == 0 || f > max {
			max = f
		}
		sum += f
		n++
	}

	switch op {
	case OpSum:
		// Matches skip-missing sum: an all-missing group sums to zero.
		return dataset.Number(sum)
	case OpAverage:
		if n == 0 {
			return dataset.Missing()
		}
		return dataset.Number(sum / float64(n))
	case OpMin:
		if n == 0 {
			return dataset.Missing()
		}
		return dataset.Number(min)
	case OpMax:
		if n == 0 {
			return dataset.Missing()
		}
		return dataset.Number(max)
	default:
		return dataset.Missing()
	}
}
