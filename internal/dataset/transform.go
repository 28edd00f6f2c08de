package dataset

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// FilterIn keeps rows whose column value (rendered as text) is in the allowed
// set. Rows with a missing value in the column are dropped.
func (d *Dataset) FilterIn(column string, allowed []string) (*Dataset, error) {
	idx, ok := d.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("filter: column %q not found", column)
	}
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}
	var keep []int
	for i, row := range d.Rows {
		v := row[idx]
		if !v.IsMissing() && set[v.String()] {
			keep = append(keep, i)
		}
	}
	return d.clone(keep), nil
}

// FilterRange keeps rows whose numeric-coerced column value lies in [lo, hi].
// Uncoercible values are dropped.
func (d *Dataset) FilterRange(column string, lo, hi float64) (*Dataset, error) {
	idx, ok := d.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("filter: column %q not found", column)
	}
	var keep []int
	for i, row := range d.Rows {
		if f, ok := AsNumber(row[idx]); ok && f >= lo && f <= hi {
			keep = append(keep, i)
		}
	}
	return d.clone(keep), nil
}

// FilterSearch keeps rows whose column value contains the substring,
// case-insensitively.
func (d *Dataset) FilterSearch(column, substring string) (*Dataset, error) {
	idx, ok := d.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("filter: column %q not found", column)
	}
	needle := strings.ToLower(substring)
	var keep []int
	for i, row := range d.Rows {
		if strings.Contains(strings.ToLower(row[idx].String()), needle) {
			keep = append(keep, i)
		}
	}
	return d.clone(keep), nil
}

// DropMissing removes rows with a missing value in any of the subset columns.
// An empty subset checks every column.
func (d *Dataset) DropMissing(subset []string) (*Dataset, error) {
	var idxs []int
	if len(subset) == 0 {
		for i := range d.Columns {
			idxs = append(idxs, i)
		}
	} else {
		for _, name := range subset {
			idx, ok := d.ColumnIndex(name)
			if !ok {
				return nil, fmt.Errorf("dropna: column %q not found", name)
			}
			idxs = append(idxs, idx)
		}
	}
	var keep []int
	for i, row := range d.Rows {
		complete := true
		for _, j := range idxs {
			if j >= len(row) || row[j].IsMissing() {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	return d.clone(keep), nil
}

// Sample returns a deterministic down-sample of n rows (seeded shuffle,
// original order restored). If n covers the dataset, it returns a full copy.
func (d *Dataset) Sample(n int, seed int64) *Dataset {
	if n >= len(d.Rows) {
		idx := make([]int, len(d.Rows))
		for i := range idx {
			idx[i] = i
		}
		return d.clone(idx)
	}
	idx := make([]int, len(d.Rows))
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	idx = idx[:n]
	sort.Ints(idx)
	return d.clone(idx)
}
