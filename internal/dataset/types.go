package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// Kind classifies a value or a column.
type Kind int

const (
	KindMissing Kind = iota
	KindNumber
	KindText
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "numeric"
	case KindText:
		return "text"
	case KindTimestamp:
		return "datetime"
	default:
		return "missing"
	}
}

// Value is a single cell. Exactly one of Num/Str/Time is meaningful,
// selected by Kind. The zero Value is the missing sentinel.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Time time.Time
}

func Number(f float64) Value      { return Value{Kind: KindNumber, Num: f} }
func Text(s string) Value         { return Value{Kind: KindText, Str: s} }
func Timestamp(t time.Time) Value { return Value{Kind: KindTimestamp, Time: t} }
func Missing() Value              { return Value{} }

func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// String renders a value for display. Missing renders as empty.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindText:
		return v.Str
	case KindTimestamp:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// GroupKeyPart renders a value for group-key construction. Missing values get
// a marker that cannot collide with real text, so rows with a missing
// group-by value form their own group rather than merging with "".
func (v Value) GroupKeyPart() string {
	if v.IsMissing() {
		return "\x00<missing>"
	}
	return v.String()
}

// Column is a named column with the kind inferred at load time. The kind is
// declarative only; cells are coerced per-operation and may disagree with it.
type Column struct {
	Name string
	Kind Kind
}

// Dataset is an ordered collection of rows. Loaded data is never mutated:
// Select, Filter, DropMissing, Sample and Head all return copies.
type Dataset struct {
	Columns []Column
	Rows    [][]Value
}

// Len returns the number of data rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// ColumnIndex returns the position of a named column.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	for i, c := range d.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// ColumnNames lists column names in declared order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Cell returns the value at (row, named column); missing if out of range.
func (d *Dataset) Cell(row int, name string) Value {
	idx, ok := d.ColumnIndex(name)
	if !ok || row < 0 || row >= len(d.Rows) || idx >= len(d.Rows[row]) {
		return Missing()
	}
	return d.Rows[row][idx]
}

// InferKind decides a column kind from tallies of parsed cell kinds, by
// predominant type. All-empty columns stay missing.
func InferKind(numCnt, timeCnt, textCnt int) Kind {
	switch {
	case numCnt >= timeCnt && numCnt >= textCnt && numCnt > 0:
		return KindNumber
	case timeCnt >= textCnt && timeCnt > 0:
		return KindTimestamp
	case textCnt > 0:
		return KindText
	default:
		return KindMissing
	}
}

func (d *Dataset) clone(rowIdx []int) *Dataset {
	cols := make([]Column, len(d.Columns))
	copy(cols, d.Columns)
	rows := make([][]Value, 0, len(rowIdx))
	for _, i := range rowIdx {
		row := make([]Value, len(d.Rows[i]))
		copy(row, d.Rows[i])
		rows = append(rows, row)
	}
	return &Dataset{Columns: cols, Rows: rows}
}

// Select returns a copy restricted to the named columns, in the given order.
func (d *Dataset) Select(names []string) (*Dataset, error) {
	idxs := make([]int, 0, len(names))
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		idx, ok := d.ColumnIndex(name)
		if !ok {
			return nil, fmt.Errorf("select: column %q not found", name)
		}
		idxs = append(idxs, idx)
		cols = append(cols, d.Columns[idx])
	}
	rows := make([][]Value, len(d.Rows))
	for i, src := range d.Rows {
		row := make([]Value, len(idxs))
		for j, idx := range idxs {
			if idx < len(src) {
				row[j] = src[idx]
			}
		}
		rows[i] = row
	}
	return &Dataset{Columns: cols, Rows: rows}, nil
}

// Head returns a copy holding at most n leading rows.
func (d *Dataset) Head(n int) *Dataset {
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return d.clone(idx)
}
