package analysis

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/carelytics/carelytics-cli/internal/dataset"
)

func newDataset(t *testing.T, header []string, records ...[]string) *dataset.Dataset {
	t.Helper()
	return dataset.FromRecords(header, records)
}

func cellNum(t *testing.T, v dataset.Value) float64 {
	t.Helper()
	if v.Kind != dataset.KindNumber {
		t.Fatalf("expected numeric cell, got kind %v (%q)", v.Kind, v.String())
	}
	return v.Num
}

func TestParseOperation(t *testing.T) {
	for _, name := range OperationNames() {
		op, err := ParseOperation(strings.ToLower(name))
		if err != nil {
			t.Fatalf("ParseOperation(%q): %v", name, err)
		}
		if op.String() != name {
			t.Fatalf("round trip: got %q want %q", op.String(), name)
		}
	}
	_, err := ParseOperation("Median")
	var unsupported *UnsupportedOperationError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedOperationError, got %v", err)
	}
	if unsupported.Name != "Median" {
		t.Fatalf("error should carry the bad name, got %q", unsupported.Name)
	}
}

func TestCountTotalsAcrossGroups(t *testing.T) {
	ds := newDataset(t, []string{"ward", "patients"},
		[]string{"ICU", "3"},
		[]string{"ER", "5"},
		[]string{"ICU", "2"},
		[]string{"Oncology", "1"},
		[]string{"ER", "4"},
	)
	res, err := Aggregate(ds, "patients", OpCount, []string{"ward"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got := res.Columns; !reflect.DeepEqual(got, []string{"ward", "count"}) {
		t.Fatalf("columns: %v", got)
	}
	total := 0.0
	for _, row := range res.Rows {
		total += cellNum(t, row[1])
	}
	if total != float64(ds.Len()) {
		t.Fatalf("count totals %v, want %d", total, ds.Len())
	}
}

func TestCountWithoutGrouping(t *testing.T) {
	ds := newDataset(t, []string{"a"}, []string{"1"}, []string{"2"})
	res, err := Aggregate(ds, "a", OpCount, nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if res.Len() != 1 || cellNum(t, res.Rows[0][0]) != 2 {
		t.Fatalf("want single row count=2, got %v", res.Rows)
	}
}

func TestCountEmptyDataset(t *testing.T) {
	ds := newDataset(t, []string{"x"})
	res, err := Aggregate(ds, "x", OpCount, nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if res.Len() != 1 {
		t.Fatalf("want single row, got %d", res.Len())
	}
	if got := cellNum(t, res.Rows[0][0]); got != 0 {
		t.Fatalf("count of empty dataset = %v, want 0", got)
	}
}

func TestSumWithoutGrouping(t *testing.T) {
	ds := newDataset(t, []string{"cost"},
		[]string{"1.5"}, []string{"2.5"}, []string{"4"},
	)
	res, err := Aggregate(ds, "cost", OpSum, nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !reflect.DeepEqual(res.Columns, []string{"sum"}) {
		t.Fatalf("columns: %v", res.Columns)
	}
	if got := cellNum(t, res.Rows[0][0]); got != 8 {
		t.Fatalf("sum = %v, want 8", got)
	}
}

func TestSumGroupedFirstSeenOrder(t *testing.T) {
	ds := newDataset(t, []string{"region", "sales"},
		[]string{"East", "1"},
		[]string{"West", "2"},
		[]string{"East", "3"},
	)
	res, err := Aggregate(ds, "sales", OpSum, []string{"region"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !reflect.DeepEqual(res.Columns, []string{"region", "sum"}) {
		t.Fatalf("columns: %v", res.Columns)
	}
	if res.Len() != 2 {
		t.Fatalf("want 2 groups, got %d", res.Len())
	}
	if res.Rows[0][0].String() != "East" || cellNum(t, res.Rows[0][1]) != 4 {
		t.Fatalf("first group: %v", res.Rows[0])
	}
	if res.Rows[1][0].String() != "West" || cellNum(t, res.Rows[1][1]) != 2 {
		t.Fatalf("second group: %v", res.Rows[1])
	}
}

func TestAverageSkipsUncoercible(t *testing.T) {
	ds := newDataset(t, []string{"score"},
		[]string{"10"}, []string{"n/a"}, []string{"20"}, []string{""},
	)
	res, err := Aggregate(ds, "score", OpAverage, nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got := cellNum(t, res.Rows[0][0]); got != 15 {
		t.Fatalf("mean = %v, want 15 (missing skipped)", got)
	}
}

func TestAverageAllTextIsMissing(t *testing.T) {
	ds := newDataset(t, []string{"note"},
		[]string{"stable"}, []string{"critical"}, []string{"observation"},
	)
	res, err := Aggregate(ds, "note", OpAverage, nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !res.Rows[0][0].IsMissing() {
		t.Fatalf("mean of all-text column should be the missing sentinel, got %v", res.Rows[0][0])
	}
}

func TestSumAllMissingIsZero(t *testing.T) {
	ds := newDataset(t, []string{"v"}, []string{"x"}, []string{"y"})
	res, err := Aggregate(ds, "v", OpSum, nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got := cellNum(t, res.Rows[0][0]); got != 0 {
		t.Fatalf("sum over all-missing = %v, want 0", got)
	}
}

func TestMinMax(t *testing.T) {
	ds := newDataset(t, []string{"ward", "stay"},
		[]string{"ICU", "7"},
		[]string{"ICU", "3"},
		[]string{"ER", "bad"},
	)
	res, err := Aggregate(ds, "stay", OpMin, []string{"ward"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got := cellNum(t, res.Rows[0][1]); got != 3 {
		t.Fatalf("min(ICU) = %v, want 3", got)
	}
	if !res.Rows[1][1].IsMissing() {
		t.Fatalf("min over uncoercible group should be missing, got %v", res.Rows[1][1])
	}

	res, err = Aggregate(ds, "stay", OpMax, []string{"ward"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got := cellNum(t, res.Rows[0][1]); got != 7 {
		t.Fatalf("max(ICU) = %v, want 7", got)
	}
}

func TestMissingGroupValuesFormOwnGroup(t *testing.T) {
	ds := newDataset(t, []string{"ward", "n"},
		[]string{"ICU", "1"},
		[]string{"", "2"},
		[]string{"", "3"},
	)
	res, err := Aggregate(ds, "n", OpCount, []string{"ward"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if res.Len() != 2 {
		t.Fatalf("missing values should form their own group: %v", res.Rows)
	}
	if got := cellNum(t, res.Rows[1][1]); got != 2 {
		t.Fatalf("missing-group count = %v, want 2", got)
	}
}

func TestMultiColumnGroupKey(t *testing.T) {
	ds := newDataset(t, []string{"ward", "shift", "n"},
		[]string{"ICU", "day", "1"},
		[]string{"ICU", "night", "1"},
		[]string{"ICU", "day", "1"},
	)
	res, err := Aggregate(ds, "n", OpCount, []string{"ward", "shift"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !reflect.DeepEqual(res.Columns, []string{"ward", "shift", "count"}) {
		t.Fatalf("columns: %v", res.Columns)
	}
	if res.Len() != 2 {
		t.Fatalf("want 2 groups, got %d", res.Len())
	}
	if cellNum(t, res.Rows[0][2]) != 2 || cellNum(t, res.Rows[1][2]) != 1 {
		t.Fatalf("group counts: %v", res.Rows)
	}
}

func TestColumnNotFound(t *testing.T) {
	ds := newDataset(t, []string{"a"}, []string{"1"})

	var notFound *ColumnNotFoundError
	_, err := Aggregate(ds, "a", OpCount, []string{"nope"})
	if !errors.As(err, &notFound) {
		t.Fatalf("group-by miss: expected ColumnNotFoundError, got %v", err)
	}
	_, err = Aggregate(ds, "nope", OpSum, nil)
	if !errors.As(err, &notFound) {
		t.Fatalf("target miss: expected ColumnNotFoundError, got %v", err)
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	ds := newDataset(t, []string{"region", "sales"},
		[]string{"East", "1"},
		[]string{"West", "2"},
		[]string{"East", "3"},
	)
	first, err := Aggregate(ds, "sales", OpSum, []string{"region"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	second, err := Aggregate(ds, "sales", OpSum, []string{"region"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical calls disagree:\n%v\n%v", first, second)
	}
}

func TestSummaryTableString(t *testing.T) {
	ds := newDataset(t, []string{"region", "sales"},
		[]string{"East", "1"},
		[]string{"West", "2"},
	)
	res, err := Aggregate(ds, "sales", OpSum, []string{"region"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	out := res.String()
	if !strings.Contains(out, "region") || !strings.Contains(out, "sum") {
		t.Fatalf("header missing from rendering:\n%s", out)
	}
	if !strings.Contains(out, "East") {
		t.Fatalf("row missing from rendering:\n%s", out)
	}
}
