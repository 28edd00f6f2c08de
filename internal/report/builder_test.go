package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/carelytics/carelytics-cli/internal/analysis"
	"github.com/carelytics/carelytics-cli/internal/chart"
	"github.com/carelytics/carelytics-cli/internal/dataset"
)

func readPDF(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	return data
}

func TestBuildFullReport(t *testing.T) {
	ds := dataset.FromRecords(
		[]string{"ward", "stay"},
		[][]string{
			{"ICU", "3"},
			{"ER", "5"},
			{"ICU", "2"},
		},
	)
	summary, err := analysis.Aggregate(ds, "stay", analysis.OpSum, []string{"ward"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	fig := chart.Render(summary, chart.Bar, "stay", []string{"ward"})

	out := filepath.Join(t.TempDir(), "report.pdf")
	b := NewBuilder()
	meta := &Meta{Source: "admissions.csv", Rows: ds.Len()}
	if err := b.Build(out, ds, summary, fig, meta); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if data := readPDF(t, out); len(data) < 1000 {
		t.Fatalf("report suspiciously small: %d bytes", len(data))
	}
}

func TestBuildWithAllSectionsMissing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.pdf")
	if err := NewBuilder().Build(out, nil, nil, nil, nil); err != nil {
		t.Fatalf("Build without inputs: %v", err)
	}
	readPDF(t, out)
}

func TestBuildHonorsSummaryLimit(t *testing.T) {
	var records [][]string
	for i := 0; i < 50; i++ {
		records = append(records, []string{string(rune('a' + i%26)), "1"})
	}
	ds := dataset.FromRecords([]string{"k", "v"}, records)
	summary, err := analysis.Aggregate(ds, "v", analysis.OpCount, []string{"k"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	b := NewBuilder()
	b.SummaryLimit = 5
	b.SampleLimit = 10
	out := filepath.Join(t.TempDir(), "limited.pdf")
	if err := b.Build(out, ds, summary, nil, &Meta{Source: "x.csv", Rows: ds.Len()}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	readPDF(t, out)
}

func TestBuildFailsOnBadPath(t *testing.T) {
	err := NewBuilder().Build(filepath.Join(t.TempDir(), "missing", "dir", "r.pdf"), nil, nil, nil, nil)
	if err == nil {
		t.Fatalf("expected error for unwritable path")
	}
}
