package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "admissions.csv",
		"ward,admitted,stay\nICU,2024-01-01,3\nER,2024-01-02,1\nICU,2024-01-03,\n")
	ds, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("rows = %d, want 3", ds.Len())
	}
	if got := ds.ColumnNames(); len(got) != 3 || got[0] != "ward" {
		t.Fatalf("columns: %v", got)
	}
	if ds.Columns[0].Kind != KindText {
		t.Fatalf("ward kind = %v", ds.Columns[0].Kind)
	}
	if ds.Columns[1].Kind != KindTimestamp {
		t.Fatalf("admitted kind = %v", ds.Columns[1].Kind)
	}
	if ds.Columns[2].Kind != KindNumber {
		t.Fatalf("stay kind = %v", ds.Columns[2].Kind)
	}
	if !ds.Cell(2, "stay").IsMissing() {
		t.Fatalf("empty cell should be missing")
	}
}

func TestLoadTSV(t *testing.T) {
	path := writeFile(t, "data.tsv", "a\tb\n1\t2\n")
	ds, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 1 || ds.Cell(0, "b").Num != 2 {
		t.Fatalf("tsv parse: %v", ds.Rows)
	}
}

func TestLoadMaxRows(t *testing.T) {
	path := writeFile(t, "big.csv", "n\n1\n2\n3\n4\n5\n")
	ds, err := Load(path, Options{MaxRows: 2})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("rows = %d, want 2", ds.Len())
	}
}

func TestLoadRaggedRows(t *testing.T) {
	// Short rows pad with missing rather than failing the load.
	path := writeFile(t, "ragged.csv", "a,b,c\n1,2,3\n4,5\n")
	ds, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ds.Cell(1, "c").IsMissing() {
		t.Fatalf("short row should pad with missing: %v", ds.Rows[1])
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load("notes.txt", Options{})
	var unsupported *UnsupportedFileTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFileTypeError, got %v", err)
	}
	if unsupported.Ext != ".txt" {
		t.Fatalf("ext = %q", unsupported.Ext)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "ghost.csv"), Options{}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"ward", "count"},
		{"ICU", 3},
		{"ER", 5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}

	ds, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("rows = %d, want 2", ds.Len())
	}
	if ds.Cell(1, "ward").String() != "ER" || ds.Cell(1, "count").Num != 5 {
		t.Fatalf("xlsx row: %v", ds.Rows[1])
	}

	if _, err := Load(path, Options{SheetName: "NoSuchSheet"}); err == nil {
		t.Fatalf("expected error for unknown sheet")
	}
}
