package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// UnsupportedFileTypeError reports an upload extension the loader does not
// recognize. It is returned before any parsing is attempted.
type UnsupportedFileTypeError struct {
	Ext string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q (expected .csv, .tsv or .xlsx)", e.Ext)
}

// Options controls dataset loading.
type Options struct {
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV/TSV. If 0, ',' for .csv and '\t' for .tsv.
	Delimiter rune
	// SheetName selects an XLSX sheet by name; empty uses SheetIndex.
	SheetName string
	// SheetIndex is the 1-based XLSX sheet index; <=0 means first sheet.
	SheetIndex int
}

// Load reads a tabular file (delimited text with a header row, or an XLSX
// workbook) into a Dataset. Parse failures are wrapped with the source
// context; an unknown extension fails with UnsupportedFileTypeError before
// the file is opened.
func Load(path string, opt Options) (*Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".tsv":
		rows, err := readDelimited(path, ext, opt)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
		}
		return fromRows(rows)
	case ".xlsx":
		rows, err := readWorkbook(path, opt)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
		}
		return fromRows(rows)
	default:
		return nil, &UnsupportedFileTypeError{Ext: ext}
	}
}

func readDelimited(path, ext string, opt Options) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	switch {
	case opt.Delimiter != 0:
		r.Comma = opt.Delimiter
	case ext == ".tsv":
		r.Comma = '\t'
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
		if opt.MaxRows > 0 && len(rows) > opt.MaxRows {
			break
		}
	}
	return rows, nil
}

func readWorkbook(path string, opt Options) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := opt.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		idx := opt.SheetIndex
		if idx <= 0 {
			idx = 1
		}
		if idx > len(sheets) {
			return nil, fmt.Errorf("sheet index %d out of range (%d sheets)", idx, len(sheets))
		}
		sheet = sheets[idx-1]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if opt.MaxRows > 0 && len(rows) > opt.MaxRows+1 {
		rows = rows[:opt.MaxRows+1]
	}
	return rows, nil
}

// fromRows builds a Dataset from raw string rows: header first, cells parsed
// into typed values, column kinds inferred from the predominant parsed type.
func fromRows(raw [][]string) (*Dataset, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}
	return FromRecords(raw[0], raw[1:]), nil
}

// FromRecords builds a Dataset from a header and raw string records, parsing
// each cell into its best-fitting typed value and inferring column kinds.
func FromRecords(header []string, records [][]string) *Dataset {
	ncol := len(header)
	cols := make([]Column, ncol)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		cols[i] = Column{Name: name}
	}

	type tally struct{ num, tm, txt int }
	tallies := make([]tally, ncol)

	rows := make([][]Value, 0, len(records))
	for _, rec := range records {
		row := make([]Value, ncol)
		for j := 0; j < ncol; j++ {
			if j >= len(rec) {
				row[j] = Missing()
				continue
			}
			v := ParseCell(rec[j])
			row[j] = v
			switch v.Kind {
			case KindNumber:
				tallies[j].num++
			case KindTimestamp:
				tallies[j].tm++
			case KindText:
				tallies[j].txt++
			}
		}
		rows = append(rows, row)
	}

	for j := range cols {
		cols[j].Kind = InferKind(tallies[j].num, tallies[j].tm, tallies[j].txt)
	}
	return &Dataset{Columns: cols, Rows: rows}
}
