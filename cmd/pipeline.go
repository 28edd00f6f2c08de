package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carelytics/carelytics-cli/internal/dataset"
)

// datasetFlags are the load/clean/filter options shared by the describe,
// analyze and report commands.
type datasetFlags struct {
	maxRows    int
	delimiter  string
	sheetName  string
	sheetIndex int
	columns    []string
	dropNA     bool
	dropNACols []string
	filters    []string
	ranges     []string
	searches   []string
	sample     int
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxRows, "max-rows", 0, "maximum data rows to load (0 = unlimited, or config max_rows)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cmd.Flags().StringSliceVar(&f.columns, "columns", nil, "restrict analysis to these columns (comma-separated)")
	cmd.Flags().BoolVar(&f.dropNA, "dropna", false, "drop rows with missing values in the selected columns")
	cmd.Flags().StringSliceVar(&f.dropNACols, "dropna-columns", nil, "columns to check for --dropna (default: all selected)")
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, "keep rows where column equals a value: col=value (repeatable; comma-separate alternatives)")
	cmd.Flags().StringArrayVar(&f.ranges, "filter-range", nil, "keep rows where a numeric column lies in a range: col=lo:hi (repeatable)")
	cmd.Flags().StringArrayVar(&f.searches, "search", nil, "keep rows where column contains a substring: col=text (repeatable)")
	cmd.Flags().IntVar(&f.sample, "sample", 0, "deterministically down-sample to N rows before analysis (0 = off)")
}

// load reads the dataset and applies the selection, cleaning and filter
// pipeline in the order the flags describe it: select -> dropna -> filters ->
// sample. Every step copies; the loaded snapshot is never mutated.
func (f *datasetFlags) load(path string) (*dataset.Dataset, error) {
	opt := dataset.Options{
		MaxRows:    f.maxRows,
		SheetName:  f.sheetName,
		SheetIndex: f.sheetIndex,
	}
	if opt.MaxRows == 0 && cfg != nil {
		opt.MaxRows = cfg.MaxRows
	}
	switch f.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return nil, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}

	ds, err := dataset.Load(path, opt)
	if err != nil {
		return nil, err
	}
	debugf("loaded %d rows, %d columns from %s", ds.Len(), len(ds.Columns), path)

	if len(f.columns) > 0 {
		if ds, err = ds.Select(f.columns); err != nil {
			return nil, err
		}
	}
	if f.dropNA {
		subset := f.dropNACols
		before := ds.Len()
		if ds, err = ds.DropMissing(subset); err != nil {
			return nil, err
		}
		debugf("dropna removed %d rows", before-ds.Len())
	}
	for _, raw := range f.filters {
		col, val, err := splitFlag(raw, "--filter")
		if err != nil {
			return nil, err
		}
		if ds, err = ds.FilterIn(col, strings.Split(val, ",")); err != nil {
			return nil, err
		}
	}
	for _, raw := range f.ranges {
		col, val, err := splitFlag(raw, "--filter-range")
		if err != nil {
			return nil, err
		}
		lo, hi, err := parseRange(val)
		if err != nil {
			return nil, fmt.Errorf("--filter-range %s: %w", raw, err)
		}
		if ds, err = ds.FilterRange(col, lo, hi); err != nil {
			return nil, err
		}
	}
	for _, raw := range f.searches {
		col, val, err := splitFlag(raw, "--search")
		if err != nil {
			return nil, err
		}
		if ds, err = ds.FilterSearch(col, val); err != nil {
			return nil, err
		}
	}
	if f.sample > 0 && f.sample < ds.Len() {
		ds = ds.Sample(f.sample, 42)
		debugf("sampled down to %d rows", ds.Len())
	}
	return ds, nil
}

func splitFlag(raw, flag string) (col, val string, err error) {
	col, val, ok := strings.Cut(raw, "=")
	if !ok || col == "" {
		return "", "", fmt.Errorf("%s expects col=value, got %q", flag, raw)
	}
	return col, val, nil
}

func parseRange(s string) (lo, hi float64, err error) {
	loStr, hiStr, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("expected lo:hi")
	}
	if lo, err = strconv.ParseFloat(loStr, 64); err != nil {
		return 0, 0, fmt.Errorf("bad lower bound %q", loStr)
	}
	if hi, err = strconv.ParseFloat(hiStr, 64); err != nil {
		return 0, 0, fmt.Errorf("bad upper bound %q", hiStr)
	}
	return lo, hi, nil
}
