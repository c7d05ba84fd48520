// Package table loads a tabular source (CSV, TSV or XLSX) into loosely typed
// rows. The first row is the header; cell values are typed per column the
// way a dataframe reader would type them.
package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported table format")
	ErrNoHeader          = errors.New("table has no header row")
	ErrSheetNotFound     = errors.New("sheet not found")
)

// Cells equal to one of these are treated as missing.
var missingValues = map[string]bool{
	"":     true,
	"NaN":  true,
	"nan":  true,
	"NULL": true,
	"null": true,
	"None": true,
	"N/A":  true,
	"n/a":  true,
	"NA":   true,
	"#N/A": true,
}

type Options struct {
	// Sheet selects the workbook sheet for XLSX sources; empty means the first.
	Sheet string
}

// Row is one data record. Values are nil (missing), bool, int64, float64 or
// string depending on the inferred type of their column.
type Row struct {
	Line   int
	values map[string]any
}

func NewRow(line int, values map[string]any) Row {
	return Row{Line: line, values: values}
}

// Lookup reports the value of column col and whether the column exists.
func (r Row) Lookup(col string) (any, bool) {
	v, ok := r.values[col]
	return v, ok
}

// Columns returns the row's column names in sorted order.
func (r Row) Columns() []string {
	cols := make([]string, 0, len(r.values))
	for c := range r.values {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

type record struct {
	line  int
	cells []string
}

// Read loads every data row of the table at path.
func Read(path string, opts Options) ([]Row, error) {
	var (
		records []record
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readDelimited(path, ',')
	case ".tsv", ".tab":
		records, err = readDelimited(path, '\t')
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(path, opts.Sheet)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return buildRows(records)
}

func buildRows(records []record) ([]Row, error) {
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	header := records[0].cells
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	blank := true
	for _, h := range header {
		if strings.TrimSpace(h) != "" {
			blank = false
			break
		}
	}
	if blank {
		return nil, ErrNoHeader
	}
	columns := DedupeHeader(header)

	var data []record
	for _, rec := range records[1:] {
		if isEmpty(rec.cells) {
			continue
		}
		data = append(data, rec)
	}

	typed := make([][]any, len(columns))
	for c := range columns {
		cells := make([]string, len(data))
		for i, rec := range data {
			if c < len(rec.cells) {
				cells[i] = rec.cells[c]
			}
		}
		typed[c] = inferColumn(cells)
	}

	rows := make([]Row, len(data))
	for i, rec := range data {
		values := make(map[string]any, len(columns))
		for c, col := range columns {
			values[col] = typed[c][i]
		}
		rows[i] = NewRow(rec.line, values)
	}
	return rows, nil
}

// DedupeHeader trims header names and renames repeats: the second "text"
// becomes "text.1", the third "text.2". Blank names become "Unnamed: <i>".
func DedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	counts := make(map[string]int, len(header))

	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		if seen[name] {
			n := counts[name]
			candidate := name + "." + strconv.Itoa(n)
			for seen[candidate] {
				n++
				candidate = name + "." + strconv.Itoa(n)
			}
			counts[name] = n + 1
			name = candidate
		} else {
			counts[name] = 1
		}

		seen[name] = true
		out[i] = name
	}
	return out
}

func isEmpty(cells []string) bool {
	for _, v := range cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isMissing(s string) bool {
	return missingValues[s]
}

// inferColumn types a whole column at once: bool if every present cell is a
// boolean literal, int64 if every one is an integer, float64 if every one is a
// number, string otherwise. Missing cells are nil in every case.
func inferColumn(cells []string) []any {
	allBool, allInt, allFloat := true, true, true
	present := 0

	for _, s := range cells {
		if isMissing(s) {
			continue
		}
		present++
		if allBool && !strings.EqualFold(s, "true") && !strings.EqualFold(s, "false") {
			allBool = false
		}
		if allInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				allFloat = false
			}
		}
	}

	out := make([]any, len(cells))
	if present == 0 {
		return out
	}

	for i, s := range cells {
		if isMissing(s) {
			continue
		}
		switch {
		case allBool:
			out[i] = strings.EqualFold(s, "true")
		case allInt:
			n, _ := strconv.ParseInt(s, 10, 64)
			out[i] = n
		case allFloat:
			f, _ := strconv.ParseFloat(s, 64)
			out[i] = f
		default:
			out[i] = s
		}
	}
	return out
}
