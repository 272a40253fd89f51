// Package dataset loads survey export files and derives the column metadata
// the rule compiler consumes: ordered variables with Text/Numeric kinds, plus
// detected variable groups. Kind inference happens here exactly once; nothing
// downstream re-derives type information from data.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/checkwright/checkwright/internal/types"
)

/*
 * Dataset loading.
 *
 * Two formats: .csv through encoding/csv (UTF-8 BOM stripped from the first
 * header cell, lenient quoting for real-world exports) and .xlsx through
 * excelize (first sheet). Both paths funnel into the same header/column
 * pipeline so filtering and inference behave identically.
 *
 * Pipeline: read headers -> reject empty or duplicate names -> drop system
 * columns -> collect cell values column-wise -> infer kinds.
 *
 * A column is Numeric when every non-missing cell parses as a float; a column
 * with no non-missing cells is Numeric (an unanswered numeric question and an
 * unanswered text question are indistinguishable, and numeric is the safer
 * default for range checks). Anything else is Text. Missing cells for
 * inference purposes: whitespace-only values and the literal N/A.
 */

// DefaultSystemColumns lists survey-platform bookkeeping columns that are
// never validated and are dropped on load. Matching is case-insensitive.
// Overridable through configuration.
var DefaultSystemColumns = []string{
	"sys_respnum", "status", "duration", "starttime", "endtime",
	"uuid", "recordid", "respid", "index", "id",
}

// Dataset is the loaded column metadata plus detected groups.
type Dataset struct {
	Variables []types.Variable
	Groups    []types.VariableGroup
	Rows      int
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Load reads the file at path and returns its column metadata in on-disk
// order. systemColumns replaces DefaultSystemColumns when non-nil. The format
// is chosen by extension; anything but .csv and .xlsx is ErrUnsupportedFormat.
func Load(path string, systemColumns []string) (*Dataset, error) {
	var headers []string
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		headers, rows, err = readCSV(path)
	case ".xlsx":
		headers, rows, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if systemColumns == nil {
		systemColumns = DefaultSystemColumns
	}
	vars, err := buildVariables(headers, rows, systemColumns)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Variables: vars,
		Groups:    DetectGroups(vars),
		Rows:      len(rows),
	}, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Survey exports routinely carry stray quotes and ragged widths; parse
	// leniently and treat absent trailing cells as missing during inference.
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%w: file has no header row", types.ErrBadHeader)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header row: %w", err)
	}
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, record)
	}
	return headers, rows, nil
}

func readXLSX(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: workbook has no sheets", types.ErrBadHeader)
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%w: sheet has no header row", types.ErrBadHeader)
	}
	return all[0], all[1:], nil
}

// buildVariables filters system columns and infers kinds column-wise.
func buildVariables(headers []string, rows [][]string, systemColumns []string) ([]types.Variable, error) {
	system := make(map[string]bool, len(systemColumns))
	for _, s := range systemColumns {
		system[strings.ToLower(s)] = true
	}

	seen := make(map[string]bool, len(headers))
	var vars []types.Variable
	for col, name := range headers {
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has an empty name", types.ErrBadHeader, col+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate column %q", types.ErrBadHeader, name)
		}
		seen[name] = true
		if system[strings.ToLower(name)] {
			continue
		}
		vars = append(vars, types.Variable{Name: name, Kind: inferKind(rows, col)})
	}

	if len(vars) > types.MaxVariables {
		return nil, fmt.Errorf("%w: %d columns (limit %d)", types.ErrTooManyVariables, len(vars), types.MaxVariables)
	}
	return vars, nil
}

// missingCell reports whether a raw cell counts as missing for inference.
// Classified on the trimmed value so a run of spaces never flips an
// otherwise numeric column to Text.
func missingCell(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == "N/A"
}

// inferKind scans one column across all rows. Rows shorter than the header
// treat the absent cell as missing.
func inferKind(rows [][]string, col int) types.VarKind {
	for _, row := range rows {
		if col >= len(row) || missingCell(row[col]) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64); err != nil {
			return types.KindText
		}
	}
	return types.KindNumeric
}
