package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadOptions selects what to read from an input file.
type ReadOptions struct {
	// Sheet is the worksheet name for .xlsx input. Empty selects the first sheet.
	Sheet string
	// Comma is the field delimiter for .csv input. Zero means ','.
	Comma rune
}

// ReadFrame loads the header and records of one sheet from a .csv or .xlsx file.
// Records whose cells are all blank are dropped.
func ReadFrame(path string, opts ReadOptions) (*Frame, error) {
	var (
		rows [][]string
		name string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		rows, err = readCSV(path, opts.Comma)
	case ".xlsx", ".xlsm":
		name, rows, err = readXLSX(path, opts.Sheet)
	default:
		return nil, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no header row", path)
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	f := &Frame{Name: name, Header: header}
	for _, rec := range rows[1:] {
		if isBlank(rec) {
			continue
		}
		f.Records = append(f.Records, rec)
	}
	return f, nil
}

func readCSV(path string, comma rune) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	if comma != 0 {
		r.Comma = comma
	}
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

func readXLSX(path, sheet string) (string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, fmt.Errorf("%s: workbook has no sheets", path)
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return "", nil, fmt.Errorf("%s: sheet %q not found (have %s)", path, sheet, strings.Join(sheets, ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return sheet, rows, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
