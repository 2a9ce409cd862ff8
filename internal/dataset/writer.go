package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteFrames persists frames to path and returns the files written.
// An .xlsx path produces one workbook with a worksheet per frame. A .csv path
// produces one file per frame, named <stem>_<frame>.csv when there is more
// than one frame.
func WriteFrames(path string, frames ...*Frame) ([]string, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("nothing to write to %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		if err := writeXLSX(path, frames); err != nil {
			return nil, err
		}
		return []string{path}, nil
	case ".csv":
		return writeCSV(path, frames)
	default:
		return nil, fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
}

func writeCSV(path string, frames []*Frame) ([]string, error) {
	stem := strings.TrimSuffix(path, filepath.Ext(path))

	var written []string
	for _, fr := range frames {
		target := path
		if len(frames) > 1 {
			target = fmt.Sprintf("%s_%s.csv", stem, fr.Name)
		}

		err := writeAtomic(target, func(w io.Writer) error {
			cw := csv.NewWriter(w)
			if err := cw.Write(fr.Header); err != nil {
				return err
			}
			if err := cw.WriteAll(fr.Records); err != nil {
				return err
			}
			return cw.Error()
		})
		if err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}

func writeXLSX(path string, frames []*Frame) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, fr := range frames {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", fr.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", fr.Name, err)
			}
		} else if _, err := f.NewSheet(fr.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", fr.Name, err)
		}

		if err := setRow(f, fr.Name, 1, fr.Header); err != nil {
			return err
		}
		for r, rec := range fr.Records {
			if err := setRow(f, fr.Name, r+2, rec); err != nil {
				return err
			}
		}
	}

	return writeAtomic(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}

// setRow writes numeric-looking cells as numbers and blank cells as empty.
func setRow(f *excelize.File, sheet string, row int, rec []string) error {
	cells := make([]interface{}, len(rec))
	for i, raw := range rec {
		switch {
		case raw == "":
			cells[i] = nil
		case isNumber(raw):
			v, _ := strconv.ParseFloat(raw, 64)
			cells[i] = v
		default:
			cells[i] = raw
		}
	}

	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", row, sheet, err)
	}
	return nil
}

func isNumber(raw string) bool {
	_, err := strconv.ParseFloat(raw, 64)
	return err == nil
}

// writeAtomic writes through a temporary file in the target directory and
// renames it into place.
func writeAtomic(path string, fill func(w io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	writer := bufio.NewWriter(file)
	if err := fill(writer); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename output file: %w", err)
	}
	return nil
}
