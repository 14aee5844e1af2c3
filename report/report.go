// Package report writes CSV report files and reads CSV input files for
// bulk commands. Output files get a timestamp prefix so repeated runs
// never clobber each other.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// timestampLayout prefixes report filenames, e.g. 2026-08-31-1403_inventory.csv.
const timestampLayout = "2006-01-02-1504"

// Writer accumulates rows and writes them as one CSV file.
type Writer struct {
	header []string
	rows   [][]string
}

// NewWriter creates a report with the given column header.
func NewWriter(header ...string) *Writer {
	return &Writer{header: header}
}

// Append adds one row. Short rows are padded to the header width so the
// file stays rectangular.
func (w *Writer) Append(fields ...string) {
	if len(fields) < len(w.header) {
		padded := make([]string, len(w.header))
		copy(padded, fields)
		fields = padded
	}
	w.rows = append(w.rows, fields)
}

// Len returns the number of data rows appended so far.
func (w *Writer) Len() int {
	return len(w.rows)
}

// Save writes the report to dir under a timestamped name and returns the
// full path. The directory is created if missing.
func (w *Writer) Save(dir, name string) (string, error) {
	return w.saveAt(dir, name, time.Now())
}

func (w *Writer) saveAt(dir, name string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	filename := fmt.Sprintf("%s_%s.csv", now.Format(timestampLayout), name)
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(w.header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, row := range w.rows {
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush report: %w", err)
	}
	return path, nil
}

// Read loads a CSV input file, strips a UTF-8 BOM if present, and checks
// that required columns exist in the header. It returns the rows as maps
// keyed by the (lowercased) header names.
func Read(path string, required ...string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows, pad below

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", filepath.Base(path))
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s is missing required column(s): %s",
			filepath.Base(path), strings.Join(missing, ", "))
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(index))
		for col, i := range index {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Column extracts one column from rows read by Read, skipping blanks.
func Column(rows []map[string]string, name string) []string {
	name = strings.ToLower(name)
	var values []string
	for _, row := range rows {
		if v := row[name]; v != "" {
			values = append(values, v)
		}
	}
	return values
}
