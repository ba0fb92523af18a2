// Package export serializes an ordered result set to a tabular download.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrBackendUnavailable is returned by the workbook writer when the build
// excludes the xlsx backend; callers surface it instead of degrading to CSV.
var ErrBackendUnavailable = errors.New("export: workbook backend not available in this build")

// Table is a header plus ordered rows, ready for any encoding.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]any
}

// Encode writes t in the requested format ("csv" or "xlsx") and returns the
// MIME type of what it wrote.
func Encode(w io.Writer, format string, t Table) (string, error) {
	if format == "xlsx" {
		if err := WriteXLSX(w, t); err != nil {
			return "", err
		}
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	}
	if err := WriteCSV(w, t); err != nil {
		return "", err
	}
	return "text/csv; charset=utf-8", nil
}

func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	record := make([]string, 0, len(t.Header))
	for _, row := range t.Rows {
		record = record[:0]
		for _, cell := range row {
			record = append(record, cellString(cell))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
