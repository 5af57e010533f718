package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// utf8BOM makes the CSV open correctly in Excel with accented product names.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EncodeCSV renders header + rows as CSV bytes.
func EncodeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return nil, fmt.Errorf("write csv header: %w", err)
		}
	}
	for i, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV writes a CSV artifact atomically.
func WriteCSV(path string, header []string, rows [][]string) error {
	data, err := EncodeCSV(header, rows)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data)
}

// WriteCSVWithBOM writes a CSV artifact atomically with a UTF-8 BOM
// prefix for spreadsheet compatibility.
func WriteCSVWithBOM(path string, header []string, rows [][]string) error {
	data, err := EncodeCSV(header, rows)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, append(append([]byte{}, utf8BOM...), data...))
}
