// Package spreadsheet centralizes header detection and column resolution
// for the irregular workbooks and CSV exports this pipeline consumes.
// Every loader resolves its columns through one Resolver instead of
// repeating ad-hoc "first column containing X" searches.
package spreadsheet

import (
	"fmt"
	"strings"
)

// MissingColumnError is the structural failure for a required column
// that could not be resolved by name or position.
type MissingColumnError struct {
	File       string
	Field      string
	Candidates []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: no column found for %q (tried %s)",
		e.File, e.Field, strings.Join(e.Candidates, ", "))
}

// ColumnSpec describes how to locate one logical field in a header row:
// a prioritized candidate list (exact match first, then substring), and
// an optional positional fallback for sources whose headers are known to
// be unreliable.
type ColumnSpec struct {
	Field      string
	Candidates []string
	// Fallback is a last-resort column index; -1 disables it.
	Fallback int
	Required bool
}

// Resolution is the typed schema mapping produced once at load time.
type Resolution struct {
	// Columns maps field name to column index.
	Columns map[string]int
	// Degraded lists fields resolved through the positional fallback.
	// Callers log these as low-confidence.
	Degraded []string
}

// Col returns the resolved index for a field, or -1 when absent.
func (r *Resolution) Col(field string) int {
	if idx, ok := r.Columns[field]; ok {
		return idx
	}
	return -1
}

func normalizeHeader(cell string) string {
	return strings.ToLower(strings.TrimSpace(cell))
}

// Resolve maps each spec onto the header row. Exact (case-insensitive)
// matches win over substring matches; substring matches win over the
// positional fallback. A required field with no resolution yields
// MissingColumnError.
func Resolve(file string, header []string, specs []ColumnSpec) (*Resolution, error) {
	normalized := make([]string, len(header))
	for i, cell := range header {
		normalized[i] = normalizeHeader(cell)
	}

	res := &Resolution{Columns: map[string]int{}}
	for _, spec := range specs {
		idx := matchColumn(normalized, spec.Candidates)
		if idx < 0 && spec.Fallback >= 0 && spec.Fallback < len(header) {
			idx = spec.Fallback
			res.Degraded = append(res.Degraded, spec.Field)
		}
		if idx < 0 {
			if spec.Required {
				return nil, &MissingColumnError{File: file, Field: spec.Field, Candidates: spec.Candidates}
			}
			continue
		}
		res.Columns[spec.Field] = idx
	}
	return res, nil
}

func matchColumn(normalized []string, candidates []string) int {
	for _, cand := range candidates {
		want := normalizeHeader(cand)
		for i, cell := range normalized {
			if cell == want {
				return i
			}
		}
	}
	for _, cand := range candidates {
		want := normalizeHeader(cand)
		for i, cell := range normalized {
			if cell != "" && strings.Contains(cell, want) {
				return i
			}
		}
	}
	return -1
}

// FindHeaderRow scans the first scanRows rows for one containing a cell
// whose text contains marker. Returns -1 when not found; sheet layouts
// are not uniform and callers treat that as an empty sheet, not an error.
func FindHeaderRow(rows [][]string, marker string, scanRows int) int {
	limit := scanRows
	if limit > len(rows) {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			if strings.Contains(cell, marker) {
				return i
			}
		}
	}
	return -1
}

// Cell returns the trimmed cell at column idx of row, or "" when the
// row is shorter (excelize trims trailing empty cells per row).
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
