// =============================================================================
// JPK V7M Converter - Tabular Source
// =============================================================================
//
// A Table is the lowest common denominator of every supported input: an
// ordered sequence of rows, each an ordered sequence of text cells. No
// header is implied by the type itself; whether row 0 is a section marker,
// a column header or data is decided later by format detection.
//
// The CSV and XLSX readers in this package both produce a Table, so every
// later pipeline stage is input-format agnostic.
//
// =============================================================================

package table

import "strings"

// Table is one rectangular slab of text cells read from an input file.
type Table struct {
	// Rows holds the cells in original row order. Rows may have differing
	// lengths; missing trailing cells are simply absent.
	Rows [][]string

	// SourceFile is the path the table was read from, kept for diagnostics.
	SourceFile string
}

// RowCount returns the number of rows, including blank ones.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// HeaderRow returns row 0, or nil for an empty table.
func (t *Table) HeaderRow() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// IsRowEmpty reports whether every cell of the row is blank.
func IsRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// TrimRow returns a copy of the row with every cell whitespace-trimmed.
func TrimRow(row []string) []string {
	trimmed := make([]string, len(row))
	for i, cell := range row {
		trimmed[i] = strings.TrimSpace(cell)
	}
	return trimmed
}
