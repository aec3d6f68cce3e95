// =============================================================================
// JPK V7M Converter - XLSX Table Reader
// =============================================================================
//
// Reads the first worksheet of an XLSX workbook into a Table. Cell values
// come back as the displayed text (excelize GetRows), which matches the
// text-only Table contract: type coercion is the mapper's job, not the
// reader's.
//
// =============================================================================

package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first sheet of an XLSX workbook into a Table.
func ReadXLSX(filePath string) (*Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets: %s", filePath)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	return &Table{Rows: rows, SourceFile: filePath}, nil
}
