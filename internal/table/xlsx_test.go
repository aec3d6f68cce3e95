package table

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "in.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"SEKCJA", "NAGLOWEK"},
		{"Rok", "Miesiac"},
		{"2026", "7"},
	})

	tbl, err := ReadXLSX(path)
	require.NoError(t, err)
	require.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, []string{"SEKCJA", "NAGLOWEK"}, tbl.Rows[0])
	assert.Equal(t, []string{"2026", "7"}, tbl.Rows[2])
}

func TestReadXLSXMissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
