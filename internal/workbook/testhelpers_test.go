package workbook

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"github.com/xuri/excelize/v2"
)

// buildXLSX writes rows to a single-sheet workbook with tealeg/xlsx.
// float64 and int values become numeric cells, strings become text cells
// and nil leaves the cell blank.
func buildXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, v := range rowData {
			cell := row.AddCell()
			switch val := v.(type) {
			case float64:
				cell.SetFloat(val)
			case int:
				cell.SetInt(val)
			case string:
				cell.SetString(val)
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// buildExcelize writes rows to "Sheet1" with excelize.
func buildExcelize(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck
	for i, rowData := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := rowData
		require.NoError(t, f.SetSheetRow("Sheet1", axis, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
