package workbook

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// ExcelizeDecoder decodes xlsx files with excelize. Cell values are read raw
// (unformatted) and classified with ParseCell.
type ExcelizeDecoder struct{}

// Decode implements Decoder.
func (d *ExcelizeDecoder) Decode(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "excelize: open reader")
	}
	defer f.Close() //nolint:errcheck

	names := f.GetSheetList()
	wb := &Workbook{Sheets: make([]*Sheet, 0, len(names))}
	for _, name := range names {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, eris.Wrapf(err, "excelize: read sheet %q", name)
		}
		sheet := &Sheet{Name: name, Rows: make([][]Cell, len(rows))}
		for i, row := range rows {
			cells := make([]Cell, len(row))
			for j, v := range row {
				cells[j] = ParseCell(v)
			}
			sheet.Rows[i] = cells
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}
