package workbook

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXDecoder decodes xlsx files with tealeg/xlsx.
type XLSXDecoder struct{}

// Decode implements Decoder.
func (d *XLSXDecoder) Decode(data []byte) (*Workbook, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open binary")
	}

	wb := &Workbook{Sheets: make([]*Sheet, 0, len(f.Sheets))}
	for _, s := range f.Sheets {
		sheet := &Sheet{Name: s.Name, Rows: make([][]Cell, 0, len(s.Rows))}
		for _, row := range s.Rows {
			sheet.Rows = append(sheet.Rows, rowToCells(row))
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

func rowToCells(row *xlsx.Row) []Cell {
	if row == nil {
		return nil
	}
	cells := make([]Cell, len(row.Cells))
	for j, c := range row.Cells {
		cells[j] = convertCell(c)
	}
	return cells
}

func convertCell(c *xlsx.Cell) Cell {
	if c == nil || c.Value == "" {
		return EmptyCell()
	}
	if c.Type() == xlsx.CellTypeNumeric {
		if v, err := c.Float(); err == nil {
			return NumberCell(v)
		}
	}
	return ParseCell(c.String())
}
