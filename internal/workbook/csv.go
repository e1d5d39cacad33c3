package workbook

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVDecoder decodes comma-separated text into a single-sheet workbook.
// A UTF-8 or UTF-16 byte-order mark is honored and stripped.
type CSVDecoder struct {
	Delimiter rune // default ','
}

// Decode implements Decoder.
func (d *CSVDecoder) Decode(data []byte) (*Workbook, error) {
	src := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(src)
	if d.Delimiter != 0 {
		reader.Comma = d.Delimiter
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	sheet := &Sheet{Name: "Sheet1"}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}

		cells := make([]Cell, len(record))
		for i, v := range record {
			cells[i] = ParseCell(v)
		}
		sheet.Rows = append(sheet.Rows, cells)
	}

	return &Workbook{Sheets: []*Sheet{sheet}}, nil
}
