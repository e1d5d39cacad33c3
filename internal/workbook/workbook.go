// Package workbook decodes spreadsheet bytes (xlsx or csv) into sheets of
// typed cells.
package workbook

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

// Codec names accepted by NewParser.
const (
	CodecXLSX     = "xlsx"
	CodecExcelize = "excelize"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// Sheet is an ordered grid of rows. Rows may have different lengths.
type Sheet struct {
	Name string
	Rows [][]Cell
}

// Workbook is an ordered list of sheets.
type Workbook struct {
	Sheets []*Sheet
}

// First returns the first sheet, or false when the workbook has none.
func (w *Workbook) First() (*Sheet, bool) {
	if w == nil || len(w.Sheets) == 0 {
		return nil, false
	}
	return w.Sheets[0], true
}

// Decoder turns raw file bytes into a Workbook.
type Decoder interface {
	Decode(data []byte) (*Workbook, error)
}

// Parser picks a decoder from the file name and content.
type Parser struct {
	xlsx Decoder
	csv  Decoder
}

// NewParser returns a Parser that decodes xlsx content with the named codec
// ("xlsx" for tealeg/xlsx, "excelize" for excelize). An empty codec selects
// "xlsx".
func NewParser(codec string) (*Parser, error) {
	var xd Decoder
	switch strings.ToLower(strings.TrimSpace(codec)) {
	case "", CodecXLSX:
		xd = &XLSXDecoder{}
	case CodecExcelize:
		xd = &ExcelizeDecoder{}
	default:
		return nil, eris.Errorf("workbook: unknown codec %q", codec)
	}
	return &Parser{xlsx: xd, csv: &CSVDecoder{}}, nil
}

// Parse decodes data. Zip containers go to the xlsx decoder; csv/txt files
// and other plain UTF-8 text go to the csv decoder. Legacy binary .xls files
// are rejected.
func (p *Parser) Parse(name string, data []byte) (*Workbook, error) {
	if len(data) == 0 {
		return nil, eris.Errorf("workbook: %q is empty", name)
	}

	switch {
	case bytes.HasPrefix(data, zipMagic):
		wb, err := p.xlsx.Decode(data)
		if err != nil {
			return nil, eris.Wrapf(err, "workbook: decode %q", name)
		}
		return wb, nil
	case bytes.HasPrefix(data, oleMagic):
		return nil, eris.Errorf("workbook: %q is a legacy .xls file, save it as .xlsx", name)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".csv" || ext == ".txt" || utf8.Valid(data) {
		wb, err := p.csv.Decode(data)
		if err != nil {
			return nil, eris.Wrapf(err, "workbook: decode %q", name)
		}
		return wb, nil
	}

	return nil, eris.Errorf("workbook: unrecognized format for %q", name)
}
