package workbook

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the decoded type of a cell.
type Kind int

// Cell kinds.
const (
	KindEmpty Kind = iota
	KindText
	KindNumber
)

// Cell is a single decoded spreadsheet value: empty, text or number.
type Cell struct {
	kind Kind
	text string
	num  float64
}

// EmptyCell returns a cell with no value.
func EmptyCell() Cell { return Cell{} }

// TextCell returns a text cell. Blank strings become empty cells.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{kind: KindText, text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(v float64) Cell {
	return Cell{kind: KindNumber, num: v}
}

// ParseCell classifies a raw string value. Plain and currency-formatted
// numbers ("1234.5", "$1,234", "(250)") become numeric cells, blanks become
// empty cells, everything else stays text.
func ParseCell(raw string) Cell {
	if strings.TrimSpace(raw) == "" {
		return Cell{}
	}
	if v, ok := parseNumber(raw); ok {
		return NumberCell(v)
	}
	return Cell{kind: KindText, text: raw}
}

// Kind returns the cell kind.
func (c Cell) Kind() Kind { return c.kind }

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool { return c.kind == KindEmpty }

// Text renders the cell as a string. Numbers use the shortest exact decimal
// form, empty cells render as "".
func (c Cell) Text() string {
	switch c.kind {
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindText:
		return c.text
	default:
		return ""
	}
}

// Float returns the numeric value and true for numeric cells.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// parseNumber accepts optional surrounding parentheses (negative), a leading
// sign, a leading "$" and thousands separators.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}
