package pipeline

import (
	"regexp"
	"strings"

	"github.com/sells-group/policy-compare/internal/workbook"
)

// headerPattern marks a header row by the text of its first cell.
var headerPattern = regexp.MustCompile(`(?i)age|year`)

// HeaderRow is the located header of a sheet.
type HeaderRow struct {
	Index   int      // row index within the sheet
	Headers []string // normalized header text, one per column
}

// LocateHeader finds the first row whose first cell matches age/year. A
// match on the final row is treated as not found, since there would be no
// data rows beneath it.
func LocateHeader(sheet *workbook.Sheet) (HeaderRow, bool) {
	if sheet == nil {
		return HeaderRow{}, false
	}
	for i, row := range sheet.Rows {
		if len(row) == 0 || !headerPattern.MatchString(row[0].Text()) {
			continue
		}
		if i == len(sheet.Rows)-1 {
			return HeaderRow{}, false
		}
		headers := make([]string, len(row))
		for j, c := range row {
			headers[j] = NormalizeHeader(c.Text())
		}
		return HeaderRow{Index: i, Headers: headers}, true
	}
	return HeaderRow{}, false
}

// NormalizeHeader lower-cases s, trims it and collapses whitespace runs to a
// single space. It is idempotent.
func NormalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
