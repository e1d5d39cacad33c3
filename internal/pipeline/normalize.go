package pipeline

import (
	"github.com/sells-group/policy-compare/internal/model"
	"github.com/sells-group/policy-compare/internal/workbook"
)

// NormalizeRows converts data rows into standardized records. Cells are
// looked up by the header bound to each field; when several columns share a
// header the rightmost one is used. Missing or non-numeric cells read as 0.
//
// DollarValue is the row's total cash value divided by the premium paid so
// far (this row included), or 0 while that sum is not positive.
func NormalizeRows(headers []string, rows [][]workbook.Cell, cmap ColumnMap) []model.StandardizedRow {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[NormalizeHeader(h)] = i
	}

	col := make(map[model.Field]int, len(model.AllFields()))
	for _, f := range model.AllFields() {
		col[f] = -1
		if i, ok := index[cmap.Header(f)]; ok {
			col[f] = i
		}
	}

	out := make([]model.StandardizedRow, 0, len(rows))
	var paid float64
	for _, row := range rows {
		r := model.StandardizedRow{
			Age:                 cellValue(row, col[model.FieldAge]),
			Premium:             cellValue(row, col[model.FieldPremium]),
			GuaranteedCashValue: cellValue(row, col[model.FieldGCV]),
			TotalCashValue:      cellValue(row, col[model.FieldTCV]),
			TotalDeathBenefit:   cellValue(row, col[model.FieldTDB]),
		}
		paid += r.Premium
		if paid > 0 {
			r.DollarValue = r.TotalCashValue / paid
		}
		out = append(out, r)
	}
	return out
}

func cellValue(row []workbook.Cell, i int) float64 {
	if i < 0 || i >= len(row) {
		return 0
	}
	v, ok := row[i].Float()
	if !ok {
		return 0
	}
	return v
}
