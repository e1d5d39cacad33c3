package model

// StandardizedRow is one normalized illustration row. Every field defaults
// to zero when the source cell is missing or non-numeric.
type StandardizedRow struct {
	Age                 float64 `json:"Age" yaml:"Age"`
	Premium             float64 `json:"Premium" yaml:"Premium"`
	GuaranteedCashValue float64 `json:"Guaranteed Cash Value" yaml:"Guaranteed Cash Value"`
	TotalCashValue      float64 `json:"Total Cash Value" yaml:"Total Cash Value"`
	TotalDeathBenefit   float64 `json:"Total Death Benefit" yaml:"Total Death Benefit"`
	DollarValue         float64 `json:"Dollar Value" yaml:"Dollar Value"`
}

// Value returns the row value for a canonical column name. Unknown columns
// yield 0.
func (r StandardizedRow) Value(column string) float64 {
	switch column {
	case ColumnAge:
		return r.Age
	case ColumnPremium:
		return r.Premium
	case ColumnGuaranteedCashValue:
		return r.GuaranteedCashValue
	case ColumnTotalCashValue:
		return r.TotalCashValue
	case ColumnTotalDeathBenefit:
		return r.TotalDeathBenefit
	case ColumnDollarValue:
		return r.DollarValue
	default:
		return 0
	}
}

// ProcessedData is the normalized result for one uploaded file.
type ProcessedData struct {
	Company   string            `json:"company" yaml:"company"`
	Columns   []string          `json:"columns" yaml:"columns"`
	AgeColumn string            `json:"ageColumn" yaml:"ageColumn"`
	TableData []StandardizedRow `json:"tableData" yaml:"tableData"`
	Filename  string            `json:"filename" yaml:"filename"`
}

// EmptyProcessedData returns the result produced for files that could not be
// read or have no recognizable header row. Slices are non-nil so the value
// encodes as empty arrays.
func EmptyProcessedData() ProcessedData {
	return ProcessedData{
		Columns:   []string{},
		TableData: []StandardizedRow{},
	}
}

// IsEmpty reports whether the result carries no columns, which callers treat
// as a failed upload.
func (p ProcessedData) IsEmpty() bool {
	return len(p.Columns) == 0
}
