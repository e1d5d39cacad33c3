package model

// Field is a canonical policy-value key that source headers are mapped onto.
type Field string

// Canonical field keys. An unmapped field falls back to its key as the
// header name.
const (
	FieldAge     Field = "age"
	FieldPremium Field = "premium"
	FieldGCV     Field = "gcv"
	FieldTCV     Field = "tcv"
	FieldTDB     Field = "tdb"
)

// Canonical output column names, in display order.
const (
	ColumnAge                 = "Age"
	ColumnPremium             = "Premium"
	ColumnGuaranteedCashValue = "Guaranteed Cash Value"
	ColumnTotalCashValue      = "Total Cash Value"
	ColumnTotalDeathBenefit   = "Total Death Benefit"
	ColumnDollarValue         = "Dollar Value"
)

var allFields = []Field{FieldAge, FieldPremium, FieldGCV, FieldTCV, FieldTDB}

var canonicalColumns = []string{
	ColumnAge,
	ColumnPremium,
	ColumnGuaranteedCashValue,
	ColumnTotalCashValue,
	ColumnTotalDeathBenefit,
	ColumnDollarValue,
}

var fieldColumns = map[Field]string{
	FieldAge:     ColumnAge,
	FieldPremium: ColumnPremium,
	FieldGCV:     ColumnGuaranteedCashValue,
	FieldTCV:     ColumnTotalCashValue,
	FieldTDB:     ColumnTotalDeathBenefit,
}

// AllFields returns the canonical field keys in mapping order.
func AllFields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

// CanonicalColumns returns a fresh copy of the fixed output column list.
func CanonicalColumns() []string {
	out := make([]string, len(canonicalColumns))
	copy(out, canonicalColumns)
	return out
}

// Column returns the display column name for a field, or "" if unknown.
func (f Field) Column() string {
	return fieldColumns[f]
}

// IsValid reports whether f is one of the canonical keys.
func (f Field) IsValid() bool {
	_, ok := fieldColumns[f]
	return ok
}

func (f Field) String() string {
	return string(f)
}
