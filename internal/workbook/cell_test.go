package workbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
		num  float64
	}{
		{"", KindEmpty, 0},
		{"   ", KindEmpty, 0},
		{"30", KindNumber, 30},
		{" 1500.25 ", KindNumber, 1500.25},
		{"$1,234.50", KindNumber, 1234.5},
		{"-$200", KindNumber, -200},
		{"(250)", KindNumber, -250},
		{"1e3", KindNumber, 1000},
		{"Age", KindText, 0},
		{"N/A", KindText, 0},
		{"NaN", KindText, 0},
		{"Inf", KindText, 0},
		{"0x10", KindText, 0},
		{"$", KindText, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := ParseCell(tt.raw)
			assert.Equal(t, tt.kind, c.Kind())
			v, ok := c.Float()
			assert.Equal(t, tt.kind == KindNumber, ok)
			assert.Equal(t, tt.num, v)
		})
	}
}

func TestCell_Text(t *testing.T) {
	assert.Equal(t, "", EmptyCell().Text())
	assert.Equal(t, "30", NumberCell(30).Text())
	assert.Equal(t, "0.5", NumberCell(0.5).Text())
	assert.Equal(t, "Policy Year", TextCell("Policy Year").Text())
	assert.True(t, TextCell("  ").IsEmpty())
}

func TestParseCell_KeepsOriginalText(t *testing.T) {
	c := ParseCell("  Total Cash Value ")
	assert.Equal(t, KindText, c.Kind())
	assert.Equal(t, "  Total Cash Value ", c.Text())
}
