package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/policy-compare/internal/model"
	"github.com/sells-group/policy-compare/internal/summary"
)

func TestPrintReport_Empty(t *testing.T) {
	var out bytes.Buffer
	printReport(&out, summary.Build(nil, nil))
	assert.Equal(t, "No data available\n", out.String())
}

func TestPrintReport(t *testing.T) {
	policies := []model.ProcessedData{
		{
			Company:  "Sun Life",
			Filename: "sun.xlsx",
			Columns:  model.CanonicalColumns(),
			TableData: []model.StandardizedRow{
				{Age: 41, Premium: 1000, TotalCashValue: 500, DollarValue: 0.5},
				{Age: 42, Premium: 1000, TotalCashValue: 2100, DollarValue: 1.05},
			},
		},
		model.EmptyProcessedData(),
	}

	var out bytes.Buffer
	printReport(&out, summary.Build(policies, []int{1, 2}))
	text := out.String()

	assert.Contains(t, text, "Files: 2")
	assert.Contains(t, text, "Companies: Sun Life")
	assert.Contains(t, text, "TCV Y1")
	assert.Contains(t, text, "$2000.00")
	assert.Contains(t, text, "$2100.00")
	assert.Contains(t, text, "1.05")
	assert.Contains(t, text, "premium,tcv")
	assert.Contains(t, text, "(failed)")
}

func TestFeatures(t *testing.T) {
	assert.Equal(t, "-", features(summary.Features{}))
	assert.Equal(t, "premium,gcv,tcv,tdb", features(summary.Features{Premium: true, GCV: true, TCV: true, TDB: true}))
}
