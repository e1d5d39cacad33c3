// Package summary derives comparison figures and chart series from a set of
// processed policies.
package summary

import (
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/sells-group/policy-compare/internal/model"
)

// DefaultIntervals are the policy years sampled for cash-value comparison.
var DefaultIntervals = []int{10, 20, 30, 40, 50}

// Features records which value columns carry any non-zero data.
type Features struct {
	Premium bool `json:"premium"`
	GCV     bool `json:"gcv"`
	TCV     bool `json:"tcv"`
	TDB     bool `json:"tdb"`
}

// IntervalValue is the total cash value at a policy year.
type IntervalValue struct {
	Year int     `json:"year"`
	TCV  float64 `json:"tcv"`
}

// Policy summarizes one processed file.
type Policy struct {
	Company         string          `json:"company"`
	Filename        string          `json:"filename"`
	TotalPremium    float64         `json:"totalPremium"`
	TCVAt           []IntervalValue `json:"tcvAt"`
	Features        Features        `json:"features"`
	MaxDollarValue  float64         `json:"maxDollarValue"`
	MeanDollarValue float64         `json:"meanDollarValue"`
	BreakevenAge    float64         `json:"breakevenAge"`
}

// Report is the comparison summary over all policies.
type Report struct {
	TotalFiles int      `json:"totalFiles"`
	Companies  []string `json:"companies"`
	Intervals  []int    `json:"intervals"`
	Policies   []Policy `json:"policies"`
}

// CompanyList joins the distinct company names for display.
func (r Report) CompanyList() string {
	return strings.Join(r.Companies, ", ")
}

// IsEmpty reports whether the report covers no files.
func (r Report) IsEmpty() bool {
	return r.TotalFiles == 0
}

// Build summarizes policies. Nil intervals select DefaultIntervals.
func Build(policies []model.ProcessedData, intervals []int) Report {
	if intervals == nil {
		intervals = DefaultIntervals
	}
	r := Report{
		TotalFiles: len(policies),
		Companies:  []string{},
		Intervals:  append([]int(nil), intervals...),
		Policies:   make([]Policy, 0, len(policies)),
	}

	seen := make(map[string]bool)
	for _, pd := range policies {
		if pd.Company != "" && !seen[pd.Company] {
			seen[pd.Company] = true
			r.Companies = append(r.Companies, pd.Company)
		}
		r.Policies = append(r.Policies, summarize(pd, intervals))
	}
	return r
}

func summarize(pd model.ProcessedData, intervals []int) Policy {
	p := Policy{
		Company:  pd.Company,
		Filename: pd.Filename,
		TCVAt:    make([]IntervalValue, len(intervals)),
	}

	dollar := make([]float64, 0, len(pd.TableData))
	for _, row := range pd.TableData {
		p.TotalPremium += row.Premium
		p.Features.Premium = p.Features.Premium || row.Premium != 0
		p.Features.GCV = p.Features.GCV || row.GuaranteedCashValue != 0
		p.Features.TCV = p.Features.TCV || row.TotalCashValue != 0
		p.Features.TDB = p.Features.TDB || row.TotalDeathBenefit != 0
		if p.BreakevenAge == 0 && row.DollarValue >= 1 {
			p.BreakevenAge = row.Age
		}
		dollar = append(dollar, row.DollarValue)
	}

	// Policy year n is the n-th data row.
	for i, year := range intervals {
		p.TCVAt[i] = IntervalValue{Year: year}
		if year >= 1 && year <= len(pd.TableData) {
			p.TCVAt[i].TCV = pd.TableData[year-1].TotalCashValue
		}
	}

	if len(dollar) == 0 {
		return p
	}
	if v, err := stats.Max(dollar); err == nil {
		p.MaxDollarValue = v
	}
	if v, err := stats.Mean(dollar); err == nil {
		p.MeanDollarValue = v
	}
	return p
}
