package summary

import (
	"strconv"
	"strings"

	"github.com/sells-group/policy-compare/internal/model"
)

// Dataset is one policy's values for a column.
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// Series is the chart data for one value column.
type Series struct {
	Column   string    `json:"column"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// BuildSeries returns one series per value column of the first policy. The
// x-axis labels are that policy's ages; zero ages render as "N/A".
func BuildSeries(policies []model.ProcessedData) []Series {
	if len(policies) == 0 || len(policies[0].Columns) < 2 {
		return nil
	}
	first := policies[0]

	labels := make([]string, len(first.TableData))
	for i, row := range first.TableData {
		labels[i] = "N/A"
		if row.Age != 0 {
			labels[i] = strconv.FormatFloat(row.Age, 'f', -1, 64)
		}
	}

	columns := first.Columns[1:]
	out := make([]Series, 0, len(columns))
	for _, col := range columns {
		s := Series{Column: col, Labels: labels, Datasets: make([]Dataset, 0, len(policies))}
		for _, pd := range policies {
			data := make([]float64, len(pd.TableData))
			for i, row := range pd.TableData {
				data[i] = row.Value(col)
			}
			s.Datasets = append(s.Datasets, Dataset{
				Label: pd.Company + " - " + strings.ToUpper(col),
				Data:  data,
			})
		}
		out = append(out, s)
	}
	return out
}
