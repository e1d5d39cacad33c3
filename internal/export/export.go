// Package export writes processed policies as JSON, YAML, CSV or XLSX.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/policy-compare/internal/model"
)

// Format is an output encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const maxSheetName = 31

// ParseFormat validates a format name (case-insensitive, "yml" accepted).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatCSV, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", eris.Errorf("export: unknown format %q", s)
	}
}

// Write encodes policies to w in the given format.
func Write(w io.Writer, format Format, policies []model.ProcessedData) error {
	if policies == nil {
		policies = []model.ProcessedData{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(policies); err != nil {
			return eris.Wrap(err, "export: encode json")
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(policies); err != nil {
			return eris.Wrap(err, "export: encode yaml")
		}
		return eris.Wrap(enc.Close(), "export: close yaml")
	case FormatCSV:
		return writeCSV(w, policies)
	case FormatXLSX:
		return writeXLSX(w, policies)
	default:
		return eris.Errorf("export: unknown format %q", format)
	}
}

func writeCSV(out io.Writer, policies []model.ProcessedData) error {
	w := csv.NewWriter(out)

	header := append([]string{"Company", "Filename"}, model.CanonicalColumns()...)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}

	for _, pd := range policies {
		for _, row := range pd.TableData {
			rec := []string{pd.Company, pd.Filename}
			for _, col := range model.CanonicalColumns() {
				rec = append(rec, strconv.FormatFloat(row.Value(col), 'f', -1, 64))
			}
			if err := w.Write(rec); err != nil {
				return eris.Wrap(err, "export: write csv row")
			}
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "export: flush csv")
}

func writeXLSX(w io.Writer, policies []model.ProcessedData) error {
	f := xlsx.NewFile()
	used := make(map[string]bool)

	for i, pd := range policies {
		sheet, err := f.AddSheet(sheetName(pd, i, used))
		if err != nil {
			return eris.Wrap(err, "export: add sheet")
		}

		header := sheet.AddRow()
		for _, col := range model.CanonicalColumns() {
			header.AddCell().SetString(col)
		}
		for _, r := range pd.TableData {
			row := sheet.AddRow()
			for _, col := range model.CanonicalColumns() {
				row.AddCell().SetFloat(r.Value(col))
			}
		}
	}

	if len(policies) == 0 {
		if _, err := f.AddSheet("Policies"); err != nil {
			return eris.Wrap(err, "export: add sheet")
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

// sheetName picks a unique, Excel-legal sheet name for a policy.
func sheetName(pd model.ProcessedData, i int, used map[string]bool) string {
	base := pd.Company
	if base == "" || base == "Unknown" {
		base = strings.TrimSuffix(pd.Filename, ".xlsx")
	}
	base = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(base))
	if base == "" {
		base = fmt.Sprintf("Policy %d", i+1)
	}
	base = truncate(base, maxSheetName)

	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncate(base, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
