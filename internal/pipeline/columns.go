package pipeline

import (
	"strings"

	"github.com/sells-group/policy-compare/internal/model"
	"github.com/sells-group/policy-compare/internal/registry"
)

// Binding is the header a canonical field reads from. When no header
// matched, Header is the field's literal key.
type Binding struct {
	Header  string
	Matched bool
}

// ColumnMap binds every canonical field to at most one header.
type ColumnMap map[model.Field]Binding

// MapColumns binds each field to the first header, scanning left to right,
// that contains any of the field's aliases. Header position takes precedence
// over alias order.
func MapColumns(headers []string, syn *registry.Synonyms) ColumnMap {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	cmap := make(ColumnMap, len(syn.Fields()))
	for _, f := range syn.Fields() {
		cmap[f] = Binding{Header: string(f)}
		aliases := syn.Aliases(f)
	scan:
		for _, h := range normalized {
			for _, alias := range aliases {
				if strings.Contains(h, alias) {
					cmap[f] = Binding{Header: h, Matched: true}
					break scan
				}
			}
		}
	}
	return cmap
}

// Header returns the header bound to f.
func (m ColumnMap) Header(f model.Field) string {
	if b, ok := m[f]; ok {
		return b.Header
	}
	return string(f)
}

// Unmapped returns the fields that fell back to their literal key, in
// canonical order.
func (m ColumnMap) Unmapped() []model.Field {
	var out []model.Field
	for _, f := range model.AllFields() {
		if !m[f].Matched {
			out = append(out, f)
		}
	}
	return out
}
