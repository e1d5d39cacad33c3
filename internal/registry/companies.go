package registry

import (
	"strings"

	"golang.org/x/text/cases"
)

// UnknownCompany is the display name used when no registry key matches.
const UnknownCompany = "Unknown"

// Company pairs a case-folded file-name substring with a display name.
type Company struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

var defaultCompanies = []Company{
	{Key: "canada", Name: "Canada"},
	{Key: "manu", Name: "Manulife"},
	{Key: "sun", Name: "Sun Life"},
	{Key: "equitable", Name: "Equitable Life"},
}

// Companies is an ordered company registry. The first matching key wins.
type Companies struct {
	entries []Company
}

// DefaultCompanies returns the built-in registry.
func DefaultCompanies() *Companies {
	return NewCompanies(defaultCompanies)
}

// NewCompanies builds a registry from entries, case-folding keys and
// dropping entries with a blank key or name.
func NewCompanies(entries []Company) *Companies {
	return (&Companies{}).extend(entries)
}

// Entries returns a copy of the registry in declared order.
func (c *Companies) Entries() []Company {
	out := make([]Company, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup returns the display name of the first entry whose key occurs in
// name (compared case-folded), or UnknownCompany.
func (c *Companies) Lookup(name string) string {
	folded := cases.Fold().String(name)
	for _, e := range c.entries {
		if strings.Contains(folded, e.Key) {
			return e.Name
		}
	}
	return UnknownCompany
}

func (c *Companies) extend(extra []Company) *Companies {
	out := &Companies{entries: make([]Company, 0, len(c.entries)+len(extra))}
	out.entries = append(out.entries, c.entries...)
	fold := cases.Fold()
	for _, e := range extra {
		key := fold.String(strings.TrimSpace(e.Key))
		name := strings.TrimSpace(e.Name)
		if key == "" || name == "" {
			continue
		}
		out.entries = append(out.entries, Company{Key: key, Name: name})
	}
	return out
}
