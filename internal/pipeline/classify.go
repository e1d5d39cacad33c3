package pipeline

import (
	"github.com/sells-group/policy-compare/internal/registry"
)

// ClassifyCompany infers the insurer from a file name using the first
// matching registry entry. It returns registry.UnknownCompany when nothing
// matches.
func ClassifyCompany(filename string, companies *registry.Companies) string {
	if companies == nil {
		return registry.UnknownCompany
	}
	return companies.Lookup(filename)
}
