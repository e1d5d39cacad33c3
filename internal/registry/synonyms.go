// Package registry holds the process-wide synonym dictionary and company
// registry. Both are built once at startup and are read-only afterwards.
package registry

import (
	"strings"

	"github.com/sells-group/policy-compare/internal/model"
)

// defaultAliases merges the explicit-scan and narrower alias lists used by
// the insurer illustration exports seen so far. Order is priority order.
var defaultAliases = map[model.Field][]string{
	model.FieldAge: {"age", "attained age", "policy year"},
	model.FieldPremium: {
		"annualized scheduled premium",
		"premium",
		"deposit",
		"yearly premium",
		"payments",
		"total yearly premium",
	},
	model.FieldGCV: {"guaranteed cash value", "cash value"},
	model.FieldTCV: {
		"total cash value",
		"account value",
		"cash surrender value",
		"fund value (primary rate)",
	},
	model.FieldTDB: {
		"total death benefit",
		"total term",
		"primary insured person's death benefit",
		"total payout on death",
		"total policy death benefit",
		"total policy death benefit (primary rate)",
		"critical illness insurance benefit",
	},
}

// Synonyms maps each canonical field to its ordered, lower-case aliases.
type Synonyms struct {
	aliases map[model.Field][]string
}

// DefaultSynonyms returns the built-in dictionary.
func DefaultSynonyms() *Synonyms {
	return NewSynonyms(defaultAliases)
}

// NewSynonyms builds a dictionary from m. Aliases are trimmed and
// lower-cased; blanks and repeats within a field are dropped. Fields not
// present in m get no aliases.
func NewSynonyms(m map[model.Field][]string) *Synonyms {
	s := &Synonyms{aliases: make(map[model.Field][]string, len(m))}
	for _, f := range model.AllFields() {
		s.aliases[f] = appendAliases(nil, m[f])
	}
	return s
}

// Aliases returns a copy of the aliases for f in priority order.
func (s *Synonyms) Aliases(f model.Field) []string {
	src := s.aliases[f]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Fields returns the canonical fields in mapping order.
func (s *Synonyms) Fields() []model.Field {
	return model.AllFields()
}

// extend returns a new dictionary with extra aliases appended after the
// existing ones for each field.
func (s *Synonyms) extend(extra map[model.Field][]string) *Synonyms {
	out := &Synonyms{aliases: make(map[model.Field][]string, len(s.aliases))}
	for _, f := range model.AllFields() {
		merged := appendAliases(nil, s.aliases[f])
		out.aliases[f] = appendAliases(merged, extra[f])
	}
	return out
}

func appendAliases(dst, aliases []string) []string {
	if dst == nil {
		dst = []string{}
	}
	for _, a := range aliases {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || contains(dst, a) {
			continue
		}
		dst = append(dst, a)
	}
	return dst
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
