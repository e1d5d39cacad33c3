package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/policy-compare/internal/registry"
)

func TestClassifyCompany(t *testing.T) {
	companies := registry.DefaultCompanies()
	tests := []struct {
		file string
		want string
	}{
		{"Manulife_2024.xlsx", "Manulife"},
		{"random_export.xlsx", "Unknown"},
		{"SUN_LIFE_par.xlsx", "Sun Life"},
		{"Canada-Life.xlsx", "Canada"},
		{"EQUITABLE.csv", "Equitable Life"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCompany(tt.file, companies))
		})
	}
}

func TestClassifyCompany_DeclaredOrderWins(t *testing.T) {
	// Both "canada" and "sun" occur; canada is declared first.
	assert.Equal(t, "Canada", ClassifyCompany("sun_vs_canada.xlsx", registry.DefaultCompanies()))
}

func TestClassifyCompany_NilRegistry(t *testing.T) {
	assert.Equal(t, "Unknown", ClassifyCompany("manulife.xlsx", nil))
}
