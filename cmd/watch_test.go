package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/policy-compare/internal/export"
	"github.com/sells-group/policy-compare/internal/model"
)

func TestResultPath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		outputDir string
		format    export.Format
		want      string
	}{
		{"next to file", "/in/SunLife.xlsx", "", export.FormatJSON, "/in/SunLife.result.json"},
		{"output dir", "/in/SunLife.xlsx", "/out", export.FormatCSV, "/out/SunLife.result.csv"},
		{"bundle", "/in/batch.zip", "", export.FormatXLSX, "/in/batch.result.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.want), resultPath(filepath.FromSlash(tt.path), filepath.FromSlash(tt.outputDir), tt.format))
		})
	}
}

func TestIsResultFile(t *testing.T) {
	assert.True(t, isResultFile("/in/SunLife.result.csv"))
	assert.False(t, isResultFile("/in/SunLife.csv"))
	assert.False(t, isResultFile("/in.result./SunLife.csv"))
}

func TestProcessWatched(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "results")
	path := filepath.Join(in, "Equitable.xlsx")
	require.NoError(t, os.WriteFile(path, illustration(t), 0644))

	env, err := initEngine(testConfig(), "watch", 0)
	require.NoError(t, err)

	require.NoError(t, processWatched(context.Background(), env, path, out, export.FormatJSON))

	data, err := os.ReadFile(filepath.Join(out, "Equitable.result.json"))
	require.NoError(t, err)
	var results []model.ProcessedData
	require.NoError(t, json.Unmarshal(data, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Equitable Life", results[0].Company)
	assert.Equal(t, "equitable.xlsx", results[0].Filename)
}
