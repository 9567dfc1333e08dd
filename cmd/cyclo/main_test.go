package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/panbanda/cyclo/internal/output"
	"github.com/panbanda/cyclo/pkg/config"
	"github.com/panbanda/cyclo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDefaultConfigRoundTrips(t *testing.T) {
	content, err := generateDefaultConfig()
	require.NoError(t, err)
	assert.Contains(t, content, "[analysis]")
	assert.Contains(t, content, "include_declarations")

	path := filepath.Join(t.TempDir(), "cyclo.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	def := config.DefaultConfig()
	assert.Equal(t, def.Analysis, cfg.Analysis)
	assert.Equal(t, def.Thresholds, cfg.Thresholds)
	assert.Equal(t, def.Cache, cfg.Cache)
	assert.Equal(t, def.Output, cfg.Output)
	assert.Equal(t, def.Exclude.Dirs, cfg.Exclude.Dirs)
	assert.Equal(t, def.Exclude.Gitignore, cfg.Exclude.Gitignore)
}

func TestWriteAnalysisRecords(t *testing.T) {
	analysis := models.BuildAnalysis([]models.FileResult{
		models.NewFileResult("a.c", "c", []models.Record{
			{Line: 1, Name: "foo", Complexity: 1},
			{Line: 5, Name: "bar", Complexity: 2},
		}),
	})

	path := filepath.Join(t.TempDir(), "output.cy")
	cfg := config.DefaultConfig()

	require.NoError(t, writeAnalysis(analysis, output.FormatRecords, path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 foo 1\n5 bar 2\n", string(data))
}

func TestWriteAnalysisJSON(t *testing.T) {
	analysis := models.BuildAnalysis([]models.FileResult{
		models.NewFileResult("a.c", "c", []models.Record{
			{Line: 1, Name: "foo", Complexity: 1},
		}),
	})

	path := filepath.Join(t.TempDir(), "out.json")
	cfg := config.DefaultConfig()

	require.NoError(t, writeAnalysis(analysis, output.FormatJSON, path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"foo"`))
}

func TestWriteAnalysisRecordsIdempotent(t *testing.T) {
	analysis := models.BuildAnalysis([]models.FileResult{
		models.NewFileResult("a.c", "c", []models.Record{
			{Line: 3, Name: "f", Complexity: 4},
		}),
	})

	path := filepath.Join(t.TempDir(), "output.cy")
	cfg := config.DefaultConfig()

	require.NoError(t, writeAnalysis(analysis, output.FormatRecords, path, cfg))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, writeAnalysis(analysis, output.FormatRecords, path, cfg))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
