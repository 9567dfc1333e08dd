package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Analysis.IncludeDeclarations)
	assert.False(t, cfg.Analysis.Strict)
	assert.Equal(t, 10, cfg.Thresholds.CyclomaticComplexity)
	assert.Equal(t, "records", cfg.Output.Format)
	assert.Equal(t, "output.cy", cfg.Output.Path)
	assert.True(t, cfg.Exclude.Gitignore)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "cyclo.toml", `
[analysis]
include_declarations = false
strict = true
workers = 4

[output]
format = "json"
path = "-"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Analysis.IncludeDeclarations)
	assert.True(t, cfg.Analysis.Strict)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "-", cfg.Output.Path)

	// Untouched sections keep their defaults.
	assert.Equal(t, 10, cfg.Thresholds.CyclomaticComplexity)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "cyclo.yaml", `
analysis:
  annotate: true
exclude:
  patterns:
    - "*_generated.c"
  gitignore: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Analysis.Annotate)
	assert.Equal(t, []string{"*_generated.c"}, cfg.Exclude.Patterns)
	assert.False(t, cfg.Exclude.Gitignore)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "cyclo.json", `{"output": {"format": "toon"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "toon", cfg.Output.Format)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "cyclo.toml", `
[analysiss]
strict = true
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadFormat(t *testing.T) {
	path := writeConfig(t, "cyclo.toml", `
[output]
format = "xml"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsWrongType(t *testing.T) {
	path := writeConfig(t, "cyclo.yaml", `
analysis:
  workers: lots
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	cfg := LoadOrDefault()
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOrDefaultFindsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cyclo.toml"), []byte(`
[thresholds]
cyclomatic_complexity = 7
`), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	cfg := LoadOrDefault()
	assert.Equal(t, 7, cfg.Thresholds.CyclomaticComplexity)
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude.Patterns = []string{"*_gen.c"}

	tests := []struct {
		path string
		want bool
	}{
		{"src/main.c", false},
		{filepath.Join("vendor", "lib", "x.c"), true},
		{filepath.Join("a", ".git", "hook.c"), true},
		{filepath.Join("src", "proto_gen.c"), true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.ShouldExclude(tt.path))
		})
	}
}
