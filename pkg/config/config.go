package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for cyclo.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Thresholds for reporting
	Thresholds ThresholdConfig `koanf:"thresholds" toml:"thresholds"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// AnalysisConfig controls how functions are measured.
type AnalysisConfig struct {
	// IncludeDeclarations reports bodyless prototypes with complexity 1.
	IncludeDeclarations bool `koanf:"include_declarations" toml:"include_declarations"`
	// Strict rejects source units containing any syntax error.
	Strict bool `koanf:"strict" toml:"strict"`
	// Annotate collects the source lines of decision points per function.
	Annotate bool `koanf:"annotate" toml:"annotate"`
	// Workers caps batch concurrency; 0 means 2x NumCPU.
	Workers int `koanf:"workers" toml:"workers"`
	// MaxFileSize skips files above this many bytes; 0 means no limit.
	MaxFileSize int64 `koanf:"max_file_size" toml:"max_file_size"`
}

// ThresholdConfig defines metric thresholds.
type ThresholdConfig struct {
	CyclomaticComplexity int `koanf:"cyclomatic_complexity" toml:"cyclomatic_complexity"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	// Format is one of records, text, json, yaml, markdown, toon.
	Format string `koanf:"format" toml:"format"`
	// Path is the record sink; "-" writes to stdout.
	Path    string `koanf:"path" toml:"path"`
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			IncludeDeclarations: true,
		},
		Thresholds: ThresholdConfig{
			CyclomaticComplexity: 10,
		},
		Exclude: ExcludeConfig{
			Dirs: []string{
				".git",
				".cyclo",
				"build",
				"vendor",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".cyclo/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "records",
			Path:   "output.cy",
			Color:  true,
		},
	}
}

// Load loads configuration from a file, validating it against the
// embedded schema before unmarshaling.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := ValidateDocument(k.Raw()); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"cyclo.toml",
		"cyclo.yaml",
		"cyclo.yml",
		"cyclo.json",
		".cyclo.toml",
		".cyclo.yaml",
		".cyclo.yml",
		".cyclo.json",
	}

	searchDirs := []string{".", ".cyclo"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
