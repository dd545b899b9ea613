// Package config provides configuration loading and management for folkgraph.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/folkgraph/provenance"
)

// Config represents the complete folkgraph configuration
type Config struct {
	// LogLevel is one of debug, info, warn, error
	LogLevel  string          `yaml:"log_level"`
	Paths     PathsConfig     `yaml:"paths"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Policy    PolicyConfig    `yaml:"policy"`
	Validator ValidatorConfig `yaml:"validator"`
}

// PathsConfig locates the corpus inputs and the output directories
type PathsConfig struct {
	// CanonicalCSV is the normalized corpus table
	CanonicalCSV string `yaml:"canonical_csv"`
	// MappingCSV is the volume-to-archive mapping table
	MappingCSV string `yaml:"mapping_csv"`
	// ATUReference is the tale type reference table
	ATUReference string `yaml:"atu_reference"`
	// OutDir receives the serialized graph artifacts
	OutDir string `yaml:"out_dir"`
	// RunsDir receives classification run records
	RunsDir string `yaml:"runs_dir"`
	// Context is an optional external JSON-LD context document
	Context string `yaml:"context"`
}

// DatasetConfig configures the dcat:Dataset description
type DatasetConfig struct {
	// DerivedFrom is the archive URL recorded as prov:wasDerivedFrom
	DerivedFrom string `yaml:"derived_from"`
}

// PolicyConfig carries the decision thresholds for classification runs
type PolicyConfig struct {
	// ID names the active decision policy
	ID string `yaml:"id"`
	// MinScore1 is the minimum top score for the high band
	MinScore1 float64 `yaml:"min_score1"`
	// MinDelta is the minimum top-1/top-2 score gap for the high band
	MinDelta float64 `yaml:"min_delta"`
	// CoTypeGap is the maximum gap to the top score for a co-type
	CoTypeGap float64 `yaml:"co_type_gap"`
	// CoTypeMinScore is the minimum score for a co-type
	CoTypeMinScore float64 `yaml:"co_type_min_score"`
	// MaxCoTypes caps the co-type proposal
	MaxCoTypes int `yaml:"max_co_types"`
	// ShortTextLen is the rune count below which a text is flagged short
	ShortTextLen int `yaml:"short_text_len"`
}

// ValidatorConfig configures the external SHACL engine
type ValidatorConfig struct {
	// Engine is the engine argv, e.g. [pyshacl] or [python3, -m, pyshacl]
	Engine []string `yaml:"engine"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Paths: PathsConfig{
			CanonicalCSV: "data/processed/corpus_canonical.csv",
			MappingCSV:   "data/processed/volume_kivike_map.csv",
			ATUReference: "data/processed/atu_reference.csv",
			OutDir:       "rdf/serialization",
			RunsDir:      "runs",
			Context:      "",
		},
		Dataset: DatasetConfig{
			DerivedFrom: "https://kivike.kirmus.ee",
		},
		Policy: PolicyConfig{
			ID:             "high_else",
			MinScore1:      0.38,
			MinDelta:       0.14,
			CoTypeGap:      0.10,
			CoTypeMinScore: 0.55,
			MaxCoTypes:     2,
			ShortTextLen:   400,
		},
		Validator: ValidatorConfig{
			Engine: []string{"pyshacl"},
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Paths.OutDir == "" {
		return fmt.Errorf("paths.out_dir is required")
	}
	if c.Paths.RunsDir == "" {
		return fmt.Errorf("paths.runs_dir is required")
	}
	if c.Policy.ID == "" {
		return fmt.Errorf("policy.id is required")
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"policy.min_score1", c.Policy.MinScore1},
		{"policy.min_delta", c.Policy.MinDelta},
		{"policy.co_type_gap", c.Policy.CoTypeGap},
		{"policy.co_type_min_score", c.Policy.CoTypeMinScore},
	} {
		if f.value < 0 || f.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", f.name)
		}
	}
	if c.Policy.MaxCoTypes < 0 {
		return fmt.Errorf("policy.max_co_types must not be negative")
	}
	if c.Policy.ShortTextLen < 0 {
		return fmt.Errorf("policy.short_text_len must not be negative")
	}
	return nil
}

// ParseLevel maps a config log level onto slog
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level must be debug, info, warn or error, got %q", level)
	}
}

// ToPolicy converts the configured thresholds into a decision policy
func (p PolicyConfig) ToPolicy() provenance.Policy {
	return provenance.Policy{
		ID:             p.ID,
		MinScore1:      p.MinScore1,
		MinDelta:       p.MinDelta,
		CoTypeGap:      p.CoTypeGap,
		CoTypeMinScore: p.CoTypeMinScore,
		MaxCoTypes:     p.MaxCoTypes,
		ShortTextLen:   p.ShortTextLen,
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}

	// Paths
	if other.Paths.CanonicalCSV != "" {
		c.Paths.CanonicalCSV = other.Paths.CanonicalCSV
	}
	if other.Paths.MappingCSV != "" {
		c.Paths.MappingCSV = other.Paths.MappingCSV
	}
	if other.Paths.ATUReference != "" {
		c.Paths.ATUReference = other.Paths.ATUReference
	}
	if other.Paths.OutDir != "" {
		c.Paths.OutDir = other.Paths.OutDir
	}
	if other.Paths.RunsDir != "" {
		c.Paths.RunsDir = other.Paths.RunsDir
	}
	if other.Paths.Context != "" {
		c.Paths.Context = other.Paths.Context
	}

	// Dataset
	if other.Dataset.DerivedFrom != "" {
		c.Dataset.DerivedFrom = other.Dataset.DerivedFrom
	}

	// Policy
	if other.Policy.ID != "" {
		c.Policy.ID = other.Policy.ID
	}
	if other.Policy.MinScore1 != 0 {
		c.Policy.MinScore1 = other.Policy.MinScore1
	}
	if other.Policy.MinDelta != 0 {
		c.Policy.MinDelta = other.Policy.MinDelta
	}
	if other.Policy.CoTypeGap != 0 {
		c.Policy.CoTypeGap = other.Policy.CoTypeGap
	}
	if other.Policy.CoTypeMinScore != 0 {
		c.Policy.CoTypeMinScore = other.Policy.CoTypeMinScore
	}
	if other.Policy.MaxCoTypes != 0 {
		c.Policy.MaxCoTypes = other.Policy.MaxCoTypes
	}
	if other.Policy.ShortTextLen != 0 {
		c.Policy.ShortTextLen = other.Policy.ShortTextLen
	}

	// Validator
	if len(other.Validator.Engine) > 0 {
		c.Validator.Engine = other.Validator.Engine
	}
}
