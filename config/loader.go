package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "folkgraph.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/folkgraph"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Environment overrides, applied after all file layers. The per-command
// output overrides (CORPUS_VOLUMES_TTL, CORPUS_CORPUS_TTL) stay with the
// commands that own those artifacts.
var envOverrides = []struct {
	name  string
	apply func(*Config, string)
}{
	{"FOLKGRAPH_LOG_LEVEL", func(c *Config, v string) { c.LogLevel = v }},
	{"CORPUS_CANONICAL_CSV", func(c *Config, v string) { c.Paths.CanonicalCSV = v }},
	{"VOLUME_KIVIKE_MAP_CSV", func(c *Config, v string) { c.Paths.MappingCSV = v }},
	{"ATU_REFERENCE_CSV", func(c *Config, v string) { c.Paths.ATUReference = v }},
	{"FOLKGRAPH_OUT_DIR", func(c *Config, v string) { c.Paths.OutDir = v }},
	{"FOLKGRAPH_RUNS_DIR", func(c *Config, v string) { c.Paths.RunsDir = v }},
}

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/folkgraph/config.yaml)
// 3. Project config (folkgraph.yaml in current or parent directories)
// 4. Environment variables
func (l *Loader) Load() (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// Load user config
	userConfigPath := l.userConfigPath()
	if userConfig, err := loadLayer(userConfigPath); err == nil {
		l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
		config.Merge(userConfig)
	} else if !errors.Is(err, os.ErrNotExist) {
		l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
	}

	// Load project config
	projectConfigPath := l.findProjectConfig()
	if projectConfigPath != "" {
		if projectConfig, err := loadLayer(projectConfigPath); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	applyEnv(config)

	// Validate final config
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadPath loads one explicit config file over the defaults, skipping
// the user and project layers. An empty path falls back to Load. The
// environment still overrides.
func (l *Loader) LoadPath(path string) (*Config, error) {
	if path == "" {
		return l.Load()
	}

	config := DefaultConfig()
	layer, err := loadLayer(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	config.Merge(layer)
	l.logger.Debug("Loaded config", slog.String("path", path))

	applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() error {
	userConfigPath := l.userConfigPath()

	// Check if it already exists
	if _, err := os.Stat(userConfigPath); err == nil {
		return nil // Already exists
	}

	// Create default config
	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return nil
}

// loadLayer parses one file into a bare config so that merging it over
// lower layers only touches the fields the file actually sets.
func loadLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

func applyEnv(c *Config) {
	for _, o := range envOverrides {
		if v := os.Getenv(o.name); v != "" {
			o.apply(c, v)
		}
	}
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for folkgraph.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}
