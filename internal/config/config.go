// Package config loads and validates the YAML run configuration:
// storage backend, label horizon, rolling gap policy, and output
// destinations.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for one build run.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Storage StorageConfig `yaml:"storage"`
	Label   LabelConfig   `yaml:"label"`
	Rolling RollingConfig `yaml:"rolling"`
	Output  OutputConfig  `yaml:"output"`
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Name string `yaml:"name"`
	// LogLevel: debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// StorageConfig selects the event store backend.
type StorageConfig struct {
	// Backend: memory, postgres, clickhouse
	Backend string `yaml:"backend"`
	DSN     string `yaml:"dsn"`
	// Migrate applies embedded migrations on startup.
	Migrate bool `yaml:"migrate"`
}

// LabelConfig controls the forward-looking target.
type LabelConfig struct {
	HorizonSeconds int `yaml:"horizon_seconds"`
}

// RollingConfig controls how rolling state treats calendar gaps.
type RollingConfig struct {
	// ResetOnGap clears per-symbol windows when consecutive buckets are
	// further apart than MaxGapMinutes. Off means gaps are invisible to
	// the windows.
	ResetOnGap    bool `yaml:"reset_on_gap"`
	MaxGapMinutes int  `yaml:"max_gap_minutes"`
}

// OutputConfig names the artifacts of a run.
type OutputConfig struct {
	Dir string `yaml:"dir"`
	// Format: csv, parquet, or both
	Format string `yaml:"format"`
	// MatrixName is the matrix file name without extension.
	MatrixName string `yaml:"matrix_name"`
	SchemaName string `yaml:"schema_name"`
}

// Load reads, defaults, and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.App.Name == "" {
		c.App.Name = "lobx-feature-lab"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "postgres"
	}
	if c.Label.HorizonSeconds == 0 {
		c.Label.HorizonSeconds = 30
	}
	if c.Rolling.MaxGapMinutes == 0 {
		c.Rolling.MaxGapMinutes = 5
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./output"
	}
	if c.Output.Format == "" {
		c.Output.Format = "both"
	}
	if c.Output.MatrixName == "" {
		c.Output.MatrixName = "features"
	}
	if c.Output.SchemaName == "" {
		c.Output.SchemaName = "schema.json"
	}
}

// Validate checks all value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []string

	switch c.Storage.Backend {
	case "memory", "postgres", "clickhouse":
	default:
		errs = append(errs, fmt.Sprintf("storage.backend: unknown backend %q, valid: memory, postgres, clickhouse", c.Storage.Backend))
	}
	if c.Storage.Backend != "memory" && c.Storage.DSN == "" {
		errs = append(errs, fmt.Sprintf("storage.dsn: required for backend %q", c.Storage.Backend))
	}

	if c.Label.HorizonSeconds <= 0 {
		errs = append(errs, "label.horizon_seconds: must be positive")
	}

	if c.Rolling.ResetOnGap && c.Rolling.MaxGapMinutes <= 0 {
		errs = append(errs, "rolling.max_gap_minutes: must be positive when reset_on_gap is enabled")
	}

	switch c.Output.Format {
	case "csv", "parquet", "both":
	default:
		errs = append(errs, fmt.Sprintf("output.format: unknown format %q, valid: csv, parquet, both", c.Output.Format))
	}

	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("app.log_level: invalid level %q, valid: debug, info, warn, error", c.App.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
