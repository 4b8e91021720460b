// Package config provides configuration loading for the XBRL server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/warp/xbrl-engine/solar"
)

// Config represents the complete configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Validation ValidationConfig `yaml:"validation"`
	Mapping    MappingConfig    `yaml:"mapping"`
	Report     ReportConfig     `yaml:"report"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port           int           `yaml:"port"`
	DBPath         string        `yaml:"db_path"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

// LogConfig configures zap
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
	// Development switches to the human-readable console encoder
	Development bool `yaml:"development"`
}

// ValidationConfig configures the external validator (empty endpoint = disabled)
type ValidationConfig struct {
	// Endpoint is the validation URL prefix; the document name is appended
	Endpoint string `yaml:"endpoint"`
	// DropDir is where documents are copied for the validator to read
	DropDir string        `yaml:"drop_dir"`
	Timeout time.Duration `yaml:"timeout"`
	// SweepInterval re-validates unvalidated documents in the background (0 = off)
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// MappingConfig points at optional YAML mapping tables (empty = built-in)
type MappingConfig struct {
	ConceptsFile string `yaml:"concepts_file"`
	UnitsFile    string `yaml:"units_file"`
}

// ReportConfig holds report defaults
type ReportConfig struct {
	Entity   string `yaml:"entity"`
	Taxonomy string `yaml:"taxonomy"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			DBPath:         "./xbrl.db",
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Validation: ValidationConfig{
			Timeout: 30 * time.Second,
		},
		Report: ReportConfig{
			Entity:   "A Company",
			Taxonomy: solar.TaxonomyName,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.DBPath == "" {
		return fmt.Errorf("server.db_path is required")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Validation.Endpoint != "" && c.Validation.DropDir == "" {
		return fmt.Errorf("validation.drop_dir is required when validation.endpoint is set")
	}
	if c.Validation.Timeout < 0 {
		return fmt.Errorf("validation.timeout must not be negative")
	}
	if c.Validation.SweepInterval < 0 {
		return fmt.Errorf("validation.sweep_interval must not be negative")
	}
	if c.Report.Entity == "" {
		return fmt.Errorf("report.entity is required")
	}
	return nil
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

	// Server
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.DBPath != "" {
		c.Server.DBPath = other.Server.DBPath
	}
	if len(other.Server.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = other.Server.AllowedOrigins
	}
	if other.Server.ReadTimeout != 0 {
		c.Server.ReadTimeout = other.Server.ReadTimeout
	}
	if other.Server.WriteTimeout != 0 {
		c.Server.WriteTimeout = other.Server.WriteTimeout
	}
	if other.Server.IdleTimeout != 0 {
		c.Server.IdleTimeout = other.Server.IdleTimeout
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Development {
		c.Log.Development = true
	}

	// Validation
	if other.Validation.Endpoint != "" {
		c.Validation.Endpoint = other.Validation.Endpoint
	}
	if other.Validation.DropDir != "" {
		c.Validation.DropDir = other.Validation.DropDir
	}
	if other.Validation.Timeout != 0 {
		c.Validation.Timeout = other.Validation.Timeout
	}
	if other.Validation.SweepInterval != 0 {
		c.Validation.SweepInterval = other.Validation.SweepInterval
	}

	// Mapping
	if other.Mapping.ConceptsFile != "" {
		c.Mapping.ConceptsFile = other.Mapping.ConceptsFile
	}
	if other.Mapping.UnitsFile != "" {
		c.Mapping.UnitsFile = other.Mapping.UnitsFile
	}

	// Report
	if other.Report.Entity != "" {
		c.Report.Entity = other.Report.Entity
	}
	if other.Report.Taxonomy != "" {
		c.Report.Taxonomy = other.Report.Taxonomy
	}
}

// =============================================================================
// DERIVED OBJECTS
// =============================================================================

// NewLogger builds a zap logger for this configuration.
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if c.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	if c.Level != "" {
		level, err := zap.ParseAtomicLevel(c.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to parse log level: %w", err)
		}
		cfg.Level = level
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Tables loads the mapping tables, falling back to the built-in defaults.
// Duplicate keys in either file are logged as warnings.
func (c MappingConfig) Tables(logger *zap.Logger) (solar.ConceptMap, solar.UnitMap, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	concepts := solar.DefaultConceptMap()
	if c.ConceptsFile != "" {
		m, dups, err := solar.LoadConceptMapFile(c.ConceptsFile)
		if err != nil {
			return nil, nil, err
		}
		warnDuplicates(logger, c.ConceptsFile, dups)
		concepts = m
	}

	units := solar.DefaultUnitMap()
	if c.UnitsFile != "" {
		m, dups, err := solar.LoadUnitMapFile(c.UnitsFile)
		if err != nil {
			return nil, nil, err
		}
		warnDuplicates(logger, c.UnitsFile, dups)
		units = m
	}

	for concept, fields := range concepts.Collisions() {
		logger.Debug("fields share a concept", zap.String("concept", concept), zap.Strings("fields", fields))
	}
	return concepts, units, nil
}

func warnDuplicates(logger *zap.Logger, file string, dups []solar.Duplicate) {
	for _, d := range dups {
		logger.Warn("duplicate mapping key",
			zap.String("file", file),
			zap.String("key", d.Key),
			zap.Int("line", d.Line),
			zap.String("previous", d.Previous),
			zap.String("value", d.Value))
	}
}
