package config

import (
	"github.com/sdejongh/extsort/pkg/models"
	"github.com/sdejongh/extsort/pkg/ratelimit"
)

// Config represents the application configuration
type Config struct {
	Organize    OrganizeConfig    `yaml:"organize"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// OrganizeConfig holds the organizer settings
type OrganizeConfig struct {
	Hash    models.HashAlgorithm `yaml:"hash"`
	Exclude []string             `yaml:"exclude"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize int    `yaml:"buffer_size"`
	IOLimit    string `yaml:"io_limit"` // e.g. "10M"; empty or "0" = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show a progress bar on stderr
	Quiet    bool   `yaml:"quiet"`    // Suppress per-file lines
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	File   string `yaml:"file"`   // Log file path (empty = disabled, "-" = stderr)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Organize: OrganizeConfig{
			Hash:    models.HashSHA256,
			Exclude: []string{},
		},
		Performance: PerformanceConfig{
			BufferSize: 65536,
			IOLimit:    "",
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: false,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
			File:   "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.Organize.Hash.Valid() {
		return &models.ValidationError{
			Field:   "organize.hash",
			Message: "must be 'sha256', 'sha1' or 'md5'",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if _, err := ratelimit.ParseLimit(c.Performance.IOLimit); err != nil {
		return &models.ValidationError{
			Field:   "performance.io_limit",
			Message: err.Error(),
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}

// IOLimitBytes returns the read limit in bytes per second (0 = unlimited).
// Call Validate first; an unparsable value yields 0.
func (c *Config) IOLimitBytes() int64 {
	n, err := ratelimit.ParseLimit(c.Performance.IOLimit)
	if err != nil {
		return 0
	}
	return n
}
