package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/extsort/internal/platform"
	"github.com/sdejongh/extsort/pkg/config"
	"github.com/sdejongh/extsort/pkg/models"
)

// validateOrganizeFlags validates the organize command flags
func validateOrganizeFlags() error {
	if globalFlags.Verbose && globalFlags.Quiet {
		return fmt.Errorf("--verbose and --quiet cannot be used together")
	}

	if organizeFlags.Hash != "" && !models.HashAlgorithm(organizeFlags.Hash).Valid() {
		return fmt.Errorf("invalid hash algorithm: %s (valid: sha256, sha1, md5)", organizeFlags.Hash)
	}

	validOutputs := map[string]bool{
		"":      true,
		"human": true,
		"json":  true,
	}
	if !validOutputs[organizeFlags.Output] {
		return fmt.Errorf("invalid output format: %s (valid: human, json)", organizeFlags.Output)
	}

	validReportFormats := map[string]bool{
		"human": true,
		"json":  true,
	}
	if !validReportFormats[organizeFlags.ReportFormat] {
		return fmt.Errorf("invalid report format: %s (valid: human, json)", organizeFlags.ReportFormat)
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with the flags that were set
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("hash") {
		cfg.Organize.Hash = models.HashAlgorithm(organizeFlags.Hash)
	}

	if flags.Changed("exclude") {
		cfg.Organize.Exclude = organizeFlags.Exclude
	}

	if flags.Changed("io-limit") {
		cfg.Performance.IOLimit = organizeFlags.IOLimit
	}

	if flags.Changed("output") {
		cfg.Output.Format = organizeFlags.Output
	}

	if flags.Changed("progress") {
		cfg.Output.Progress = organizeFlags.Progress
	}

	if flags.Changed("log-file") {
		cfg.Logging.File = organizeFlags.LogFile
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = organizeFlags.LogFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = organizeFlags.LogLevel
	}

	// Quiet mode has no bar and no per-file lines
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// createOrganizeOperation creates an organize operation from configuration
func createOrganizeOperation(cfg *config.Config, basePath string) (*models.OrganizeOperation, error) {
	base, err := platform.ResolveBase(basePath)
	if err != nil {
		return nil, err
	}

	operation := &models.OrganizeOperation{
		ID:              uuid.New().String(),
		BasePath:        base,
		HashAlgorithm:   cfg.Organize.Hash,
		ExcludePatterns: cfg.Organize.Exclude,
		IOLimit:         cfg.IOLimitBytes(),
		BufferSize:      cfg.Performance.BufferSize,
		CreatedAt:       time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}
