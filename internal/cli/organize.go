package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sdejongh/extsort/pkg/compare"
	"github.com/sdejongh/extsort/pkg/config"
	"github.com/sdejongh/extsort/pkg/logging"
	"github.com/sdejongh/extsort/pkg/models"
	"github.com/sdejongh/extsort/pkg/organize"
	"github.com/sdejongh/extsort/pkg/output"
	"github.com/sdejongh/extsort/pkg/ratelimit"
	"github.com/sdejongh/extsort/pkg/storage"
)

// OrganizeFlags holds organize command flags
type OrganizeFlags struct {
	Hash         string
	Exclude      []string
	IOLimit      string
	Output       string
	Progress     bool
	Report       string
	ReportFormat string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var organizeFlags OrganizeFlags

// NewOrganizeCommand creates the organize command
func NewOrganizeCommand() *cobra.Command {
	organizeFlags = OrganizeFlags{}

	cmd := &cobra.Command{
		Use:   "organize [path]",
		Short: "Sort files into Extension_<EXT> folders",
		Long: `Recursively move every file under path (default: current directory) into
Extension_<EXT> folders at the top of path.

A file whose name is already taken in its folder is renamed when the sizes
differ, removed when the content is identical, and moved to
Extension_EXISTING/Extension_<EXT> otherwise. Hidden files, files without an
extension and existing Extension_* folders are left alone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runOrganize,
	}

	cmd.Flags().StringVar(&organizeFlags.Hash, "hash", "", "content digest: sha256, sha1, md5 (default from config: sha256)")
	cmd.Flags().StringSliceVar(&organizeFlags.Exclude, "exclude", []string{}, "glob patterns to leave untouched")
	cmd.Flags().StringVar(&organizeFlags.IOLimit, "io-limit", "", "read limit for hashing and copies (e.g., \"10M\", \"1G\")")
	cmd.Flags().StringVarP(&organizeFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().BoolVar(&organizeFlags.Progress, "progress", false, "show a progress bar on stderr")
	cmd.Flags().StringVar(&organizeFlags.Report, "report", "", "write a run report to file")
	cmd.Flags().StringVar(&organizeFlags.ReportFormat, "report-format", "human", "run report format: human, json")

	// Logging flags
	cmd.Flags().StringVar(&organizeFlags.LogFile, "log-file", "", "write logs to file (\"-\" for stderr)")
	cmd.Flags().StringVar(&organizeFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&organizeFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func runOrganize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	basePath := "."
	if len(args) == 1 {
		basePath = args[0]
	}

	// Validate flags
	if err := validateOrganizeFlags(); err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	applyFlagsToConfig(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create organize operation
	operation, err := createOrganizeOperation(cfg, basePath)
	if err != nil {
		return &ExitError{Code: models.StatusFailed.ExitCode(), Err: err}
	}

	// Create storage backend
	backend, err := storage.NewLocal(operation.BasePath)
	if err != nil {
		return &ExitError{Code: models.StatusFailed.ExitCode(), Err: fmt.Errorf("invalid base directory: %w", err)}
	}
	defer backend.Close()
	backend.SetReadLimiter(ratelimit.NewLimiter(operation.IOLimit))

	// Create hasher
	hasher, err := compare.NewHasher(operation.HashAlgorithm, operation.BufferSize)
	if err != nil {
		return fmt.Errorf("failed to create hasher: %w", err)
	}

	formatter := createFormatter(cfg, cmd.ErrOrStderr())

	// Create logger
	logger, err := createLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	engine := organize.NewEngine(backend, hasher, formatter, logger, operation)
	engine.SetOutput(cmd.OutOrStdout())

	report, err := engine.Run(ctx)
	if err != nil {
		// The formatter has already printed the error
		return &ExitError{Code: models.StatusFailed.ExitCode()}
	}

	if organizeFlags.Report != "" {
		if err := output.WriteRunReport(report, organizeFlags.Report, organizeFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write run report: %w", err)
		}
	}

	if code := report.Status.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// createFormatter picks the output formatter from the effective configuration
func createFormatter(cfg *config.Config, stderr io.Writer) output.Formatter {
	opts := output.Options{
		Verbose: globalFlags.Verbose,
		Quiet:   cfg.Output.Quiet,
	}

	switch cfg.Output.Format {
	case "json":
		return output.NewJSONFormatter(opts)
	default:
		if cfg.Output.Progress {
			return output.NewProgressFormatter(opts, stderr)
		}
		return output.NewHumanFormatter(opts)
	}
}

// createLogger creates a logger based on configuration
func createLogger(cfg config.LoggingConfig, stderr io.Writer) (logging.Logger, error) {
	format := logging.ParseFormat(cfg.Format)
	level := logging.ParseLevel(cfg.Level)

	switch cfg.File {
	case "":
		return logging.NewNullLogger(), nil
	case "-":
		return logging.NewStreamLogger(stderr, format, level), nil
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.File,
		Format:     format,
		Level:      level,
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
}
