package organize

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sdejongh/extsort/pkg/compare"
	"github.com/sdejongh/extsort/pkg/logging"
	"github.com/sdejongh/extsort/pkg/models"
	"github.com/sdejongh/extsort/pkg/output"
	"github.com/sdejongh/extsort/pkg/storage"
)

// Engine walks a base directory and routes every qualifying file into its
// extension bucket. Files are handled strictly one at a time.
type Engine struct {
	backend   storage.Backend
	hasher    *compare.Hasher
	formatter output.Formatter
	logger    logging.Logger
	operation *models.OrganizeOperation
	out       io.Writer

	exclude   *excludeSet
	hashFn    models.HashFunc
	report    *models.OrganizeReport
	filesSeen int
}

// NewEngine creates a new organize engine
func NewEngine(
	backend storage.Backend,
	hasher *compare.Hasher,
	formatter output.Formatter,
	logger logging.Logger,
	operation *models.OrganizeOperation,
) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Engine{
		backend:   backend,
		hasher:    hasher,
		formatter: formatter,
		logger:    logger,
		operation: operation,
		out:       os.Stdout,
		exclude:   newExcludeSet(operation.ExcludePatterns),
		hashFn:    hasher.Func(backend),
	}
}

// SetOutput redirects the formatter output (stdout by default)
func (e *Engine) SetOutput(w io.Writer) {
	e.out = w
}

// Run organizes the tree under the backend root. Per-file failures are
// collected in the report; only a base directory that cannot be listed
// is returned as an error. Cancelling ctx stops the run between files.
func (e *Engine) Run(ctx context.Context) (*models.OrganizeReport, error) {
	if err := e.operation.Validate(); err != nil {
		return nil, fmt.Errorf("invalid operation: %w", err)
	}

	e.filesSeen = 0
	e.report = &models.OrganizeReport{
		OperationID:   e.operation.ID,
		BasePath:      e.backend.Root(),
		HashAlgorithm: e.operation.HashAlgorithm,
		StartTime:     time.Now(),
		Actions:       make([]models.FileAction, 0),
		Errors:        make([]models.OrganizeError, 0),
	}
	report := e.report

	e.logger = e.logger.WithFields(logging.Fields{"run_id": e.operation.ID})
	e.logger.Info(ctx, "Starting organize operation", logging.Fields{
		"base":    report.BasePath,
		"hash":    e.hasher.Name(),
		"exclude": e.operation.ExcludePatterns,
	})

	if err := e.formatter.Start(e.out, e.operation); err != nil {
		return nil, fmt.Errorf("failed to start output: %w", err)
	}

	hashedBefore := e.hasher.Count()
	walkErr := e.walk(ctx)
	report.Stats.FilesHashed = e.hasher.Count() - hashedBefore

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	switch {
	case walkErr != nil:
		report.Status = models.StatusFailed
	case ctx.Err() != nil:
		report.Status = models.StatusCancelled
	case len(report.Errors) > 0:
		report.Status = models.StatusPartial
	default:
		report.Status = models.StatusSuccess
	}

	if walkErr != nil {
		e.logger.Error(ctx, "Organize operation failed", walkErr, nil)
		e.formatter.Error(walkErr)
		return report, walkErr
	}

	e.formatter.Complete(report)

	e.logger.Info(ctx, "Organize operation completed", logging.Fields{
		"status":             report.Status,
		"duration_ms":        report.Duration.Milliseconds(),
		"files_scanned":      report.Stats.FilesScanned,
		"organized":          report.Stats.Organized(),
		"duplicates_removed": report.Stats.DuplicatesRemoved + report.Stats.QuarantineDuplicatesRemoved,
		"errors":             len(report.Errors),
	})

	return report, nil
}
