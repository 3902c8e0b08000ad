package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sdejongh/extsort/pkg/models"
)

// UpdateType identifies a progress notification
type UpdateType string

const (
	// UpdateDirectory is sent when a directory is entered
	UpdateDirectory UpdateType = "directory"
	// UpdateAction is sent after a terminal action on a file
	UpdateAction UpdateType = "action"
	// UpdateSkip is sent for files left in place on purpose
	UpdateSkip UpdateType = "skip"
	// UpdateError is sent when a file or directory could not be processed
	UpdateError UpdateType = "error"
)

// ProgressUpdate represents a progress notification during an organize run
type ProgressUpdate struct {
	Type      UpdateType
	Path      string // absolute path of the file or directory
	Action    *models.FileAction
	FilesSeen int
	Error     error
}

// Formatter defines the interface for output formatting.
// Implementations include human-readable, JSON and progress-bar formatters.
type Formatter interface {
	// Start initializes the formatter for a new run
	Start(writer io.Writer, op *models.OrganizeOperation) error

	// Progress reports one event during the run
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays the summary
	Complete(report *models.OrganizeReport) error

	// Error reports an error that is not tied to a single file
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// Options tunes what the formatters print
type Options struct {
	Verbose bool // also print skipped files and directories
	Quiet   bool // only errors and the summary line
}

// DescribeAction renders the progress line for one terminal action
func DescribeAction(fa *models.FileAction) string {
	src := fa.SourcePath()
	switch fa.Action {
	case models.ActionMoved:
		return fmt.Sprintf("Moved: %s -> %s", src, fa.Destination)
	case models.ActionRenamed:
		return fmt.Sprintf("Different size, renamed and moved: %s -> %s", src, fa.Destination)
	case models.ActionDuplicateRemoved:
		return fmt.Sprintf("Exact duplicate removed: %s (same as %s)", src, fa.DuplicateOf)
	case models.ActionQuarantined:
		return fmt.Sprintf("Different content, moved to %s: %s -> %s", quarantineLabel(fa.Destination), src, fa.Destination)
	case models.ActionQuarantineDuplicateRemoved:
		return fmt.Sprintf("Duplicate found in %s, removed: %s (same as %s)", quarantineLabel(fa.DuplicateOf), src, fa.DuplicateOf)
	case models.ActionSkip:
		return fmt.Sprintf("Skipped: %s (%s)", src, fa.Reason)
	case models.ActionError:
		return fmt.Sprintf("Failed: %s: %v", src, fa.Error)
	default:
		return fmt.Sprintf("%s: %s", fa.Action, src)
	}
}

// SummaryLine renders the one-line summary emitted when a run completes
func SummaryLine(report *models.OrganizeReport) string {
	s := report.Stats
	var b strings.Builder
	fmt.Fprintf(&b, "Done organizing %s: %d organized (%d moved, %d renamed, %d quarantined, %d duplicates removed)",
		report.BasePath, s.Organized(), s.FilesMoved, s.FilesRenamed, s.FilesQuarantined,
		s.DuplicatesRemoved+s.QuarantineDuplicatesRemoved)
	fmt.Fprintf(&b, ", %d skipped, %d errors [%s]", s.FilesSkipped, s.FilesErrored, report.Status)
	return b.String()
}

// quarantineLabel returns the "Extension_EXISTING" component of a quarantine path
func quarantineLabel(path string) string {
	return filepath.Base(filepath.Dir(filepath.Dir(path)))
}
