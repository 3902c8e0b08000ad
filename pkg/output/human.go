package output

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sdejongh/extsort/pkg/models"
)

// HumanFormatter prints one line per action and a summary when the run ends
type HumanFormatter struct {
	writer    io.Writer
	opts      Options
	startTime time.Time
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(opts Options) *HumanFormatter {
	return &HumanFormatter{opts: opts}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, op *models.OrganizeOperation) error {
	f.writer = writer
	f.startTime = time.Now()

	if writer != nil && !f.opts.Quiet {
		fmt.Fprintf(writer, "Recursively organizing files in: %s\n", op.BasePath)
	}

	return nil
}

// Progress reports one event
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case UpdateAction:
		if !f.opts.Quiet {
			fmt.Fprintln(f.writer, DescribeAction(update.Action))
		}

	case UpdateSkip:
		if f.opts.Verbose && !f.opts.Quiet {
			fmt.Fprintln(f.writer, DescribeAction(update.Action))
		}

	case UpdateDirectory:
		if f.opts.Verbose && !f.opts.Quiet {
			fmt.Fprintf(f.writer, "Scanning %s\n", update.Path)
		}

	case UpdateError:
		fmt.Fprintf(f.writer, "Error: %s: %v\n", update.Path, update.Error)
	}

	return nil
}

// Complete prints the summary line and, unless quiet, a statistics table
func (f *HumanFormatter) Complete(report *models.OrganizeReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	fmt.Fprintln(f.writer, SummaryLine(report))

	if f.opts.Quiet {
		return nil
	}

	fmt.Fprintln(f.writer)
	renderStats(f.writer, report)
	fmt.Fprintf(f.writer, "Completed in %s\n", report.Duration.Round(time.Millisecond))

	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	if f.writer != nil {
		fmt.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// renderStats writes the statistics table of a report
func renderStats(w io.Writer, report *models.OrganizeReport) {
	s := report.Stats

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Result", "Files", "Data"})
	t.AppendRows([]table.Row{
		{"Moved", s.FilesMoved, ""},
		{"Renamed and moved", s.FilesRenamed, ""},
		{"Quarantined", s.FilesQuarantined, ""},
		{"Duplicates removed", s.DuplicatesRemoved, ""},
		{"Quarantine duplicates removed", s.QuarantineDuplicatesRemoved, ""},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Relocated", s.FilesMoved + s.FilesRenamed + s.FilesQuarantined, formatBytes(s.BytesMoved)},
		{"Reclaimed", s.DuplicatesRemoved + s.QuarantineDuplicatesRemoved, formatBytes(s.BytesReclaimed)},
		{"Skipped", s.FilesSkipped, ""},
		{"Errors", s.FilesErrored, ""},
	})
	t.AppendFooter(table.Row{"Scanned", s.FilesScanned, fmt.Sprintf("%d dirs", s.DirsScanned)})
	t.Render()

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, e := range report.Errors {
			fmt.Fprintf(w, "  [%s] %s: %s\n", e.Kind, e.FilePath, e.Error)
		}
	}
}

// formatBytes formats bytes in human-readable IEC units
func formatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}
