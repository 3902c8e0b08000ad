package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/sdejongh/extsort/pkg/models"
)

const (
	progressTemplate = `{{string . "phase"}} {{counters .}} files {{string . "organized"}} {{etime .}} {{string . "current"}}`
	defaultTermWidth = 120
)

// getRefreshRate returns the bar refresh interval based on OS.
// Windows terminals have higher latency with ANSI sequences.
func getRefreshRate() time.Duration {
	if runtime.GOOS == "windows" {
		return 300 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// terminalWidth returns the width of w, or a default when it is not a terminal
func terminalWidth(w io.Writer) int {
	if file, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}

// ProgressFormatter shows a live counter on the bar writer (stderr) while the
// per-file lines go to the main writer. When both are the same terminal the
// lines are held back until the bar is finished so they do not tear it.
type ProgressFormatter struct {
	mu sync.Mutex

	writer    io.Writer
	barWriter io.Writer
	opts      Options

	bar       *pb.ProgressBar
	termWidth int
	buffered  bool
	pending   bytes.Buffer

	filesSeen int
	organized int
}

// NewProgressFormatter creates a new progress bar formatter. barWriter is
// normally os.Stderr; no bar is drawn when it is not a terminal.
func NewProgressFormatter(opts Options, barWriter io.Writer) *ProgressFormatter {
	if barWriter == nil {
		barWriter = os.Stderr
	}
	return &ProgressFormatter{opts: opts, barWriter: barWriter}
}

// Start initializes the formatter
func (f *ProgressFormatter) Start(writer io.Writer, op *models.OrganizeOperation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.filesSeen = 0
	f.organized = 0

	if !f.opts.Quiet {
		fmt.Fprintf(writer, "Recursively organizing files in: %s\n", op.BasePath)
	}

	if !IsTerminal(f.barWriter) {
		return nil
	}

	f.termWidth = terminalWidth(f.barWriter)
	f.buffered = IsTerminal(writer)

	f.bar = pb.ProgressBarTemplate(progressTemplate).New(0)
	f.bar.SetWriter(f.barWriter)
	f.bar.SetWidth(f.termWidth)
	f.bar.SetRefreshRate(getRefreshRate())
	f.bar.Set("phase", "Scanning")
	f.bar.Set("organized", "")
	f.bar.Set("current", "")
	f.bar.Start()

	return nil
}

// Progress reports one event
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if update.FilesSeen > f.filesSeen {
		f.filesSeen = update.FilesSeen
	}

	switch update.Type {
	case UpdateDirectory:
		f.setCurrent(update.Path)
		if f.opts.Verbose && !f.opts.Quiet {
			f.println(fmt.Sprintf("Scanning %s", update.Path))
		}

	case UpdateAction:
		f.organized++
		f.setCurrent(update.Path)
		if !f.opts.Quiet {
			f.println(DescribeAction(update.Action))
		}

	case UpdateSkip:
		if f.opts.Verbose && !f.opts.Quiet {
			f.println(DescribeAction(update.Action))
		}

	case UpdateError:
		f.println(fmt.Sprintf("Error: %s: %v", update.Path, update.Error))
	}

	if f.bar != nil {
		f.bar.SetCurrent(int64(f.filesSeen))
		f.bar.Set("organized", fmt.Sprintf("(%d organized)", f.organized))
	}

	return nil
}

// Complete stops the bar, flushes held lines and prints the summary
func (f *ProgressFormatter) Complete(report *models.OrganizeReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopBar()

	if f.writer == nil {
		f.writer = io.Discard
	}

	fmt.Fprintln(f.writer, SummaryLine(report))
	if !f.opts.Quiet {
		fmt.Fprintln(f.writer)
		renderStats(f.writer, report)
		fmt.Fprintf(f.writer, "Completed in %s\n", report.Duration.Round(time.Millisecond))
	}

	return nil
}

// Error reports an error
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopBar()
	if f.writer != nil {
		fmt.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

func (f *ProgressFormatter) println(line string) {
	if f.writer == nil {
		return
	}
	if f.buffered && f.bar != nil {
		f.pending.WriteString(line)
		f.pending.WriteByte('\n')
		return
	}
	fmt.Fprintln(f.writer, line)
}

func (f *ProgressFormatter) setCurrent(path string) {
	if f.bar == nil {
		return
	}
	f.bar.Set("current", f.truncate(path))
}

// truncate keeps the tail of a path so the bar never wraps
func (f *ProgressFormatter) truncate(path string) string {
	maxLen := f.termWidth / 2
	if maxLen < 10 || len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

func (f *ProgressFormatter) stopBar() {
	if f.bar != nil {
		f.bar.Set("phase", "Done")
		f.bar.Set("current", "")
		f.bar.Finish()
		f.bar = nil
	}
	if f.pending.Len() > 0 && f.writer != nil {
		f.writer.Write(f.pending.Bytes())
		f.pending.Reset()
	}
}
