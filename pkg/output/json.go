package output

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sdejongh/extsort/pkg/models"
)

// JSONFormatter writes one JSON object per line (NDJSON) for automation and scripting
type JSONFormatter struct {
	mu      sync.Mutex
	writer  io.Writer
	encoder *json.Encoder
	opts    Options
}

// JSONEvent represents a single event in the JSON output stream
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
}

// JSONStartData represents the data for a start event
type JSONStartData struct {
	OperationID   string   `json:"operation_id"`
	BasePath      string   `json:"base_path"`
	HashAlgorithm string   `json:"hash_algorithm"`
	Exclude       []string `json:"exclude,omitempty"`
}

// JSONActionData represents one processed file
type JSONActionData struct {
	Action      string `json:"action"`
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	DuplicateOf string `json:"duplicate_of,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Size        int64  `json:"size"`
	Error       string `json:"error,omitempty"`
	Message     string `json:"message"`
}

// JSONReportData represents the final report data
type JSONReportData struct {
	OperationID string          `json:"operation_id"`
	BasePath    string          `json:"base_path"`
	Status      string          `json:"status"`
	Duration    string          `json:"duration"`
	DurationMs  int64           `json:"duration_ms"`
	Stats       JSONStatsData   `json:"stats"`
	Errors      []JSONErrorData `json:"errors,omitempty"`
	Summary     string          `json:"summary"`
}

// JSONStatsData represents statistics in JSON format
type JSONStatsData struct {
	DirsScanned                 int   `json:"dirs_scanned"`
	DirsExcluded                int   `json:"dirs_excluded"`
	DirsCreated                 int   `json:"dirs_created"`
	FilesScanned                int   `json:"files_scanned"`
	FilesHashed                 int   `json:"files_hashed"`
	FilesMoved                  int   `json:"files_moved"`
	FilesRenamed                int   `json:"files_renamed"`
	FilesQuarantined            int   `json:"files_quarantined"`
	DuplicatesRemoved           int   `json:"duplicates_removed"`
	QuarantineDuplicatesRemoved int   `json:"quarantine_duplicates_removed"`
	FilesSkipped                int   `json:"files_skipped"`
	FilesErrored                int   `json:"files_errored"`
	BytesMoved                  int64 `json:"bytes_moved"`
	BytesReclaimed              int64 `json:"bytes_reclaimed"`
}

// JSONErrorData represents an error entry
type JSONErrorData struct {
	Path  string `json:"path"`
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts Options) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Start initializes the formatter and emits the start event
func (f *JSONFormatter) Start(writer io.Writer, op *models.OrganizeOperation) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.encoder = json.NewEncoder(writer)

	return f.emit("start", JSONStartData{
		OperationID:   op.ID,
		BasePath:      op.BasePath,
		HashAlgorithm: string(op.HashAlgorithm),
		Exclude:       op.ExcludePatterns,
	})
}

// Progress emits action, skip and error events
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	switch update.Type {
	case UpdateAction:
		if f.opts.Quiet {
			return nil
		}
		return f.emit("action", actionData(update.Action))

	case UpdateSkip:
		if !f.opts.Verbose || f.opts.Quiet {
			return nil
		}
		return f.emit("skip", actionData(update.Action))

	case UpdateError:
		data := JSONErrorData{Path: update.Path}
		if update.Error != nil {
			data.Error = update.Error.Error()
		}
		return f.emit("error", data)
	}

	return nil
}

// Complete emits the summary event
func (f *JSONFormatter) Complete(report *models.OrganizeReport) error {
	return f.emit("summary", NewJSONReport(report))
}

// Error emits an error event
func (f *JSONFormatter) Error(err error) error {
	return f.emit("error", JSONErrorData{Error: err.Error()})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) emit(eventType string, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.encoder == nil {
		f.writer = os.Stdout
		f.encoder = json.NewEncoder(f.writer)
	}

	return f.encoder.Encode(JSONEvent{
		Timestamp: time.Now(),
		Type:      eventType,
		Data:      data,
	})
}

func actionData(fa *models.FileAction) JSONActionData {
	data := JSONActionData{
		Action:      string(fa.Action),
		Source:      fa.SourcePath(),
		Destination: fa.Destination,
		DuplicateOf: fa.DuplicateOf,
		Reason:      fa.Reason,
		Message:     DescribeAction(fa),
	}
	if fa.Entry != nil {
		data.Size = fa.Entry.Size
	}
	if fa.Error != nil {
		data.Error = fa.Error.Error()
	}
	return data
}

// NewJSONReport converts a report into its JSON representation
func NewJSONReport(report *models.OrganizeReport) JSONReportData {
	s := report.Stats

	var errs []JSONErrorData
	for _, e := range report.Errors {
		errs = append(errs, JSONErrorData{
			Path:  e.FilePath,
			Kind:  string(e.Kind),
			Error: e.Error,
		})
	}

	return JSONReportData{
		OperationID: report.OperationID,
		BasePath:    report.BasePath,
		Status:      string(report.Status),
		Duration:    report.Duration.Round(time.Millisecond).String(),
		DurationMs:  report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			DirsScanned:                 s.DirsScanned,
			DirsExcluded:                s.DirsExcluded,
			DirsCreated:                 s.DirsCreated,
			FilesScanned:                s.FilesScanned,
			FilesHashed:                 s.FilesHashed,
			FilesMoved:                  s.FilesMoved,
			FilesRenamed:                s.FilesRenamed,
			FilesQuarantined:            s.FilesQuarantined,
			DuplicatesRemoved:           s.DuplicatesRemoved,
			QuarantineDuplicatesRemoved: s.QuarantineDuplicatesRemoved,
			FilesSkipped:                s.FilesSkipped,
			FilesErrored:                s.FilesErrored,
			BytesMoved:                  s.BytesMoved,
			BytesReclaimed:              s.BytesReclaimed,
		},
		Errors:  errs,
		Summary: SummaryLine(report),
	}
}
