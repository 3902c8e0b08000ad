package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestFileLogger(t *testing.T, format Format, level Level) (*FileLogger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "nested", "extsort.log")
	logger, err := NewFileLogger(FileLoggerConfig{
		Path:   logPath,
		Format: format,
		Level:  level,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	return logger, logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestNewFileLogger_CreatesDirectory(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatText, InfoLevel)
	defer logger.Close()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestFileLogger_LogLevels(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatText, InfoLevel)
	ctx := context.Background()

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", nil, nil)
	logger.Close()

	content := readLog(t, logPath)
	if strings.Contains(content, "debug message") {
		t.Error("Debug message should be filtered at INFO level")
	}
	for _, want := range []string{"info message", "warn message", "error message"} {
		if !strings.Contains(content, want) {
			t.Errorf("log should contain %q", want)
		}
	}
}

func TestFileLogger_TextFormat(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatText, DebugLevel)
	ctx := context.Background()

	logger.Info(ctx, "file moved", Fields{"path": "a.txt", "action": "moved"})
	logger.Close()

	content := readLog(t, logPath)
	if !strings.Contains(content, "[INFO] file moved") {
		t.Errorf("log should contain level and message, got %q", content)
	}
	// Keys are sorted
	if !strings.Contains(content, "action=moved path=a.txt") {
		t.Errorf("log should contain sorted fields, got %q", content)
	}
}

func TestFileLogger_JSONFormat(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatJSON, InfoLevel)
	ctx := context.Background()

	logger.Error(ctx, "delete failed", errors.New("permission denied"), Fields{"path": "a.txt"})
	logger.Close()

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(readLog(t, logPath)), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	checks := map[string]interface{}{
		"level":   "ERROR",
		"message": "delete failed",
		"error":   "permission denied",
		"path":    "a.txt",
	}
	for k, want := range checks {
		if entry[k] != want {
			t.Errorf("%s = %v, want %v", k, entry[k], want)
		}
	}
	if entry["timestamp"] == nil {
		t.Error("timestamp should be present")
	}
}

func TestFileLogger_WithFields(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatJSON, InfoLevel)
	ctx := context.Background()

	child := logger.WithFields(Fields{"run_id": "r1"})
	child.Info(ctx, "test", Fields{"action": "moved"})
	logger.Info(ctx, "parent", nil)
	logger.Close()

	lines := strings.Split(strings.TrimSpace(readLog(t, logPath)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first, second map[string]interface{}
	json.Unmarshal([]byte(lines[0]), &first)
	json.Unmarshal([]byte(lines[1]), &second)

	if first["run_id"] != "r1" || first["action"] != "moved" {
		t.Errorf("child entry missing fields: %v", first)
	}
	if _, ok := second["run_id"]; ok {
		t.Error("parent logger should not inherit child fields")
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rotate.log")
	logger, err := NewFileLogger(FileLoggerConfig{
		Path:       logPath,
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    100,
		MaxBackups: 2,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		logger.Info(ctx, "a message long enough to trigger rotation quickly", nil)
	}
	logger.Close()

	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("first backup should exist: %v", err)
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("backups beyond MaxBackups should be removed")
	}
}

func TestStreamLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStreamLogger(&buf, FormatText, WarnLevel)
	ctx := context.Background()

	logger.Info(ctx, "hidden", nil)
	logger.Warn(ctx, "shown", nil)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info message should be filtered at WARN level")
	}
	if !strings.Contains(buf.String(), "[WARN] shown") {
		t.Errorf("warn message missing: %q", buf.String())
	}
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Error(ctx, "error", errors.New("x"), nil)
	if logger.WithFields(Fields{"k": "v"}) != Logger(logger) {
		t.Error("WithFields() should return the same null logger")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON {
		t.Error("ParseFormat(JSON) should be json")
	}
	if ParseFormat("xml") != FormatText {
		t.Error("unknown formats should fall back to text")
	}
}
