package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdejongh/extsort/pkg/config"
	"github.com/sdejongh/extsort/pkg/logging"
	"github.com/sdejongh/extsort/pkg/models"
	"github.com/sdejongh/extsort/pkg/output"
)

// executeCommand runs the root command with an isolated HOME
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// ============== Organize Command Tests ==============

func TestOrganizeCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "X")
	writeFile(t, dir, "sub/a.txt", "X")
	writeFile(t, dir, "photo.jpg", "jpeg")

	out, err := executeCommand(t, "organize", dir)
	if err != nil {
		t.Fatalf("organize error = %v", err)
	}

	for _, rel := range []string{"Extension_TXT/a.txt", "Extension_JPG/photo.jpg"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("expected %s: %v", rel, err)
		}
	}
	if !strings.Contains(out, "Exact duplicate removed:") {
		t.Errorf("output missing duplicate line:\n%s", out)
	}
	if !strings.Contains(out, "Done organizing "+dir) {
		t.Errorf("output missing summary line:\n%s", out)
	}
}

func TestOrganizeMissingBaseExitCode(t *testing.T) {
	_, err := executeCommand(t, "organize", filepath.Join(t.TempDir(), "missing"))

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *ExitError", err)
	}
	if exitErr.Code != 2 {
		t.Errorf("exit code = %d, want 2", exitErr.Code)
	}
}

func TestOrganizeBaseIsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file.txt", "x")

	_, err := executeCommand(t, "organize", filepath.Join(dir, "file.txt"))

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 2 {
		t.Fatalf("error = %v, want exit code 2", err)
	}
	if !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("error = %q, want it to mention the path is not a directory", err.Error())
	}
}

func TestOrganizeFlagValidation(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"bad hash", []string{"organize", dir, "--hash", "crc32"}},
		{"bad output", []string{"organize", dir, "-o", "xml"}},
		{"bad report format", []string{"organize", dir, "--report-format", "csv"}},
		{"bad io limit", []string{"organize", dir, "--io-limit", "fast"}},
		{"verbose and quiet", []string{"organize", dir, "-v", "-q"}},
		{"too many args", []string{"organize", dir, dir}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeCommand(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestOrganizeJSONOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "A")

	out, err := executeCommand(t, "organize", dir, "-o", "json", "--hash", "md5")
	if err != nil {
		t.Fatalf("organize error = %v", err)
	}

	var types []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var event output.JSONEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		types = append(types, event.Type)
	}
	if strings.Join(types, ",") != "start,action,summary" {
		t.Errorf("event types = %v", types)
	}
}

func TestOrganizeWritesReport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "A")
	reportPath := filepath.Join(t.TempDir(), "report.json")

	if _, err := executeCommand(t, "organize", dir, "-q", "--report", reportPath, "--report-format", "json"); err != nil {
		t.Fatalf("organize error = %v", err)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var parsed struct {
		Report output.JSONReportData `json:"report"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if parsed.Report.Stats.FilesMoved != 1 || parsed.Report.Status != "success" {
		t.Errorf("report = %+v", parsed.Report)
	}
}

func TestOrganizeUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "A")
	writeFile(t, dir, "movie.part", "partial")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.Default()
	cfg.Organize.Exclude = []string{"*.part"}
	if err := config.SaveToFile(cfg, cfgPath); err != nil {
		t.Fatal(err)
	}

	if _, err := executeCommand(t, "--config", cfgPath, "organize", dir); err != nil {
		t.Fatalf("organize error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "movie.part")); err != nil {
		t.Errorf("excluded file should stay in place: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Extension_TXT", "a.txt")); err != nil {
		t.Errorf("a.txt should be organized: %v", err)
	}
}

// ============== Flag Handling Tests ==============

func TestApplyFlagsToConfig(t *testing.T) {
	globalFlags = GlobalFlags{}
	cmd := NewOrganizeCommand()
	if err := cmd.ParseFlags([]string{"--hash", "sha1", "--log-file", "-"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Output.Format = "json"
	applyFlagsToConfig(cmd, cfg)

	if cfg.Organize.Hash != models.HashSHA1 {
		t.Errorf("Hash = %s, want sha1", cfg.Organize.Hash)
	}
	if cfg.Logging.File != "-" {
		t.Errorf("Logging.File = %q, want -", cfg.Logging.File)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, unset flags must not override config", cfg.Output.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestApplyFlagsQuiet(t *testing.T) {
	globalFlags = GlobalFlags{Quiet: true}
	defer func() { globalFlags = GlobalFlags{} }()

	cmd := NewOrganizeCommand()
	cfg := config.Default()
	cfg.Output.Progress = true
	applyFlagsToConfig(cmd, cfg)

	if cfg.Output.Progress || !cfg.Output.Quiet {
		t.Errorf("quiet should disable progress and set quiet, got %+v", cfg.Output)
	}
}

func TestCreateFormatter(t *testing.T) {
	globalFlags = GlobalFlags{}
	tests := []struct {
		format   string
		progress bool
		want     string
	}{
		{"human", false, "human"},
		{"human", true, "progress"},
		{"json", true, "json"},
	}

	for _, tt := range tests {
		cfg := config.Default()
		cfg.Output.Format = tt.format
		cfg.Output.Progress = tt.progress
		if got := createFormatter(cfg, &bytes.Buffer{}).Name(); got != tt.want {
			t.Errorf("createFormatter(%s, progress=%v) = %s, want %s", tt.format, tt.progress, got, tt.want)
		}
	}
}

func TestCreateLogger(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		logger, err := createLogger(config.LoggingConfig{Format: "text", Level: "info"}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := logger.(*logging.NullLogger); !ok {
			t.Errorf("logger = %T, want *logging.NullLogger", logger)
		}
	})

	t.Run("stderr", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := createLogger(config.LoggingConfig{File: "-", Format: "text", Level: "info"}, &buf)
		if err != nil {
			t.Fatal(err)
		}
		logger.Info(context.Background(), "hello", nil)
		if !strings.Contains(buf.String(), "[INFO] hello") {
			t.Errorf("stream log = %q", buf.String())
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "extsort.log")
		logger, err := createLogger(config.LoggingConfig{File: path, Format: "json", Level: "debug"}, nil)
		if err != nil {
			t.Fatal(err)
		}
		logger.Debug(context.Background(), "hello", nil)
		logger.Close()

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"message":"hello"`) {
			t.Errorf("file log = %q", data)
		}
	})
}

// ============== Config and Version Command Tests ==============

func TestConfigInitAndShow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "extsort", "config.yaml")

	out, err := executeCommand(t, "--config", cfgPath, "config", "init")
	if err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(out, cfgPath) {
		t.Errorf("init output = %q", out)
	}

	if _, err := executeCommand(t, "--config", cfgPath, "config", "init"); err == nil {
		t.Error("config init should refuse to overwrite without --force")
	}
	if _, err := executeCommand(t, "--config", cfgPath, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force error = %v", err)
	}

	out, err = executeCommand(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"hash: sha256", "buffer_size: 65536", "format: human"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != Version {
		t.Errorf("version --short = %q, want %q", out, Version)
	}

	out, err = executeCommand(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "extsort "+Version) {
		t.Errorf("version output = %q", out)
	}
}
