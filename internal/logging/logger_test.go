package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newFileLogger(t *testing.T, opts Options) (*slog.Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prmers.log")
	opts.OutputPaths = []string{path}
	logger, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return logger, path
}

func readLog(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := strings.TrimSuffix(string(data), "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func TestConsoleFormat(t *testing.T) {
	logger, path := newFileLogger(t, Options{Format: "console", Level: "debug"})

	logger.Info("archived worktodo line", "archive", "/tmp/worktodo_save.txt", "count", 1)

	lines := readLog(t, path)
	if len(lines) != 1 {
		t.Fatalf("lines = %#v", lines)
	}
	line := lines[0]
	if !strings.Contains(line, " INFO archived worktodo line") {
		t.Fatalf("line = %q", line)
	}
	if !strings.Contains(line, "archive=/tmp/worktodo_save.txt") || !strings.Contains(line, "count=1") {
		t.Fatalf("attrs missing in %q", line)
	}
}

func TestConsoleQuotesValuesWithSpaces(t *testing.T) {
	logger, path := newFileLogger(t, Options{Format: "console"})

	logger.Warn("skipping worktodo line", "detail", "bad k: syntax error")

	lines := readLog(t, path)
	if len(lines) != 1 || !strings.Contains(lines[0], `detail="bad k: syntax error"`) {
		t.Fatalf("lines = %#v", lines)
	}
}

func TestConsoleWithAttrsDoesNotMutateParent(t *testing.T) {
	logger, path := newFileLogger(t, Options{Format: "console"})

	child := logger.With("line", 3)
	child.Info("skip")
	logger.Info("plain")

	lines := readLog(t, path)
	if len(lines) != 2 {
		t.Fatalf("lines = %#v", lines)
	}
	if !strings.Contains(lines[0], "line=3") {
		t.Fatalf("child line = %q", lines[0])
	}
	if strings.Contains(lines[1], "line=3") {
		t.Fatalf("parent leaked child attrs: %q", lines[1])
	}
}

func TestJSONFormat(t *testing.T) {
	logger, path := newFileLogger(t, Options{Format: "json", Level: "info"})

	logger.Info("loaded worktodo entry", "line", 2)

	lines := readLog(t, path)
	if len(lines) != 1 {
		t.Fatalf("lines = %#v", lines)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("not JSON: %v (%q)", err, lines[0])
	}
	if record["level"] != "info" {
		t.Fatalf("level = %v", record["level"])
	}
	if record["msg"] != "loaded worktodo entry" {
		t.Fatalf("msg = %v", record["msg"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("no ts field")
	}
	if record["line"] != float64(2) {
		t.Fatalf("line = %v", record["line"])
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, path := newFileLogger(t, Options{Format: "console", Level: "warn"})

	logger.Debug("drop me")
	logger.Info("drop me too")
	logger.Warn("keep me")
	logger.Error("keep me too")

	lines := readLog(t, path)
	if len(lines) != 2 {
		t.Fatalf("lines = %#v, want only warn and error", lines)
	}
	if !strings.Contains(lines[0], "WARN") || !strings.Contains(lines[1], "ERROR") {
		t.Fatalf("lines = %#v", lines)
	}
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	logger, path := newFileLogger(t, Options{Format: "console", Level: "chatty"})

	logger.Debug("drop me")
	logger.Info("keep me")

	lines := readLog(t, path)
	if len(lines) != 1 || !strings.Contains(lines[0], "INFO keep me") {
		t.Fatalf("lines = %#v", lines)
	}
}

func TestUnknownFormatRejected(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestMultipleOutputPaths(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.log")
	second := filepath.Join(dir, "b.log")
	logger, err := New(Options{Format: "console", OutputPaths: []string{first, second}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("fan out")

	for _, path := range []string{first, second} {
		lines := readLog(t, path)
		if len(lines) != 1 || !strings.Contains(lines[0], "fan out") {
			t.Fatalf("%s = %#v", path, lines)
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must report disabled at every level.
	logger.Error("nothing")
	if logger.Enabled(nil, slog.LevelError) {
		t.Fatal("nop logger reports enabled")
	}
}
