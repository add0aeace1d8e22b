package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "var", "log", "splunk", "sendxlsresults.log")

	logger, closeFn := Setup(Options{Path: path, Format: "json"})
	logger.Info("report sent", "rows", 3)
	logger.Debug("hidden")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d: %q", len(lines), data)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["msg"] != "report sent" || entry["rows"] != 3.0 {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestSetupFallback(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()
	// A directory cannot be opened as a log file.
	logger, closeFn := Setup(Options{Path: dir, Fallback: &buf})
	defer closeFn()

	logger.Error("boom")
	out := buf.String()
	if !strings.Contains(out, "cannot open log file") || !strings.Contains(out, "boom") {
		t.Errorf("unexpected fallback output: %q", out)
	}
}
