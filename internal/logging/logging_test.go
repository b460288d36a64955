package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukerupert/afresh/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := setup(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("hello", "user_id", "u1")

	line := strings.TrimSpace(buf.String())
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("output is not one JSON record: %q", line)
	}
	if rec["msg"] != "hello" || rec["user_id"] != "u1" {
		t.Errorf("record = %v", rec)
	}
}

func TestSetupFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "afresh.log")
	var buf bytes.Buffer
	logger, closer := setup(config.LoggingConfig{Level: "info", Format: "text", File: path}, &buf)

	logger.Info("to both sinks")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to both sinks") {
		t.Errorf("log file missing record: %q", data)
	}
	if !strings.Contains(buf.String(), "to both sinks") {
		t.Errorf("stderr missing record: %q", buf.String())
	}
}
