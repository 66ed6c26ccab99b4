package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/FVLArchive/qwatch/pkg/config"
)

func unsetLoggingEnv(t *testing.T) {
	t.Helper()
	t.Setenv("QWATCH_LOG_FORMAT", "")
	t.Setenv("QWATCH_LOG_LEVEL", "")
	t.Setenv("QWATCH_LOG_ADD_SOURCE", "")
}

func TestLoggerJSONEntryShape(t *testing.T) {
	unsetLoggingEnv(t)

	var out bytes.Buffer
	log, err := newWithWriter(config.LoggingConfig{Format: "json", Level: "info"}, &out)
	if err != nil {
		t.Fatalf("newWithWriter error: %v", err)
	}

	log.With("component", "fulfillment.service").Info("Turn handled", "action", "customer.checkLine", "ok", true)

	line := strings.TrimSpace(out.String())
	if line == "" {
		t.Fatal("expected log output")
	}

	var entry LogEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("unmarshal log entry: %v", err)
	}

	if entry.Level != "info" {
		t.Fatalf("level = %q, want %q", entry.Level, "info")
	}
	if entry.Component != "fulfillment.service" {
		t.Fatalf("component = %q, want %q", entry.Component, "fulfillment.service")
	}
	if got := entry.Fields["action"]; got != "customer.checkLine" {
		t.Fatalf("fields.action = %v, want customer.checkLine", got)
	}
	if got := entry.Fields["ok"]; got != true {
		t.Fatalf("fields.ok = %v, want true", got)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	unsetLoggingEnv(t)

	var out bytes.Buffer
	log, err := newWithWriter(config.LoggingConfig{Format: "json", Level: "error"}, &out)
	if err != nil {
		t.Fatalf("newWithWriter error: %v", err)
	}

	log.Info("dropped")
	log.Error("kept")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("log lines = %d, want 1", len(lines))
	}
	if !strings.Contains(lines[0], "kept") {
		t.Fatalf("unexpected surviving line: %s", lines[0])
	}
}

func TestLoggerRejectsUnknownFormat(t *testing.T) {
	unsetLoggingEnv(t)

	if _, err := New(config.LoggingConfig{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
