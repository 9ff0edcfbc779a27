package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in  string
		out slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.out {
			t.Errorf("parseLevel(%q)=%v want %v", tt.in, got, tt.out)
		}
	}
}

func TestWithContext_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "debug", "json")
	defer Init("error", "text")

	ctx := WithRequestID(context.Background(), "req-123")
	WithContext(ctx).Info("dispatch decided", "priority", "normal")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if entry["request_id"] != "req-123" {
		t.Errorf("Expected request_id req-123, got %v", entry["request_id"])
	}
	if entry["priority"] != "normal" {
		t.Errorf("Expected priority normal, got %v", entry["priority"])
	}
}

func TestWithContext_NoRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "info", "text")
	defer Init("error", "text")

	WithContext(context.Background()).Info("no id")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("Expected no request_id attribute, got %s", buf.String())
	}
	if RequestID(context.Background()) != "" {
		t.Error("Expected empty request ID")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn", "text")
	defer Init("error", "text")

	Info("hidden")
	Debug("hidden")
	Warn("shown")
	Error("shown too")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected info/debug to be filtered, got %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "shown too") {
		t.Errorf("Expected warn and error output, got %s", out)
	}
}
