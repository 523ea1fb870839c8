package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer

	config := Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "market-crafter-test",
		Version:     "1.0.0",
		Environment: "test",
		AddSource:   false,
	}

	InitLoggerWithWriter(config, &buf)

	// Log a test message
	Info("test message", "key", "value", "number", 42)

	// Parse JSON output
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	// Verify base attributes
	if logEntry["service"] != "market-crafter-test" {
		t.Errorf("Expected service=market-crafter-test, got %v", logEntry["service"])
	}

	if logEntry["version"] != "1.0.0" {
		t.Errorf("Expected version=1.0.0, got %v", logEntry["version"])
	}

	if logEntry["environment"] != "test" {
		t.Errorf("Expected environment=test, got %v", logEntry["environment"])
	}

	// Verify message
	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
	}

	// Verify level
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level=INFO, got %v", logEntry["level"])
	}

	// Verify custom attributes
	if logEntry["key"] != "value" {
		t.Errorf("Expected key=value, got %v", logEntry["key"])
	}

	if logEntry["number"] != float64(42) {
		t.Errorf("Expected number=42, got %v", logEntry["number"])
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-listings-4711")

	requestID := GetRequestID(ctx)
	if requestID != "req-listings-4711" {
		t.Errorf("Expected request_id=req-listings-4711, got %s", requestID)
	}

	// Test with logger
	log := FromContext(ctx)
	if log == nil {
		t.Error("Expected non-nil logger")
	}
}

func TestNewConfig_FillsDefaults(t *testing.T) {
	config := NewConfig("", "", "", "", "", false)

	if config.ServiceName != DefaultServiceName {
		t.Errorf("Expected service %s, got %s", DefaultServiceName, config.ServiceName)
	}
	if config.Level != LogLevelInfo {
		t.Errorf("Expected info level, got %s", config.Level)
	}
	if config.Format != LogFormatText {
		t.Errorf("Expected text format, got %s", config.Format)
	}
	if config.Environment != EnvironmentDev {
		t.Errorf("Expected dev environment, got %s", config.Environment)
	}
}

func TestWorldAttribute(t *testing.T) {
	var buf bytes.Buffer

	InitLoggerWithWriter(NewConfig("info", "json", "market-crafter-test", "1.0.0", "test", false).ForWorld(55), &buf)
	Info("listings refreshed", "items", 12)

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if logEntry["world_id"] != float64(55) {
		t.Errorf("Expected world_id=55, got %v", logEntry["world_id"])
	}

	buf.Reset()
	InitLoggerWithWriter(NewConfig("info", "json", "market-crafter-test", "1.0.0", "test", false), &buf)
	Info("listings refreshed")
	if strings.Contains(buf.String(), "world_id") {
		t.Errorf("Expected no world_id without a world, got %q", buf.String())
	}
}

func TestTextLoggingFromContext(t *testing.T) {
	var buf bytes.Buffer

	InitLoggerWithWriter(Config{
		Level:       "debug",
		Format:      "text",
		ServiceName: "market-crafter-test",
		Version:     "dev",
		Environment: "test",
	}, &buf)

	ctx := WithRequestID(context.Background(), "req-recipe-33")
	FromContext(ctx).Debug("resolving recipe", "recipe_id", 33)

	out := buf.String()
	if !strings.Contains(out, "request_id=req-recipe-33") {
		t.Errorf("Expected request_id in output, got %q", out)
	}
	if !strings.Contains(out, "recipe_id=33") {
		t.Errorf("Expected recipe_id in output, got %q", out)
	}
	if !strings.Contains(out, "service=market-crafter-test") {
		t.Errorf("Expected service attribute in output, got %q", out)
	}
}

func TestLogLevelParsing(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := (Config{Level: in}).LogLevel(); got != want {
			t.Errorf("LogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
