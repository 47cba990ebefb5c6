package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"celinker/internal/services"
)

func TestConsoleFormatIncludesAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("linker decision", String(FieldTraceID, "abc"), Bool("needs_review", true))
	out := buf.String()
	if !strings.Contains(out, "linker decision") || !strings.Contains(out, "trace_id=abc") || !strings.Contains(out, "needs_review=true") {
		t.Fatalf("unexpected console output: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsTraceFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := services.WithTraceID(context.Background(), "deadbeef")
	ctx = services.WithStage(ctx, "search")
	WithContext(ctx, logger).Info("fan-out")
	out := buf.String()
	if !strings.Contains(out, "trace_id=deadbeef") || !strings.Contains(out, "stage=search") {
		t.Fatalf("context fields missing: %q", out)
	}
}
