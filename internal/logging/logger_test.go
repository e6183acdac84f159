package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"qrsafe/internal/services"
)

func TestConsoleHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("generated QR", String(FieldComponent, "pipeline"), String("template", "contactForm"))

	line := buf.String()
	if !strings.Contains(line, "INFO pipeline: generated QR") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "template=contactForm") {
		t.Fatalf("expected attribute in console line: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Warn("history unavailable", String("reason", "disk full"))
	if !strings.Contains(buf.String(), `reason="disk full"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsCorrelation(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	ctx := services.WithRequestID(context.Background(), "req-123")
	ctx = services.WithTemplateID(ctx, "studentBio")
	WithContext(ctx, logger).Info("hello")

	line := buf.String()
	if !strings.Contains(line, "correlation_id=req-123") {
		t.Fatalf("expected correlation id in %q", line)
	}
	if !strings.Contains(line, "template_id=studentBio") {
		t.Fatalf("expected template id in %q", line)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must report disabled at every level.
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected nop logger to be disabled")
	}
}
