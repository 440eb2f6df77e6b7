package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.innotegrity.dev/xfault"
)

func TestCorrelationHandlerStampsContextID(t *testing.T) {
	var buf bytes.Buffer
	h := NewCorrelationHandler(newLineHandler(&buf, "orders", FormatJSON, slog.LevelDebug), "")
	logger := slog.New(h)

	ctx := xfault.WithCorrelationID(context.Background(), "req-123")
	logger.InfoContext(ctx, "handled")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("failed to unmarshal rendered record: %s", err.Error())
	}
	if m[CorrelationIDKey] != "req-123" {
		t.Errorf("expected correlation ID 'req-123', got '%v'", m[CorrelationIDKey])
	}
}

func TestCorrelationHandlerContextWinsOverStaticID(t *testing.T) {
	var buf bytes.Buffer
	h := NewCorrelationHandler(newLineHandler(&buf, "orders", FormatJSON, slog.LevelDebug), "static-id")
	logger := slog.New(h)

	// without a context ID, the static binding applies
	logger.Info("first")

	// a context ID always takes precedence
	ctx := xfault.WithCorrelationID(context.Background(), "ctx-id")
	logger.InfoContext(ctx, "second")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 records, got %d", len(lines))
	}

	var first, second map[string]any
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("failed to unmarshal first record: %s", err.Error())
	}
	if err := json.Unmarshal(lines[1], &second); err != nil {
		t.Fatalf("failed to unmarshal second record: %s", err.Error())
	}
	if first[CorrelationIDKey] != "static-id" {
		t.Errorf("expected static correlation ID, got '%v'", first[CorrelationIDKey])
	}
	if second[CorrelationIDKey] != "ctx-id" {
		t.Errorf("expected context correlation ID to win, got '%v'", second[CorrelationIDKey])
	}
}

func TestCorrelationHandlerWithoutIDPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	h := NewCorrelationHandler(newLineHandler(&buf, "orders", FormatJSON, slog.LevelDebug), "")
	logger := slog.New(h)

	logger.Info("plain")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("failed to unmarshal rendered record: %s", err.Error())
	}
	if _, ok := m[CorrelationIDKey]; ok {
		t.Errorf("expected no correlation ID on the record, got '%v'", m[CorrelationIDKey])
	}
}
