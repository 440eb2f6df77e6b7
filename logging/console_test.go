package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerWritesToOutputOverride(t *testing.T) {
	var buf bytes.Buffer
	h, xerr := NewConsoleHandler(ConsoleHandlerOptions{
		Format: FormatSimple,
		Name:   "orders",
		Output: &buf,
	})
	if xerr != nil {
		t.Fatalf("unexpected error creating handler: %s", xerr.Error())
	}

	slog.New(h).Info("to the buffer")
	if !strings.Contains(buf.String(), "to the buffer") {
		t.Errorf("expected record in the output override, got '%s'", buf.String())
	}
}

func TestConsoleHandlerDefaultLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	h, xerr := NewConsoleHandler(ConsoleHandlerOptions{
		Format: FormatSimple,
		Name:   "orders",
		Output: &buf,
	})
	if xerr != nil {
		t.Fatalf("unexpected error creating handler: %s", xerr.Error())
	}

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("expected DEBUG to be filtered by the default INFO level")
	}
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Errorf("expected INFO to be enabled by default")
	}
}

func TestConsoleHandlerSharedLevelVar(t *testing.T) {
	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(slog.LevelInfo)
	h, xerr := NewConsoleHandler(ConsoleHandlerOptions{
		Format: FormatSimple,
		Level:  &level,
		Name:   "orders",
		Output: &buf,
	})
	if xerr != nil {
		t.Fatalf("unexpected error creating handler: %s", xerr.Error())
	}
	if h.GetLevelVar() != &level {
		t.Fatalf("expected the handler to share the caller's level var")
	}

	logger := slog.New(h)
	logger.Debug("hidden")
	level.Set(slog.LevelDebug)
	logger.Debug("visible")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("expected record below the level to be dropped")
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected record to be written after the level was lowered")
	}
}

func TestConsoleHandlerPrettyFormatWithNonFileOutput(t *testing.T) {
	var buf bytes.Buffer
	h, xerr := NewConsoleHandler(ConsoleHandlerOptions{
		Format: FormatPretty,
		Name:   "orders",
		Output: &buf,
	})
	if xerr != nil {
		t.Fatalf("unexpected error creating handler: %s", xerr.Error())
	}

	slog.New(h).Info("colorless")
	if !strings.Contains(buf.String(), "colorless") {
		t.Errorf("expected record in the output, got '%s'", buf.String())
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected no color codes for a non-terminal writer")
	}
}

func TestConsoleHandlerOptionsUnmarshal(t *testing.T) {
	var opts ConsoleHandlerOptions
	if err := opts.UnmarshalJSON([]byte(`{"format":"json","level":"critical","name":"orders","stderr":true}`)); err != nil {
		t.Fatalf("unexpected error unmarshaling options: %s", err.Error())
	}
	if opts.Format != FormatJSON {
		t.Errorf("expected format json, got '%s'", opts.Format)
	}
	if opts.Level == nil || opts.Level.Level() != LevelCritical {
		t.Errorf("expected level CRITICAL, got %v", opts.Level)
	}
	if opts.Name != "orders" {
		t.Errorf("expected name 'orders', got '%s'", opts.Name)
	}
	if !opts.Stderr {
		t.Errorf("expected stderr flag to be set")
	}
}
