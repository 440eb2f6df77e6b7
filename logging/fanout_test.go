package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// failingHandler always fails (or panics) when handling a record.
type failingHandler struct {
	panics bool
}

func (h *failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *failingHandler) WithAttrs([]slog.Attr) slog.Handler       { return h }
func (h *failingHandler) WithGroup(string) slog.Handler            { return h }
func (h *failingHandler) Handle(context.Context, slog.Record) error {
	if h.panics {
		panic(errors.New("sink blew up"))
	}
	return errors.New("sink write failed")
}

func TestFanoutHandlerDeliversToAllChildren(t *testing.T) {
	var first, second bytes.Buffer
	h, xerr := NewFanoutHandler(FanoutHandlerOptions{
		Handlers: []slog.Handler{
			newLineHandler(&first, "orders", FormatSimple, slog.LevelDebug),
			newLineHandler(&second, "orders", FormatSimple, slog.LevelDebug),
		},
	})
	if xerr != nil {
		t.Fatalf("unexpected error creating handler: %s", xerr.Error())
	}

	slog.New(h).Info("hello")
	if !strings.Contains(first.String(), "hello") || !strings.Contains(second.String(), "hello") {
		t.Errorf("expected both children to receive the record")
	}
}

func TestFanoutHandlerNeverPropagatesChildFailure(t *testing.T) {
	var good bytes.Buffer
	var reported error
	h, xerr := NewFanoutHandler(FanoutHandlerOptions{
		ErrorHandler: func(ctx context.Context, err error, r *slog.Record) error {
			reported = err
			return err
		},
		Handlers: []slog.Handler{
			&failingHandler{},
			newLineHandler(&good, "orders", FormatSimple, slog.LevelDebug),
		},
	})
	if xerr != nil {
		t.Fatalf("unexpected error creating handler: %s", xerr.Error())
	}

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "still delivered", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Errorf("expected child failure not to propagate, got: %s", err.Error())
	}
	if reported == nil {
		t.Errorf("expected child failure to be reported to the error handler")
	}
	if !strings.Contains(good.String(), "still delivered") {
		t.Errorf("expected remaining children to receive the record")
	}
}

func TestFanoutHandlerRecoversFromChildPanic(t *testing.T) {
	var good bytes.Buffer
	var reported error
	h, xerr := NewFanoutHandler(FanoutHandlerOptions{
		ErrorHandler: func(ctx context.Context, err error, r *slog.Record) error {
			reported = err
			return err
		},
		Handlers: []slog.Handler{
			&failingHandler{panics: true},
			newLineHandler(&good, "orders", FormatSimple, slog.LevelDebug),
		},
	})
	if xerr != nil {
		t.Fatalf("unexpected error creating handler: %s", xerr.Error())
	}

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "survived", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Errorf("expected child panic not to propagate, got: %s", err.Error())
	}
	if reported == nil || reported.Error() != "sink blew up" {
		t.Errorf("expected the recovered panic to be reported, got: %v", reported)
	}
	if !strings.Contains(good.String(), "survived") {
		t.Errorf("expected remaining children to receive the record")
	}
}

func TestFanoutHandlerReportsToDefaultErrorHandler(t *testing.T) {
	var stderr bytes.Buffer
	saved := DefaultErrorHandlerWriter
	DefaultErrorHandlerWriter = &stderr
	t.Cleanup(func() { DefaultErrorHandlerWriter = saved })

	h, xerr := NewFanoutHandler(FanoutHandlerOptions{
		Handlers: []slog.Handler{&failingHandler{}},
	})
	if xerr != nil {
		t.Fatalf("unexpected error creating handler: %s", xerr.Error())
	}

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "doomed", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Errorf("expected child failure not to propagate, got: %s", err.Error())
	}
	if !strings.Contains(stderr.String(), "sink write failed") {
		t.Errorf("expected failure to be written to the default error handler writer, got '%s'", stderr.String())
	}
}

func TestFanoutHandlerEnabled(t *testing.T) {
	var buf bytes.Buffer
	var warnLevel slog.LevelVar
	warnLevel.Set(slog.LevelWarn)
	h, _ := NewFanoutHandler(FanoutHandlerOptions{
		Handlers: []slog.Handler{
			newLineHandler(&buf, "orders", FormatSimple, &warnLevel),
		},
	})

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("expected handler to be disabled below all child levels")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Errorf("expected handler to be enabled when any child is")
	}
}
