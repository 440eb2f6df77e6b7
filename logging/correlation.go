package logging

import (
	"context"
	"io"
	"log/slog"

	"go.innotegrity.dev/xfault"
)

// ensure [CorrelationHandler] implements the [ExtendedHandler] interface.
var _ ExtendedHandler = &CorrelationHandler{}

const (
	// CorrelationHandlerType is the type for a [CorrelationHandler].
	CorrelationHandlerType = "correlation"
)

// CorrelationHandler is a middleware handler that stamps each record with a correlation ID before passing it on
// to the next handler.
//
// The ID is taken from the record's context when one was bound with [xfault.WithCorrelationID]; otherwise the
// handler's own static ID, if any, is used. Records without either pass through unchanged.
type CorrelationHandler struct {
	// unexported variables
	id   string       // static correlation ID used when the context carries none
	next slog.Handler // handler records are forwarded to
}

// NewCorrelationHandler creates a new [CorrelationHandler] wrapping the given handler.
//
// The id may be empty, in which case only context-bound correlation IDs are stamped.
func NewCorrelationHandler(next slog.Handler, id string) *CorrelationHandler {
	return &CorrelationHandler{
		id:   id,
		next: next,
	}
}

// ChildHandlers returns the wrapped [slog.Handler].
func (h *CorrelationHandler) ChildHandlers() []slog.Handler {
	return []slog.Handler{h.next}
}

// Close will close the wrapped handler.
func (h *CorrelationHandler) Close() error {
	if closer, ok := h.next.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Enabled returns true if the wrapped handler is enabled.
func (h *CorrelationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle stamps the record with a correlation ID, if one is available, and forwards it.
//
// A context-bound ID always takes precedence over the handler's static ID.
func (h *CorrelationHandler) Handle(ctx context.Context, r slog.Record) error {
	id := h.id
	if ctxID, ok := xfault.CorrelationID(ctx); ok {
		id = ctxID
	}
	if id == "" {
		return h.next.Handle(ctx, r)
	}

	clone := r.Clone()
	clone.AddAttrs(slog.String(CorrelationIDKey, id))
	return h.next.Handle(ctx, clone)
}

// Options returns the handler's options.
func (h *CorrelationHandler) Options() any {
	return map[string]any{
		CorrelationIDKey: h.id,
	}
}

// Type returns the type of the handler.
func (h *CorrelationHandler) Type() string {
	return CorrelationHandlerType
}

// WithAttrs returns a new handler whose attributes consist of both the wrapped handler's attributes and the
// given attributes.
func (h *CorrelationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewCorrelationHandler(h.next.WithAttrs(attrs), h.id)
}

// WithGroup returns a new handler with the wrapped handler's attributes part of the given group.
func (h *CorrelationHandler) WithGroup(name string) slog.Handler {
	if len(name) == 0 {
		return h
	}
	return NewCorrelationHandler(h.next.WithGroup(name), h.id)
}
