package xfault

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"go.innotegrity.dev/xerrors"
)

var (
	// emitMu guards the process-wide logger used when errors are constructed.
	emitMu sync.RWMutex

	// emitLogger is the logger every newly constructed [Error] is forwarded to. When nil, [slog.Default] is used.
	emitLogger *slog.Logger
)

// SetLogger sets the process-wide logger that newly constructed [Error] values are forwarded to.
//
// Passing nil restores the default behavior of logging through [slog.Default].
func SetLogger(logger *slog.Logger) {
	emitMu.Lock()
	defer emitMu.Unlock()
	emitLogger = logger
}

// activeLogger returns the logger used to emit newly constructed errors.
func activeLogger() *slog.Logger {
	emitMu.RLock()
	defer emitMu.RUnlock()
	if emitLogger != nil {
		return emitLogger
	}
	return slog.Default()
}

// Option configures an [Error] during construction. Once constructed, an error never changes.
type Option func(*Error)

// WithSeverity overrides the category-derived default severity.
func WithSeverity(severity Severity) Option {
	return func(e *Error) {
		if severity >= SeverityLow && severity <= SeverityCritical {
			e.severity = severity
		}
	}
}

// WithContext attaches a single context key/value pair to the error.
func WithContext(key string, value any) Option {
	return func(e *Error) {
		if e.context == nil {
			e.context = map[string]any{}
		}
		e.context[key] = value
	}
}

// WithContextMap attaches every entry of the given map to the error's context.
func WithContextMap(m map[string]any) Option {
	return func(e *Error) {
		if len(m) == 0 {
			return
		}
		if e.context == nil {
			e.context = make(map[string]any, len(m))
		}
		for k, v := range m {
			e.context[k] = v
		}
	}
}

// WithOrigin records the name of the operation the error originated from.
func WithOrigin(operation string) Option {
	return func(e *Error) {
		e.origin = operation
	}
}

// WithRecoverySuggestion attaches a human-readable hint describing how the error might be recovered from.
func WithRecoverySuggestion(suggestion string) Option {
	return func(e *Error) {
		e.recoverySuggestion = suggestion
	}
}

// WithCause records the underlying error that led to this one. The cause is reachable through [Error.Unwrap].
func WithCause(cause error) Option {
	return func(e *Error) {
		e.cause = cause
	}
}

// Error is a structured, immutable error value.
//
// Every error carries a stable numeric code, the category derived from the code's band, a severity, a message and
// an optional free-form context map, recovery suggestion, origin operation and underlying cause. Errors are
// immutable after construction; when more context is needed later, a new error wraps or supersedes the old one
// (see [Wrap]).
type Error struct {
	// unexported variables
	cause              error          // underlying error, may be nil
	category           Category       // category derived from the code band
	code               Code           // stable numeric code
	context            map[string]any // free-form context values
	message            string         // human-readable message
	origin             string         // operation the error originated from, may be empty
	recoverySuggestion string         // recovery hint, may be empty
	severity           Severity       // severity of the error
	timestamp          time.Time      // time the error was constructed
}

// ensure [Error] renders as a structured group when logged.
var _ slog.LogValuer = &Error{}

// New creates a new [Error] with the given code and message.
//
// The severity defaults by category when no [WithSeverity] option is supplied: system errors default to critical,
// business-logic errors to high and everything else to medium.
//
// Construction synchronously forwards the new error to the process logger (see [SetLogger]) at the level derived
// from its severity, so an error is observable even if the caller discards it.
//
// This function may return an error with any of the following codes:
//   - [InvalidErrorCode]: the code falls outside every defined category band
//   - [InvalidParameter]: the message is empty
func New(code Code, message string, opts ...Option) (*Error, xerrors.Error) {
	category, ok := CategoryOf(code)
	if !ok {
		return nil, xerrors.Newf(InvalidErrorCode, "%d: code does not belong to any defined band", int(code)).
			WithAttr("code", int(code))
	}
	if strings.TrimSpace(message) == "" {
		return nil, xerrors.New(InvalidParameter, "error message cannot be empty")
	}

	e := &Error{
		code:      code,
		category:  category,
		severity:  category.defaultSeverity(),
		message:   message,
		timestamp: time.Now(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.emit()
	return e, nil
}

// Wrap creates a new [Error] superseding the given cause.
//
// It behaves exactly like [New] with a [WithCause] option prepended; the original error is never mutated.
func Wrap(code Code, message string, cause error, opts ...Option) (*Error, xerrors.Error) {
	return New(code, message, append([]Option{WithCause(cause)}, opts...)...)
}

// MustNew is like [New] but panics if the code or message is invalid.
//
// It is intended for errors constructed from the named code constants in this package, where an invalid code is a
// programming mistake.
func MustNew(code Code, message string, opts ...Option) *Error {
	e, err := New(code, message, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Code returns the error's stable numeric code.
func (e *Error) Code() Code {
	return e.code
}

// Category returns the category derived from the error code's band.
func (e *Error) Category() Category {
	return e.category
}

// Severity returns the error's severity.
func (e *Error) Severity() Severity {
	return e.severity
}

// Message returns the error's base message without any of the rendered context.
func (e *Error) Message() string {
	return e.message
}

// Context returns a copy of the error's context map. Mutating the returned map does not affect the error.
func (e *Error) Context() map[string]any {
	if len(e.context) == 0 {
		return nil
	}
	m := make(map[string]any, len(e.context))
	for k, v := range e.context {
		m[k] = v
	}
	return m
}

// RecoverySuggestion returns the error's recovery hint, if any.
func (e *Error) RecoverySuggestion() string {
	return e.recoverySuggestion
}

// Origin returns the name of the operation the error originated from, if recorded.
func (e *Error) Origin() string {
	return e.origin
}

// Timestamp returns the time the error was constructed.
func (e *Error) Timestamp() time.Time {
	return e.timestamp
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Error implements the error interface.
//
// The message is rendered with the code, severity, sorted context values, cause and recovery suggestion so the
// same error always renders identically.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%d] %s | severity: %s", int(e.code), e.message, e.severity)
	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, e.context[k]))
		}
		fmt.Fprintf(&sb, " | context: %s", strings.Join(pairs, ", "))
	}
	if e.cause != nil {
		fmt.Fprintf(&sb, " | cause: %s", e.cause.Error())
	}
	if e.recoverySuggestion != "" {
		fmt.Fprintf(&sb, " | suggestion: %s", e.recoverySuggestion)
	}
	return sb.String()
}

// LogValue renders the error as a structured group so handlers emit its fields individually rather than one
// flattened string.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 8)
	attrs = append(attrs,
		slog.Int("code", int(e.code)),
		slog.String("category", e.category.String()),
		slog.String("severity", e.severity.String()),
		slog.String("message", e.message),
	)
	if len(e.context) > 0 {
		attrs = append(attrs, slog.Any("context", e.Context()))
	}
	if e.origin != "" {
		attrs = append(attrs, slog.String("origin", e.origin))
	}
	if e.recoverySuggestion != "" {
		attrs = append(attrs, slog.String("recovery_suggestion", e.recoverySuggestion))
	}
	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}
	return slog.GroupValue(attrs...)
}

// emit forwards the error to the process logger at the level derived from its severity.
func (e *Error) emit() {
	logger := activeLogger()
	ctx := context.Background()
	level := e.severity.Level()
	if !logger.Enabled(ctx, level) {
		return
	}
	logger.Log(ctx, level, e.message, slog.Any("error", e))
}
