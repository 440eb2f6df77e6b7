package fallback

import (
	"context"
	"errors"
	"log/slog"

	"go.innotegrity.dev/xfault"
)

// Recorder receives fallback telemetry.
//
// Implementations must be safe for concurrent use. The metrics package provides a Prometheus-backed
// implementation.
type Recorder interface {
	// FallbackEngaged is called once each time a fallback replaces a failed operation's result.
	FallbackEngaged(code xfault.Code)
}

// ExecutorOptions holds the options for an [Executor].
type ExecutorOptions struct {
	// Logger receives a WARNING record per fallback engagement. When nil, [slog.Default] is used.
	Logger *slog.Logger

	// Recorder receives engagement notifications. When nil, no telemetry is recorded.
	Recorder Recorder
}

// Executor supplies fallback results for failed operations.
//
// An executor is immutable after construction and safe for concurrent use.
type Executor struct {
	// unexported variables
	log      *slog.Logger // logger for engagement records
	recorder Recorder     // telemetry recorder, may be nil
}

// NewExecutor creates a new [Executor] object with the given options.
func NewExecutor(options ExecutorOptions) *Executor {
	log := options.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		log:      log,
		recorder: options.Recorder,
	}
}

// WithValue runs the operation and, when it fails recoverably, returns the given static value instead.
//
// Success passes through unchanged. A failure whose category is in the recoverable set returns value with a nil
// error; any other failure, and any CRITICAL-severity failure regardless of category, propagates unchanged.
func WithValue[T any](ctx context.Context, x *Executor, operation string,
	op func(context.Context) (T, error), value T, categories ...xfault.Category) (T, error) {

	result, err := op(ctx)
	if err == nil {
		return result, nil
	}
	fault, ok := recoverable(err, categories)
	if !ok {
		var zero T
		return zero, err
	}

	x.engaged(ctx, operation, fault)
	return value, nil
}

// WithFunc runs the operation and, when it fails recoverably, returns the alternate operation's result instead.
//
// Success passes through unchanged. A failure whose category is in the recoverable set runs the alternate, whose
// result (and whose own failure) is returned as-is without any further fallback handling; any other failure, and
// any CRITICAL-severity failure regardless of category, propagates unchanged.
func WithFunc[T any](ctx context.Context, x *Executor, operation string,
	op func(context.Context) (T, error), alternate func(context.Context) (T, error),
	categories ...xfault.Category) (T, error) {

	result, err := op(ctx)
	if err == nil {
		return result, nil
	}
	fault, ok := recoverable(err, categories)
	if !ok {
		var zero T
		return zero, err
	}

	x.engaged(ctx, operation, fault)
	return alternate(ctx)
}

// engaged logs and records one fallback engagement.
func (x *Executor) engaged(ctx context.Context, operation string, fault *xfault.Error) {
	x.log.WarnContext(ctx, "fallback engaged",
		slog.String("operation", operation),
		slog.Int("code", int(fault.Code())),
		slog.String("message", fault.Message()))
	if x.recorder != nil {
		x.recorder.FallbackEngaged(fault.Code())
	}
}

// recoverable reports whether the error qualifies for fallback handling under the given categories.
//
// Only [xfault.Error] values qualify, CRITICAL-severity errors never do, and the error's category must be listed.
func recoverable(err error, categories []xfault.Category) (*xfault.Error, bool) {
	var fault *xfault.Error
	if !errors.As(err, &fault) {
		return nil, false
	}
	if fault.Severity() == xfault.SeverityCritical {
		return nil, false
	}
	for _, category := range categories {
		if fault.Category() == category {
			return fault, true
		}
	}
	return nil, false
}
