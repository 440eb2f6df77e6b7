package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.innotegrity.dev/xerrors"
	"go.innotegrity.dev/xfault"
)

// Recorder receives retry telemetry.
//
// Implementations must be safe for concurrent use. The metrics package provides a Prometheus-backed
// implementation.
type Recorder interface {
	// RetryAttempt is called once per attempt, successful or not.
	RetryAttempt(operation string)

	// RetryExhausted is called when an operation fails all of its attempts.
	RetryExhausted(operation string)
}

// ExhaustedError is returned when a retryable operation fails every attempt the policy allows.
type ExhaustedError struct {
	// Attempts is the number of attempts that were performed.
	Attempts int

	// Err is the error from the final attempt.
	Err error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %s", e.Attempts, e.Err.Error())
}

// Unwrap returns the error from the final attempt.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// CancelledError is returned when the operation's context is cancelled between attempts.
type CancelledError struct {
	// Attempts is the number of attempts that completed before cancellation.
	Attempts int

	// Err is the context's error.
	Err error
}

// Error implements the error interface.
func (e *CancelledError) Error() string {
	return fmt.Sprintf("retry cancelled after %d attempts: %s", e.Attempts, e.Err.Error())
}

// Unwrap returns the context's error.
func (e *CancelledError) Unwrap() error {
	return e.Err
}

// ExecutorOptions holds the options for an [Executor].
type ExecutorOptions struct {
	// Logger receives a DEBUG record per attempt. When nil, [slog.Default] is used.
	Logger *slog.Logger

	// Recorder receives attempt and exhaustion notifications. When nil, no telemetry is recorded.
	Recorder Recorder
}

// Executor retries operations according to a [Policy].
//
// An executor is immutable after construction and safe for concurrent use; the backoff sleep blocks only the
// calling goroutine.
type Executor struct {
	// unexported variables
	log      *slog.Logger                                    // logger for per-attempt records
	policy   *Policy                                         // retry policy
	recorder Recorder                                        // telemetry recorder, may be nil
	sleep    func(ctx context.Context, d time.Duration) error // sleep function, replaceable in tests
}

// NewExecutor creates a new [Executor] object with the given policy and options.
//
// This function may return an error with any of the following codes:
//   - [xfault.InvalidParameter]: the policy is nil
func NewExecutor(policy *Policy, options ExecutorOptions) (*Executor, xerrors.Error) {
	if policy == nil {
		return nil, xerrors.New(xfault.InvalidParameter, "policy cannot be nil")
	}
	log := options.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		log:      log,
		policy:   policy,
		recorder: options.Recorder,
		sleep:    sleepContext,
	}, nil
}

// Policy returns the executor's policy.
func (x *Executor) Policy() *Policy {
	return x.policy
}

// Do runs the operation under the executor's policy and returns its result.
//
// The operation is attempted up to MaxRetries+1 times. After a failed attempt, a failure that is not retryable
// under the policy is returned unchanged immediately. A retryable failure sleeps the backoff delay and tries
// again; once attempts are exhausted, the last error is returned wrapped in a [*ExhaustedError]. If ctx is
// cancelled before or between attempts, a [*CancelledError] wrapping the context's error is returned instead of
// completing the remaining backoff sleeps.
func Do[T any](ctx context.Context, x *Executor, operation string, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := x.policy.MaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		delay := time.Duration(0)
		if attempt > 1 {
			delay = x.policy.Delay(attempt - 1)
			if err := x.sleep(ctx, delay); err != nil {
				return zero, &CancelledError{Attempts: attempt - 1, Err: err}
			}
		} else if err := ctx.Err(); err != nil {
			return zero, &CancelledError{Attempts: 0, Err: err}
		}

		if x.recorder != nil {
			x.recorder.RetryAttempt(operation)
		}
		result, err := op(ctx)
		if err == nil {
			x.log.DebugContext(ctx, "operation succeeded",
				slog.String("operation", operation),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))
			return result, nil
		}
		lastErr = err
		x.log.DebugContext(ctx, "operation failed",
			slog.String("operation", operation),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Any("error", err))

		if !x.policy.Retryable(err) {
			return zero, err
		}
	}

	if x.recorder != nil {
		x.recorder.RetryExhausted(operation)
	}
	return zero, &ExhaustedError{Attempts: attempts, Err: lastErr}
}

// sleepContext blocks for the given duration or until the context is cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
