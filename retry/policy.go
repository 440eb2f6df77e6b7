package retry

import (
	"errors"
	"math"
	"time"

	"go.innotegrity.dev/xerrors"
	"go.innotegrity.dev/xfault"
)

// Policy describes how an operation is retried.
type Policy struct {
	// BackoffFactor is the multiplier applied to the delay after each failed attempt. It must be at least 1.0.
	BackoffFactor float64 `json:"backoff_factor"`

	// Categories holds the error categories that are worth retrying. A failure in any other category, or an
	// error that is not an [xfault.Error] at all, aborts immediately.
	Categories []xfault.Category `json:"categories"`

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration `json:"initial_delay"`

	// MaxDelay caps the computed delay between attempts. A value of 0 disables the cap.
	MaxDelay time.Duration `json:"max_delay"`

	// MaxRetries is the number of retries after the initial attempt, so total attempts = MaxRetries + 1.
	MaxRetries int `json:"max_retries"`
}

// NewPolicy validates the given policy and returns it.
//
// This function may return an error with any of the following codes:
//   - [xfault.InvalidPolicy]: the backoff factor is below 1.0 or a delay or retry count is negative
func NewPolicy(policy Policy) (*Policy, xerrors.Error) {
	if policy.BackoffFactor < 1.0 {
		return nil, xerrors.Newf(xfault.InvalidPolicy, "backoff factor must be at least 1.0, got %f",
			policy.BackoffFactor).WithAttr("backoff_factor", policy.BackoffFactor)
	}
	if policy.MaxRetries < 0 {
		return nil, xerrors.Newf(xfault.InvalidPolicy, "max retries cannot be negative, got %d",
			policy.MaxRetries).WithAttr("max_retries", policy.MaxRetries)
	}
	if policy.InitialDelay < 0 {
		return nil, xerrors.Newf(xfault.InvalidPolicy, "initial delay cannot be negative, got %s",
			policy.InitialDelay).WithAttr("initial_delay", policy.InitialDelay)
	}
	if policy.MaxDelay < 0 {
		return nil, xerrors.Newf(xfault.InvalidPolicy, "max delay cannot be negative, got %s",
			policy.MaxDelay).WithAttr("max_delay", policy.MaxDelay)
	}
	return &policy, nil
}

// Delay computes the delay before retry n (n >= 1): InitialDelay scaled by BackoffFactor^(n-1), clamped to
// MaxDelay and guarded against overflow.
func (p *Policy) Delay(retry int) time.Duration {
	if retry < 1 {
		retry = 1
	}
	scaled := float64(p.InitialDelay) * math.Pow(p.BackoffFactor, float64(retry-1))

	var delay time.Duration
	if scaled < 0 || scaled >= float64(math.MaxInt64) {
		delay = time.Duration(math.MaxInt64)
	} else {
		delay = time.Duration(scaled)
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

// Retryable reports whether the given error is worth retrying under this policy.
//
// Only [xfault.Error] values whose category is listed in the policy are retryable.
func (p *Policy) Retryable(err error) bool {
	var fault *xfault.Error
	if !errors.As(err, &fault) {
		return false
	}
	for _, category := range p.Categories {
		if fault.Category() == category {
			return true
		}
	}
	return false
}
