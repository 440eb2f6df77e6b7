package retry

import (
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"go.innotegrity.dev/xfault"
)

func TestNewPolicyValidation(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"valid", Policy{BackoffFactor: 2.0, InitialDelay: time.Second, MaxRetries: 3}, false},
		{"factor of exactly one", Policy{BackoffFactor: 1.0, InitialDelay: time.Second, MaxRetries: 1}, false},
		{"zero retries", Policy{BackoffFactor: 1.5, MaxRetries: 0}, false},
		{"factor below one", Policy{BackoffFactor: 0.5, InitialDelay: time.Second, MaxRetries: 3}, true},
		{"zero factor", Policy{MaxRetries: 3}, true},
		{"negative retries", Policy{BackoffFactor: 2.0, MaxRetries: -1}, true},
		{"negative initial delay", Policy{BackoffFactor: 2.0, InitialDelay: -time.Second, MaxRetries: 3}, true},
		{"negative max delay", Policy{BackoffFactor: 2.0, MaxDelay: -time.Second, MaxRetries: 3}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewPolicy(test.policy)
			if test.wantErr && err == nil {
				t.Errorf("expected an error for policy %+v", test.policy)
			}
			if !test.wantErr && err != nil {
				t.Errorf("unexpected error for policy %+v: %s", test.policy, err.Error())
			}
		})
	}
}

func TestPolicyDelayGrowth(t *testing.T) {
	policy, err := NewPolicy(Policy{
		BackoffFactor: 2.0,
		InitialDelay:  time.Second,
		MaxRetries:    3,
	})
	if err != nil {
		t.Fatalf("unexpected error creating policy: %s", err.Error())
	}

	expected := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for i, want := range expected {
		if got := policy.Delay(i + 1); got != want {
			t.Errorf("expected delay %s before retry %d, got %s", want, i+1, got)
		}
	}
}

func TestPolicyDelayClampedToMaxDelay(t *testing.T) {
	policy, err := NewPolicy(Policy{
		BackoffFactor: 10.0,
		InitialDelay:  time.Second,
		MaxDelay:      5 * time.Second,
		MaxRetries:    10,
	})
	if err != nil {
		t.Fatalf("unexpected error creating policy: %s", err.Error())
	}

	if got := policy.Delay(1); got != time.Second {
		t.Errorf("expected first delay below the cap, got %s", got)
	}
	if got := policy.Delay(5); got != 5*time.Second {
		t.Errorf("expected delay clamped to the cap, got %s", got)
	}
}

func TestPolicyDelayNeverOverflows(t *testing.T) {
	policy, err := NewPolicy(Policy{
		BackoffFactor: 100.0,
		InitialDelay:  time.Hour,
		MaxRetries:    500,
	})
	if err != nil {
		t.Fatalf("unexpected error creating policy: %s", err.Error())
	}

	if got := policy.Delay(400); got < 0 {
		t.Errorf("expected a non-negative delay, got %s", got)
	}
	if got := policy.Delay(400); got != time.Duration(math.MaxInt64) {
		t.Errorf("expected an overflowing delay to saturate, got %s", got)
	}
}

func TestPolicyRetryable(t *testing.T) {
	xfault.SetLogger(slog.New(slog.DiscardHandler))
	t.Cleanup(func() { xfault.SetLogger(nil) })

	policy, err := NewPolicy(Policy{
		BackoffFactor: 2.0,
		Categories:    []xfault.Category{xfault.CategoryNetwork},
		InitialDelay:  time.Second,
		MaxRetries:    3,
	})
	if err != nil {
		t.Fatalf("unexpected error creating policy: %s", err.Error())
	}

	network := xfault.MustNew(xfault.NetworkTimeout, "request timed out")
	validation := xfault.MustNew(xfault.ValidationInvalidIdentifier, "identifier is malformed")
	if !policy.Retryable(network) {
		t.Errorf("expected a network error to be retryable")
	}
	if policy.Retryable(validation) {
		t.Errorf("expected a validation error not to be retryable")
	}
	if policy.Retryable(errors.New("plain error")) {
		t.Errorf("expected a plain error not to be retryable")
	}
	if policy.Retryable(nil) {
		t.Errorf("expected nil not to be retryable")
	}
}
