// Package metrics exposes Prometheus counters for the error, retry and fallback activity of an application.
//
// The [Collector] registers its counters against an injected [prometheus.Registerer] and satisfies the narrow
// recorder interfaces of the retry and fallback packages; it never starts a scrape server or pushes anywhere.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.innotegrity.dev/xfault"
	"go.innotegrity.dev/xfault/fallback"
	"go.innotegrity.dev/xfault/retry"
)

// ensure [Collector] implements the recorder interfaces.
var _ retry.Recorder = &Collector{}
var _ fallback.Recorder = &Collector{}

// Collector counts errors, retry activity and fallback engagements.
type Collector struct {
	// unexported variables
	errors           *prometheus.CounterVec // errors by code, category and severity
	fallbacks        *prometheus.CounterVec // fallback engagements by code
	retryAttempts    *prometheus.CounterVec // retry attempts by operation
	retryExhaustions *prometheus.CounterVec // retry exhaustions by operation
}

// NewCollector creates a new [Collector] object and registers its counters with the given registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xfault_errors_total",
			Help: "Total number of errors observed, by code, category and severity.",
		}, []string{"code", "category", "severity"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xfault_fallbacks_total",
			Help: "Total number of fallback engagements, by error code.",
		}, []string{"code"}),
		retryAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xfault_retry_attempts_total",
			Help: "Total number of retry attempts, by operation.",
		}, []string{"operation"}),
		retryExhaustions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xfault_retry_exhaustions_total",
			Help: "Total number of operations that exhausted their retries, by operation.",
		}, []string{"operation"}),
	}
}

// ErrorObserved counts one error occurrence. Nil errors are ignored.
func (c *Collector) ErrorObserved(e *xfault.Error) {
	if e == nil {
		return
	}
	c.errors.WithLabelValues(
		strconv.Itoa(int(e.Code())),
		e.Category().String(),
		e.Severity().String(),
	).Inc()
}

// FallbackEngaged counts one fallback engagement.
func (c *Collector) FallbackEngaged(code xfault.Code) {
	c.fallbacks.WithLabelValues(strconv.Itoa(int(code))).Inc()
}

// RetryAttempt counts one retry attempt.
func (c *Collector) RetryAttempt(operation string) {
	c.retryAttempts.WithLabelValues(operation).Inc()
}

// RetryExhausted counts one exhausted operation.
func (c *Collector) RetryExhausted(operation string) {
	c.retryExhaustions.WithLabelValues(operation).Inc()
}
