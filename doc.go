// Package xfault provides a uniform error taxonomy for wrapping unreliable operations such as network calls,
// external API lookups and calculations.
//
// The root package defines the error model itself: stable numeric error codes partitioned into category bands,
// ordered severities, and an immutable [Error] value carrying a message, free-form context, an optional recovery
// suggestion and the operation it originated from. Constructing an [Error] always emits exactly one log record at
// a level derived from its severity, so no error can exist unobserved.
//
// Correlation identifiers are threaded through [context.Context] values so that concurrent call chains never
// observe each other's IDs.
//
// The subpackages build on the error model:
//   - [go.innotegrity.dev/xfault/logging] provides the structured, rotated, correlation-tagged logging sinks.
//   - [go.innotegrity.dev/xfault/retry] retries operations whose errors fall into retryable categories.
//   - [go.innotegrity.dev/xfault/fallback] degrades gracefully to default values for recoverable categories.
//   - [go.innotegrity.dev/xfault/report] aggregates error streams into summary statistics.
//   - [go.innotegrity.dev/xfault/metrics] exports executor telemetry to a Prometheus registry.
package xfault
