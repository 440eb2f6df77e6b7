// Package fallback wraps fallible operations with a degraded-but-working result.
//
// A fallback engages only for failures whose [xfault.Error] category is listed as recoverable, and never for
// CRITICAL-severity errors, which always surface to the caller. Every engagement is logged at WARNING so
// degradation is observable.
package fallback
