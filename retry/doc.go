// Package retry wraps fallible operations with bounded retries and exponential backoff.
//
// Which failures are worth retrying is decided by the error's category, so only [xfault.Error] values ever
// trigger a retry; any other error aborts immediately. Delays between attempts grow by a configurable factor and
// are clamped to an optional ceiling, and cancellation of the operation's context is honored between attempts.
package retry
