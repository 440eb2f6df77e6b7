// Package logging provides the structured logging subsystem for xfault: level-filtered sinks for the console and
// for size-rotated files, a set of fixed output formats, correlation-ID propagation from contexts, and a
// process-wide [Manager] that hands out named loggers backed by both sinks.
//
// Sinks are plain [log/slog] handlers, so any [slog.Logger] can drive them and applications can mix in their own
// handlers. Handlers can also be built from raw JSON configuration through the builder registry (see
// [NewBuilderFromConfig]).
package logging
