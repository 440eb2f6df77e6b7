package logging

import (
	"log/slog"
	"path/filepath"
	"time"
)

var (
	// AttrsKey is the key under which unrecognized attributes are grouped when a record is converted to a string
	// map by an error handler.
	AttrsKey = "attrs"

	// CorrelationIDKey is the key under which a record's correlation ID is mapped.
	CorrelationIDKey = "correlation_id"

	// FunctionKey is the key under which the function associated with a record's caller is mapped.
	FunctionKey = "function"

	// LevelKey is the key under which a record's level is mapped.
	LevelKey = "level"

	// LineKey is the key under which the line associated with a record's caller is mapped.
	LineKey = "line"

	// LoggerKey is the key under which the emitting logger's name is mapped.
	LoggerKey = "logger"

	// MessageKey is the key under which a record's message is mapped.
	MessageKey = "message"

	// ModuleKey is the key under which the file associated with a record's caller is mapped.
	ModuleKey = "module"

	// TimeKey is the key under which a record's timestamp is mapped.
	TimeKey = "timestamp"
)

// RecordToMap converts an entire [slog.Record] into a map[string]any.
//
// Record fields are mapped as follows:
//   - timestamp is mapped to [TimeKey] as an ISO-8601 string
//   - level is mapped to [LevelKey] using [LevelName]
//   - message is mapped to [MessageKey]
//   - caller information, when present, is mapped to [ModuleKey] (base file name), [FunctionKey] and [LineKey]
//   - a correlation-ID attribute is lifted to [CorrelationIDKey]
//   - all remaining attributes are mapped under their own keys, with nested groups becoming nested maps
func RecordToMap(r *slog.Record) map[string]any {
	if r == nil {
		return nil
	}

	m := make(map[string]any, 8)
	m[TimeKey] = r.Time.Format(time.RFC3339Nano)
	m[LevelKey] = LevelName(r.Level)
	m[MessageKey] = r.Message
	if src := r.Source(); src != nil && src.File != "" {
		m[ModuleKey] = filepath.Base(src.File)
		m[FunctionKey] = src.Function
		m[LineKey] = src.Line
	}
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = resolveValue(a.Value)
		return true
	})
	return m
}

// resolveValue recursively processes an slog.Value.
//
// If the value is a group, it creates a nested map. Otherwise, it returns the value's underlying 'any'
// representation.
func resolveValue(v slog.Value) any {
	v = v.Resolve()
	if v.Kind() == slog.KindGroup {
		attrs := v.Group()
		groupMap := make(map[string]any, len(attrs))
		for _, a := range attrs {
			groupMap[a.Key] = resolveValue(a.Value)
		}
		return groupMap
	}
	return v.Any()
}
