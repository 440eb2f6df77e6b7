package xfault

import (
	"log/slog"
	"strings"

	"go.innotegrity.dev/xerrors"
)

// LevelCritical is the [slog.Level] used for critical-severity records.
//
// The standard levels stop at [slog.LevelError]; critical sits one step above it, following the same spacing the
// slog package uses between its built-in levels.
const LevelCritical = slog.LevelError + 4

// Severity describes how serious an error is.
//
// Severities are totally ordered: [SeverityLow] < [SeverityMedium] < [SeverityHigh] < [SeverityCritical]. The
// ordering is used both for log-level derivation and for "highest severity seen" aggregation.
type Severity int

const (
	// SeverityLow marks errors that are expected in normal operation and require no action.
	SeverityLow Severity = iota + 1

	// SeverityMedium marks errors that are recoverable but worth investigating if frequent.
	SeverityMedium

	// SeverityHigh marks errors that degrade functionality and usually require action.
	SeverityHigh

	// SeverityCritical marks errors after which the process cannot be expected to behave correctly.
	SeverityCritical
)

// String returns the severity's name.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	}
	return "unknown"
}

// Level maps the severity to the log level used when the error is emitted.
//
// Low maps to DEBUG, medium to WARNING, high to ERROR and critical to [LevelCritical].
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityLow:
		return slog.LevelDebug
	case SeverityMedium:
		return slog.LevelWarn
	case SeverityHigh:
		return slog.LevelError
	case SeverityCritical:
		return LevelCritical
	}
	return slog.LevelWarn
}

// ParseSeverity parses a severity from its string form, ignoring case and surrounding whitespace.
//
// This function may return an error with any of the following codes:
//   - [InvalidParameter]: the string does not name a severity
func ParseSeverity(s string) (Severity, xerrors.Error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	}
	return 0, xerrors.Newf(InvalidParameter, "%s: invalid severity", s).WithAttr("severity", s)
}
