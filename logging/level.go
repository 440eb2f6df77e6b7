package logging

import (
	"log/slog"
	"strings"

	"go.innotegrity.dev/xerrors"
	"go.innotegrity.dev/xfault"
)

// LevelCritical is the level at which critical-severity records are emitted.
//
// References:
//   https://pkg.go.dev/go.innotegrity.dev/xfault#LevelCritical
const LevelCritical = xfault.LevelCritical

// ParseLevel parses a log level from its string form, ignoring case and surrounding whitespace.
//
// In addition to the names the slog package uses, WARNING and CRITICAL are accepted.
//
// This function may return an error with any of the following codes:
//   - [xfault.InvalidParameter]: the string does not name a level
func ParseLevel(s string) (slog.Level, xerrors.Error) {
	switch strings.TrimSpace(strings.ToUpper(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	}
	return 0, xerrors.Newf(xfault.InvalidParameter, "%s: invalid log level", s).WithAttr("level", s)
}

// LevelName returns the canonical name of a level as it appears in rendered records.
//
// Unlike [slog.Level.String], warn renders as WARNING and anything at or above [LevelCritical] renders as
// CRITICAL, so levels round-trip with [ParseLevel].
func LevelName(level slog.Level) string {
	switch {
	case level >= LevelCritical:
		return "CRITICAL"
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}
