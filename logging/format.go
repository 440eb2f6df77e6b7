package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"go.innotegrity.dev/xerrors"
	"go.innotegrity.dev/xfault"
)

const (
	// FormatSimple renders records as "HH:MM:SS - name - LEVEL - message".
	FormatSimple Format = "simple"

	// FormatDetailed renders records as "YYYY-MM-DD HH:MM:SS - name - LEVEL - file:line - message".
	FormatDetailed Format = "detailed"

	// FormatJSON renders records as a JSON object with the keys timestamp, level, logger, message, module,
	// function and line, plus correlation_id when one is bound and any further attributes under their own keys.
	FormatJSON Format = "json"

	// FormatPretty renders records in a colorized human-readable format using [tint.NewHandler]. It is only
	// available for console sinks.
	//
	// References:
	//   https://pkg.go.dev/github.com/lmittmann/tint#NewHandler
	FormatPretty Format = "pretty"
)

// Format is a pre-defined output format for a sink. Formats are mutually exclusive per sink.
//
// The simple and detailed line formats carry only the record's message; attributes are rendered by the json and
// pretty formats.
type Format string

// ParseFormat parses a format from its string form, ignoring case and surrounding whitespace.
//
// This function may return an error with any of the following codes:
//   - [xfault.InvalidParameter]: the string does not name a format
func ParseFormat(s string) (Format, xerrors.Error) {
	format := Format(strings.TrimSpace(strings.ToLower(s)))
	switch format {
	case FormatSimple, FormatDetailed, FormatJSON, FormatPretty:
		return format, nil
	}
	return "", xerrors.Newf(xfault.InvalidParameter, "%s: invalid log format", s).WithAttr("format", s)
}

// lineHandler is an [slog.Handler] that renders each record in one of the fixed formats and writes it with a
// single Write call so records never interleave on a shared writer.
type lineHandler struct {
	// unexported variables
	attrs  []slog.Attr  // attributes accumulated through WithAttrs
	format Format       // output format (simple, detailed or json)
	groups []string     // group names accumulated through WithGroup
	level  slog.Leveler // minimum level for this handler
	name   string       // logger name rendered into each record
	w      io.Writer    // output writer; must serialize concurrent writes itself
}

// newLineHandler creates a handler rendering the given format to the writer.
func newLineHandler(w io.Writer, name string, format Format, level slog.Leveler) *lineHandler {
	return &lineHandler{
		format: format,
		level:  level,
		name:   name,
		w:      w,
	}
}

// Enabled returns true if the handler should handle the message or false if it should not.
func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == nil {
		return true
	}
	return level >= h.level.Level()
}

// Handle renders the record and writes it to the underlying writer.
func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	var line []byte
	switch h.format {
	case FormatSimple:
		line = fmt.Appendf(nil, "%s - %s - %s - %s\n",
			r.Time.Format("15:04:05"), h.name, LevelName(r.Level), r.Message)
	case FormatJSON:
		var err error
		if line, err = h.renderJSON(&r); err != nil {
			return xerrors.Wrapf(xfault.MarshalError, err, "failed to render record as JSON: %s", err.Error())
		}
		line = append(line, '\n')
	default: // FormatDetailed
		file, lineNo := "???", 0
		if src := r.Source(); src != nil && src.File != "" {
			file = filepath.Base(src.File)
			lineNo = src.Line
		}
		line = fmt.Appendf(nil, "%s - %s - %s - %s:%d - %s\n",
			r.Time.Format("2006-01-02 15:04:05"), h.name, LevelName(r.Level), file, lineNo, r.Message)
	}

	if _, err := h.w.Write(line); err != nil {
		return xerrors.Wrapf(xfault.HandleRecordError, err, "failed to write record: %s", err.Error())
	}
	return nil
}

// renderJSON marshals the record to a single JSON object.
func (h *lineHandler) renderJSON(r *slog.Record) ([]byte, error) {
	m := RecordToMap(r)
	m[LoggerKey] = h.name
	for _, a := range h.attrs {
		m[a.Key] = resolveValue(a.Value)
	}
	return json.Marshal(m)
}

// attrKey prefixes an attribute key with any open group names.
func (h *lineHandler) attrKey(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(append(append([]string(nil), h.groups...), key), ".")
}

// WithAttrs returns a new handler whose attributes consist of both the current object's attributes and the
// given attributes.
func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := h.clone()
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, slog.Attr{Key: h.attrKey(a.Key), Value: a.Value})
	}
	return clone
}

// WithGroup returns a new handler with the existing object's attributes part of the given group.
func (h *lineHandler) WithGroup(name string) slog.Handler {
	if len(name) == 0 {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

// clone creates a copy of the current handler.
func (h *lineHandler) clone() *lineHandler {
	return &lineHandler{
		attrs:  append([]slog.Attr(nil), h.attrs...),
		format: h.format,
		groups: append([]string(nil), h.groups...),
		level:  h.level,
		name:   h.name,
		w:      h.w,
	}
}
