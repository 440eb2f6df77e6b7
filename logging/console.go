package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"go.innotegrity.dev/xerrors"
	"go.innotegrity.dev/xfault"
)

const (
	// ConsoleHandlerType is the type for a [ConsoleHandler].
	ConsoleHandlerType = "console"
)

var (
	// DefaultConsoleHandlerLogLevel is the default log level to use when one is not provided.
	//
	// This value is used when the level in [ConsoleHandlerOptions] is unset.
	//
	// Setting this value changes the default globally for the package.
	DefaultConsoleHandlerLogLevel = slog.LevelInfo

	// DefaultConsoleHandlerFormat is the default output format to use for the handler.
	//
	// This value is used when the format in [ConsoleHandlerOptions] is empty.
	//
	// Setting this value changes the default globally for the package.
	DefaultConsoleHandlerFormat = FormatDetailed
)

// ConsoleHandlerOptions holds the options for a [ConsoleHandler].
type ConsoleHandlerOptions struct {
	// ErrorHandler is a function that's called to process any internal errors that may occur when a message is
	// processed by the underlying handler.
	//
	// The default behavior is to ignore these errors.
	//
	// When reading configuration settings from a file or raw JSON, create a [HandlerBuilder] and pass the
	// [HandlerBuilder.Build] function a [BuildHandlerCallbackFn] callback to modify the options and set this
	// value from your application, if desired.
	ErrorHandler ErrorHandlerFn `json:"-"`

	// Format stores the output format for the handler.
	//
	// The default behavior is defined by the default format setting defined in the package.
	//
	// When reading configuration settings from a file or raw JSON, if this value is not present, it will be set
	// to an empty string.
	Format Format `json:"format"`

	// Level is the minimum level at which to log messages.
	//
	// The default behavior is defined by the default level setting defined in the package.
	//
	// When reading configuration settings from a file or raw JSON, if this value is not present, it will be set
	// to nil.
	Level *slog.LevelVar `json:"level"`

	// Name is the logger name rendered into each record.
	//
	// When reading configuration settings from a file or raw JSON, if this value is not present, it will be set
	// to an empty string.
	Name string `json:"name"`

	// Output overrides the writer messages are sent to, which is primarily useful for testing.
	//
	// When this value is set, the Stderr flag is ignored. If the writer is not a terminal-backed file, the pretty
	// format renders without color.
	Output io.Writer `json:"-"`

	// Stderr is a flag to send messages for this handler to stderr instead of stdout.
	//
	// When reading configuration settings from a file or raw JSON, if this value is not present, it will be set
	// to false.
	Stderr bool `json:"stderr"`
}

// jsonConsoleHandlerOptions is an alternate form of [ConsoleHandlerOptions] that is used during unmarshalling to
// prevent infinite recursion.
type jsonConsoleHandlerOptions struct {
	Format string `json:"format"`
	Level  string `json:"level"`
	Name   string `json:"name"`
	Stderr bool   `json:"stderr"`
}

// UnmarshalJSON decodes the JSON-encoded data into the current object.
func (o *ConsoleHandlerOptions) UnmarshalJSON(data []byte) error {
	var opts jsonConsoleHandlerOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return err
	}

	// validate the format
	//
	// note that we purposely leave the format empty here if it's not set so that it can be set when the handler
	// is created or overridden by the calling application
	if opts.Format != "" {
		format, err := ParseFormat(opts.Format)
		if err != nil {
			return err
		}
		o.Format = format
	}

	// validate the log level
	//
	// note that we purposely leave the level nil here if it's not set so that it can be set when the handler
	// is created or overridden by the calling application
	if opts.Level != "" {
		level, err := ParseLevel(opts.Level)
		if err != nil {
			return err
		}
		var levelVar slog.LevelVar
		levelVar.Set(level)
		o.Level = &levelVar
	}

	// copy remaining options
	o.Name = opts.Name
	o.Stderr = opts.Stderr

	return nil
}

// ensure [ConsoleHandler] implements the [ExtendedHandler] interface.
var _ ExtendedHandler = &ConsoleHandler{}

// ensure [ConsoleHandler] implements the [LevelVarHandler] interface.
var _ LevelVarHandler = &ConsoleHandler{}

// ConsoleHandler is a handler that writes messages to stdout or stderr.
type ConsoleHandler struct {
	// unexported variables
	handler slog.Handler          // underlying handler used for output
	options ConsoleHandlerOptions // handler options
}

// NewConsoleHandler creates a new [ConsoleHandler] object with the given options.
//
// This function may return an error with any of the following codes:
//   - [xfault.OptionsValidationError]: one or more options are invalid
func NewConsoleHandler(options ConsoleHandlerOptions) (*ConsoleHandler, xerrors.Error) {
	h := &ConsoleHandler{
		options: options,
	}

	// setup the output writer
	var writer io.Writer = os.Stdout
	if h.options.Stderr {
		writer = os.Stderr
	}
	if h.options.Output != nil {
		writer = h.options.Output
	}

	// ensure a minimum level is set
	if h.options.Level == nil {
		var level slog.LevelVar
		level.Set(DefaultConsoleHandlerLogLevel)
		h.options.Level = &level
	}

	// create the handler based on the format
	if h.options.Format == "" {
		h.options.Format = DefaultConsoleHandlerFormat
	}
	switch h.options.Format {
	case FormatSimple, FormatDetailed, FormatJSON:
		h.handler = newLineHandler(newSyncWriter(writer), h.options.Name, h.options.Format, h.options.Level)
	case FormatPretty:
		noColor := true
		if f, ok := writer.(*os.File); ok {
			writer = colorable.NewColorable(f)
			noColor = !isatty.IsTerminal(f.Fd())
		}
		h.handler = tint.NewHandler(writer, &tint.Options{
			AddSource:  true,
			Level:      h.options.Level,
			NoColor:    noColor,
			TimeFormat: "2006-01-02 15:04:05",
		})
	default:
		return nil, xerrors.Newf(xfault.OptionsValidationError, "%s: invalid console handler format",
			h.options.Format).WithAttr("format", h.options.Format)
	}

	return h, nil
}

// ChildHandlers returns the underlying [slog.Handler] which actually performs the logging.
func (h *ConsoleHandler) ChildHandlers() []slog.Handler {
	return []slog.Handler{h.handler}
}

// Close does nothing for this handler.
func (h *ConsoleHandler) Close() error {
	return nil
}

// Enabled returns true if the handler should handle the message or false if it should not.
func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.options.Level.Level()
}

// GetLevelVar returns the handler's [slog.LevelVar] for manipulating the minimum logging level.
func (h *ConsoleHandler) GetLevelVar() *slog.LevelVar {
	return h.options.Level
}

// Handle processes the record and handles logging it.
func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	err := h.handler.Handle(ctx, r)
	if err != nil && h.options.ErrorHandler != nil {
		err = h.options.ErrorHandler(ctx, err, &r)
	}
	return err
}

// Options returns the handler's options.
func (h *ConsoleHandler) Options() any {
	return h.options
}

// Type returns the type of the handler.
func (h *ConsoleHandler) Type() string {
	return ConsoleHandlerType
}

// WithAttrs returns a new handler whose attributes consist of both the current object's attributes and the
// given attributes.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.handler = h.handler.WithAttrs(attrs)
	return clone
}

// WithGroup returns a new handler with the existing object's attributes part of the given group.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if len(name) == 0 {
		return h
	}

	clone := h.clone()
	clone.handler = h.handler.WithGroup(name)
	return clone
}

// clone creates a copy of current handler.
func (h *ConsoleHandler) clone() *ConsoleHandler {
	return &ConsoleHandler{
		handler: h.handler,
		options: h.options,
	}
}

// consoleHandlerBuilder is used to build the handler from configuration options.
type consoleHandlerBuilder struct {
	// unexported variables
	options ConsoleHandlerOptions // handler options
}

// NewConsoleHandlerBuilderFromConfig creates a new [HandlerBuilder] and validates the given options, setting
// any default values as necessary.
//
// This function may return an error with any of the following codes:
//   - [xfault.MarshalError]: error while unmarshaling options from JSON
func NewConsoleHandlerBuilderFromConfig(options json.RawMessage) (HandlerBuilder, xerrors.Error) {
	var opts ConsoleHandlerOptions
	if err := json.Unmarshal(options, &opts); err != nil {
		return nil, xerrors.Wrapf(xfault.MarshalError, err, "failed to unmarshal handler options: %s",
			err.Error()).WithAttr("options", string(options))
	}

	return &consoleHandlerBuilder{
		options: opts,
	}, nil
}

// Build actually creates and returns the handler.
//
// This function may return an error with any of the following codes:
//   - [xfault.BuildHandlerError]: failed to construct the new handler
//
// This function may return other errors if the callback function fails and defines its own error values.
func (b *consoleHandlerBuilder) Build(cb BuildHandlerCallbackFn) (slog.Handler, xerrors.Error) {
	if cb != nil {
		if err := cb(b.Type(), &b.options); err != nil {
			return nil, err
		}
	}
	h, err := NewConsoleHandler(b.options)
	if err != nil {
		return nil, xerrors.Wrapf(xfault.BuildHandlerError, err, "failed to build '%s' handler: %s", b.Type(),
			err.Error())
	}
	return h, nil
}

// MarshalJSON overrides how the object is marshalled to JSON to alter how field values are presented or to
// add additional fields.
func (b *consoleHandlerBuilder) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.options)
}

// Options returns the options as a string map.
func (b *consoleHandlerBuilder) Options() map[string]any {
	jsonOptions, err := json.Marshal(b)
	if err != nil {
		return map[string]any{
			"error": err.Error(),
		}
	}

	var options map[string]any
	if err := json.Unmarshal(jsonOptions, &options); err != nil {
		return map[string]any{
			"error": err.Error(),
		}
	}
	return options
}

// Type returns the type of the handler being built.
func (b *consoleHandlerBuilder) Type() string {
	return ConsoleHandlerType
}
