package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.innotegrity.dev/types"
	"go.innotegrity.dev/xerrors"
	"go.innotegrity.dev/xfault"
)

const (
	// FileHandlerType is the type for a [FileHandler].
	FileHandlerType = "file"
)

var (
	// DefaultFileHandlerBackupCount is the number of rotated log files to retain.
	//
	// This value is used when the backup count in [FileHandlerOptions] is 0.
	//
	// Setting this value changes the default globally for the package.
	DefaultFileHandlerBackupCount = 5

	// DefaultFileHandlerDirMode is the mode that will be used to create any parent directories of the log file.
	//
	// This value is used when the dir mode in [FileHandlerOptions] is set to 0.
	//
	// Setting this value changes the default globally for the package.
	DefaultFileHandlerDirMode = types.FileMode(0755)

	// DefaultFileHandlerFileMode is the mode that will be used for the log file itself when it is created.
	//
	// This value is used when the file mode in [FileHandlerOptions] is set to 0.
	//
	// Setting this value changes the default globally for the package.
	DefaultFileHandlerFileMode = types.FileMode(0640)

	// DefaultFileHandlerFormat is the default output format to use for the handler.
	//
	// This value is used when the format in [FileHandlerOptions] is empty.
	//
	// Setting this value changes the default globally for the package.
	DefaultFileHandlerFormat = FormatDetailed

	// DefaultFileHandlerLogDir is the directory in which log files are created.
	//
	// This value is used when the dir in [FileHandlerOptions] is empty.
	//
	// Setting this value changes the default globally for the package.
	DefaultFileHandlerLogDir = "logs"

	// DefaultFileHandlerLogLevel is the log level to use for the handler.
	//
	// This value is used when the level in [FileHandlerOptions] is unset.
	//
	// Setting this value changes the default globally for the package.
	DefaultFileHandlerLogLevel = slog.LevelDebug

	// DefaultFileHandlerMaxSize is the maximum size of the log file before it gets rotated.
	//
	// This value is used when the max size in [FileHandlerOptions] is 0.
	//
	// Setting this value changes the default globally for the package.
	DefaultFileHandlerMaxSize = types.Size(10 * 1024 * 1024)
)

// FileHandlerOptions holds the options for a [FileHandler].
type FileHandlerOptions struct {
	// BackupCount is the number of rotated log files to retain. Rotated files carry a numeric suffix, with ".1"
	// being the most recent. A negative value disables backups entirely, truncating the file in place on rotation.
	//
	// The default behavior is defined by the default backup count setting defined in the package.
	//
	// When reading configuration settings from a file or raw JSON, if this value is not present, it will be set
	// to 0.
	BackupCount int `json:"backup_count"`

	// Dir is the directory in which log files are created. It is created if it does not exist.
	//
	// The default behavior is defined by the default dir setting defined in the package.
	//
	// When reading configuration settings from a file or raw JSON, if this value is not present, it will be set
	// to an empty string.
	Dir string `json:"dir"`

	// DirMode is the mode used to create the log directory.
	//
	// The default behavior is defined by the default dir mode setting defined in the package.
	//
	// When reading configuration settings from a file or raw JSON, if this value is not present, it will be set
	// to 0.
	DirMode types.FileMode `json:"dir_mode"`

	// ErrorHandler is a function that's called to process any internal errors that may occur when a message is
	// processed by the underlying handler.
	//
	// The default behavior is to ignore these errors.
	//
	// When reading configuration settings from a file or raw JSON, create a [HandlerBuilder] and pass the
	// [HandlerBuilder.Build] function a [BuildHandlerCallbackFn] callback to modify the options and set this
	// value from your application, if desired.
	ErrorHandler ErrorHandlerFn `json:"-"`

	// FileMode is the mode used for the log file itself when it is created.
	//
	// The default behavior is defined by the default file mode setting defined in the package.
	//
	// When reading configuration settings from a file or raw JSON, if this value is not present, it will be set
	// to 0.
	FileMode types.FileMode `json:"file_mode"`

	// Format stores the output format for the handler.
	//
	// The pretty format is not supported for file sinks.
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

	// MaxSize is the maximum size in bytes of the log file before it gets rotated.
	//
	// The default behavior is defined by the default max size setting defined in the package.
	//
	// When reading configuration settings from a file or raw JSON, if this value is not present, it will be set
	// to 0.
	MaxSize types.Size `json:"max_size"`

	// Name is the logger name rendered into each record. It is also used to derive the log file name, so it must
	// not be empty.
	Name string `json:"name"`
}

// jsonFileHandlerOptions is an alternate form of [FileHandlerOptions] that is used during unmarshalling to prevent
// infinite recursion.
type jsonFileHandlerOptions struct {
	BackupCount int            `json:"backup_count"`
	Dir         string         `json:"dir"`
	DirMode     types.FileMode `json:"dir_mode"`
	FileMode    types.FileMode `json:"file_mode"`
	Format      string         `json:"format"`
	Level       string         `json:"level"`
	MaxSize     types.Size     `json:"max_size"`
	Name        string         `json:"name"`
}

// UnmarshalJSON decodes the JSON-encoded data into the current object.
func (o *FileHandlerOptions) UnmarshalJSON(data []byte) error {
	var opts jsonFileHandlerOptions
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
	o.BackupCount = opts.BackupCount
	o.Dir = opts.Dir
	o.DirMode = opts.DirMode
	o.FileMode = opts.FileMode
	o.MaxSize = opts.MaxSize
	o.Name = opts.Name

	return nil
}

// ensure [FileHandler] implements the [ExtendedHandler] interface.
var _ ExtendedHandler = &FileHandler{}

// ensure [FileHandler] implements the [LevelVarHandler] interface.
var _ LevelVarHandler = &FileHandler{}

// FileHandler is a handler that writes messages to a date-stamped file with size-based rotation.
//
// The log file is named "{name}_{YYYYMMDD}.log" inside the configured directory, using the date the handler was
// created. Once the file reaches the maximum size, it is rotated in place before the next record is written:
// the current file becomes "{file}.1", existing backups shift up by one and any backup past the configured count
// is deleted.
type FileHandler struct {
	// unexported variables
	fileWriter *rotatingWriter    // rotating log file writer
	handler    slog.Handler       // underlying handler used for output
	options    FileHandlerOptions // handler options
	path       string             // absolute path to the current log file
}

// NewFileHandler creates a new [FileHandler] object with the given options.
//
// This function may return an error with any of the following codes:
//   - [xfault.OptionsValidationError]: one or more options are invalid or the log file could not be opened
func NewFileHandler(options FileHandlerOptions) (*FileHandler, xerrors.Error) {
	h := &FileHandler{
		options: options,
	}
	if h.options.Name == "" {
		return nil, xerrors.New(xfault.OptionsValidationError, "file handler name cannot be empty")
	}

	// ensure a minimum level is set
	if h.options.Level == nil {
		var level slog.LevelVar
		level.Set(DefaultFileHandlerLogLevel)
		h.options.Level = &level
	}

	// set remaining defaults
	if h.options.Format == "" {
		h.options.Format = DefaultFileHandlerFormat
	}
	if h.options.Format == FormatPretty {
		return nil, xerrors.New(xfault.OptionsValidationError,
			"pretty format is not supported for file handlers").WithAttr("format", h.options.Format)
	}
	if h.options.BackupCount == 0 {
		h.options.BackupCount = DefaultFileHandlerBackupCount
	}
	if h.options.Dir == "" {
		h.options.Dir = DefaultFileHandlerLogDir
	}
	if h.options.DirMode == 0 {
		h.options.DirMode = DefaultFileHandlerDirMode
	}
	if h.options.FileMode == 0 {
		h.options.FileMode = DefaultFileHandlerFileMode
	}
	if h.options.MaxSize == 0 {
		h.options.MaxSize = DefaultFileHandlerMaxSize
	}

	// create the log directory and open the date-stamped log file
	dir := os.ExpandEnv(h.options.Dir)
	if err := os.MkdirAll(dir, os.FileMode(h.options.DirMode)); err != nil {
		return nil, xerrors.Wrapf(xfault.OptionsValidationError, err,
			"failed to create log directory '%s': %s", dir, err.Error()).WithAttr("log_dir", dir)
	}
	path, err := filepath.Abs(filepath.Join(dir,
		fmt.Sprintf("%s_%s.log", h.options.Name, time.Now().Format("20060102"))))
	if err != nil {
		return nil, xerrors.Wrapf(xfault.OptionsValidationError, err,
			"failed to convert log file path to an absolute path: %s", err.Error())
	}
	h.path = path

	writer, xerr := newRotatingWriter(path, int64(h.options.MaxSize), h.options.BackupCount,
		os.FileMode(h.options.FileMode))
	if xerr != nil {
		return nil, xerr
	}
	h.fileWriter = writer
	h.handler = newLineHandler(writer, h.options.Name, h.options.Format, h.options.Level)
	return h, nil
}

// ChildHandlers returns the underlying [slog.Handler] which actually performs the logging.
func (h *FileHandler) ChildHandlers() []slog.Handler {
	return []slog.Handler{h.handler}
}

// Close closes the underlying log file.
func (h *FileHandler) Close() error {
	if h.fileWriter != nil {
		return h.fileWriter.Close()
	}
	return nil
}

// Enabled returns true if the handler should handle the message or false if it should not.
func (h *FileHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.options.Level.Level()
}

// GetLevelVar returns the handler's [slog.LevelVar] for manipulating the minimum logging level.
func (h *FileHandler) GetLevelVar() *slog.LevelVar {
	return h.options.Level
}

// Handle processes the record and handles logging it.
func (h *FileHandler) Handle(ctx context.Context, r slog.Record) error {
	err := h.handler.Handle(ctx, r)
	if err != nil && h.options.ErrorHandler != nil {
		err = h.options.ErrorHandler(ctx, err, &r)
	}
	return err
}

// Options returns the handler's options.
func (h *FileHandler) Options() any {
	return h.options
}

// Path returns the absolute path to the current log file.
func (h *FileHandler) Path() string {
	return h.path
}

// Type returns the type of the handler.
func (h *FileHandler) Type() string {
	return FileHandlerType
}

// WithAttrs returns a new handler whose attributes consist of both the current object's attributes and the
// given attributes.
func (h *FileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.handler = h.handler.WithAttrs(attrs)
	return clone
}

// WithGroup returns a new handler with the existing object's attributes part of the given group.
func (h *FileHandler) WithGroup(name string) slog.Handler {
	if len(name) == 0 {
		return h
	}

	clone := h.clone()
	clone.handler = h.handler.WithGroup(name)
	return clone
}

// clone creates a copy of current handler.
func (h *FileHandler) clone() *FileHandler {
	return &FileHandler{
		fileWriter: h.fileWriter,
		handler:    h.handler,
		options:    h.options,
		path:       h.path,
	}
}

// fileHandlerBuilder is used to build the handler from configuration options.
type fileHandlerBuilder struct {
	// unexported variables
	options FileHandlerOptions // handler options
}

// NewFileHandlerBuilderFromConfig creates a new [HandlerBuilder] and validates the given options, setting
// any default values as necessary.
//
// This function may return an error with any of the following codes:
//   - [xfault.MarshalError]: error while unmarshaling options from JSON
func NewFileHandlerBuilderFromConfig(options json.RawMessage) (HandlerBuilder, xerrors.Error) {
	var opts FileHandlerOptions
	if err := json.Unmarshal(options, &opts); err != nil {
		return nil, xerrors.Wrapf(xfault.MarshalError, err, "failed to unmarshal handler options: %s",
			err.Error()).WithAttr("options", string(options))
	}

	return &fileHandlerBuilder{
		options: opts,
	}, nil
}

// Build actually creates and returns the handler.
//
// This function may return an error with any of the following codes:
//   - [xfault.BuildHandlerError]: failed to construct the new handler
//
// This function may return other errors if the callback function fails and defines its own error values.
func (b *fileHandlerBuilder) Build(cb BuildHandlerCallbackFn) (slog.Handler, xerrors.Error) {
	if cb != nil {
		if err := cb(b.Type(), &b.options); err != nil {
			return nil, err
		}
	}
	h, err := NewFileHandler(b.options)
	if err != nil {
		return nil, xerrors.Wrapf(xfault.BuildHandlerError, err, "failed to build '%s' handler: %s", b.Type(),
			err.Error())
	}
	return h, nil
}

// MarshalJSON overrides how the object is marshalled to JSON to alter how field values are presented or to
// add additional fields.
func (b *fileHandlerBuilder) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.options)
}

// Options returns the options as a string map.
func (b *fileHandlerBuilder) Options() map[string]any {
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
func (b *fileHandlerBuilder) Type() string {
	return FileHandlerType
}
