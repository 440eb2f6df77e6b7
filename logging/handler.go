package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.innotegrity.dev/xerrors"
	"go.innotegrity.dev/xfault"
)

var (
	// DefaultErrorHandlerWriter is the [io.Writer] that will be used to write any error messages to if the
	// [DefaultErrorHandler] function is used for any of the handlers.
	//
	// References:
	//   https://pkg.go.dev/io#Writer
	DefaultErrorHandlerWriter io.Writer = os.Stderr
)

// ErrorHandlerFn is a function that's called to process any internal errors that may occur when a message is
// processed by a handler.
//
// It is passed the context and original record being handled along with the error that occurred.  It can return
// the same error back or modify the error, which will subsequently be returned by the [slog.Handler.Handle] function.
//
// Note that in some cases (eg: when a handler is closed), the original record being logged may not be available,
// so it will be nil.
//
// Typically err should never be nil, but your function should also check to make sure that it is not nil.
//
// You should also not modify the passed record in any way.  If you need to make changes to it, use the
// [slog.Record.Clone] function to clone it first.
type ErrorHandlerFn func(ctx context.Context, err error, r *slog.Record) error

// ExtendedHandler defines the interface for a handler with extended functionality that is useful when creating
// handlers from configuration files.
type ExtendedHandler interface {
	slog.Handler

	// ChildHandlers returns any child handler(s) for the handler.
	//
	// This function should return nil if the handler has no child handlers.
	ChildHandlers() []slog.Handler

	// Options should return the configured handler-specific options.
	Options() any

	// Type should return the type of the handler.
	Type() string
}

// LevelVarHandler defines the interface for a handler that allows you to retrieve the underlying [slog.LevelVar]
// object in the handler, which is useful for adjusting levels at runtime.
type LevelVarHandler interface {
	// GetLevelVar should return the [slog.LevelVar] object for manipulating the current minimum logging level.
	//
	// References:
	//   https://pkg.go.dev/log/slog#LevelVar
	GetLevelVar() *slog.LevelVar
}

// DefaultErrorHandler can be used as a default error handler for any of the handlers supported by this package.
//
// It will simply wrap the error in an [xerrors.Error] object and add the record's details as attributes to the error
// and print the error to [DefaultErrorHandlerWriter], returning the new error object.
//
// This function will always return a [xfault.HandleRecordError] error.
func DefaultErrorHandler(ctx context.Context, err error, r *slog.Record) error {
	output := map[string]any{}

	// get the record details
	record := RecordToMap(r)
	if len(record) > 0 {
		output["record"] = record
	}

	// get the error details
	errMap := map[string]any{}
	var xerr xerrors.Error
	if err != nil {
		errMap["message"] = fmt.Sprintf("failed to write record: %s", err.Error())
		errMap["code"] = xfault.HandleRecordError
		errMap["error"] = err
		xerr = xerrors.Wrapf(xfault.HandleRecordError, err, "failed to write record: %s", err.Error())
	} else {
		msg := "an unexpected error occurred while writing the record"
		errMap["message"] = msg
		errMap["code"] = xfault.HandleRecordError
		xerr = xerrors.New(xfault.HandleRecordError, msg)
	}
	if len(errMap) > 0 {
		output["error"] = errMap
	}

	// print the error to the writer
	if DefaultErrorHandlerWriter == nil {
		DefaultErrorHandlerWriter = io.Discard
	}
	if o, err := json.Marshal(output); err == nil {
		fmt.Fprintf(DefaultErrorHandlerWriter, "%s\n", string(o))
	} else {
		fmt.Fprintf(DefaultErrorHandlerWriter, "%+v\n", output)
	}
	return xerr.WithAttrs(output)
}

// New is just a wrapper to create a new [slog.Logger] object.
func New(h slog.Handler) *slog.Logger {
	return slog.New(h)
}
