package xfault

const (
	// InvalidParameter indicates that an invalid value or type was passed as a parameter to a function.
	InvalidParameter = 1

	// InvalidErrorCode indicates that an [Error] was constructed with a code that falls outside every defined
	// category band.
	//
	// References:
	//   https://pkg.go.dev/go.innotegrity.dev/xfault#CategoryOf
	InvalidErrorCode = 2

	// InvalidPolicy indicates that a retry policy was constructed with values that make its backoff formula
	// meaningless (eg: a backoff factor below 1.0 or a negative retry count).
	InvalidPolicy = 3

	// HandleRecordError indicates there was a general error when an [slog.Handler.Handle] function was called that
	// resulted in the record not being logged.
	//
	// References:
	//   https://pkg.go.dev/log/slog#Handler.Handle
	HandleRecordError = 4

	// BuildHandlerError indicates that an error occurred when an [slog.Handler] was in the process of being built
	// by a handler builder.
	//
	// References:
	//   https://pkg.go.dev/log/slog#Handler
	BuildHandlerError = 5

	// MarshalError indicates there was an error marshalling data to JSON or unmarshalling data from JSON.
	MarshalError = 6

	// UnsupportedHandlerType indicates that an unsupported type of handler was requested to be created.
	UnsupportedHandlerType = 7

	// OptionsValidationError indicates that one or more options or values for a handler are invalid.
	OptionsValidationError = 8

	// HandlerTypeExists indicates that the handler type already exists but is trying to be registered again.
	HandlerTypeExists = 9
)
