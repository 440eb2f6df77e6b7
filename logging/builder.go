package logging

import (
	"encoding/json"
	"log/slog"
	"strings"

	"go.innotegrity.dev/xerrors"
	"go.innotegrity.dev/xfault"
)

// NewBuilderFromConfigFn should create a new [HandlerBuilder] object using the raw JSON options it is passed.
type NewBuilderFromConfigFn func(options json.RawMessage) (HandlerBuilder, xerrors.Error)

// BuildHandlerCallbackFn is passed a handler type and a pointer to its concrete options so that any options can
// be overridden by a calling application before the handler is actually built.
//
// This gives the application an opportunity to forcibly overwrite option values based on its own defaults or
// settings from feature flags.
//
// The function should modify the options as necessary and return nil on success or an error on failure.
type BuildHandlerCallbackFn func(handlerType string, options any) xerrors.Error

// HandlerBuilder defines the interface that must be implemented in order to build an [slog.Handler] from settings
// read from a configuration file.
type HandlerBuilder interface {
	json.Marshaler

	// Build should process stored handler options and create/initialize the handler.
	Build(cb BuildHandlerCallbackFn) (slog.Handler, xerrors.Error)

	// Options should return the options as a string map.
	Options() map[string]any

	// Type should return the type of the handler.
	Type() string
}

var (
	_builders map[string]NewBuilderFromConfigFn
)

func init() {
	// register built-in handler builders
	_builders = map[string]NewBuilderFromConfigFn{
		ConsoleHandlerType: NewConsoleHandlerBuilderFromConfig,
		FanoutHandlerType:  NewFanoutHandlerBuilderFromConfig,
		FileHandlerType:    NewFileHandlerBuilderFromConfig,
	}
}

// NewBuilderFromConfig parses and validates the given handler type and its options and returns a new
// [HandlerBuilder] for creating the handler when ready.
//
// This function may return an error with any of the following codes:
//   - [xfault.MarshalError]: error while marshaling options to JSON
//   - [xfault.UnsupportedHandlerType]: unknown or unsupported handler type was encountered
//
// In addition, the function may return any error returned by the "New..." function for any type of builder supported
// by this package.
//
// To register additional builders outside of the built-in builders, use the [RegisterBuilder] function.
func NewBuilderFromConfig(handlerType string, options map[string]any) (HandlerBuilder, xerrors.Error) {
	handlerType = strings.TrimSpace(strings.ToLower(handlerType))

	// marshal the options to JSON
	jsonOptions, err := json.Marshal(options)
	if err != nil {
		return nil, xerrors.Wrapf(xfault.MarshalError, err, "failed to marshal handler options to JSON: %s",
			err.Error()).WithAttrs(map[string]any{
			"type":    handlerType,
			"options": options,
		})
	}

	// create the builder
	if factoryFn, ok := _builders[handlerType]; ok {
		return factoryFn(jsonOptions)
	}
	return nil, xerrors.Newf(xfault.UnsupportedHandlerType, "unsupported handler type: %s", handlerType).
		WithAttrs(map[string]any{
			"type":    handlerType,
			"options": options,
		})
}

// RegisterBuilder attempts to register a [NewBuilderFromConfigFn] for creating a handler builder with the given
// handler type.
//
// To overwrite the function attached to a particular handler type, set overwrite to true.
//
// This function may return an error with any of the following codes:
//   - [xfault.InvalidParameter]: an invalid parameter was passed to the function (eg: handler was empty or factory
//     function was nil)
//   - [xfault.HandlerTypeExists]: a builder for the given handler type already exists
func RegisterBuilder(handlerType string, factoryFn NewBuilderFromConfigFn, overwrite bool) xerrors.Error {
	handlerType = strings.TrimSpace(strings.ToLower(handlerType))
	if handlerType == "" {
		return xerrors.New(xfault.InvalidParameter, "handler type cannot be empty")
	}
	if factoryFn == nil {
		return xerrors.New(xfault.InvalidParameter, "factory function cannot be nil")
	}
	if _, ok := _builders[handlerType]; ok && !overwrite {
		return xerrors.Newf(xfault.HandlerTypeExists, "%s: handler type is already registered", handlerType).
			WithAttr("type", handlerType)
	}
	_builders[handlerType] = factoryFn
	return nil
}

// handlerBuilder is used to build a handler that contains child handlers.
type handlerBuilder struct {
	// HandlerType holds the type of the handler to build.
	HandlerType string `json:"type"`

	// HandlerOptions holds the options for the handler to build.
	HandlerOptions map[string]any `json:"options"`

	// unexported variables
	builder HandlerBuilder // the underlying builder to use to build the new handler
}

// jsonHandlerBuilder is just an alias for [handlerBuilder] that is used during marshalling and unmarshalling to
// prevent infinite recursion.
type jsonHandlerBuilder handlerBuilder

// UnmarshalJSON decodes the JSON-encoded data into the current object.
func (h *handlerBuilder) UnmarshalJSON(data []byte) error {
	var b jsonHandlerBuilder
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}

	builder, err := NewBuilderFromConfig(b.HandlerType, b.HandlerOptions)
	if err != nil {
		return err
	}
	h.HandlerType = b.HandlerType
	h.HandlerOptions = b.HandlerOptions
	h.builder = builder

	return nil
}
