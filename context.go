package xfault

import (
	"context"

	"github.com/google/uuid"
)

// correlationIDCtxKey is just a key for storing a correlation ID in a context.
type correlationIDCtxKey struct{}

// WithCorrelationID returns a new context carrying the given correlation ID.
//
// The ID is attached to every log record emitted on the same logical call chain for as long as the returned
// context (or a child of it) is in use. Because the ID travels in the context rather than in any shared mutable
// state, a nested scope that sets its own ID supersedes the enclosing one only for its own subtree, and the
// enclosing ID is naturally restored when the nested scope's context goes out of use. Concurrent call chains with
// different IDs never observe each other's values.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDCtxKey{}, id)
}

// CorrelationID returns the correlation ID stored in the context.
//
// The second return value is false if the context carries no correlation ID.
func CorrelationID(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(correlationIDCtxKey{}).(string); ok && id != "" {
		return id, true
	}
	return "", false
}

// NewCorrelationID generates a fresh opaque correlation ID.
func NewCorrelationID() string {
	return uuid.New().String()
}
