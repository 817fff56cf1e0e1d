package logging

import (
	"context"

	"github.com/google/uuid"
)

// Context keys for logging metadata
type contextKey string

const (
	contextKeyRequestID contextKey = "request_id"
	contextKeyOperation contextKey = "operation"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if val := ctx.Value(contextKeyRequestID); val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// WithOperation adds an operation name to the context
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextKeyOperation, operation)
}

// GetOperation retrieves the operation name from context
func GetOperation(ctx context.Context) string {
	if val := ctx.Value(contextKeyOperation); val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// NewRequestContext creates a context carrying a fresh request ID and the
// operation name. An existing request ID is preserved.
func NewRequestContext(ctx context.Context, operation string) context.Context {
	if GetRequestID(ctx) == "" {
		ctx = WithRequestID(ctx, uuid.New().String())
	}
	return WithOperation(ctx, operation)
}
