package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

type traceKey struct{}

// WithTraceID returns ctx carrying traceID. Log records written with the
// returned context get a trace_id attribute.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// GetTraceID returns the trace ID of ctx, or "" when there is none.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// GenerateTraceID returns a random UUID v4.
func GenerateTraceID() string {
	return uuid.NewString()
}

// EnsureTraceID gives ctx a fresh trace ID unless it already has one. CLI
// runs use it so every record of one report shares an ID.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, GenerateTraceID())
}
