// Package tracing provides OpenTelemetry tracing for discovery cycles:
// span creation, cycle id propagation, and trace export.
package tracing

import (
	"context"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

// cycleIDKey is the context key carrying the current discovery cycle id.
const cycleIDKey contextKey = "cycle_id"

// CycleIDFromContext extracts the cycle id from the context. Returns an
// empty string if none is present.
func CycleIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(cycleIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// ContextWithCycleID returns a new context with the cycle id set. If the id
// is empty, the original context is returned unchanged.
func ContextWithCycleID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, cycleIDKey, id)
}
