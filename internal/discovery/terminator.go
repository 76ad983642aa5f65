package discovery

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"apiscout/internal/log"
	"apiscout/internal/tracing"
)

// browserAdvice is returned for browser entries, which hold the remote end
// of someone else's server and cannot be shut down from here.
const browserAdvice = "Cannot terminate browser-based APIs from this tool. Please close the browser tab manually."

// Signaler sends a graceful termination signal to a process.
type Signaler interface {
	Terminate(ctx context.Context, pid int32) error
}

// CacheInvalidator drops cached metadata for a pid.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, pid int32)
}

// Terminator converts a terminate request into a user-facing outcome
// message. Nothing escapes its boundary: every failure is folded into the
// returned message and the loop carries on.
type Terminator struct {
	signals Signaler
	cache   CacheInvalidator
	tracer  trace.Tracer
}

// NewTerminator wires the signaler under a tracer. cache may be nil when
// no metadata cache is in play.
func NewTerminator(signals Signaler, cache CacheInvalidator, tracer trace.Tracer) *Terminator {
	return &Terminator{signals: signals, cache: cache, tracer: tracer}
}

// Terminate acts on one entry and reports the outcome as a message.
func (t *Terminator) Terminate(ctx context.Context, e Entry) string {
	ctx, span := t.tracer.Start(ctx, tracing.SpanTerminate,
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	span.SetAttributes(
		attribute.String(tracing.AttrEntryKind, e.Kind().String()),
		attribute.Int(tracing.AttrPID, int(e.PID())),
	)

	local, ok := e.(Local)
	if !ok {
		log.Debug(log.CatTerm, "terminate refused for browser entry", "pid", e.PID())
		span.SetStatus(codes.Ok, "")
		return browserAdvice
	}

	span.SetAttributes(attribute.Int(tracing.AttrPort, int(local.Port())))

	if err := t.signals.Terminate(ctx, local.PID()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Sprintf("Error terminating process: %s", err)
	}

	// Drop the cached metadata so the next cycle sees the process's real
	// state instead of a stale name.
	if t.cache != nil {
		t.cache.Invalidate(ctx, local.PID())
	}

	span.SetStatus(codes.Ok, "")
	return fmt.Sprintf("Terminated process %d (%s) on port %d", local.PID(), local.Name(), local.Port())
}
