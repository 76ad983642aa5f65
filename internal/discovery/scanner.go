package discovery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"apiscout/internal/log"
	"apiscout/internal/tracing"
)

// Scanner runs one full discovery cycle: mint a cycle id, run both
// detectors, assemble the registry. One cycle runs to completion before
// the next begins; there is no background refresh.
type Scanner struct {
	local   *LocalDetector
	browser *BrowserDetector
	tracer  trace.Tracer
}

// NewScanner wires the detectors under a tracer.
func NewScanner(local *LocalDetector, browser *BrowserDetector, tracer trace.Tracer) *Scanner {
	return &Scanner{local: local, browser: browser, tracer: tracer}
}

// Scan produces the registry for a fresh cycle. A detector failure aborts
// the cycle; the caller reports it and the loop continues with the next
// refresh.
func (s *Scanner) Scan(ctx context.Context) (*Registry, error) {
	cycleID := uuid.NewString()
	ctx = tracing.ContextWithCycleID(ctx, cycleID)

	ctx, span := s.tracer.Start(ctx, tracing.SpanCycle,
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrCycleID, cycleID))

	start := time.Now()

	locals, err := s.detectLocal(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	browsers, err := s.detectBrowser(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	registry := NewRegistry(cycleID, locals, browsers)

	span.SetAttributes(
		attribute.Int(tracing.AttrLocalCount, len(locals)),
		attribute.Int(tracing.AttrBrowserCount, len(browsers)),
		attribute.Int(tracing.AttrEntryCount, registry.Len()),
	)
	span.SetStatus(codes.Ok, "")

	log.Info(log.CatDiscover, "discovery cycle complete",
		"cycle", cycleID,
		"local", len(locals),
		"browser", len(browsers),
		"duration_ms", time.Since(start).Milliseconds())

	return registry, nil
}

func (s *Scanner) detectLocal(ctx context.Context) ([]Local, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanDetectLocal,
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	locals, err := s.local.Detect(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int(tracing.AttrLocalCount, len(locals)))
	span.SetStatus(codes.Ok, "")
	return locals, nil
}

func (s *Scanner) detectBrowser(ctx context.Context) ([]Browser, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanDetectBrowser,
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	browsers, err := s.browser.Detect(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int(tracing.AttrBrowserCount, len(browsers)))
	span.SetStatus(codes.Ok, "")
	return browsers, nil
}
