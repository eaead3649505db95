package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps an OpenTelemetry tracer with catalog-specific span helpers.
type Tracer struct {
	tracer   trace.Tracer
	provider trace.TracerProvider
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider) *Tracer {
	return &Tracer{
		tracer:   tp.Tracer(TracerName),
		provider: tp,
	}
}

// NewNoopTracer creates a tracer that does nothing.
func NewNoopTracer() *Tracer {
	tp := tracenoop.NewTracerProvider()
	return &Tracer{tracer: tp.Tracer(""), provider: tp}
}

// Provider returns the underlying provider, for instrumenting HTTP clients.
func (t *Tracer) Provider() trace.TracerProvider {
	if t == nil {
		return tracenoop.NewTracerProvider()
	}
	return t.provider
}

// StartSpan starts a new span with the given name and attributes.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if t == nil {
		return NewNoopTracer().StartSpan(ctx, name, attrs...)
	}
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartRepositoryOp starts a span for a repository read or save. extra is
// appended after the entity, operation and relation attributes.
func (t *Tracer) StartRepositoryOp(ctx context.Context, entity, op string, relations []string, extra ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{EntityAttr(entity), OperationAttr(op)}
	attrs = append(attrs, extra...)
	if len(relations) > 0 {
		attrs = append(attrs, RelationsAttr(relations))
	}
	return t.StartSpan(ctx, "repository."+op, attrs...)
}

// StartRemoteFetch starts a span for a statistics API call.
func (t *Tracer) StartRemoteFetch(ctx context.Context, resource, url string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, "remote.fetch",
		attribute.String(AttrRemoteTarget, resource),
		attribute.String(AttrRemoteURL, url),
	)
}

// RecordError records an error on the span.
func (t *Tracer) RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// LoggerWithTrace returns a logger enriched with trace context.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return logger
	}
	return logger.With(
		slog.String(LogFieldTraceID, span.SpanContext().TraceID().String()),
		slog.String(LogFieldSpanID, span.SpanContext().SpanID().String()),
	)
}
