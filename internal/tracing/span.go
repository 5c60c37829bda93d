package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartMeasureSpan starts a span covering one (precision, transform) measurement.
// The span wraps warm-up and every timed repetition; it is never opened inside a
// counted region.
func StartMeasureSpan(ctx context.Context, tracer trace.Tracer, precision, transform string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, precision+"_"+transform,
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	span.SetAttributes(
		attribute.String("arithbench.precision", precision),
		attribute.String("arithbench.transform", transform),
	)
	return ctx, span
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
