package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// StartSweepSpan starts the root span covering a whole concurrency sweep.
func StartSweepSpan(ctx context.Context, tracer trace.Tracer, runID, method, target string, requests, repeats int) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "sweep")
	span.SetAttributes(
		attribute.String("sweepfire.run_id", runID),
		attribute.String("http.request.method", method),
		attribute.String("url.full", target),
		attribute.Int("sweepfire.request_count", requests),
		attribute.Int("sweepfire.repeat_count", repeats),
	)
	return ctx, span
}

// StartTrialSpan starts a span for one (repeat, concurrency) trial.
func StartTrialSpan(ctx context.Context, tracer trace.Tracer, repeat, concurrency int) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "trial")
	span.SetAttributes(
		attribute.Int("sweepfire.repeat", repeat),
		attribute.Int("sweepfire.concurrency", concurrency),
	)
	return ctx, span
}

// StartRequestSpan starts a client span for a single HTTP request.
func StartRequestSpan(ctx context.Context, tracer trace.Tracer, method string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "HTTP "+method,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(attribute.String("http.request.method", method))
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

// InjectHTTPHeaders injects W3C trace context into HTTP headers.
func InjectHTTPHeaders(ctx context.Context, headers http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
}
