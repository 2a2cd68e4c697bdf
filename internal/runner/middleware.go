package runner

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/sweepfire/internal/tracing"
)

// HTTPError represents an HTTP response outside the 2xx/3xx range.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// FailureLogger logs failed requests.
type FailureLogger interface {
	LogFailure(err error)
}

// loggingRequester wraps a Requester with failure logging.
type loggingRequester struct {
	inner  Requester
	logger FailureLogger
}

// WithLogging wraps a Requester to log failures. Failures are reported, never counted.
func WithLogging(req Requester, logger FailureLogger) Requester {
	if logger == nil {
		return req
	}
	return &loggingRequester{
		inner:  req,
		logger: logger,
	}
}

func (l *loggingRequester) Do(ctx context.Context) error {
	err := l.inner.Do(ctx)
	if err != nil && l.logger != nil {
		l.logger.LogFailure(err)
	}
	return err
}

type tracingRequester struct {
	inner  Requester
	tracer trace.Tracer
	method string
}

// WithTracing wraps a Requester so every request runs inside a client span.
func WithTracing(req Requester, tracer trace.Tracer, method string) Requester {
	if tracer == nil {
		return req
	}
	return &tracingRequester{inner: req, tracer: tracer, method: method}
}

func (t *tracingRequester) Do(ctx context.Context) error {
	ctx, span := tracing.StartRequestSpan(ctx, t.tracer, t.method)
	err := t.inner.Do(ctx)
	var attrs []attribute.KeyValue
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		attrs = append(attrs, attribute.Int("http.response.status_code", httpErr.StatusCode))
	}
	tracing.EndSpan(span, err, attrs...)
	return err
}
