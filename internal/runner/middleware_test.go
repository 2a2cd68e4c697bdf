package runner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type recordingLogger struct {
	mu   sync.Mutex
	errs []error
}

func (r *recordingLogger) LogFailure(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func TestWithLoggingReportsFailuresOnly(t *testing.T) {
	logger := &recordingLogger{}
	fail := true
	req := WithLogging(RequesterFunc(func(context.Context) error {
		if fail {
			return &HTTPError{StatusCode: 503, Body: "unavailable"}
		}
		return nil
	}), logger)

	if err := req.Do(context.Background()); err == nil {
		t.Fatal("expected error to propagate")
	}
	fail = false
	if err := req.Do(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(logger.errs) != 1 {
		t.Fatalf("expected 1 logged failure, got %d", len(logger.errs))
	}
	if !strings.Contains(logger.errs[0].Error(), "HTTP 503") {
		t.Fatalf("unexpected logged error: %v", logger.errs[0])
	}
}

func TestWithLoggingNilLoggerIsPassthrough(t *testing.T) {
	inner := RequesterFunc(func(context.Context) error { return nil })
	if got := WithLogging(inner, nil); got == nil {
		t.Fatal("expected requester")
	}
}

func TestWithTracingRecordsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	calls := 0
	req := WithTracing(RequesterFunc(func(context.Context) error {
		calls++
		if calls == 2 {
			return errors.New("reset by peer")
		}
		return nil
	}), tp.Tracer("test"), "GET")

	_ = req.Do(context.Background())
	_ = req.Do(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Ok {
		t.Errorf("first span status = %v, want Ok", spans[0].Status.Code)
	}
	if spans[1].Status.Code != codes.Error {
		t.Errorf("second span status = %v, want Error", spans[1].Status.Code)
	}
}
