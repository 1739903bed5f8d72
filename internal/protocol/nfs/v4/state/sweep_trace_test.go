package state

import (
	"context"
	"errors"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/marmos91/nfs4state/internal/telemetry"
)

func TestTracedSweep(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	telemetry.UseTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_, _ = telemetry.Init(context.Background(), telemetry.Config{})
	})

	h := newTestHandler(t)
	addTestSession(t, h, createTestClient(t, h, "peer1"))

	if err := h.tracedSweep(context.Background()); err != nil {
		t.Fatalf("tracedSweep: %v", err)
	}

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name() != telemetry.SpanStateSweep {
		t.Errorf("span name = %q, want %q", spans[0].Name(), telemetry.SpanStateSweep)
	}
	var found bool
	for _, kv := range spans[0].Attributes() {
		if string(kv.Key) == telemetry.AttrExpired {
			found = true
			if kv.Value.AsInt64() != 0 {
				t.Errorf("expired sessions = %d, want 0", kv.Value.AsInt64())
			}
		}
	}
	if !found {
		t.Error("sweep span has no expired sessions attribute")
	}

	_ = h.Shutdown()
	if err := h.tracedSweep(context.Background()); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("err = %v, want ErrNotRunning", err)
	}
}
