package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/stale/internal/adapters/telemetry"
)

// recordSpans installs a global provider backed by a span recorder for the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	previous := otel.GetTracerProvider()
	sr := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return sr
}

func TestOTelTracer_Start(t *testing.T) {
	sr := recordSpans(t)
	tracer := telemetry.NewOTelTracer("test")

	_, span := tracer.Start(context.Background(), "staleness.evaluate")
	span.SetAttribute("source", "src")
	span.SetAttribute("visited", 3)
	span.SetAttribute("count64", int64(4))
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("stale", true)
	span.SetAttribute("patterns", []string{"**/*.c"})
	span.SetAttribute("mtime", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	span.SetAttribute("reason", struct{ X int }{X: 1})
	span.AddEvent("newer source found")
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "staleness.evaluate", ended[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "src", attrs["source"].AsString())
	assert.Equal(t, int64(3), attrs["visited"].AsInt64())
	assert.Equal(t, int64(4), attrs["count64"].AsInt64())
	assert.InDelta(t, 0.5, attrs["ratio"].AsFloat64(), 0)
	assert.True(t, attrs["stale"].AsBool())
	assert.Equal(t, []string{"**/*.c"}, attrs["patterns"].AsStringSlice())
	assert.Equal(t, "2024-01-01T00:00:00Z", attrs["mtime"].AsString())
	assert.Equal(t, "{1}", attrs["reason"].AsString())

	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "newer source found", ended[0].Events()[0].Name)
}

func TestOTelSpan_RecordError(t *testing.T) {
	sr := recordSpans(t)
	tracer := telemetry.NewOTelTracer("test")

	_, span := tracer.Start(context.Background(), "failing")
	span.RecordError(errors.New("boom"))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "boom", ended[0].Status().Description)
}

func TestOTelTracer_NestedSpans(t *testing.T) {
	sr := recordSpans(t)
	tracer := telemetry.NewOTelTracer("test")

	ctx, parent := tracer.Start(context.Background(), "check")
	_, child := tracer.Start(ctx, "staleness.evaluate")
	child.End()
	parent.End()

	ended := sr.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
}

func TestInstall(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	sr := tracetest.NewSpanRecorder()
	shutdown := telemetry.Install(sr)

	_, span := telemetry.NewOTelTracer("test").Start(context.Background(), "installed")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	require.Len(t, sr.Ended(), 1)
	assert.Equal(t, "installed", sr.Ended()[0].Name())
}
