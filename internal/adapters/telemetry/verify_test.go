package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/ffbuild/internal/adapters/telemetry"
	"go.trai.ch/ffbuild/internal/core/ports"
)

func newRecordingTracer(t *testing.T) (*telemetry.OTelTracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return telemetry.NewOTelTracerWithProvider(tp, "test"), recorder
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestOTelTracer_Start(t *testing.T) {
	// With no SDK provider installed the global tracer is a no-op; Start must still work.
	tracer := telemetry.NewOTelTracer("test-tracer")
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "test-span")
	require.NotNil(t, span)

	span.SetAttribute("key", "value")
	n, err := span.Write([]byte("test log"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	span.End()
}

func TestOTelTracer_RecordsStageAttributes(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "native-build", ports.WithStage("native-build"))
	span.SetAttribute("cached", false)
	span.SetAttribute("attempts", 2)
	span.SetAttribute("flags", []string{"--disable-doc"})
	_, _ = span.Write([]byte("configure output"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "native-build", ended[0].Name())

	got := attrs(ended[0])
	assert.Equal(t, "native-build", got["stage"].AsString())
	assert.False(t, got["cached"].AsBool())
	assert.Equal(t, int64(2), got["attempts"].AsInt64())
	assert.Equal(t, []string{"--disable-doc"}, got["flags"].AsStringSlice())

	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "log", ended[0].Events()[0].Name)
}

func TestOTelTracer_RecordError(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "codegen")
	span.RecordError(nil)
	span.RecordError(errors.New("generator exited with 1"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "generator exited with 1", ended[0].Status().Description)
}

func TestOTelTracer_NestedSpans(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	ctx, parent := tracer.Start(context.Background(), "build")
	_, child := tracer.Start(ctx, "materialize")
	child.End()
	parent.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()

	ctx := context.Background()
	got, span := tracer.Start(ctx, "test-span", ports.WithStage("codegen"))
	assert.Equal(t, ctx, got)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	n, err := span.Write([]byte("test log"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	span.End()
}
