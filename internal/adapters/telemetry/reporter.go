package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/ffbuild/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*StageReporter)(nil)

// StageReporter is a span processor that logs a one-line summary when a stage span
// ends. Spans without a stage attribute and stages served from cache are skipped.
type StageReporter struct {
	logger ports.Logger
}

// NewStageReporter creates a reporter logging through logger.
func NewStageReporter(logger ports.Logger) *StageReporter {
	return &StageReporter{logger: logger}
}

// OnStart implements sdktrace.SpanProcessor.
func (r *StageReporter) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd implements sdktrace.SpanProcessor.
func (r *StageReporter) OnEnd(s sdktrace.ReadOnlySpan) {
	var (
		stage  string
		cached bool
		extra  []string
	)
	for _, kv := range s.Attributes() {
		switch kv.Key {
		case StageAttribute:
			stage = kv.Value.AsString()
		case "cached":
			cached = kv.Value.Type() == attribute.BOOL && kv.Value.AsBool()
		default:
			extra = append(extra, fmt.Sprintf("%s=%s", kv.Key, kv.Value.Emit()))
		}
	}
	if stage == "" || cached {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime()).Round(time.Millisecond)
	verb := "done in"
	if s.Status().Code == codes.Error {
		verb = "failed after"
	}

	msg := fmt.Sprintf("%s: %s %s", stage, verb, elapsed)
	if len(extra) > 0 {
		msg += " " + strings.Join(extra, " ")
	}
	r.logger.Info(msg)
}

// ForceFlush implements sdktrace.SpanProcessor.
func (r *StageReporter) ForceFlush(context.Context) error { return nil }

// Shutdown implements sdktrace.SpanProcessor.
func (r *StageReporter) Shutdown(context.Context) error { return nil }

// NewProvider builds the SDK tracer provider that feeds stage spans to the reporter
// and installs it as the global provider.
func NewProvider(logger ports.Logger) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewStageReporter(logger)),
	)
	otel.SetTracerProvider(tp)
	return tp
}
