package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/derek82511/line-bot-sdk"

// Tracer provides OpenTelemetry tracing for webhook dispatch and outbound calls.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new Tracer.
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(tracerName),
	}
}

// StartBatchSpan starts a span covering the fan-out of one webhook batch.
func (t *Tracer) StartBatchSpan(ctx context.Context, batchID, tenant string, events int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "linebot.dispatch",
		trace.WithAttributes(
			attribute.String("linebot.batch_id", batchID),
			attribute.String("linebot.tenant", tenant),
			attribute.Int("linebot.events", events),
		),
	)
}

// StartRequestSpan starts a span covering one outbound platform API call.
func (t *Tracer) StartRequestSpan(ctx context.Context, requestID, tenant, operation string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "linebot.request",
		trace.WithAttributes(
			attribute.String("linebot.request_id", requestID),
			attribute.String("linebot.tenant", tenant),
			attribute.String("linebot.operation", operation),
		),
	)
}

// EndRequestSpan ends an outbound request span with result attributes.
func (t *Tracer) EndRequestSpan(span trace.Span, statusCode int, err string) {
	span.SetAttributes(attribute.Int("http.status_code", statusCode))
	if err != "" {
		span.SetAttributes(attribute.String("linebot.error", err))
	}
	span.End()
}
