package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const relayTracerName = "github.com/kveer007/tracker-reminders/internal/infra/relay"

func RelayTracer() trace.Tracer {
	return otel.Tracer(relayTracerName)
}

// StartRelaySpan starts a client span around one relay HTTP call.
func StartRelaySpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return RelayTracer().Start(ctx, "relay."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// InjectToHTTPRequest propagates the current trace context onto an
// outgoing request.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}
