package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const dispatchMeterName = "dispatch.service"

type DispatchMetrics struct {
	dispatched       metric.Int64Counter
	fallbacks        metric.Int64Counter
	relaySendSeconds metric.Float64Histogram
}

func NewDispatchMetrics() (*DispatchMetrics, error) {
	meter := otel.Meter(dispatchMeterName)

	dispatched, err := meter.Int64Counter(
		"notifications_dispatched_total",
		metric.WithDescription("Total number of notification dispatch attempts per channel"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	fallbacks, err := meter.Int64Counter(
		"notifications_fallback_total",
		metric.WithDescription("Total number of local deliveries caused by relay failure"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	relaySendSeconds, err := meter.Float64Histogram(
		"relay_send_duration_seconds",
		metric.WithDescription("Time spent sending a notification through the relay"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	return &DispatchMetrics{
		dispatched:       dispatched,
		fallbacks:        fallbacks,
		relaySendSeconds: relaySendSeconds,
	}, nil
}

func (m *DispatchMetrics) RecordDispatch(ctx context.Context, channel string, success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.dispatched.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("outcome", outcome),
	))
}

func (m *DispatchMetrics) RecordFallback(ctx context.Context) {
	if m == nil {
		return
	}
	m.fallbacks.Add(ctx, 1)
}

func (m *DispatchMetrics) RecordRelaySendDuration(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.relaySendSeconds.Record(ctx, seconds)
}
