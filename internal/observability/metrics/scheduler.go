package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const schedulerMeterName = "schedule.service"

type SchedulerMetrics struct {
	timersLive metric.Int64UpDownCounter
	fires      metric.Int64Counter
	skips      metric.Int64Counter
}

func NewSchedulerMetrics() (*SchedulerMetrics, error) {
	meter := otel.Meter(schedulerMeterName)

	timersLive, err := meter.Int64UpDownCounter(
		"reminder_timers_live",
		metric.WithDescription("Number of live reminder timers"),
		metric.WithUnit("{timer}"),
	)
	if err != nil {
		return nil, err
	}

	fires, err := meter.Int64Counter(
		"reminder_fires_total",
		metric.WithDescription("Total number of reminder timer fires that dispatched"),
		metric.WithUnit("{fire}"),
	)
	if err != nil {
		return nil, err
	}

	skips, err := meter.Int64Counter(
		"reminder_skips_total",
		metric.WithDescription("Total number of reminder fires skipped per reason"),
		metric.WithUnit("{fire}"),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerMetrics{
		timersLive: timersLive,
		fires:      fires,
		skips:      skips,
	}, nil
}

func (m *SchedulerMetrics) RecordTimerInstalled(ctx context.Context) {
	if m == nil {
		return
	}
	m.timersLive.Add(ctx, 1)
}

func (m *SchedulerMetrics) RecordTimerCleared(ctx context.Context, count int) {
	if m == nil {
		return
	}
	m.timersLive.Add(ctx, -int64(count))
}

func (m *SchedulerMetrics) RecordFire(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.fires.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

func (m *SchedulerMetrics) RecordSkip(ctx context.Context, source, reason string) {
	if m == nil {
		return
	}
	m.skips.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("reason", reason),
	))
}
