package dispatchrecorder

import (
	"context"
	"log/slog"
	"strconv"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/kveer007/tracker-reminders/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

// NewRecorder builds the dispatch outcome recorder. Recording is
// disabled (noop) when switched off or when InfluxDB credentials are
// not configured.
func NewRecorder(ctx context.Context, cfg *Config) (domain.DispatchRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "dispatch result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, dispatch result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "dispatch result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
	}, nil
}

func (r *influxDBRecorder) RecordDispatch(ctx context.Context, record domain.DispatchRecord) error {
	point := influxdb2.NewPoint(
		"notification_dispatch",
		map[string]string{
			"tag":      record.Tag,
			"server":   strconv.FormatBool(record.Server),
			"local":    strconv.FormatBool(record.Local),
			"fallback": strconv.FormatBool(record.FallbackUsed),
		},
		map[string]interface{}{
			"title": record.Title,
			"count": 1,
		},
		record.Time,
	)
	return r.writeAPI.WritePoint(ctx, point)
}

func (r *influxDBRecorder) Close() error {
	r.client.Close()
	return nil
}
