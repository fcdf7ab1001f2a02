package domain

import (
	"context"
	"encoding/json"
	"time"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=domain

// ReminderRepository is the persistence boundary for the reminder
// configuration document, the notification log ring, the durable
// identity, and the opaque push-subscription handle.
type ReminderRepository interface {
	// LoadConfig returns the stored configuration merged against the
	// default shape. A missing or malformed document falls back to
	// defaults and never fails the load.
	LoadConfig(ctx context.Context) (*ReminderConfig, error)
	SaveConfig(ctx context.Context, cfg *ReminderConfig) error

	AppendLog(ctx context.Context, entry NotificationLogEntry) error
	Logs(ctx context.Context, limit int) ([]NotificationLogEntry, error)

	// UserID returns the process-durable random identifier, generating
	// and persisting one on first use.
	UserID(ctx context.Context) (string, error)

	Subscription(ctx context.Context) (json.RawMessage, error)
	SaveSubscription(ctx context.Context, sub json.RawMessage) error
}

// GoalTracker answers whether a tracked metric is still below its
// configured daily goal. A metric with no goal configured counts as
// below goal so goal-gated reminders keep firing.
type GoalTracker interface {
	BelowGoal(ctx context.Context, metric Metric, day time.Time) (bool, error)
	AddIntake(ctx context.Context, metric Metric, day time.Time, amount int) (int, error)
	SetGoal(ctx context.Context, metric Metric, target int) error
}

// DispatchRecord is one dispatch outcome for analytics recording.
type DispatchRecord struct {
	Time         time.Time
	Tag          string
	Title        string
	Server       bool
	Local        bool
	FallbackUsed bool
}

// DispatchRecorder records dispatch outcomes to an analytics backend.
// Recording failures degrade to log noise, never to dispatch failures.
type DispatchRecorder interface {
	RecordDispatch(ctx context.Context, record DispatchRecord) error
	Close() error
}
