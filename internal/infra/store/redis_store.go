// Package store persists the reminder configuration document, the
// notification log ring, the durable identity, and tracked intake
// totals in Redis.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kveer007/tracker-reminders/internal/domain"
)

const (
	configKey       = "reminders:config"
	logKey          = "reminders:log"
	userIDKey       = "reminders:user-id"
	subscriptionKey = "reminders:subscription"

	intakeKeyPrefix = "tracker:intake:"
	goalKeyPrefix   = "tracker:goal:"

	// logCap bounds the notification log ring; oldest entries are
	// evicted first.
	logCap = 200
	// prunedLogCap is what the ring is cut to when a write fails and
	// space must be reclaimed.
	prunedLogCap = 50

	intakeTTL = 48 * time.Hour
)

type Store struct {
	client *redis.Client
}

// NewReminderStore returns the Redis-backed persistence adapter.
func NewReminderStore(client *redis.Client) *Store {
	return &Store{client: client}
}

var _ domain.ReminderRepository = (*Store)(nil)
var _ domain.GoalTracker = (*Store)(nil)

// LoadConfig returns the stored document merged against the default
// shape. A missing document yields defaults; a malformed one is logged
// as a warning and replaced by defaults rather than failing the load.
func (s *Store) LoadConfig(ctx context.Context) (*domain.ReminderConfig, error) {
	raw, err := s.client.Get(ctx, configKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to load reminder config: %w", err)
	}

	var cfg domain.ReminderConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		slog.WarnContext(ctx, "stored reminder config is malformed, falling back to defaults",
			slog.String("error", err.Error()),
		)
		return domain.DefaultConfig(), nil
	}

	cfg.Normalize()
	return &cfg, nil
}

// SaveConfig persists the document. On a write failure the log ring is
// pruned and the write retried once; a second failure surfaces as
// domain.ErrStorageExhausted.
func (s *Store) SaveConfig(ctx context.Context, cfg *domain.ReminderConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode reminder config: %w", err)
	}

	if err := s.client.Set(ctx, configKey, raw, 0).Err(); err != nil {
		slog.WarnContext(ctx, "config write failed, pruning log ring and retrying",
			slog.String("error", err.Error()),
		)
		if pruneErr := s.client.LTrim(ctx, logKey, 0, prunedLogCap-1).Err(); pruneErr != nil {
			slog.WarnContext(ctx, "log ring prune failed",
				slog.String("error", pruneErr.Error()),
			)
		}
		if err := s.client.Set(ctx, configKey, raw, 0).Err(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStorageExhausted, err)
		}
	}
	return nil
}

func (s *Store) AppendLog(ctx context.Context, entry domain.NotificationLogEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode log entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, logKey, raw)
	pipe.LTrim(ctx, logKey, 0, logCap-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}
	return nil
}

func (s *Store) Logs(ctx context.Context, limit int) ([]domain.NotificationLogEntry, error) {
	if limit <= 0 || limit > logCap {
		limit = logCap
	}

	raws, err := s.client.LRange(ctx, logKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read log entries: %w", err)
	}

	entries := make([]domain.NotificationLogEntry, 0, len(raws))
	for _, raw := range raws {
		var entry domain.NotificationLogEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// UserID returns the durable random identifier, generating and
// persisting one on first use.
func (s *Store) UserID(ctx context.Context) (string, error) {
	id, err := s.client.Get(ctx, userIDKey).Result()
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("failed to load user id: %w", err)
	}

	id = uuid.NewString()
	if err := s.client.Set(ctx, userIDKey, id, 0).Err(); err != nil {
		return "", fmt.Errorf("failed to persist user id: %w", err)
	}
	return id, nil
}

func (s *Store) Subscription(ctx context.Context) (json.RawMessage, error) {
	raw, err := s.client.Get(ctx, subscriptionKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSubscriptionMissing
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return json.RawMessage(raw), nil
}

func (s *Store) SaveSubscription(ctx context.Context, sub json.RawMessage) error {
	if err := s.client.Set(ctx, subscriptionKey, []byte(sub), 0).Err(); err != nil {
		return fmt.Errorf("failed to persist subscription: %w", err)
	}
	return nil
}

// AddIntake records consumed amount for the metric on the given day
// and returns the new daily total.
func (s *Store) AddIntake(ctx context.Context, metric domain.Metric, day time.Time, amount int) (int, error) {
	key := intakeKey(metric, day)

	pipe := s.client.TxPipeline()
	incr := pipe.IncrBy(ctx, key, int64(amount))
	pipe.Expire(ctx, key, intakeTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to record intake: %w", err)
	}
	return int(incr.Val()), nil
}

func (s *Store) SetGoal(ctx context.Context, metric domain.Metric, target int) error {
	if err := s.client.Set(ctx, goalKeyPrefix+string(metric), target, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist goal: %w", err)
	}
	return nil
}

// BelowGoal reports whether the day's intake is still under the
// configured goal. A metric without a goal counts as below so
// goal-gated reminders keep firing.
func (s *Store) BelowGoal(ctx context.Context, metric domain.Metric, day time.Time) (bool, error) {
	goal, err := s.client.Get(ctx, goalKeyPrefix+string(metric)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("failed to load goal: %w", err)
	}
	if goal <= 0 {
		return true, nil
	}

	consumed, err := s.client.Get(ctx, intakeKey(metric, day)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("failed to load intake: %w", err)
	}
	return consumed < goal, nil
}

func intakeKey(metric domain.Metric, day time.Time) string {
	return intakeKeyPrefix + string(metric) + ":" + day.Format(domain.DateLayout)
}
