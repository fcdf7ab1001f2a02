// Package schedule owns the live timers for every enabled system
// notification and custom reminder. Timers are rebuilt from the
// persisted configuration on every scheduling pass and are never
// trusted to survive a restart.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kveer007/tracker-reminders/internal/domain"
	"github.com/kveer007/tracker-reminders/internal/observability/metrics"
	"github.com/kveer007/tracker-reminders/internal/service/dispatch"
	"github.com/kveer007/tracker-reminders/internal/service/trigger"
	"github.com/kveer007/tracker-reminders/internal/service/window"
)

// Dispatcher delivers one fire event. Implemented by
// dispatch.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, title, body string, opts dispatch.Options) dispatch.Result
}

type Scheduler struct {
	repo    domain.ReminderRepository
	goals   domain.GoalTracker
	disp    Dispatcher
	timers  TimerPort
	metrics *metrics.SchedulerMetrics

	loc *time.Location
	now func() time.Time

	mu     sync.Mutex
	cfg    *domain.ReminderConfig
	active map[TimerKey]CancelFunc
}

type Option func(*Scheduler)

// WithClock substitutes the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.loc = loc }
}

func WithMetrics(m *metrics.SchedulerMetrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

func NewScheduler(
	repo domain.ReminderRepository,
	goals domain.GoalTracker,
	disp Dispatcher,
	timers TimerPort,
	opts ...Option,
) *Scheduler {
	s := &Scheduler{
		repo:   repo,
		goals:  goals,
		disp:   disp,
		timers: timers,
		loc:    time.Local,
		now:    time.Now,
		active: make(map[TimerKey]CancelFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleAll reloads the configuration and rebuilds every timer.
// All existing timers are cleared first so no stale timer survives a
// reschedule; calling it twice with unchanged configuration yields the
// same set of live timer keys.
func (s *Scheduler) ScheduleAll(ctx context.Context) error {
	cfg, err := s.repo.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reminder config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg
	s.clearAllLocked(ctx)

	if !cfg.GlobalEnabled {
		slog.InfoContext(ctx, "reminders globally disabled, all timers cleared")
		return nil
	}

	now := s.now().In(s.loc)

	for _, kind := range domain.AllKinds() {
		n := cfg.System[kind]
		if n == nil || !n.Enabled || len(n.Days) == 0 {
			continue
		}
		if kind.IsInterval() {
			s.installIntervalLocked(ctx, kind, n)
		} else {
			s.installAlertLocked(ctx, kind, n, now)
		}
	}

	for _, r := range cfg.Custom {
		if r.Enabled {
			s.installCustomLocked(ctx, r, now)
		}
	}

	slog.InfoContext(ctx, "reminder timers rebuilt",
		slog.Int("live_timers", len(s.active)),
		slog.Int("custom_reminders", len(cfg.Custom)),
	)
	return nil
}

// ClearAll cancels every live timer.
func (s *Scheduler) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearAllLocked(ctx)
}

// ClearCustom cancels exactly the timers belonging to one custom
// reminder, leaving all others untouched.
func (s *Scheduler) ClearCustom(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, cancel := range s.active {
		if key.ReminderID == id {
			cancel()
			delete(s.active, key)
			s.metrics.RecordTimerCleared(ctx, 1)
		}
	}
}

// ClearKind cancels exactly the timers of one system notification.
func (s *Scheduler) ClearKind(ctx context.Context, kind domain.NotificationKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, cancel := range s.active {
		if key.Kind == kind {
			cancel()
			delete(s.active, key)
			s.metrics.RecordTimerCleared(ctx, 1)
		}
	}
}

// ActiveTimerKeys returns the identifiers of every live timer.
func (s *Scheduler) ActiveTimerKeys() []TimerKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]TimerKey, 0, len(s.active))
	for key := range s.active {
		keys = append(keys, key)
	}
	return keys
}

func (s *Scheduler) clearAllLocked(ctx context.Context) {
	cleared := len(s.active)
	for _, cancel := range s.active {
		cancel()
	}
	s.active = make(map[TimerKey]CancelFunc)
	s.metrics.RecordTimerCleared(ctx, cleared)
}

func (s *Scheduler) installLocked(ctx context.Context, key TimerKey, d time.Duration, fn func()) {
	if cancel, ok := s.active[key]; ok {
		cancel()
	}
	s.active[key] = s.timers.After(d, fn)
	s.metrics.RecordTimerInstalled(ctx)
}

// installAlertLocked schedules the one-shot timer of a fixed-time
// system notification. The fire callback installs its own successor.
func (s *Scheduler) installAlertLocked(ctx context.Context, kind domain.NotificationKind, n *domain.SystemNotification, now time.Time) {
	def := trigger.Definition{
		Times:  []string{n.Time},
		Repeat: domain.RepeatWeekly,
		Days:   n.Days,
	}
	next, ok := def.Next(now)
	if !ok {
		slog.DebugContext(ctx, "no future trigger for system notification",
			slog.String("kind", kind.String()),
		)
		return
	}
	key := TimerKey{Kind: kind}
	s.installLocked(ctx, key, next.Sub(now), func() { s.fireSystemAlert(kind) })
}

func (s *Scheduler) fireSystemAlert(kind domain.NotificationKind) {
	ctx := context.Background()

	s.mu.Lock()
	delete(s.active, TimerKey{Kind: kind})
	n := s.systemLocked(kind)
	live := n != nil && s.cfg.GlobalEnabled && n.Enabled && len(n.Days) > 0
	var message string
	var goalGated bool
	if live {
		message = n.Message
		goalGated = n.OnlyIfGoalNotMet
	}
	s.mu.Unlock()

	if !live {
		// Disabled while the timer was in flight.
		return
	}

	now := s.now().In(s.loc)
	if s.shouldFireForGoal(ctx, kind, goalGated) {
		s.metrics.RecordFire(ctx, kind.String())
		s.disp.Dispatch(ctx, kind.Title(), message, dispatch.Options{
			Tag:  kind.Tag(),
			Data: map[string]string{"kind": kind.String()},
		})
	} else {
		s.metrics.RecordSkip(ctx, kind.String(), "goal_met")
		slog.DebugContext(ctx, "system alert skipped, goal already met",
			slog.String("kind", kind.String()),
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n = s.systemLocked(kind)
	if n != nil && s.cfg.GlobalEnabled && n.Enabled && len(n.Days) > 0 {
		s.installAlertLocked(ctx, kind, n, now)
	}
}

// installIntervalLocked schedules the periodic poll of an interval
// system notification. Each tick independently re-checks the weekday
// and active window; a tick outside the window produces no
// notification and no error.
func (s *Scheduler) installIntervalLocked(ctx context.Context, kind domain.NotificationKind, n *domain.SystemNotification) {
	interval := time.Duration(n.IntervalMinutes) * time.Minute
	key := TimerKey{Kind: kind}
	s.installLocked(ctx, key, interval, func() { s.intervalTick(kind) })
}

func (s *Scheduler) intervalTick(kind domain.NotificationKind) {
	ctx := context.Background()

	s.mu.Lock()
	delete(s.active, TimerKey{Kind: kind})
	n := s.systemLocked(kind)
	live := n != nil && s.cfg.GlobalEnabled && n.Enabled && len(n.Days) > 0
	var snapshot domain.SystemNotification
	if live {
		snapshot = *n
	}
	s.mu.Unlock()

	if !live {
		return
	}

	now := s.now().In(s.loc)
	switch {
	case !weekdayEnabled(now, snapshot.Days):
		s.metrics.RecordSkip(ctx, kind.String(), "weekday")
	case !window.IsWithinActiveWindow(now, snapshot.ActiveWindow):
		s.metrics.RecordSkip(ctx, kind.String(), "window")
	case !s.shouldFireForGoal(ctx, kind, snapshot.OnlyIfBelowGoal):
		s.metrics.RecordSkip(ctx, kind.String(), "goal_met")
	default:
		s.metrics.RecordFire(ctx, kind.String())
		s.disp.Dispatch(ctx, kind.Title(), snapshot.Message, dispatch.Options{
			Tag:  kind.Tag(),
			Data: map[string]string{"kind": kind.String()},
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n = s.systemLocked(kind)
	if n != nil && s.cfg.GlobalEnabled && n.Enabled && len(n.Days) > 0 {
		s.installIntervalLocked(ctx, kind, n)
	}
}

// installCustomLocked schedules one timer per (time, alert offset)
// pair. Offsets whose resulting instant is already past are skipped
// for this cycle, not deferred.
func (s *Scheduler) installCustomLocked(ctx context.Context, r *domain.CustomReminder, now time.Time) {
	offsets := r.AlertOffsets
	if len(offsets) == 0 {
		offsets = []int{0}
	}

	for _, clock := range r.Times {
		def := s.customDefinition(r, clock)
		next, ok := def.Next(now)
		if !ok {
			continue
		}
		for _, offset := range offsets {
			fireAt := next.Add(-time.Duration(offset) * time.Minute)
			if !fireAt.After(now) {
				continue
			}
			key := TimerKey{ReminderID: r.ID, Time: clock, OffsetMinutes: offset}
			id, c, off := r.ID, clock, offset
			s.installLocked(ctx, key, fireAt.Sub(now), func() { s.fireCustom(id, c, off) })
		}
	}
}

func (s *Scheduler) fireCustom(id, clock string, offset int) {
	ctx := context.Background()

	s.mu.Lock()
	delete(s.active, TimerKey{ReminderID: id, Time: clock, OffsetMinutes: offset})
	r := s.cfg.FindCustom(id)
	live := r != nil && s.cfg.GlobalEnabled && r.Enabled
	var snapshot domain.CustomReminder
	if live {
		snapshot = *r
	}
	s.mu.Unlock()

	if !live {
		return
	}

	title := snapshot.Title
	body := snapshot.Notes
	if offset > 0 {
		body = fmt.Sprintf("%s in %d minutes", title, offset)
	} else if body == "" {
		body = fmt.Sprintf("Reminder: %s", title)
	}

	s.metrics.RecordFire(ctx, "custom")
	s.disp.Dispatch(ctx, title, body, dispatch.Options{
		Tag:  "custom-" + id,
		Data: map[string]string{"reminder_id": id, "time": clock},
	})

	// Self-renew this (time, offset) pair. The renewal base is moved
	// past the trigger currently in flight so a pre-alert timer lands
	// on the next cycle rather than on the trigger it just announced.
	now := s.now().In(s.loc)
	base := now.Add(time.Duration(offset) * time.Minute)

	s.mu.Lock()
	defer s.mu.Unlock()
	r = s.cfg.FindCustom(id)
	if r == nil || !s.cfg.GlobalEnabled || !r.Enabled || r.Repeat == domain.RepeatNone {
		return
	}
	def := s.customDefinition(r, clock)
	next, ok := def.Next(base)
	if !ok {
		return
	}
	fireAt := next.Add(-time.Duration(offset) * time.Minute)
	if !fireAt.After(now) {
		return
	}
	key := TimerKey{ReminderID: id, Time: clock, OffsetMinutes: offset}
	s.installLocked(ctx, key, fireAt.Sub(now), func() { s.fireCustom(id, clock, offset) })
}

func (s *Scheduler) customDefinition(r *domain.CustomReminder, clock string) trigger.Definition {
	return trigger.Definition{
		Times:  []string{clock},
		Repeat: r.Repeat,
		Date:   r.Date,
		Days:   r.Days,
		Window: r.ActiveWindow,
	}
}

// shouldFireForGoal applies the goal gate. Tracker errors never
// suppress a reminder.
func (s *Scheduler) shouldFireForGoal(ctx context.Context, kind domain.NotificationKind, gated bool) bool {
	if !gated || s.goals == nil {
		return true
	}
	below, err := s.goals.BelowGoal(ctx, kind.Metric(), s.now().In(s.loc))
	if err != nil {
		slog.WarnContext(ctx, "goal check failed, firing anyway",
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)
		return true
	}
	return below
}

func (s *Scheduler) systemLocked(kind domain.NotificationKind) *domain.SystemNotification {
	if s.cfg == nil || s.cfg.System == nil {
		return nil
	}
	return s.cfg.System[kind]
}

func weekdayEnabled(t time.Time, days []time.Weekday) bool {
	for _, d := range days {
		if t.Weekday() == d {
			return true
		}
	}
	return false
}
