package schedule

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/kveer007/tracker-reminders/internal/domain"
	"github.com/kveer007/tracker-reminders/internal/service/dispatch"
)

// virtualTimers is a TimerPort driven by a manual clock. Advance moves
// the clock and fires due timers in deadline order, so renewal chains
// behave as they would on the wall clock.
type virtualTimers struct {
	mu      sync.Mutex
	now     time.Time
	pending []*virtualTimer
}

type virtualTimer struct {
	at        time.Time
	fn        func()
	cancelled bool
}

func newVirtualTimers(start time.Time) *virtualTimers {
	return &virtualTimers{now: start}
}

func (v *virtualTimers) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *virtualTimers) After(d time.Duration, fn func()) CancelFunc {
	v.mu.Lock()
	defer v.mu.Unlock()
	t := &virtualTimer{at: v.now.Add(d), fn: fn}
	v.pending = append(v.pending, t)
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		t.cancelled = true
	}
}

func (v *virtualTimers) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	for {
		var next *virtualTimer
		for _, t := range v.pending {
			if t.cancelled || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			break
		}
		next.cancelled = true
		v.now = next.at
		fn := next.fn
		// The callback may install new timers, so release the lock.
		v.mu.Unlock()
		fn()
		v.mu.Lock()
	}
	v.now = target
	v.mu.Unlock()
}

type dispatchCall struct {
	title string
	body  string
	opts  dispatch.Options
}

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []dispatchCall
}

func (r *recordingDispatcher) Dispatch(_ context.Context, title, body string, opts dispatch.Options) dispatch.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, dispatchCall{title: title, body: body, opts: opts})
	return dispatch.Result{Local: true}
}

func (r *recordingDispatcher) Calls() []dispatchCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dispatchCall, len(r.calls))
	copy(out, r.calls)
	return out
}

func allDays() []time.Weekday {
	return []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
}

func newTestScheduler(t *testing.T, cfg *domain.ReminderConfig, start time.Time) (*Scheduler, *virtualTimers, *recordingDispatcher) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)
	repo.EXPECT().LoadConfig(gomock.Any()).Return(cfg, nil).AnyTimes()

	timers := newVirtualTimers(start)
	disp := &recordingDispatcher{}
	s := NewScheduler(repo, nil, disp, timers,
		WithClock(timers.Now),
		WithLocation(time.UTC),
	)
	return s, timers, disp
}

func sortedKeys(s *Scheduler) []TimerKey {
	keys := s.ActiveTimerKeys()
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.ReminderID != b.ReminderID {
			return a.ReminderID < b.ReminderID
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.OffsetMinutes < b.OffsetMinutes
	})
	return keys
}

func TestScheduleAllIsIdempotent(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.GlobalEnabled = true
	cfg.System[domain.KindWaterInterval].Enabled = true
	cfg.Custom = []*domain.CustomReminder{{
		ID:      "r1",
		Title:   "Stretch",
		Times:   []string{"07:00"},
		Repeat:  domain.RepeatDaily,
		Enabled: true,
	}}

	start := time.Date(2026, time.March, 4, 6, 0, 0, 0, time.UTC) // Wednesday
	s, _, _ := newTestScheduler(t, cfg, start)

	ctx := context.Background()
	if err := s.ScheduleAll(ctx); err != nil {
		t.Fatalf("ScheduleAll: %v", err)
	}
	first := sortedKeys(s)
	if len(first) == 0 {
		t.Fatal("no timers installed")
	}

	if err := s.ScheduleAll(ctx); err != nil {
		t.Fatalf("second ScheduleAll: %v", err)
	}
	second := sortedKeys(s)

	if len(first) != len(second) {
		t.Fatalf("timer count changed across reschedules: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("key %d changed: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGlobalDisableClearsAndReenableRestores(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.GlobalEnabled = true
	cfg.System[domain.KindWaterAlert].Enabled = true
	cfg.System[domain.KindProteinInterval].Enabled = true

	start := time.Date(2026, time.March, 4, 6, 0, 0, 0, time.UTC) // Wednesday
	s, _, _ := newTestScheduler(t, cfg, start)

	ctx := context.Background()
	if err := s.ScheduleAll(ctx); err != nil {
		t.Fatalf("ScheduleAll: %v", err)
	}
	enabled := sortedKeys(s)
	if len(enabled) != 2 {
		t.Fatalf("got %d timers, want 2", len(enabled))
	}

	cfg.GlobalEnabled = false
	if err := s.ScheduleAll(ctx); err != nil {
		t.Fatalf("ScheduleAll after disable: %v", err)
	}
	if keys := s.ActiveTimerKeys(); len(keys) != 0 {
		t.Fatalf("timers survived global disable: %+v", keys)
	}

	cfg.GlobalEnabled = true
	if err := s.ScheduleAll(ctx); err != nil {
		t.Fatalf("ScheduleAll after re-enable: %v", err)
	}
	restored := sortedKeys(s)
	if len(restored) != len(enabled) {
		t.Fatalf("got %d timers after re-enable, want %d", len(restored), len(enabled))
	}
	for i := range enabled {
		if enabled[i] != restored[i] {
			t.Errorf("key %d differs after re-enable: %+v vs %+v", i, enabled[i], restored[i])
		}
	}
}

func TestCustomReminderPreAlertAndMainFire(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.GlobalEnabled = true
	cfg.Custom = []*domain.CustomReminder{{
		ID:           "stretch",
		Title:        "Stretch",
		Times:        []string{"07:00"},
		Repeat:       domain.RepeatDaily,
		AlertOffsets: []int{0, 15},
		Enabled:      true,
	}}

	start := time.Date(2026, time.March, 4, 6, 44, 0, 0, time.UTC)
	s, timers, disp := newTestScheduler(t, cfg, start)

	if err := s.ScheduleAll(context.Background()); err != nil {
		t.Fatalf("ScheduleAll: %v", err)
	}
	if keys := s.ActiveTimerKeys(); len(keys) != 2 {
		t.Fatalf("got %d timers, want one per alert offset", len(keys))
	}

	// 06:45, the 15-minute pre-alert.
	timers.Advance(time.Minute)
	calls := disp.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d dispatches after pre-alert, want 1", len(calls))
	}
	if calls[0].title != "Stretch" {
		t.Errorf("pre-alert title = %q", calls[0].title)
	}
	if !strings.Contains(calls[0].body, "15 minutes") {
		t.Errorf("pre-alert body = %q, want mention of 15 minutes", calls[0].body)
	}

	// 07:00, the main fire.
	timers.Advance(15 * time.Minute)
	calls = disp.Calls()
	if len(calls) != 2 {
		t.Fatalf("got %d dispatches after main fire, want 2", len(calls))
	}
	if strings.Contains(calls[1].body, "minutes") {
		t.Errorf("main fire body = %q, should not announce an offset", calls[1].body)
	}

	// Both timers renewed for tomorrow's cycle.
	if keys := s.ActiveTimerKeys(); len(keys) != 2 {
		t.Fatalf("got %d timers after renewal, want 2", len(keys))
	}

	// The next day repeats the pair without doubling up.
	timers.Advance(24 * time.Hour)
	if got := len(disp.Calls()); got != 4 {
		t.Fatalf("got %d dispatches after a full day, want 4", got)
	}
}

func TestOneOffReminderDoesNotRenew(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.GlobalEnabled = true
	cfg.Custom = []*domain.CustomReminder{{
		ID:      "dentist",
		Title:   "Dentist",
		Times:   []string{"09:00"},
		Repeat:  domain.RepeatNone,
		Date:    "2026-03-04",
		Enabled: true,
	}}

	start := time.Date(2026, time.March, 4, 8, 0, 0, 0, time.UTC)
	s, timers, disp := newTestScheduler(t, cfg, start)

	if err := s.ScheduleAll(context.Background()); err != nil {
		t.Fatalf("ScheduleAll: %v", err)
	}

	timers.Advance(2 * time.Hour)
	if got := len(disp.Calls()); got != 1 {
		t.Fatalf("got %d dispatches, want 1", got)
	}
	if keys := s.ActiveTimerKeys(); len(keys) != 0 {
		t.Errorf("one-off reminder renewed: %+v", keys)
	}
}

func TestIntervalFiresInsideWindowOnly(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.GlobalEnabled = true
	n := cfg.System[domain.KindWaterInterval]
	n.Enabled = true
	n.IntervalMinutes = 120
	n.ActiveWindow = &domain.ActiveWindow{Start: "08:00", End: "22:00"}
	n.Days = domain.DefaultWeekdays()

	// Wednesday 08:00; ticks land at 10:00, 12:00, ...
	start := time.Date(2026, time.March, 4, 8, 0, 0, 0, time.UTC)
	s, timers, disp := newTestScheduler(t, cfg, start)

	if err := s.ScheduleAll(context.Background()); err != nil {
		t.Fatalf("ScheduleAll: %v", err)
	}

	timers.Advance(2 * time.Hour)
	calls := disp.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d dispatches at 10:00, want 1", len(calls))
	}
	if !strings.Contains(calls[0].opts.Tag, "water") {
		t.Errorf("tag = %q, want a water tag", calls[0].opts.Tag)
	}

	// Run until just past midnight: ticks at 12,14,16,18,20,22 fire
	// (end bound inclusive); the 00:00 tick is outside the window and
	// must stay silent while the poll keeps running.
	timers.Advance(14 * time.Hour)
	calls = disp.Calls()
	if len(calls) != 7 {
		t.Fatalf("got %d dispatches by 00:00, want 7", len(calls))
	}
	if keys := s.ActiveTimerKeys(); len(keys) != 1 {
		t.Errorf("interval poll stopped: %+v", keys)
	}
}

func TestIntervalSkipsDisabledWeekday(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.GlobalEnabled = true
	n := cfg.System[domain.KindWaterInterval]
	n.Enabled = true
	n.IntervalMinutes = 120
	n.ActiveWindow = &domain.ActiveWindow{Start: "08:00", End: "22:00"}
	n.Days = domain.DefaultWeekdays()

	// Saturday: every tick is on a disabled weekday.
	start := time.Date(2026, time.March, 7, 8, 0, 0, 0, time.UTC)
	s, timers, disp := newTestScheduler(t, cfg, start)

	if err := s.ScheduleAll(context.Background()); err != nil {
		t.Fatalf("ScheduleAll: %v", err)
	}

	timers.Advance(8 * time.Hour)
	if got := len(disp.Calls()); got != 0 {
		t.Fatalf("got %d dispatches on Saturday, want 0", got)
	}
	if keys := s.ActiveTimerKeys(); len(keys) != 1 {
		t.Errorf("interval poll stopped on a disabled day: %+v", keys)
	}
}

func TestSystemAlertFiresAndRenews(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.GlobalEnabled = true
	n := cfg.System[domain.KindWaterAlert]
	n.Enabled = true
	n.Time = "18:00"
	n.Days = allDays()

	start := time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)
	s, timers, disp := newTestScheduler(t, cfg, start)

	if err := s.ScheduleAll(context.Background()); err != nil {
		t.Fatalf("ScheduleAll: %v", err)
	}

	timers.Advance(9 * time.Hour)
	calls := disp.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d dispatches at 18:00, want 1", len(calls))
	}
	if calls[0].opts.Tag != domain.KindWaterAlert.Tag() {
		t.Errorf("tag = %q, want %q", calls[0].opts.Tag, domain.KindWaterAlert.Tag())
	}

	// Renewed for tomorrow.
	keys := s.ActiveTimerKeys()
	if len(keys) != 1 || keys[0].Kind != domain.KindWaterAlert {
		t.Fatalf("alert not renewed: %+v", keys)
	}
	timers.Advance(24 * time.Hour)
	if got := len(disp.Calls()); got != 2 {
		t.Errorf("got %d dispatches after the next day, want 2", got)
	}
}

func TestAlertSuppressedWhenGoalMet(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.GlobalEnabled = true
	n := cfg.System[domain.KindWaterAlert]
	n.Enabled = true
	n.Time = "18:00"
	n.Days = allDays()
	n.OnlyIfGoalNotMet = true

	start := time.Date(2026, time.March, 4, 17, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)
	repo.EXPECT().LoadConfig(gomock.Any()).Return(cfg, nil).AnyTimes()
	goals := domain.NewMockGoalTracker(ctrl)
	goals.EXPECT().
		BelowGoal(gomock.Any(), domain.MetricWater, gomock.Any()).
		Return(false, nil)

	timers := newVirtualTimers(start)
	disp := &recordingDispatcher{}
	s := NewScheduler(repo, goals, disp, timers,
		WithClock(timers.Now),
		WithLocation(time.UTC),
	)

	if err := s.ScheduleAll(context.Background()); err != nil {
		t.Fatalf("ScheduleAll: %v", err)
	}

	timers.Advance(time.Hour)
	if got := len(disp.Calls()); got != 0 {
		t.Fatalf("got %d dispatches with goal met, want 0", got)
	}
	// Still renewed for tomorrow even though suppressed today.
	if keys := s.ActiveTimerKeys(); len(keys) != 1 {
		t.Errorf("alert not renewed after suppression: %+v", keys)
	}
}

func TestGoalCheckErrorNeverSuppresses(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.GlobalEnabled = true
	n := cfg.System[domain.KindProteinAlert]
	n.Enabled = true
	n.Time = "20:00"
	n.Days = allDays()
	n.OnlyIfGoalNotMet = true

	start := time.Date(2026, time.March, 4, 19, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)
	repo.EXPECT().LoadConfig(gomock.Any()).Return(cfg, nil).AnyTimes()
	goals := domain.NewMockGoalTracker(ctrl)
	goals.EXPECT().
		BelowGoal(gomock.Any(), domain.MetricProtein, gomock.Any()).
		Return(false, context.DeadlineExceeded)

	timers := newVirtualTimers(start)
	disp := &recordingDispatcher{}
	s := NewScheduler(repo, goals, disp, timers,
		WithClock(timers.Now),
		WithLocation(time.UTC),
	)

	if err := s.ScheduleAll(context.Background()); err != nil {
		t.Fatalf("ScheduleAll: %v", err)
	}

	timers.Advance(time.Hour)
	if got := len(disp.Calls()); got != 1 {
		t.Fatalf("got %d dispatches on tracker error, want 1", got)
	}
}

func TestClearCustomLeavesOthersAlone(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.GlobalEnabled = true
	cfg.System[domain.KindWaterInterval].Enabled = true
	cfg.Custom = []*domain.CustomReminder{
		{ID: "a", Title: "A", Times: []string{"07:00"}, Repeat: domain.RepeatDaily, Enabled: true},
		{ID: "b", Title: "B", Times: []string{"08:30"}, Repeat: domain.RepeatDaily, Enabled: true},
	}

	start := time.Date(2026, time.March, 4, 6, 0, 0, 0, time.UTC)
	s, _, _ := newTestScheduler(t, cfg, start)

	ctx := context.Background()
	if err := s.ScheduleAll(ctx); err != nil {
		t.Fatalf("ScheduleAll: %v", err)
	}

	s.ClearCustom(ctx, "a")
	for _, key := range s.ActiveTimerKeys() {
		if key.ReminderID == "a" {
			t.Errorf("timer for cleared reminder survived: %+v", key)
		}
	}
	var foundB, foundInterval bool
	for _, key := range s.ActiveTimerKeys() {
		if key.ReminderID == "b" {
			foundB = true
		}
		if key.Kind == domain.KindWaterInterval {
			foundInterval = true
		}
	}
	if !foundB || !foundInterval {
		t.Errorf("unrelated timers were cleared: %+v", s.ActiveTimerKeys())
	}
}

func TestDisabledReminderDoesNotFireInFlight(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.GlobalEnabled = true
	cfg.Custom = []*domain.CustomReminder{{
		ID:      "r1",
		Title:   "Stretch",
		Times:   []string{"07:00"},
		Repeat:  domain.RepeatDaily,
		Enabled: true,
	}}

	start := time.Date(2026, time.March, 4, 6, 0, 0, 0, time.UTC)
	s, timers, disp := newTestScheduler(t, cfg, start)

	if err := s.ScheduleAll(context.Background()); err != nil {
		t.Fatalf("ScheduleAll: %v", err)
	}

	// Disable between install and fire without rescheduling; the stale
	// timer must notice and stay silent.
	cfg.Custom[0].Enabled = false

	timers.Advance(2 * time.Hour)
	if got := len(disp.Calls()); got != 0 {
		t.Fatalf("got %d dispatches from a disabled reminder, want 0", got)
	}
}
