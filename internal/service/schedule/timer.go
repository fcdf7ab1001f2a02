package schedule

import (
	"time"

	"github.com/kveer007/tracker-reminders/internal/domain"
)

// CancelFunc cancels a pending timer. Cancellation is immediate and
// total; cancelling an already-fired timer is a no-op.
type CancelFunc func()

// TimerPort abstracts the platform timer so schedules can be driven by
// a virtual clock in tests.
type TimerPort interface {
	After(d time.Duration, fn func()) CancelFunc
}

type systemTimers struct{}

// NewSystemTimers returns a TimerPort backed by time.AfterFunc.
func NewSystemTimers() TimerPort {
	return systemTimers{}
}

func (systemTimers) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// TimerKey is the composite identifier of one live timer. System
// notifications and interval polls are keyed by kind alone; custom
// reminders by reminder ID, time of day, and alert offset. The set of
// live keys is process-local and rebuilt from configuration on every
// scheduling pass.
type TimerKey struct {
	Kind          domain.NotificationKind
	ReminderID    string
	Time          string
	OffsetMinutes int
}
