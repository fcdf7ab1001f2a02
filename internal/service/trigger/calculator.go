// Package trigger computes the next future firing instant of a
// reminder definition.
package trigger

import (
	"strconv"
	"strings"
	"time"

	"github.com/kveer007/tracker-reminders/internal/domain"
	"github.com/kveer007/tracker-reminders/internal/service/window"
)

// scanHorizonDays bounds the forward day-by-day scan for recurring
// definitions. A year covers the sparsest supported rule (yearly, and
// monthly anchors on day 29-31).
const scanHorizonDays = 366

// Definition is the schedule shape shared by system notifications and
// custom reminders: one or more times of day, a repeat rule, an
// optional active window, and for one-off/monthly/yearly rules an
// anchor date in domain.DateLayout.
type Definition struct {
	Times  []string
	Repeat domain.Repeat
	Date   string
	Days   []time.Weekday
	Window *domain.ActiveWindow
}

// Next returns the earliest instant strictly after now at which the
// definition should fire, in now's location. The second return is
// false when no valid future instant exists within the scan horizon;
// callers treat that as "nothing to schedule", not as an error.
func (d Definition) Next(now time.Time) (time.Time, bool) {
	if d.Repeat == domain.RepeatNone {
		return d.nextOneOff(now)
	}
	return d.nextRecurring(now)
}

func (d Definition) nextOneOff(now time.Time) (time.Time, bool) {
	date, err := time.ParseInLocation(domain.DateLayout, d.Date, now.Location())
	if err != nil {
		return time.Time{}, false
	}

	var best time.Time
	for _, clock := range d.Times {
		candidate, ok := atClock(date, clock)
		if !ok || !candidate.After(now) {
			continue
		}
		if !window.IsWithinActiveWindow(candidate, d.Window) {
			continue
		}
		if best.IsZero() || candidate.Before(best) {
			best = candidate
		}
	}
	return best, !best.IsZero()
}

func (d Definition) nextRecurring(now time.Time) (time.Time, bool) {
	rule := window.RepeatRule{Repeat: d.Repeat, Days: d.Days}
	if d.Repeat == domain.RepeatMonthly || d.Repeat == domain.RepeatYearly {
		anchor, err := time.ParseInLocation(domain.DateLayout, d.Date, now.Location())
		if err != nil {
			return time.Time{}, false
		}
		rule.Anchor = anchor
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Every time of day on a candidate day is evaluated before moving
	// on; breaking mid-day could skip the true minimum when an active
	// window excludes earlier candidates.
	var best time.Time
	for offset := 0; offset <= scanHorizonDays; offset++ {
		day := dayStart.AddDate(0, 0, offset)
		if !window.MatchesRepeatPattern(day, rule) {
			continue
		}
		for _, clock := range d.Times {
			candidate, ok := atClock(day, clock)
			if !ok || !candidate.After(now) {
				continue
			}
			if !window.IsWithinActiveWindow(candidate, d.Window) {
				continue
			}
			if best.IsZero() || candidate.Before(best) {
				best = candidate
			}
		}
		if !best.IsZero() {
			break
		}
	}
	return best, !best.IsZero()
}

// atClock places an "HH:MM" time of day onto the calendar day of base.
func atClock(base time.Time, clock string) (time.Time, bool) {
	h, m, ok := strings.Cut(clock, ":")
	if !ok {
		return time.Time{}, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return time.Time{}, false
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return time.Time{}, false
	}
	return time.Date(base.Year(), base.Month(), base.Day(), hours, mins, 0, 0, base.Location()), true
}
