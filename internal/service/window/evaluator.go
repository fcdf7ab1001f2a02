// Package window decides whether a moment falls inside a configured
// daily active window and whether a date matches a repeat pattern.
package window

import (
	"strconv"
	"strings"
	"time"

	"github.com/kveer007/tracker-reminders/internal/domain"
)

// IsWithinActiveWindow reports whether the local time of day of t falls
// inside w. A nil or partial window imposes no restriction. When the
// end bound is earlier than the start bound the window spans midnight.
func IsWithinActiveWindow(t time.Time, w *domain.ActiveWindow) bool {
	if !w.Complete() {
		return true
	}

	start, okStart := clockMinutes(w.Start)
	end, okEnd := clockMinutes(w.End)
	if !okStart || !okEnd {
		return true
	}

	minutes := t.Hour()*60 + t.Minute()

	if end < start {
		return minutes >= start || minutes <= end
	}
	return minutes >= start && minutes <= end
}

// RepeatRule is the recurrence pattern evaluated against candidate
// days. Anchor carries the day-of-month and month for monthly/yearly
// rules.
type RepeatRule struct {
	Repeat domain.Repeat
	Days   []time.Weekday
	Anchor time.Time
}

// MatchesRepeatPattern reports whether date is a firing day for the
// rule. One-off reminders (repeat "none") are matched directly against
// their stored date by the trigger calculator, never through here.
func MatchesRepeatPattern(date time.Time, rule RepeatRule) bool {
	switch rule.Repeat {
	case domain.RepeatDaily:
		return true
	case domain.RepeatWeekly:
		for _, d := range rule.Days {
			if date.Weekday() == d {
				return true
			}
		}
		return false
	case domain.RepeatMonthly:
		return date.Day() == rule.Anchor.Day()
	case domain.RepeatYearly:
		return date.Month() == rule.Anchor.Month() && date.Day() == rule.Anchor.Day()
	}
	return false
}

// clockMinutes converts "HH:MM" to minutes since midnight.
func clockMinutes(s string) (int, bool) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return 0, false
	}
	return hours*60 + mins, true
}
