package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// Repeat describes how a custom reminder recurs.
type Repeat string

const (
	RepeatNone    Repeat = "none"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
	RepeatYearly  Repeat = "yearly"
)

func (r Repeat) Valid() bool {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return true
	}
	return false
}

const (
	// MaxReminderTimes caps the times-of-day per custom reminder.
	MaxReminderTimes = 10
	// MaxAlertOffsets caps the pre-fire alert offsets per reminder.
	MaxAlertOffsets = 5

	// DateLayout is the calendar-date format used for one-off dates and
	// monthly/yearly anchors.
	DateLayout = "2006-01-02"
)

var clockPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// ValidClock reports whether s is a valid "HH:MM" time of day.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// CustomReminder is a user-defined, deletable reminder with its own
// schedule. Date is required for one-off reminders and serves as the
// monthly/yearly anchor; Days is required for weekly reminders.
type CustomReminder struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Times        []string       `json:"times"`
	Repeat       Repeat         `json:"repeat"`
	Date         string         `json:"date,omitempty"`
	Days         []time.Weekday `json:"days,omitempty"`
	ActiveWindow *ActiveWindow  `json:"active_window,omitempty"`
	AlertOffsets []int          `json:"alerts"`
	Notes        string         `json:"notes,omitempty"`
	Enabled      bool           `json:"enabled"`
}

// Validate checks the definition and returns an error wrapping
// ErrInvalidReminder describing the first problem found. Invalid
// definitions are rejected before acceptance and never persisted.
func (r *CustomReminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidReminder)
	}
	if len(r.Times) == 0 {
		return fmt.Errorf("%w: at least one time is required", ErrInvalidReminder)
	}
	if len(r.Times) > MaxReminderTimes {
		return fmt.Errorf("%w: at most %d times are allowed", ErrInvalidReminder, MaxReminderTimes)
	}
	for _, t := range r.Times {
		if !ValidClock(t) {
			return fmt.Errorf("%w: invalid time %q, expected HH:MM", ErrInvalidReminder, t)
		}
	}
	if !r.Repeat.Valid() {
		return fmt.Errorf("%w: unknown repeat %q", ErrInvalidReminder, r.Repeat)
	}

	switch r.Repeat {
	case RepeatNone, RepeatMonthly, RepeatYearly:
		if r.Date == "" {
			return fmt.Errorf("%w: a date is required for repeat %q", ErrInvalidReminder, r.Repeat)
		}
		if _, err := time.Parse(DateLayout, r.Date); err != nil {
			return fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidReminder, r.Date)
		}
	case RepeatWeekly:
		if len(r.Days) == 0 {
			return fmt.Errorf("%w: weekly reminders need at least one day", ErrInvalidReminder)
		}
		for _, d := range r.Days {
			if d < time.Sunday || d > time.Saturday {
				return fmt.Errorf("%w: invalid weekday %d", ErrInvalidReminder, d)
			}
		}
	}

	if r.ActiveWindow.Complete() {
		if !ValidClock(r.ActiveWindow.Start) || !ValidClock(r.ActiveWindow.End) {
			return fmt.Errorf("%w: invalid active window bounds", ErrInvalidReminder)
		}
		if r.ActiveWindow.Start == r.ActiveWindow.End {
			return fmt.Errorf("%w: active window start and end must differ", ErrInvalidReminder)
		}
	}

	if len(r.AlertOffsets) > MaxAlertOffsets {
		return fmt.Errorf("%w: at most %d alerts are allowed", ErrInvalidReminder, MaxAlertOffsets)
	}
	for _, off := range r.AlertOffsets {
		if off < 0 {
			return fmt.Errorf("%w: alert offsets must be zero or positive minutes", ErrInvalidReminder)
		}
	}

	return nil
}

// Sanitize trims the title, deduplicates and sorts times, and ensures
// the alert offset list contains at least the "at time" entry.
func (r *CustomReminder) Sanitize() {
	r.Title = strings.TrimSpace(r.Title)

	seen := make(map[string]struct{}, len(r.Times))
	times := make([]string, 0, len(r.Times))
	for _, t := range r.Times {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		times = append(times, t)
	}
	slices.Sort(times)
	r.Times = times

	if len(r.AlertOffsets) == 0 {
		r.AlertOffsets = []int{0}
	}
}
