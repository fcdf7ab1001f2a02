package domain

import (
	"time"
)

// NotificationKind identifies one of the fixed, non-deletable system
// notifications tied to goal tracking. The set is closed.
type NotificationKind string

const (
	KindWaterAlert      NotificationKind = "water_alert"
	KindWaterInterval   NotificationKind = "water_interval"
	KindProteinAlert    NotificationKind = "protein_alert"
	KindProteinInterval NotificationKind = "protein_interval"
)

// AllKinds lists every system notification kind in a stable order.
func AllKinds() []NotificationKind {
	return []NotificationKind{
		KindWaterAlert,
		KindWaterInterval,
		KindProteinAlert,
		KindProteinInterval,
	}
}

func (k NotificationKind) String() string {
	return string(k)
}

// Valid reports whether k is one of the four known kinds.
func (k NotificationKind) Valid() bool {
	switch k {
	case KindWaterAlert, KindWaterInterval, KindProteinAlert, KindProteinInterval:
		return true
	}
	return false
}

// IsInterval reports whether k fires repeatedly inside an active window
// rather than once per matching day at a fixed time.
func (k NotificationKind) IsInterval() bool {
	return k == KindWaterInterval || k == KindProteinInterval
}

// Metric returns the tracked metric the kind is gated on.
func (k NotificationKind) Metric() Metric {
	switch k {
	case KindWaterAlert, KindWaterInterval:
		return MetricWater
	default:
		return MetricProtein
	}
}

// Tag returns the notification tag used for dispatch deduplication.
func (k NotificationKind) Tag() string {
	switch k {
	case KindWaterAlert:
		return "water-alert"
	case KindWaterInterval:
		return "water-interval"
	case KindProteinAlert:
		return "protein-alert"
	case KindProteinInterval:
		return "protein-interval"
	}
	return string(k)
}

// Title returns the notification title shown to the user.
func (k NotificationKind) Title() string {
	switch k.Metric() {
	case MetricWater:
		return "Water Reminder"
	default:
		return "Protein Reminder"
	}
}

// Metric names a tracked intake metric.
type Metric string

const (
	MetricWater   Metric = "water"
	MetricProtein Metric = "protein"
)

// ActiveWindow is a daily time-of-day range during which a reminder is
// allowed to fire. Times are "HH:MM" in the installation's local zone.
// End earlier than Start means the window spans midnight.
type ActiveWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Complete reports whether both bounds are present. An incomplete
// window imposes no restriction.
func (w *ActiveWindow) Complete() bool {
	return w != nil && w.Start != "" && w.End != ""
}

// SystemNotification is the configuration of one fixed notification
// kind. Alert kinds use Time/OnlyIfGoalNotMet; interval kinds use
// IntervalMinutes/ActiveWindow/OnlyIfBelowGoal.
type SystemNotification struct {
	Enabled bool           `json:"enabled"`
	Days    []time.Weekday `json:"days"`
	Message string         `json:"message"`

	Time             string `json:"time,omitempty"`
	OnlyIfGoalNotMet bool   `json:"only_if_goal_not_met,omitempty"`

	IntervalMinutes int           `json:"interval_minutes,omitempty"`
	ActiveWindow    *ActiveWindow `json:"active_window,omitempty"`
	OnlyIfBelowGoal bool          `json:"only_if_below_goal,omitempty"`
}

// ReminderConfig is the root configuration document, one per
// installation. Loaded once at startup, mutated in place, saved after
// every mutation.
type ReminderConfig struct {
	GlobalEnabled bool                                     `json:"global_enabled"`
	System        map[NotificationKind]*SystemNotification `json:"system_notifications"`
	Custom        []*CustomReminder                        `json:"custom_reminders"`
}

// FindCustom returns the custom reminder with the given ID, or nil.
func (c *ReminderConfig) FindCustom(id string) *CustomReminder {
	for _, r := range c.Custom {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// RemoveCustom deletes the custom reminder with the given ID and
// reports whether it existed.
func (c *ReminderConfig) RemoveCustom(id string) bool {
	for i, r := range c.Custom {
		if r.ID == id {
			c.Custom = append(c.Custom[:i], c.Custom[i+1:]...)
			return true
		}
	}
	return false
}

// DefaultWeekdays is the day set auto-selected when a notification is
// enabled with no days configured (Mon-Fri).
func DefaultWeekdays() []time.Weekday {
	return []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}
}

// DefaultConfig returns the fully populated default document: every
// system notification kind present and disabled, no custom reminders.
func DefaultConfig() *ReminderConfig {
	return &ReminderConfig{
		GlobalEnabled: false,
		System: map[NotificationKind]*SystemNotification{
			KindWaterAlert: {
				Days:    DefaultWeekdays(),
				Message: "Don't forget to drink water today!",
				Time:    "18:00",
			},
			KindWaterInterval: {
				Days:            DefaultWeekdays(),
				Message:         "Time to drink some water",
				IntervalMinutes: 120,
				ActiveWindow:    &ActiveWindow{Start: "08:00", End: "22:00"},
			},
			KindProteinAlert: {
				Days:    DefaultWeekdays(),
				Message: "Check your protein intake for today",
				Time:    "20:00",
			},
			KindProteinInterval: {
				Days:            DefaultWeekdays(),
				Message:         "Time for a protein top-up",
				IntervalMinutes: 180,
				ActiveWindow:    &ActiveWindow{Start: "08:00", End: "22:00"},
			},
		},
		Custom: []*CustomReminder{},
	}
}

// Normalize merges a possibly partial or stale document against the
// default shape: every kind present, day sets never nil, interval
// kinds always carrying a complete window, alert kinds never carrying
// one. It never fails; unknown kinds are dropped.
func (c *ReminderConfig) Normalize() {
	defaults := DefaultConfig()

	if c.System == nil {
		c.System = defaults.System
	}
	for kind, def := range defaults.System {
		n, ok := c.System[kind]
		if !ok || n == nil {
			c.System[kind] = def
			continue
		}
		if n.Days == nil {
			n.Days = []time.Weekday{}
		}
		if n.Message == "" {
			n.Message = def.Message
		}
		if kind.IsInterval() {
			if n.IntervalMinutes <= 0 {
				n.IntervalMinutes = def.IntervalMinutes
			}
			if !n.ActiveWindow.Complete() {
				n.ActiveWindow = def.ActiveWindow
			}
			n.Time = ""
		} else {
			if n.Time == "" {
				n.Time = def.Time
			}
			n.ActiveWindow = nil
		}
	}
	for kind := range c.System {
		if !kind.Valid() {
			delete(c.System, kind)
		}
	}

	if c.Custom == nil {
		c.Custom = []*CustomReminder{}
	}
	for _, r := range c.Custom {
		if r.Days == nil {
			r.Days = []time.Weekday{}
		}
		if r.AlertOffsets == nil {
			r.AlertOffsets = []int{0}
		}
	}
}
