package trigger

import (
	"testing"
	"time"

	"github.com/kveer007/tracker-reminders/internal/domain"
)

func TestNextDaily(t *testing.T) {
	def := Definition{
		Times:  []string{"08:00", "20:00"},
		Repeat: domain.RepeatDaily,
	}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "mid-morning picks the evening slot",
			now:  time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC),
			want: time.Date(2026, time.March, 4, 20, 0, 0, 0, time.UTC),
		},
		{
			name: "after the last slot rolls to tomorrow morning",
			now:  time.Date(2026, time.March, 4, 21, 0, 0, 0, time.UTC),
			want: time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly at a slot picks the next one",
			now:  time.Date(2026, time.March, 4, 8, 0, 0, 0, time.UTC),
			want: time.Date(2026, time.March, 4, 20, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := def.Next(tt.now)
			if !ok {
				t.Fatalf("Next(%v) returned no instant", tt.now)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Next(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestNextWeekly(t *testing.T) {
	def := Definition{
		Times:  []string{"10:00"},
		Repeat: domain.RepeatWeekly,
		Days:   []time.Weekday{time.Monday},
	}

	// Tuesday; the next Monday is six days out.
	now := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)
	want := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)

	got, ok := def.Next(now)
	if !ok {
		t.Fatalf("Next(%v) returned no instant", now)
	}
	if !got.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", now, got, want)
	}
}

func TestNextOneOff(t *testing.T) {
	tests := []struct {
		name   string
		def    Definition
		now    time.Time
		want   time.Time
		wantOK bool
	}{
		{
			name: "future date fires once",
			def: Definition{
				Times:  []string{"09:30"},
				Repeat: domain.RepeatNone,
				Date:   "2026-03-10",
			},
			now:    time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC),
			want:   time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name: "past date yields nothing",
			def: Definition{
				Times:  []string{"09:30"},
				Repeat: domain.RepeatNone,
				Date:   "2026-03-01",
			},
			now:    time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC),
			wantOK: false,
		},
		{
			name: "same day picks the earliest remaining time",
			def: Definition{
				Times:  []string{"09:00", "15:00", "20:00"},
				Repeat: domain.RepeatNone,
				Date:   "2026-03-04",
			},
			now:    time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC),
			want:   time.Date(2026, time.March, 4, 15, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name: "malformed date yields nothing",
			def: Definition{
				Times:  []string{"09:30"},
				Repeat: domain.RepeatNone,
				Date:   "tomorrow",
			},
			now:    time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.def.Next(tt.now)
			if ok != tt.wantOK {
				t.Fatalf("Next(%v) ok = %v, want %v", tt.now, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("Next(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestNextMonthlyAnchorOn31st(t *testing.T) {
	def := Definition{
		Times:  []string{"09:00"},
		Repeat: domain.RepeatMonthly,
		Date:   "2026-01-31",
	}

	// April has no 31st, so the scan must land on May 31.
	now := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	want := time.Date(2026, time.May, 31, 9, 0, 0, 0, time.UTC)

	got, ok := def.Next(now)
	if !ok {
		t.Fatalf("Next(%v) returned no instant", now)
	}
	if !got.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", now, got, want)
	}
}

func TestNextHonorsActiveWindow(t *testing.T) {
	def := Definition{
		Times:  []string{"06:00", "12:00"},
		Repeat: domain.RepeatDaily,
		Window: &domain.ActiveWindow{Start: "08:00", End: "22:00"},
	}

	// The 06:00 slot falls outside the window every day; the earliest
	// valid instant is today's 12:00.
	now := time.Date(2026, time.March, 4, 5, 0, 0, 0, time.UTC)
	want := time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)

	got, ok := def.Next(now)
	if !ok {
		t.Fatalf("Next(%v) returned no instant", now)
	}
	if !got.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", now, got, want)
	}
}

func TestNextYearly(t *testing.T) {
	def := Definition{
		Times:  []string{"00:00"},
		Repeat: domain.RepeatYearly,
		Date:   "2020-12-25",
	}

	now := time.Date(2026, time.December, 26, 0, 0, 0, 0, time.UTC)
	want := time.Date(2027, time.December, 25, 0, 0, 0, 0, time.UTC)

	got, ok := def.Next(now)
	if !ok {
		t.Fatalf("Next(%v) returned no instant", now)
	}
	if !got.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", now, got, want)
	}
}
