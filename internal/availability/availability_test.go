package availability

import (
	"testing"
	"time"

	"mentormatch-service/internal/domain"
)

var testAvailability = domain.Availability{
	"Monday":    {"9am-10am", "1:00 PM"},
	"Wednesday": {"3pm-4pm"},
	"Friday":    {},
}

// 2026-08-31 is a Monday.
var monday = time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

func TestSlotsOn(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"weekday with slots", monday, 2},
		{"weekday absent from map", monday.AddDate(0, 0, 1), 0},
		{"weekday with empty list", monday.AddDate(0, 0, 4), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SlotsOn(testAvailability, tt.date)
			if len(got) != tt.want {
				t.Fatalf("SlotsOn(%s) returned %d slots, want %d", tt.date.Weekday(), len(got), tt.want)
			}
		})
	}

	t.Run("nil map", func(t *testing.T) {
		if got := SlotsOn(nil, monday); got != nil {
			t.Fatalf("SlotsOn(nil) = %v, want nil", got)
		}
	})
}

func TestHasSlot(t *testing.T) {
	if !HasSlot(testAvailability, monday, "1:00 pm") {
		t.Error("expected case-insensitive label match")
	}
	if HasSlot(testAvailability, monday, "2:00 PM") {
		t.Error("unexpected match for unlisted label")
	}
	if HasSlot(testAvailability, monday.AddDate(0, 0, 4), "3pm-4pm") {
		t.Error("unexpected match on empty weekday")
	}
}

func TestBrowseWindow(t *testing.T) {
	// Browsing from a Wednesday: window is Sunday of this week through
	// Saturday of next week.
	now := time.Date(2026, time.September, 2, 15, 30, 0, 0, time.UTC)
	w := Browse(now)

	wantStart := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	if !w.Start.Equal(wantStart) {
		t.Fatalf("window start = %v, want %v", w.Start, wantStart)
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"today", now, true},
		{"start of current week", wantStart, true},
		{"last day of next week", wantStart.AddDate(0, 0, 13), true},
		{"two weeks out", wantStart.AddDate(0, 0, 14), false},
		{"last week", wantStart.AddDate(0, 0, -1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.date); got != tt.want {
				t.Fatalf("Contains(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestWeekClamping(t *testing.T) {
	now := time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC)
	current := Week(now, 0)
	next := Week(now, 1)

	if !next.Start.Equal(current.Start.AddDate(0, 0, 7)) {
		t.Fatalf("next week start = %v, want one week after %v", next.Start, current.Start)
	}
	if got := Week(now, -3); !got.Start.Equal(current.Start) {
		t.Errorf("negative offset not clamped to current week")
	}
	if got := Week(now, 5); !got.Start.Equal(next.Start) {
		t.Errorf("large offset not clamped to next week")
	}
}
