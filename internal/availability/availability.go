// Package availability answers which labeled time slots a party has open on a
// given date, and bounds how far ahead either party may browse.
package availability

import (
	"strings"
	"time"

	"mentormatch-service/internal/domain"
)

// SlotsOn returns the ordered time-window labels open on the date's weekday.
// A weekday missing from the map, or mapped to an empty list, means the party
// is unavailable that day.
func SlotsOn(av domain.Availability, date time.Time) []string {
	if av == nil {
		return nil
	}
	slots := av[date.UTC().Weekday().String()]
	if len(slots) == 0 {
		return nil
	}
	return slots
}

// IsAvailable reports whether the party has any slot open on the date.
func IsAvailable(av domain.Availability, date time.Time) bool {
	return len(SlotsOn(av, date)) > 0
}

// HasSlot reports whether the exact label is open on the date. Labels compare
// case-insensitively after trimming.
func HasSlot(av domain.Availability, date time.Time, label string) bool {
	want := strings.ToLower(strings.TrimSpace(label))
	for _, s := range SlotsOn(av, date) {
		if strings.ToLower(strings.TrimSpace(s)) == want {
			return true
		}
	}
	return false
}

// Window is a half-open UTC date range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the date falls inside the window.
func (w Window) Contains(date time.Time) bool {
	d := date.UTC()
	return !d.Before(w.Start) && d.Before(w.End)
}

// startOfWeek truncates to the preceding Sunday at midnight UTC.
func startOfWeek(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// Browse is the full explorable range: the current week and the next,
// inclusive. Meetings are only booked in the near term.
func Browse(now time.Time) Window {
	start := startOfWeek(now)
	return Window{Start: start, End: start.AddDate(0, 0, 14)}
}

// Week returns one browsable week. Offsets are clamped to the current week
// (0) or the next (1); paging past either edge sticks to that edge.
func Week(now time.Time, offset int) Window {
	if offset < 0 {
		offset = 0
	}
	if offset > 1 {
		offset = 1
	}
	start := startOfWeek(now).AddDate(0, 0, 7*offset)
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}
