package meeting

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"mentormatch-service/internal/domain"
)

// A time label is either a single 12-hour point ("3:00 PM", "3pm") or two
// such points joined by " - " or "-" ("3pm-4pm"). Minutes default to :00 and
// the meridiem is case-insensitive.
var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*([AaPp])[Mm]$`)

type clockTime struct {
	hour12 int // 1-12
	minute int
	pm     bool
}

func (c clockTime) hour24() int {
	switch {
	case c.pm && c.hour12 != 12:
		return c.hour12 + 12
	case !c.pm && c.hour12 == 12:
		return 0
	default:
		return c.hour12
	}
}

func parseClock(s string) (clockTime, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return clockTime{}, &domain.ValidationError{Field: "meeting_time",
			Message: fmt.Sprintf("unrecognized time %q", s)}
	}
	hour, _ := strconv.Atoi(m[1])
	if hour < 1 || hour > 12 {
		return clockTime{}, &domain.ValidationError{Field: "meeting_time",
			Message: fmt.Sprintf("hour out of range in %q", s)}
	}
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
		if minute > 59 {
			return clockTime{}, &domain.ValidationError{Field: "meeting_time",
				Message: fmt.Sprintf("minutes out of range in %q", s)}
		}
	}
	return clockTime{
		hour12: hour,
		minute: minute,
		pm:     strings.EqualFold(m[3], "p"),
	}, nil
}

func parseTimeLabel(label string) (start, end clockTime, err error) {
	var parts []string
	if strings.Contains(label, " - ") {
		parts = strings.SplitN(label, " - ", 2)
	} else if strings.Contains(label, "-") {
		parts = strings.SplitN(label, "-", 2)
	} else {
		parts = []string{label}
	}

	start, err = parseClock(parts[0])
	if err != nil {
		return clockTime{}, clockTime{}, err
	}
	if len(parts) == 2 {
		end, err = parseClock(parts[1])
		if err != nil {
			return clockTime{}, clockTime{}, err
		}
		return start, end, nil
	}

	// Single-time labels span one hour. The hour increments in 12-hour
	// space, so 12 rolls over to 1 with the meridiem unchanged.
	end = start
	end.hour12++
	if end.hour12 > 12 {
		end.hour12 = 1
	}
	return start, end, nil
}

// ValidateTimeLabel rejects labels that do not match the time grammar.
func ValidateTimeLabel(label string) error {
	_, _, err := parseTimeLabel(label)
	return err
}

// EventWindow resolves a meeting's date and time label to UTC start and end
// instants for calendar provisioning. When the computed end is not after the
// start the event spans into the next calendar day.
func EventWindow(date time.Time, label string) (time.Time, time.Time, error) {
	start, end, err := parseTimeLabel(label)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	year, month, day := date.UTC().Date()
	startAt := time.Date(year, month, day, start.hour24(), start.minute, 0, 0, time.UTC)
	endAt := time.Date(year, month, day, end.hour24(), end.minute, 0, 0, time.UTC)
	if !endAt.After(startAt) {
		endAt = endAt.AddDate(0, 0, 1)
	}
	return startAt, endAt, nil
}
