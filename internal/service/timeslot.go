package service

import (
	"fmt"
	"strings"
	"time"
)

// Arrival windows are written in 12-hour form ("10:25pm-10:35pm"). Historic
// rows also carry 24-hour form ("22:25-22:35"); the parser accepts both.
const (
	slotLayout12 = "3:04pm"
	slotLayout24 = "15:04"
)

// FormatTimeSlot renders an arrival window.
func FormatTimeSlot(start, end time.Time) string {
	return strings.ToLower(start.Format(slotLayout12)) + "-" + strings.ToLower(end.Format(slotLayout12))
}

// ParseTimeSlot resolves a stored slot string against the booking date and
// returns the window's start and end instants. A window that wraps midnight
// ("11:55pm-12:05am") ends on the following day.
func ParseTimeSlot(slot string, date time.Time) (start, end time.Time, err error) {
	parts := strings.SplitN(slot, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadTimeSlot, slot)
	}

	startClock, err := parseClock(parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadTimeSlot, slot)
	}
	endClock, err := parseClock(parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadTimeSlot, slot)
	}

	start = onDate(date, startClock)
	end = onDate(date, endClock)
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}

	return start, end, nil
}

// ParseSlotEnd resolves just the window end, for expiry checks.
func ParseSlotEnd(slot string, date time.Time) (time.Time, error) {
	_, end, err := ParseTimeSlot(slot, date)
	return end, err
}

func parseClock(value string) (time.Time, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if t, err := time.Parse(slotLayout12, value); err == nil {
		return t, nil
	}
	return time.Parse(slotLayout24, value)
}

func onDate(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, date.Location())
}
