package engine

import (
	"fmt"
	"time"
)

// Times of day are minutes since midnight (0..1439). Dates are civil dates
// in YYYY-MM-DD form, matching what the stores persist.

const minutesPerDay = 24 * 60

// dateLayout is the civil date format used throughout the engine.
const dateLayout = "2006-01-02"

// AddMinutes adds mins to a time of day and returns the new time of day
// together with the number of calendar days crossed. Day overflow is never
// silently discarded; callers advance the date with the returned carry.
func AddMinutes(tod, mins int) (newTod, dayCarry int) {
	total := tod + mins
	newTod = total % minutesPerDay
	dayCarry = total / minutesPerDay
	if newTod < 0 {
		newTod += minutesPerDay
		dayCarry--
	}
	return newTod, dayCarry
}

// DurationBetween returns the minutes from start to end. If end is before
// start the span is assumed to cross midnight and a full day is added;
// callers needing same-day-only semantics must check end >= start first.
func DurationBetween(start, end int) int {
	if end < start {
		return end - start + minutesPerDay
	}
	return end - start
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// ParseDate parses a civil date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return t, nil
}

// FormatDate renders t as a civil date.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// AddDays advances a civil date by n days. Invalid input dates are
// returned unchanged.
func AddDays(date string, n int) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return FormatDate(t.AddDate(0, 0, n))
}

// IsWeekend reports whether a civil date falls on Saturday or Sunday.
// Invalid dates report false.
func IsWeekend(date string) bool {
	t, err := ParseDate(date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextWeekday returns date if it is a weekday, otherwise the next Monday.
func NextWeekday(date string) string {
	for IsWeekend(date) {
		date = AddDays(date, 1)
	}
	return date
}

// At combines a civil date and a time of day into an absolute time (UTC).
func At(date string, tod int) time.Time {
	t, err := ParseDate(date)
	if err != nil {
		return time.Time{}
	}
	return t.Add(time.Duration(tod) * time.Minute)
}

// ClockMinutes formats a time of day as HH:MM.
func ClockMinutes(tod int) string {
	return fmt.Sprintf("%02d:%02d", tod/60, tod%60)
}
