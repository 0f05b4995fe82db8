// Package clock provides the process clock and civil-time helpers.
// All "today", day-of-week, and hour-of-day derivations happen in KST
// (UTC+9); the wall timezone of the host never leaks into the engine
package clock

import "time"

// KST is the fixed civil timezone used across the app
var KST = time.FixedZone("KST", 9*60*60)

// DayKeyFormat is the civil date layout used as cache and storage keys
const DayKeyFormat = "2006-01-02"

// Clock supplies the current time; inject a fake in tests
type Clock interface {
	Now() time.Time
}

// System is the real clock
type System struct{}

// Now returns the current time
func (System) Now() time.Time { return time.Now() }

// Fixed is a test clock pinned to a single instant
type Fixed struct{ T time.Time }

// Now returns the pinned instant
func (f Fixed) Now() time.Time { return f.T }

// DayKey returns the KST civil date string for t
func DayKey(t time.Time) string { return t.In(KST).Format(DayKeyFormat) }

// HourOf returns the KST hour of day 0..23 for t
func HourOf(t time.Time) int { return t.In(KST).Hour() }

// WeekdayOf returns the KST day of week, 0=Sunday..6=Saturday
func WeekdayOf(t time.Time) int { return int(t.In(KST).Weekday()) }

// DayStart returns midnight KST of t's civil day
func DayStart(t time.Time) time.Time {
	k := t.In(KST)
	return time.Date(k.Year(), k.Month(), k.Day(), 0, 0, 0, 0, KST)
}

// AddDays returns the civil date n days after (or before, negative) t, at midnight KST
func AddDays(t time.Time, n int) time.Time {
	return DayStart(t).AddDate(0, 0, n)
}

// ParseDayKey parses a civil date key back into midnight KST.
// Returns the zero time when s is not a valid key
func ParseDayKey(s string) time.Time {
	t, err := time.ParseInLocation(DayKeyFormat, s, KST)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
