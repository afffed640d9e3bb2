// Package dates provides local-calendar-day arithmetic shared by the metric
// engine and the storage filters. All functions operate in the time value's
// own location; callers pass local times and get local-day semantics back.
package dates

import "time"

const keyLayout = "2006-01-02"

// StartOfDay returns 00:00:00.000 of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day, for inclusive
// day-range filters.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999000000, t.Location())
}

// Key formats t as YYYY-MM-DD in t's location. The result depends only on
// the calendar day, never the time of day.
func Key(t time.Time) string {
	return t.Format(keyLayout)
}

// ParseKey parses a YYYY-MM-DD day key into a midnight local time.
func ParseKey(s string) (time.Time, error) {
	return time.ParseInLocation(keyLayout, s, time.Local)
}

// DaysBetween counts calendar days from a to b (same day yields 0, next day
// yields 1). Both arguments are reduced to their calendar date first, so
// time-of-day and DST transitions never shift the count. Negative when b is
// before a.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start) / (24 * time.Hour))
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
