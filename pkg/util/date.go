package util

import (
	"time"
)

// DateLayout is the calendar-date form used across the scanner (UTC, no time part).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// ParseDateDefault parses a date or returns default if empty/invalid.
func ParseDateDefault(s string, def time.Time) time.Time {
	if t, ok := ParseDate(s); ok {
		return t
	}
	return def
}

// FormatDate renders the date portion of t in UTC as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Midnight truncates t to midnight UTC of its calendar day.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayWindow returns the half-open interval [start, end) in epoch milliseconds
// covering the calendar day of t. Window math is always UTC so a scan never
// shifts by a day depending on the host timezone.
func DayWindow(t time.Time) (startMs, endMs int64) {
	start := Midnight(t)
	return start.UnixMilli(), start.Add(24 * time.Hour).UnixMilli()
}

// DaysBetween lists midnights from 'from' through 'to' inclusive, ascending.
// Returns nil if to precedes from.
func DaysBetween(from, to time.Time) []time.Time {
	from = Midnight(from)
	to = Midnight(to)
	if to.Before(from) {
		return nil
	}
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
