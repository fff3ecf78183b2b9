// Package timex holds time helpers shared across the module: UTC
// normalization for stored timestamps and a JSON-friendly Duration.
package timex

import "time"

// EnsureUTC returns t expressed in UTC. The instant is preserved; only the
// location changes. Values already in UTC are returned as is.
func EnsureUTC(t time.Time) time.Time {
	if t.Location() == time.UTC {
		return t
	}
	return t.UTC()
}

// AssumeUTC re-tags the wall clock of t as UTC without shifting it. Use it
// for values read from columns that carry no zone, where the clock value
// was written as UTC.
func AssumeUTC(t time.Time) time.Time {
	if t.Location() == time.UTC {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// StartOfDay truncates t to 00:00 UTC of its UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	t = EnsureUTC(t)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfWeek returns 00:00 UTC of the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	diff := (7 + int(day.Weekday()-time.Monday)) % 7
	return day.AddDate(0, 0, -diff)
}
