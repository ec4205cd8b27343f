// Package daterange computes inclusive week and month boundaries for
// an arbitrary calendar date.
package daterange

import "time"

const dayLayout = "2006-01-02"

// WeekBounds returns the first and last day (inclusive) of the week
// containing d, where the week begins on weekStart. Both bounds are
// formatted as YYYY-MM-DD so callers can compare them lexicographically.
func WeekBounds(d time.Time, weekStart time.Weekday) (string, string) {
	offset := (int(d.Weekday()) - int(weekStart) + 7) % 7
	start := d.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 6)
	return start.Format(dayLayout), end.Format(dayLayout)
}

// MonthBounds returns the first and last calendar day (inclusive) of
// the month containing d, formatted as YYYY-MM-DD.
func MonthBounds(d time.Time) (string, string) {
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	end := start.AddDate(0, 1, -1)
	return start.Format(dayLayout), end.Format(dayLayout)
}
