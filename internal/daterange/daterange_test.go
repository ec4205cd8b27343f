package daterange

import (
	"testing"
	"time"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestWeekBounds_MondayStart(t *testing.T) {
	tests := []struct {
		date       string
		start, end string
	}{
		{"2024-03-11", "2024-03-11", "2024-03-17"}, // Monday itself
		{"2024-03-13", "2024-03-11", "2024-03-17"}, // mid-week
		{"2024-03-17", "2024-03-11", "2024-03-17"}, // Sunday, last day
		{"2026-01-01", "2025-12-29", "2026-01-04"}, // week spanning a year boundary
	}
	for _, tc := range tests {
		start, end := WeekBounds(day(t, tc.date), time.Monday)
		if start != tc.start || end != tc.end {
			t.Errorf("WeekBounds(%s) = [%s, %s], want [%s, %s]",
				tc.date, start, end, tc.start, tc.end)
		}
	}
}

func TestWeekBounds_SundayStart(t *testing.T) {
	start, end := WeekBounds(day(t, "2024-03-13"), time.Sunday)
	if start != "2024-03-10" || end != "2024-03-16" {
		t.Errorf("WeekBounds = [%s, %s], want [2024-03-10, 2024-03-16]", start, end)
	}
}

func TestWeekBounds_SpanContainsDate(t *testing.T) {
	// Every day of a couple of weeks must land in a 7-day span starting
	// on the configured weekday and containing the day itself.
	for _, weekStart := range []time.Weekday{time.Monday, time.Sunday, time.Wednesday} {
		d := day(t, "2024-02-20")
		for i := 0; i < 14; i++ {
			cur := d.AddDate(0, 0, i)
			startStr, endStr := WeekBounds(cur, weekStart)
			start, end := day(t, startStr), day(t, endStr)

			if start.Weekday() != weekStart {
				t.Errorf("week of %s starts on %s, want %s",
					cur.Format("2006-01-02"), start.Weekday(), weekStart)
			}
			if end.Sub(start) != 6*24*time.Hour {
				t.Errorf("week of %s spans %v", cur.Format("2006-01-02"), end.Sub(start))
			}
			cs := cur.Format("2006-01-02")
			if cs < startStr || cs > endStr {
				t.Errorf("%s not in [%s, %s]", cs, startStr, endStr)
			}
		}
	}
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		date       string
		start, end string
	}{
		{"2024-02-15", "2024-02-01", "2024-02-29"}, // leap February
		{"2023-02-10", "2023-02-01", "2023-02-28"},
		{"2024-12-31", "2024-12-01", "2024-12-31"},
		{"2024-04-01", "2024-04-01", "2024-04-30"},
	}
	for _, tc := range tests {
		start, end := MonthBounds(day(t, tc.date))
		if start != tc.start || end != tc.end {
			t.Errorf("MonthBounds(%s) = [%s, %s], want [%s, %s]",
				tc.date, start, end, tc.start, tc.end)
		}
	}
}
