package timetricks

import (
	"time"
)

const (
	dayFormat      = "2006-01-02"
	prettyDay      = "01/02"
	weekPlusMinute = 7*24*time.Hour + time.Minute
)

func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.In(t.Location()).Format(dayFormat)
}

func Today(t time.Time) bool {
	return SameDay(t, time.Now())
}

func Tomorrow(t time.Time) bool {
	return Today(t.Add(-24 * time.Hour))
}

func TrimClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func WithinWeek(t time.Time) bool {
	// Trim current time so they have no wall clock component, just
	// calendar date, and use it to compute the first minute of the coming week.
	// Then check if our time t occurs before then, as well as after the start
	// of today (minus a minute in case t falls at midnight).
	now := TrimClock(time.Now())
	firstMinuteOfNextWeek := now.Add(weekPlusMinute)
	return t.After(now.Add(-1*time.Minute)) && t.Before(firstMinuteOfNextWeek)
}

func SetClock(t time.Time, hour, minute time.Duration) time.Time {
	return TrimClock(t).Add(hour*time.Hour + minute*time.Minute)
}

// DayKey returns the ISO calendar date of t, "YYYY-MM-DD", in t's location.
// Two times on the same calendar day return identical strings.
func DayKey(t time.Time) string {
	return t.Format(dayFormat)
}

// ParseDay parses the leading "YYYY-MM-DD" of s in loc. Anything after the
// date (a time of day, a timezone) is ignored.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if len(s) > len(dayFormat) {
		s = s[:len(dayFormat)]
	}
	return time.ParseInLocation(dayFormat, s, loc)
}

// DecimalHour is the wall clock of t as fractional hours in [0,24).
func DecimalHour(t time.Time) float64 {
	h, m, _ := t.Clock()
	return float64(h) + float64(m)/60
}

// Day names t relative to the current date: "Today", "Tomorrow", a weekday
// within the coming week, or a month/day otherwise.
func Day(t time.Time) string {
	switch {
	case Today(t):
		return "Today"
	case Tomorrow(t):
		return "Tomorrow"
	case WithinWeek(t):
		return t.Weekday().String()
	default:
		return t.Format(prettyDay)
	}
}
