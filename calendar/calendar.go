// Package calendar provides day-granularity date arithmetic.
package calendar

import (
	"fmt"
	"time"
)

// DayFormat is the canonical textual form of a Day.
const DayFormat = "2006-01-02"

// Day is a calendar day with no time-of-day or timezone component.
// The zero value is the zero Day; use IsZero to test for it.
type Day struct {
	t time.Time
}

// NewDay builds a Day from year, month, and day-of-month.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a Day from its YYYY-MM-DD form.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day{t: t}, nil
}

// FromTime truncates a wall-clock time to its calendar day.
func FromTime(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

// String returns the YYYY-MM-DD form.
func (d Day) String() string {
	return d.t.Format(DayFormat)
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// AddDays returns the day n days after d (or before, for negative n).
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d falls before o.
func (d Day) Before(o Day) bool {
	return d.t.Before(o.t)
}

// After reports whether d falls after o.
func (d Day) After(o Day) bool {
	return d.t.After(o.t)
}

// Equal reports whether d and o are the same calendar day.
func (d Day) Equal(o Day) bool {
	return d.t.Equal(o.t)
}

// Weekday returns the day of week (Sunday = 0).
func (d Day) Weekday() time.Weekday {
	return d.t.Weekday()
}

// Clock supplies wall-clock time. A nil Clock means time.Now.
type Clock func() time.Time

func resolve(c Clock) time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Today returns the current calendar day.
func Today(c Clock) Day {
	return FromTime(resolve(c))
}

// Yesterday returns the day before the current calendar day.
func Yesterday(c Clock) Day {
	return Today(c).AddDays(-1)
}

// DaysAgo returns the day n days before the current calendar day.
func DaysAgo(c Clock, n int) Day {
	return Today(c).AddDays(-n)
}

// DaysBetween returns the signed number of days from a to b.
func DaysBetween(a, b Day) int {
	return int(b.t.Sub(a.t) / (24 * time.Hour))
}

// IsNextDay reports whether b is the day immediately after a.
func IsNextDay(a, b Day) bool {
	return DaysBetween(a, b) == 1
}

// IsWeekend reports whether d is a Saturday or Sunday.
func IsWeekend(d Day) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
