package grace

import "github.com/kindling-cli/kindling/calendar"

// Availability describes the weekly quota as of a reference day. Derived,
// never stored.
type Availability struct {
	Available      bool
	UsedThisWeek   int
	MaxPerWeek     int
	Remaining      int
	ResetsOn       calendar.Day
	DaysUntilReset int
}

// UsedInWeek counts ledger entries in the ISO week bucket containing ref.
func UsedInWeek(history []Usage, ref calendar.Day) int {
	week, year := calendar.ISOWeek(ref)
	n := 0
	for _, u := range history {
		if u.Week == week && u.Year == year {
			n++
		}
	}
	return n
}

// CheckAvailability reports how much of the weekly quota is left as of
// ref. Quota counting buckets by ISO week; the reset day follows the
// Sunday-start week boundary. The two conventions disagree around year
// boundaries and are kept as-is.
func CheckAvailability(state State, ref calendar.Day) Availability {
	used := UsedInWeek(state.History, ref)
	remaining := state.MaxPerWeek - used
	if remaining < 0 {
		remaining = 0
	}
	_, end := calendar.WeekBoundaries(ref)
	resetsOn := end.AddDays(1)
	return Availability{
		Available:      state.Enabled && remaining > 0,
		UsedThisWeek:   used,
		MaxPerWeek:     state.MaxPerWeek,
		Remaining:      remaining,
		ResetsOn:       resetsOn,
		DaysUntilReset: calendar.DaysBetween(ref, resetsOn),
	}
}
