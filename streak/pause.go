package streak

import "github.com/kindling-cli/kindling/calendar"

// PauseRule marks days the replay should skip entirely: a paused day
// requires no activity and contributes nothing to the counts.
type PauseRule interface {
	Paused(d calendar.Day) bool
}

// WeekendRule pauses Saturdays and Sundays. Pass it to CalculateWithPause
// when a profile opts in to weekend pausing.
type WeekendRule struct{}

// Paused reports whether d falls on a weekend.
func (WeekendRule) Paused(d calendar.Day) bool {
	return calendar.IsWeekend(d)
}
