// Package streak reconstructs streak counts from an activity history and
// the grace-day ledger.
package streak

import (
	"github.com/kindling-cli/kindling/calendar"
	"github.com/kindling-cli/kindling/grace"
)

// maxWalkDays bounds the backward replay so corrupt input can never spin
// the loop past a year of history.
const maxWalkDays = 365

// Result holds the reconstructed streak counts. Derived, never stored.
//
// Current is the raw unbroken run of activity days; Effective additionally
// counts grace-protected days and is the number shown to the user.
type Result struct {
	Current       int
	Effective     int
	GraceUsed     int
	Protected     bool
	ProtectedDays []calendar.Day
}

// Calculate replays the activity history and the ledger into streak
// counts as of today. Activity days may arrive in any order and may
// contain duplicates. The grace-day ledger heals single missed days; today
// itself is not yet due, so a day with no activity so far does not break
// the chain. Malformed dates are a caller bug, not a runtime condition.
func Calculate(activity []calendar.Day, state grace.State, today calendar.Day) Result {
	return calculate(activity, state, today, nil)
}

// CalculateWithPause is Calculate with a pause rule consulted during the
// replay: paused days require no activity and add nothing to the counts.
// The default Calculate path never consults the WeekendPause flag; this
// entry point is the seam for wiring it in.
func CalculateWithPause(activity []calendar.Day, state grace.State, today calendar.Day, rule PauseRule) Result {
	return calculate(activity, state, today, rule)
}

func calculate(activity []calendar.Day, state grace.State, today calendar.Day, rule PauseRule) Result {
	if len(activity) == 0 {
		return Result{}
	}

	active := make(map[calendar.Day]struct{}, len(activity))
	mostRecent := activity[0]
	for _, d := range activity {
		active[d] = struct{}{}
		if d.After(mostRecent) {
			mostRecent = d
		}
	}

	protected := make(map[calendar.Day]struct{}, len(state.History))
	for _, u := range state.History {
		protected[u.MissedDate] = struct{}{}
	}

	yesterday := today.AddDays(-1)
	if !mostRecent.Equal(today) && !mostRecent.Equal(yesterday) {
		// The chain is stale unless yesterday was healed and the day
		// before it had real activity.
		_, healed := protected[yesterday]
		_, anchored := active[yesterday.AddDays(-1)]
		if !healed || !anchored {
			return Result{}
		}
	}

	var result Result
	cursor := today
	for i := 0; i < maxWalkDays; i++ {
		switch {
		case rule != nil && rule.Paused(cursor):
			// Paused days are skipped without counting.
		case contains(active, cursor):
			result.Effective++
		case contains(protected, cursor):
			result.Effective++
			result.GraceUsed++
			result.ProtectedDays = append(result.ProtectedDays, cursor)
		case cursor.Equal(today):
			// No activity yet today; the day is not due, keep walking.
		default:
			result.Current = result.Effective - result.GraceUsed
			result.Protected = result.GraceUsed > 0
			return result
		}
		cursor = cursor.AddDays(-1)
	}
	result.Current = result.Effective - result.GraceUsed
	result.Protected = result.GraceUsed > 0
	return result
}

func contains(set map[calendar.Day]struct{}, d calendar.Day) bool {
	_, ok := set[d]
	return ok
}
