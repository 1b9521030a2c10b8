package grace

import (
	"fmt"

	"github.com/kindling-cli/kindling/calendar"
)

// Decision is the outcome of evaluating a single gap. Refusals are
// expected outcomes, not errors: the reason says why, and MissedDate is
// the zero Day unless the gap identified exactly one missed day.
type Decision struct {
	CanProtect bool
	MissedDate calendar.Day
	Reason     string
}

// EvaluateGap decides whether the gap between the last activity day and
// check can be healed right now.
//
// Only a gap of exactly two days (one missed day in between) is ever
// healable. A larger gap is never healable, even partially, regardless of
// quota. That asymmetry is deliberate: a grace day repairs a single slip,
// it does not shorten a longer break.
func EvaluateGap(state State, lastActivity, check calendar.Day) Decision {
	if !state.Enabled {
		return Decision{Reason: "grace days are disabled"}
	}
	gap := calendar.DaysBetween(lastActivity, check)
	switch {
	case gap <= 0:
		return Decision{Reason: "active today"}
	case gap == 1:
		return Decision{Reason: "active yesterday, streak continues"}
	case gap == 2:
		missed := check.AddDays(-1)
		for _, u := range state.History {
			if u.MissedDate.Equal(missed) {
				return Decision{
					MissedDate: missed,
					Reason:     fmt.Sprintf("%s is already protected", missed),
				}
			}
		}
		avail := CheckAvailability(state, check)
		if !avail.Available {
			return Decision{
				MissedDate: missed,
				Reason: fmt.Sprintf("no grace days remaining this week (%d/%d)",
					avail.UsedThisWeek, avail.MaxPerWeek),
			}
		}
		return Decision{CanProtect: true, MissedDate: missed}
	default:
		return Decision{
			Reason: fmt.Sprintf("gap too large (%d days missed); grace days only protect 1 missed day",
				gap-1),
		}
	}
}
