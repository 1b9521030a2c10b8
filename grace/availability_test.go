package grace

import (
	"testing"

	"github.com/kindling-cli/kindling/calendar"
)

func day(t *testing.T, s string) calendar.Day {
	t.Helper()
	d, err := calendar.ParseDay(s)
	if err != nil {
		t.Fatalf("parse day %q: %v", s, err)
	}
	return d
}

func usageOn(t *testing.T, usedOn, missed string) Usage {
	t.Helper()
	u := day(t, usedOn)
	week, year := calendar.ISOWeek(u)
	return Usage{
		UsedOn:     u,
		Week:       week,
		Year:       year,
		MissedDate: day(t, missed),
	}
}

func TestUsedInWeek(t *testing.T) {
	history := []Usage{
		usageOn(t, "2024-06-12", "2024-06-11"),
		usageOn(t, "2024-06-14", "2024-06-13"),
		usageOn(t, "2024-06-03", "2024-06-02"), // previous ISO week
	}
	if got := UsedInWeek(history, day(t, "2024-06-10")); got != 2 {
		t.Fatalf("UsedInWeek = %d, want 2", got)
	}
	if got := UsedInWeek(history, day(t, "2024-06-05")); got != 1 {
		t.Fatalf("UsedInWeek previous week = %d, want 1", got)
	}
	if got := UsedInWeek(nil, day(t, "2024-06-10")); got != 0 {
		t.Fatalf("UsedInWeek empty = %d, want 0", got)
	}
}

func TestCheckAvailabilityFreshState(t *testing.T) {
	avail := CheckAvailability(DefaultState(), day(t, "2024-06-12")) // Wednesday
	if !avail.Available {
		t.Fatalf("fresh state should have a grace day available")
	}
	if avail.UsedThisWeek != 0 || avail.Remaining != 1 || avail.MaxPerWeek != 1 {
		t.Fatalf("unexpected quota numbers: %+v", avail)
	}
	if avail.ResetsOn.String() != "2024-06-16" {
		t.Fatalf("ResetsOn = %s, want 2024-06-16", avail.ResetsOn)
	}
	if avail.DaysUntilReset != 4 {
		t.Fatalf("DaysUntilReset = %d, want 4", avail.DaysUntilReset)
	}
}

func TestCheckAvailabilityExhaustedQuota(t *testing.T) {
	state := DefaultState()
	state, err := Consume(state, day(t, "2024-06-11"), 5, day(t, "2024-06-12"))
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	avail := CheckAvailability(state, day(t, "2024-06-14"))
	if avail.Available {
		t.Fatalf("quota should be exhausted for the rest of the week")
	}
	if avail.UsedThisWeek != 1 || avail.Remaining != 0 {
		t.Fatalf("unexpected quota numbers: %+v", avail)
	}

	// The ISO bucket runs through Sunday, so the quota is still spent on
	// the Sunday that starts the next boundary week.
	if CheckAvailability(state, day(t, "2024-06-16")).Available {
		t.Fatalf("Sunday still shares the ISO bucket; quota must stay spent")
	}
	// A new ISO week begins on Monday and frees the quota.
	if !CheckAvailability(state, day(t, "2024-06-17")).Available {
		t.Fatalf("quota should reset in the following week")
	}
}

func TestCheckAvailabilityDisabled(t *testing.T) {
	state := DefaultState()
	state.Enabled = false
	avail := CheckAvailability(state, day(t, "2024-06-12"))
	if avail.Available {
		t.Fatalf("disabled state must never be available")
	}
	if avail.Remaining != 1 {
		t.Fatalf("disabling should not consume quota: %+v", avail)
	}
}

func TestCheckAvailabilityRemainingNeverNegative(t *testing.T) {
	state := DefaultState()
	state.History = []Usage{
		usageOn(t, "2024-06-11", "2024-06-10"),
		usageOn(t, "2024-06-13", "2024-06-12"),
	}
	avail := CheckAvailability(state, day(t, "2024-06-14"))
	if avail.Remaining != 0 {
		t.Fatalf("Remaining = %d, want 0", avail.Remaining)
	}
	if avail.UsedThisWeek != 2 {
		t.Fatalf("UsedThisWeek = %d, want 2", avail.UsedThisWeek)
	}
}
