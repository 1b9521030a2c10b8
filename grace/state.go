// Package grace tracks the weekly grace-day ledger and decides whether a
// missed day can be healed without breaking a streak.
package grace

import (
	"context"
	"fmt"

	"github.com/kindling-cli/kindling/calendar"
)

// DefaultMaxPerWeek is the weekly grace-day quota for a fresh State.
const DefaultMaxPerWeek = 1

// Usage is one healed gap. Records are immutable once appended and no
// missed date may appear twice in a ledger.
type Usage struct {
	UsedOn      calendar.Day
	Week        int
	Year        int
	MissedDate  calendar.Day
	StreakAtUse int
}

// State is the persisted grace-day configuration and ledger. It is a
// value: every transform returns a new State and never mutates the input,
// so callers can hand it around and persist whichever version they like.
type State struct {
	Enabled      bool
	History      []Usage
	MaxPerWeek   int
	WeekendPause bool
}

// DefaultState returns the state a fresh profile starts with, and the
// state malformed persisted data collapses to.
func DefaultState() State {
	return State{
		Enabled:    true,
		MaxPerWeek: DefaultMaxPerWeek,
	}
}

// Consume returns a copy of state with one appended Usage healing missed,
// stamped with usedOn and its ISO week bucket. It fails only if missed is
// already in the ledger; quota and gap-size policy are the caller's job
// via EvaluateGap.
func Consume(state State, missed calendar.Day, streakAtUse int, usedOn calendar.Day) (State, error) {
	for _, u := range state.History {
		if u.MissedDate.Equal(missed) {
			return State{}, fmt.Errorf("grace day already used for %s", missed)
		}
	}
	week, year := calendar.ISOWeek(usedOn)
	history := make([]Usage, len(state.History), len(state.History)+1)
	copy(history, state.History)
	state.History = append(history, Usage{
		UsedOn:      usedOn,
		Week:        week,
		Year:        year,
		MissedDate:  missed,
		StreakAtUse: streakAtUse,
	})
	return state, nil
}

// CleanupOldUsage returns a copy of state without ledger entries more
// than 52 week buckets behind now. This is the only operation that may
// shrink the ledger; it runs as maintenance, never on the hot path.
func CleanupOldUsage(state State, now calendar.Day) State {
	nowWeek, nowYear := calendar.ISOWeek(now)
	kept := make([]Usage, 0, len(state.History))
	for _, u := range state.History {
		age := (nowYear-u.Year)*52 + (nowWeek - u.Week)
		if age > 52 {
			continue
		}
		kept = append(kept, u)
	}
	state.History = kept
	return state
}

// Store is the persistence contract the engine requires but does not
// implement. Load returns DefaultState for unknown profiles and for
// malformed persisted data, never a partially repaired ledger. Save is
// best-effort; hosts log failures and carry on with the in-memory value.
type Store interface {
	Load(ctx context.Context, profile string) (State, error)
	Save(ctx context.Context, profile string, state State) error
	Clear(ctx context.Context, profile string) error
}
