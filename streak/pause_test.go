package streak

import (
	"testing"

	"github.com/kindling-cli/kindling/calendar"
	"github.com/kindling-cli/kindling/grace"
)

func TestWeekendRule(t *testing.T) {
	rule := WeekendRule{}
	if !rule.Paused(day(t, "2024-06-08")) || !rule.Paused(day(t, "2024-06-09")) {
		t.Fatalf("Saturday and Sunday should be paused")
	}
	if rule.Paused(day(t, "2024-06-10")) {
		t.Fatalf("Monday should not be paused")
	}
}

// The weekend gap neither breaks the chain nor counts toward it.
func TestCalculateWithPauseSkipsWeekend(t *testing.T) {
	today := day(t, "2024-06-10") // Monday
	activity := days(t, "2024-06-10", "2024-06-07", "2024-06-06")
	got := CalculateWithPause(activity, grace.DefaultState(), today, WeekendRule{})
	if got.Current != 3 || got.Effective != 3 {
		t.Fatalf("weekend pause: %+v", got)
	}
}

// The default path ignores the WeekendPause flag entirely; only the
// explicit rule changes the replay.
func TestCalculateIgnoresWeekendPauseFlag(t *testing.T) {
	today := day(t, "2024-06-10")
	activity := days(t, "2024-06-10", "2024-06-07", "2024-06-06")
	state := grace.DefaultState()
	state.WeekendPause = true
	got := Calculate(activity, state, today)
	if got.Current != 1 || got.Effective != 1 {
		t.Fatalf("flag alone must not alter the replay: %+v", got)
	}
}

func TestCalculateWithNilRuleMatchesDefault(t *testing.T) {
	today := day(t, "2024-06-10")
	activity := days(t, "2024-06-10", "2024-06-09")
	plain := Calculate(activity, grace.DefaultState(), today)
	withNil := CalculateWithPause(activity, grace.DefaultState(), today, nil)
	if plain.Current != withNil.Current || plain.Effective != withNil.Effective ||
		plain.GraceUsed != withNil.GraceUsed || plain.Protected != withNil.Protected {
		t.Fatalf("nil rule should match default: %+v vs %+v", plain, withNil)
	}
}

type pauseEveryThird struct{ anchor calendar.Day }

func (p pauseEveryThird) Paused(d calendar.Day) bool {
	return calendar.DaysBetween(d, p.anchor)%3 == 0
}

func TestCalculateWithCustomRule(t *testing.T) {
	today := day(t, "2024-06-10")
	rule := pauseEveryThird{anchor: today}
	activity := days(t, "2024-06-09", "2024-06-08", "2024-06-06", "2024-06-05")
	got := CalculateWithPause(activity, grace.DefaultState(), today, rule)
	if got.Effective != 4 || got.Current != 4 {
		t.Fatalf("custom rule: %+v", got)
	}
}
