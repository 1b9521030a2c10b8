package grace

import (
	"strings"
	"testing"
)

func TestEvaluateGapNoGap(t *testing.T) {
	state := DefaultState()
	check := day(t, "2024-06-10")

	d := EvaluateGap(state, check, check)
	if d.CanProtect || d.Reason != "active today" {
		t.Fatalf("same-day gap: %+v", d)
	}
	d = EvaluateGap(state, day(t, "2024-06-09"), check)
	if d.CanProtect || d.Reason != "active yesterday, streak continues" {
		t.Fatalf("one-day gap: %+v", d)
	}
	// Reference day before the last activity is treated as no gap.
	d = EvaluateGap(state, day(t, "2024-06-12"), check)
	if d.CanProtect {
		t.Fatalf("negative gap must not be protectable: %+v", d)
	}
}

func TestEvaluateGapSingleMissedDay(t *testing.T) {
	d := EvaluateGap(DefaultState(), day(t, "2024-06-08"), day(t, "2024-06-10"))
	if !d.CanProtect {
		t.Fatalf("expected protectable gap, got %+v", d)
	}
	if d.MissedDate.String() != "2024-06-09" {
		t.Fatalf("MissedDate = %s, want 2024-06-09", d.MissedDate)
	}
}

func TestEvaluateGapAlreadyProtected(t *testing.T) {
	state := DefaultState()
	state, err := Consume(state, day(t, "2024-06-09"), 3, day(t, "2024-06-10"))
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	d := EvaluateGap(state, day(t, "2024-06-08"), day(t, "2024-06-10"))
	if d.CanProtect {
		t.Fatalf("already-healed day must not be protectable again")
	}
	if !strings.Contains(d.Reason, "already protected") {
		t.Fatalf("reason should mention already protected, got %q", d.Reason)
	}
}

func TestEvaluateGapQuotaExhausted(t *testing.T) {
	state := DefaultState()
	state, err := Consume(state, day(t, "2024-06-11"), 3, day(t, "2024-06-12"))
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	// A different missed day in the same ISO week.
	d := EvaluateGap(state, day(t, "2024-06-12"), day(t, "2024-06-14"))
	if d.CanProtect {
		t.Fatalf("second heal in one week must be refused")
	}
	if d.Reason != "no grace days remaining this week (1/1)" {
		t.Fatalf("reason = %q", d.Reason)
	}
}

// A multi-day gap is never healable, even when quota could nominally cover
// one of the missed days.
func TestEvaluateGapTooLarge(t *testing.T) {
	state := DefaultState()
	avail := CheckAvailability(state, day(t, "2024-06-12"))
	if !avail.Available {
		t.Fatalf("precondition: quota should be fully available")
	}
	tests := []struct {
		last   string
		missed int
	}{
		{"2024-06-09", 2},
		{"2024-06-07", 4},
		{"2024-05-12", 30},
	}
	for _, tt := range tests {
		d := EvaluateGap(state, day(t, tt.last), day(t, "2024-06-12"))
		if d.CanProtect {
			t.Fatalf("gap from %s must not be protectable", tt.last)
		}
		want := "gap too large"
		if !strings.Contains(d.Reason, want) || !strings.Contains(d.Reason, "1 missed day") {
			t.Fatalf("reason = %q", d.Reason)
		}
		if !d.MissedDate.IsZero() {
			t.Fatalf("oversized gap should not name a missed day: %+v", d)
		}
	}
}

func TestEvaluateGapDisabled(t *testing.T) {
	state := DefaultState()
	state.Enabled = false
	d := EvaluateGap(state, day(t, "2024-06-08"), day(t, "2024-06-10"))
	if d.CanProtect || d.Reason != "grace days are disabled" {
		t.Fatalf("disabled state: %+v", d)
	}
}
