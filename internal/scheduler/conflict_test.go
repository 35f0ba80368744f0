package scheduler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/classbell/classbell/internal/slot"
)

func morning() []*slot.TimeSlot {
	return []*slot.TimeSlot{
		period("p1", "08:00:00", "08:45:00"),
		period("p2", "09:00:00", "09:45:00"),
		period("p3", "09:45:00", "10:30:00"),
		period("p4", "11:00:00", "11:45:00"),
	}
}

func TestDetect_NoConflict(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{name: "touching end of previous", start: "08:45:00", end: "09:00:00"},
		{name: "touching start of next", start: "10:30:00", end: "11:00:00"},
		{name: "after everything", start: "12:00:00", end: "12:45:00"},
		{name: "before everything", start: "07:15:00", end: "08:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if info := Detect(tt.start, tt.end, morning(), ""); info != nil {
				t.Errorf("expected no conflict, got %d conflicts", len(info.Conflicts))
			}
		})
	}
}

func TestDetect_BackToBackNeverConflicts(t *testing.T) {
	for s := 0; s < 20*60; s += 5 {
		for _, length := range []int{15, 40, 45} {
			existing := []*slot.TimeSlot{
				period("x", slot.MinutesToTime(s), slot.MinutesToTime(s+length)),
			}
			after := Detect(slot.MinutesToTime(s+length), slot.MinutesToTime(s+2*length), existing, "")
			before := Detect(slot.MinutesToTime(max(0, s-length)), slot.MinutesToTime(s), existing, "")
			if after != nil || (s >= length && before != nil) {
				t.Fatalf("touching interval reported as conflict at %s", slot.MinutesToTime(s))
			}
		}
	}
}

func TestDetect_Conflict(t *testing.T) {
	day := []*slot.TimeSlot{period("a", "09:00:00", "09:45:00")}

	info := Detect("09:30:00", "10:15:00", day, "")
	if info == nil {
		t.Fatal("expected conflict")
	}
	if len(info.Conflicts) != 1 || info.Conflicts[0].ID != "a" {
		t.Fatalf("unexpected conflicts %v", conflictIDs(info))
	}
	// The existing slot starts at 09:00 and must clear 10:15.
	if info.ShiftDelta != 75 {
		t.Errorf("ShiftDelta = %d, want 75", info.ShiftDelta)
	}
}

func TestDetect_MultipleConflictsChronological(t *testing.T) {
	info := Detect("08:30:00", "10:00:00", morning(), "")
	if info == nil {
		t.Fatal("expected conflict")
	}
	got := conflictIDs(info)
	want := []string{"p1", "p2", "p3"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("conflicts = %v, want %v", got, want)
	}
	if info.ShiftDelta != 120 {
		t.Errorf("ShiftDelta = %d, want 120", info.ShiftDelta)
	}
}

func TestDetect_ExcludesSelf(t *testing.T) {
	// Moving p2 ten minutes later only collides with itself and p3.
	info := Detect("09:10:00", "09:55:00", morning(), "p2")
	if info == nil {
		t.Fatal("expected conflict with p3")
	}
	if got := conflictIDs(info); len(got) != 1 || got[0] != "p3" {
		t.Errorf("conflicts = %v, want [p3]", got)
	}

	if info := Detect("09:00:00", "09:45:00", morning(), "p2"); info != nil {
		t.Errorf("slot conflicts with itself: %v", conflictIDs(info))
	}
}

// An existing slot overlapping the candidate is reported whether it sits
// earlier or later in the day.
func TestDetect_Symmetry(t *testing.T) {
	candidateStart, candidateEnd := "10:00:00", "11:00:00"
	cases := []*slot.TimeSlot{
		period("earlier", "09:30:00", "10:15:00"),
		period("later", "10:45:00", "11:30:00"),
		period("inside", "10:15:00", "10:45:00"),
		period("around", "09:00:00", "12:00:00"),
	}
	for _, existing := range cases {
		t.Run(existing.ID, func(t *testing.T) {
			info := Detect(candidateStart, candidateEnd, []*slot.TimeSlot{existing}, "")
			if info == nil || !info.Contains(existing.ID) {
				t.Errorf("%s not reported as conflict", existing.ID)
			}
			// Swapping roles gives the same answer.
			reverse := Detect(existing.StartTime, existing.EndTime,
				[]*slot.TimeSlot{period("cand", candidateStart, candidateEnd)}, "")
			if reverse == nil {
				t.Errorf("reverse check for %s missed the conflict", existing.ID)
			}
		})
	}
}

func TestCalculateShift(t *testing.T) {
	shifts, err := CalculateShift("09:15:00", "10:00:00", morning(), "")
	if err != nil {
		t.Fatalf("CalculateShift failed: %v", err)
	}

	// p2 starts 09:00 and must clear 10:00: delta 60 for p2, p3, p4.
	want := []slot.Shift{
		{NewStart: "10:00:00", NewEnd: "10:45:00"},
		{NewStart: "10:45:00", NewEnd: "11:30:00"},
		{NewStart: "12:00:00", NewEnd: "12:45:00"},
	}
	wantIDs := []string{"p2", "p3", "p4"}
	if len(shifts) != len(want) {
		t.Fatalf("expected %d shifts, got %d", len(want), len(shifts))
	}
	for i := range want {
		if shifts[i].Slot.ID != wantIDs[i] {
			t.Errorf("shift %d moves %s, want %s", i, shifts[i].Slot.ID, wantIDs[i])
		}
		if shifts[i].NewStart != want[i].NewStart || shifts[i].NewEnd != want[i].NewEnd {
			t.Errorf("shift %d = %s-%s, want %s-%s", i,
				shifts[i].NewStart, shifts[i].NewEnd, want[i].NewStart, want[i].NewEnd)
		}
		if d := slot.TimeToMinutes(shifts[i].NewEnd) - slot.TimeToMinutes(shifts[i].NewStart); d != shifts[i].Slot.Duration() {
			t.Errorf("shift %d changed duration to %d", i, d)
		}
	}
}

func TestCalculateShift_NoConflict(t *testing.T) {
	shifts, err := CalculateShift("12:00:00", "12:45:00", morning(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shifts != nil {
		t.Errorf("expected no shifts, got %d", len(shifts))
	}
}

func TestCalculateShift_SlotsBeforeUntouched(t *testing.T) {
	shifts, err := CalculateShift("11:15:00", "12:00:00", morning(), "")
	if err != nil {
		t.Fatalf("CalculateShift failed: %v", err)
	}
	if len(shifts) != 1 || shifts[0].Slot.ID != "p4" {
		t.Fatalf("expected only p4 to move, got %d shifts", len(shifts))
	}
}

func TestShiftBy_Errors(t *testing.T) {
	t.Run("delta too small", func(t *testing.T) {
		_, err := ShiftBy("09:15:00", "10:00:00", morning(), "", 30)
		if !errors.Is(err, slot.ErrShiftTooSmall) {
			t.Errorf("expected ErrShiftTooSmall, got %v", err)
		}
	})

	t.Run("larger delta accepted", func(t *testing.T) {
		shifts, err := ShiftBy("09:15:00", "10:00:00", morning(), "", 90)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if shifts[0].NewStart != "10:30:00" {
			t.Errorf("NewStart = %s, want 10:30:00", shifts[0].NewStart)
		}
	})

	t.Run("past midnight", func(t *testing.T) {
		day := []*slot.TimeSlot{
			period("late", "22:00:00", "23:00:00"),
			period("last", "23:00:00", "23:45:00"),
		}
		_, err := CalculateShift("21:30:00", "22:30:00", day, "")
		if !errors.Is(err, slot.ErrShiftOverflow) {
			t.Errorf("expected ErrShiftOverflow, got %v", err)
		}
	})
}

// Applying the detected delta always removes the overlap with the candidate
// and never creates new overlaps within the day.
func TestShift_RemovesOverlap(t *testing.T) {
	day := morning()
	for start := 7 * 60; start < 12*60; start += 5 {
		for _, length := range []int{10, 30, 45, 90} {
			cs := slot.MinutesToTime(start)
			ce := slot.MinutesToTime(start + length)
			info := Detect(cs, ce, day, "")
			if info == nil {
				continue
			}
			shifts, err := ShiftBy(cs, ce, day, "", info.ShiftDelta)
			if err != nil {
				t.Fatalf("ShiftBy(%s-%s) failed: %v", cs, ce, err)
			}
			shifted := ApplyShifts(day, shifts)
			if again := Detect(cs, ce, shifted, ""); again != nil {
				t.Fatalf("candidate %s-%s still conflicts after shift by %d: %v",
					cs, ce, info.ShiftDelta, conflictIDs(again))
			}
			if _, err := slot.NewDayWithSlots("class-7a", "2025-01-13", shifted); err != nil {
				t.Fatalf("shift for %s-%s produced overlapping day: %v", cs, ce, err)
			}
			// Minimal: one minute less leaves an overlap.
			if info.ShiftDelta > 0 {
				if _, err := ShiftBy(cs, ce, day, "", info.ShiftDelta-1); !errors.Is(err, slot.ErrShiftTooSmall) {
					t.Fatalf("delta %d for %s-%s is not minimal", info.ShiftDelta, cs, ce)
				}
			}
		}
	}
}

func TestApplyShifts_DoesNotMutateInput(t *testing.T) {
	day := morning()
	shifts, _ := CalculateShift("09:15:00", "10:00:00", day, "")
	_ = ApplyShifts(day, shifts)
	if day[1].StartTime != "09:00:00" {
		t.Errorf("input slot mutated: %s", day[1].StartTime)
	}
}

func conflictIDs(info *slot.ConflictInfo) []string {
	if info == nil {
		return nil
	}
	out := make([]string, len(info.Conflicts))
	for i, s := range info.Conflicts {
		out[i] = s.ID
	}
	return out
}
