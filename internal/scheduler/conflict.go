package scheduler

import (
	"fmt"

	"github.com/classbell/classbell/internal/slot"
)

// Detect finds every slot in daySlots whose interval overlaps [start, end),
// skipping excludeID. Returns nil when nothing overlaps.
//
// ShiftDelta is the smallest forward shift that, applied to every slot
// starting at or after the earliest conflict, clears the candidate. Existing
// slots never overlap one another, so every such slot other than the earliest
// conflict starts after it and the earliest one determines the delta.
func Detect(start, end string, daySlots []*slot.TimeSlot, excludeID string) *slot.ConflictInfo {
	conflicts := slot.Overlapping(daySlots, start, end, excludeID)
	if len(conflicts) == 0 {
		return nil
	}
	delta := slot.TimeToMinutes(end) - slot.TimeToMinutes(conflicts[0].StartTime)
	return &slot.ConflictInfo{
		Start:      start,
		End:        end,
		Conflicts:  conflicts,
		ShiftDelta: max(0, delta),
	}
}

// CalculateShift returns the new placement of every slot that must move so
// that [start, end) fits, using the minimal delta from Detect. Returns nil
// when there is no conflict.
func CalculateShift(start, end string, daySlots []*slot.TimeSlot, excludeID string) ([]slot.Shift, error) {
	info := Detect(start, end, daySlots, excludeID)
	if info == nil {
		return nil, nil
	}
	return ShiftBy(start, end, daySlots, excludeID, info.ShiftDelta)
}

// ShiftBy moves every slot starting at or after the earliest conflict with
// [start, end) forward by delta minutes, preserving durations. Slots before
// the conflict zone are never touched. The result is chronological.
func ShiftBy(start, end string, daySlots []*slot.TimeSlot, excludeID string, delta int) ([]slot.Shift, error) {
	info := Detect(start, end, daySlots, excludeID)
	if info == nil {
		return nil, nil
	}
	if delta < info.ShiftDelta {
		return nil, fmt.Errorf("%w: need at least %d minutes, got %d", slot.ErrShiftTooSmall, info.ShiftDelta, delta)
	}

	pivot := info.Earliest().StartTime
	var shifts []slot.Shift
	for _, s := range sortedCopy(daySlots) {
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		if s.StartTime < pivot {
			continue
		}
		newStart := slot.TimeToMinutes(s.StartTime) + delta
		newEnd := slot.TimeToMinutes(s.EndTime) + delta
		if newEnd > slot.MinutesPerDay {
			return nil, fmt.Errorf("%w: %q would end at %d minutes past midnight",
				slot.ErrShiftOverflow, s.Label(), newEnd)
		}
		shifts = append(shifts, slot.Shift{
			Slot:     s,
			NewStart: slot.MinutesToTime(newStart),
			NewEnd:   slot.MinutesToTime(newEnd),
		})
	}
	return shifts, nil
}

// ApplyShifts returns a copy of daySlots with the shifts applied.
func ApplyShifts(daySlots []*slot.TimeSlot, shifts []slot.Shift) []*slot.TimeSlot {
	moved := make(map[string]slot.Shift, len(shifts))
	for _, sh := range shifts {
		moved[sh.Slot.ID] = sh
	}
	result := make([]*slot.TimeSlot, 0, len(daySlots))
	for _, s := range daySlots {
		c := s.Clone()
		if sh, ok := moved[s.ID]; ok {
			c.StartTime = sh.NewStart
			c.EndTime = sh.NewEnd
		}
		result = append(result, c)
	}
	slot.SortByStart(result)
	return result
}

func sortedCopy(daySlots []*slot.TimeSlot) []*slot.TimeSlot {
	sorted := make([]*slot.TimeSlot, len(daySlots))
	copy(sorted, daySlots)
	slot.SortByStart(sorted)
	return sorted
}
