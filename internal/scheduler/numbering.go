package scheduler

import "github.com/classbell/classbell/internal/slot"

// AssignPeriodNumber returns the 1-based chronological position a slot
// starting at start takes among daySlots, ignoring excludeID. Breaks count
// like periods.
func AssignPeriodNumber(start string, daySlots []*slot.TimeSlot, excludeID string) int {
	start = slot.Canonical(start)
	n := 1
	for _, s := range daySlots {
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		if s.StartTime < start {
			n++
		}
	}
	return n
}

// Renumber sorts the day's slots and sets every period number to its 1-based
// position. It returns only the updates whose number actually changed, so a
// second pass returns nothing.
func Renumber(daySlots []*slot.TimeSlot) []slot.PeriodUpdate {
	sorted := sortedCopy(daySlots)
	var updates []slot.PeriodUpdate
	for i, s := range sorted {
		want := i + 1
		if s.PeriodNumber == want {
			continue
		}
		s.PeriodNumber = want
		updates = append(updates, slot.PeriodUpdate{ID: s.ID, PeriodNumber: want})
	}
	return updates
}
