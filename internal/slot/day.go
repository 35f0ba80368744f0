package slot

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Day holds all slots for one class on one date.
type Day struct {
	ClassInstanceID string
	ClassDate       string
	slots           []*TimeSlot // sorted by StartTime
}

// NewDay creates an empty Day.
func NewDay(classInstanceID, classDate string) *Day {
	return &Day{
		ClassInstanceID: classInstanceID,
		ClassDate:       classDate,
		slots:           make([]*TimeSlot, 0),
	}
}

// NewDayWithSlots creates a Day from a slice of slots.
// Returns an error if any two slots overlap.
func NewDayWithSlots(classInstanceID, classDate string, slots []*TimeSlot) (*Day, error) {
	d := NewDay(classInstanceID, classDate)
	for _, s := range slots {
		if err := d.AddSlot(s); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Slots returns a copy of the slot slice in chronological order.
func (d *Day) Slots() []*TimeSlot {
	result := make([]*TimeSlot, len(d.slots))
	copy(result, d.slots)
	return result
}

// AddSlot adds a slot, maintaining sorted order by start time.
// Returns ErrSlotOverlap if the slot overlaps with an existing one.
func (d *Day) AddSlot(s *TimeSlot) error {
	if s == nil {
		return nil
	}
	if overlaps := d.FindOverlapping(s.StartTime, s.EndTime, s.ID); len(overlaps) > 0 {
		o := overlaps[0]
		return fmt.Errorf("%w: %q (%s-%s) conflicts with %q (%s-%s)",
			ErrSlotOverlap,
			s.Label(), s.StartTime, s.EndTime,
			o.Label(), o.StartTime, o.EndTime,
		)
	}
	d.slots = append(d.slots, s)
	SortByStart(d.slots)
	return nil
}

// FindOverlapping returns every slot whose interval overlaps [start, end),
// skipping the slot with excludeID. The result is chronological.
func (d *Day) FindOverlapping(start, end, excludeID string) []*TimeSlot {
	return Overlapping(d.slots, start, end, excludeID)
}

// RemoveSlot removes a slot by id and returns it, or nil if not found.
func (d *Day) RemoveSlot(id string) *TimeSlot {
	for i, s := range d.slots {
		if s.ID == id {
			d.slots = append(d.slots[:i], d.slots[i+1:]...)
			return s
		}
	}
	return nil
}

// Len returns the number of slots in the day.
func (d *Day) Len() int {
	return len(d.slots)
}

// DayStats holds statistics for a single class day.
type DayStats struct {
	Periods         int
	Breaks          int
	Done            int
	Cancelled       int
	TeachingMinutes int
	BreakMinutes    int
}

// Stats calculates statistics for the day.
func (d *Day) Stats() DayStats {
	var stats DayStats
	for _, s := range d.slots {
		if s.IsBreak() {
			stats.Breaks++
			stats.BreakMinutes += s.Duration()
			continue
		}
		stats.Periods++
		switch {
		case s.IsDone():
			stats.Done++
		case s.Status == StatusCancelled:
			stats.Cancelled++
		}
		if s.Status != StatusCancelled {
			stats.TeachingMinutes += s.Duration()
		}
	}
	return stats
}

// Text returns the day as plain text, one slot per line, for sharing.
func (d *Day) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", d.ClassInstanceID, d.ClassDate)
	for _, s := range d.slots {
		fmt.Fprintf(&b, "%d. %s-%s %s", s.PeriodNumber, ShortTime(s.StartTime), ShortTime(s.EndTime), s.Label())
		if s.Status != StatusPlanned {
			fmt.Fprintf(&b, " (%s)", s.Status)
		}
		if s.PlanText != nil {
			if plan := strings.Join(strings.Fields(*s.PlanText), " "); plan != "" {
				b.WriteString(": " + plan)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Overlapping returns the slots in slots whose interval overlaps [start, end),
// skipping excludeID, in chronological order.
func Overlapping(slots []*TimeSlot, start, end, excludeID string) []*TimeSlot {
	var result []*TimeSlot
	for _, s := range slots {
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		if TimesOverlap(start, end, s.StartTime, s.EndTime) {
			result = append(result, s)
		}
	}
	SortByStart(result)
	return result
}

// SortByStart sorts slots by start time, then end time, then id.
func SortByStart(slots []*TimeSlot) {
	slices.SortStableFunc(slots, func(a, b *TimeSlot) int {
		return cmp.Or(
			cmp.Compare(a.StartTime, b.StartTime),
			cmp.Compare(a.EndTime, b.EndTime),
			cmp.Compare(a.ID, b.ID),
		)
	})
}
