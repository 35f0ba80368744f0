package scheduler

import (
	"fmt"

	"github.com/classbell/classbell/internal/slot"
)

// Generate seeds a day with periods of the configured length between day
// start and day end, placing configured breaks at their fixed times. A period
// that would run into a break or past the day end is not created; the cursor
// jumps to the end of the break instead.
func (s *Scheduler) Generate(classInstanceID, schoolCode, classDate string, force bool) ([]*slot.TimeSlot, error) {
	if !force && !s.IsWorkday(classDate) {
		return nil, fmt.Errorf("%w: %s", ErrNotWorkday, classDate)
	}
	if s.periodMinutes <= 0 {
		return nil, fmt.Errorf("period length must be positive, got %d", s.periodMinutes)
	}

	dayStart := slot.TimeToMinutes(s.dayStart)
	dayEnd := slot.TimeToMinutes(s.dayEnd)

	newSlot := func(typ slot.Type, name string, start, end int) *slot.TimeSlot {
		return &slot.TimeSlot{
			ClassInstanceID: classInstanceID,
			SchoolCode:      schoolCode,
			ClassDate:       classDate,
			Type:            typ,
			StartTime:       slot.MinutesToTime(start),
			EndTime:         slot.MinutesToTime(end),
			Name:            name,
			Status:          slot.StatusPlanned,
		}
	}

	var breaks []*slot.TimeSlot
	for _, b := range s.breaks {
		start, end := slot.TimeToMinutes(b.Start), slot.TimeToMinutes(b.End)
		if start < dayStart || end > dayEnd || start >= end {
			continue
		}
		breaks = append(breaks, newSlot(slot.TypeBreak, b.Name, start, end))
	}
	slot.SortByStart(breaks)

	var result []*slot.TimeSlot
	cursor := dayStart
	next := 0
	for cursor < dayEnd {
		if next < len(breaks) && slot.TimeToMinutes(breaks[next].StartTime) < cursor+s.periodMinutes {
			b := breaks[next]
			next++
			if slot.TimeToMinutes(b.EndTime) <= cursor {
				continue
			}
			result = append(result, b)
			cursor = max(cursor, slot.TimeToMinutes(b.EndTime))
			continue
		}
		if cursor+s.periodMinutes > dayEnd {
			break
		}
		result = append(result, newSlot(slot.TypePeriod, "", cursor, cursor+s.periodMinutes))
		cursor += s.periodMinutes
	}

	day, err := slot.NewDayWithSlots(classInstanceID, classDate, result)
	if err != nil {
		return nil, fmt.Errorf("generated slots overlap: %w", err)
	}
	generated := day.Slots()
	Renumber(generated)
	return generated, nil
}
