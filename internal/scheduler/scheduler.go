// Package scheduler provides the interval logic of a class timetable: the
// school-day window, conflict detection, cascading shifts, period numbering
// and the quick-generate seed.
package scheduler

import (
	"errors"
	"strings"

	"github.com/classbell/classbell/internal/dateutil"
	"github.com/classbell/classbell/internal/slot"
)

// ErrNotWorkday is returned when generating a timetable for a day off.
var ErrNotWorkday = errors.New("not a school day")

// Break is a fixed break inside the school day.
type Break struct {
	Name  string
	Start string // "HH:MM:SS"
	End   string // "HH:MM:SS"
}

// Options configures a Scheduler.
type Options struct {
	Workdays      []string
	DayStart      string // "HH:MM" or "HH:MM:SS"
	DayEnd        string
	PeriodMinutes int
	Breaks        []Break
}

// Scheduler provides school-day aware scheduling operations.
type Scheduler struct {
	workdays      map[string]bool
	dayStart      string // "HH:MM:SS"
	dayEnd        string // "HH:MM:SS"
	periodMinutes int
	breaks        []Break
}

// New creates a new Scheduler with the given configuration.
func New(opts Options) *Scheduler {
	wd := make(map[string]bool)
	for _, d := range opts.Workdays {
		wd[strings.ToLower(d)] = true
	}
	breaks := make([]Break, len(opts.Breaks))
	for i, b := range opts.Breaks {
		breaks[i] = Break{Name: b.Name, Start: slot.Canonical(b.Start), End: slot.Canonical(b.End)}
	}
	return &Scheduler{
		workdays:      wd,
		dayStart:      slot.Canonical(opts.DayStart),
		dayEnd:        slot.Canonical(opts.DayEnd),
		periodMinutes: opts.PeriodMinutes,
		breaks:        breaks,
	}
}

// DayStart returns the configured day start time.
func (s *Scheduler) DayStart() string {
	return s.dayStart
}

// DayEnd returns the configured day end time.
func (s *Scheduler) DayEnd() string {
	return s.dayEnd
}

// PeriodMinutes returns the default period length.
func (s *Scheduler) PeriodMinutes() int {
	return s.periodMinutes
}

// IsWorkday returns true if the class date falls on a configured school day.
func (s *Scheduler) IsWorkday(classDate string) bool {
	weekday, err := dateutil.Weekday(classDate)
	if err != nil {
		return false
	}
	return s.workdays[weekday]
}

// ValidateTimeSlot checks that [start, end) lies inside the school day.
// Returns an error message if invalid, empty string if valid.
func (s *Scheduler) ValidateTimeSlot(start, end string) string {
	startMin := slot.TimeToMinutes(start)
	endMin := slot.TimeToMinutes(end)

	if startMin >= endMin {
		return "start time must be before end time"
	}
	if startMin < slot.TimeToMinutes(s.dayStart) {
		return "start time is before the school day starts"
	}
	if endMin > slot.TimeToMinutes(s.dayEnd) {
		return "end time is after the school day ends"
	}
	return ""
}

// NextAvailableStart returns the start of the first gap of at least
// durationMinutes inside the school day, or "" if the day is full.
func (s *Scheduler) NextAvailableStart(daySlots []*slot.TimeSlot, durationMinutes int) string {
	sorted := make([]*slot.TimeSlot, len(daySlots))
	copy(sorted, daySlots)
	slot.SortByStart(sorted)

	cursor := slot.TimeToMinutes(s.dayStart)
	dayEnd := slot.TimeToMinutes(s.dayEnd)
	for _, ds := range sorted {
		start := slot.TimeToMinutes(ds.StartTime)
		if start-cursor >= durationMinutes {
			break
		}
		cursor = max(cursor, slot.TimeToMinutes(ds.EndTime))
	}
	if cursor+durationMinutes > dayEnd {
		return ""
	}
	return slot.MinutesToTime(cursor)
}
