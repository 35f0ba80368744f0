// Package slot defines the core domain types for classbell timetables.
package slot

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrSlotNotFound      = errors.New("slot not found")
	ErrDuplicateInterval = errors.New("a slot with the same interval already exists")
	ErrSlotOverlap       = errors.New("slot overlaps with an existing slot")
	ErrShiftOverflow     = errors.New("shift would move a slot past midnight")
	ErrShiftTooSmall     = errors.New("shift delta does not clear the conflict")
)

// Type distinguishes teaching periods from breaks.
type Type string

const (
	TypePeriod Type = "period"
	TypeBreak  Type = "break"
)

// Valid returns true if the type is a known value.
func (t Type) Valid() bool {
	return t == TypePeriod || t == TypeBreak
}

// Status represents the state of a slot.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusDone, StatusCancelled:
		return true
	default:
		return false
	}
}

// TimeSlot is one period or break in a class's timetable for one date.
type TimeSlot struct {
	ID              string
	ClassInstanceID string
	SchoolCode      string
	ClassDate       string // "YYYY-MM-DD"
	Type            Type
	PeriodNumber    int
	StartTime       string // "HH:MM:SS"
	EndTime         string // "HH:MM:SS"
	Name            string

	SubjectID         *string
	TeacherID         *string
	SyllabusChapterID *string
	SyllabusTopicID   *string
	PlanText          *string

	Status Status
}

// IsBreak returns true if the slot is a break.
func (s *TimeSlot) IsBreak() bool {
	return s.Type == TypeBreak
}

// IsDone returns true if the slot has been taught.
func (s *TimeSlot) IsDone() bool {
	return s.Status == StatusDone
}

// Duration returns the slot duration in minutes.
func (s *TimeSlot) Duration() int {
	return TimeToMinutes(s.EndTime) - TimeToMinutes(s.StartTime)
}

// OverlapsWith returns true if both slots belong to the same class day and
// their intervals overlap.
func (s *TimeSlot) OverlapsWith(other *TimeSlot) bool {
	if other == nil {
		return false
	}
	if s.ClassInstanceID != other.ClassInstanceID || s.ClassDate != other.ClassDate {
		return false
	}
	return TimesOverlap(s.StartTime, s.EndTime, other.StartTime, other.EndTime)
}

// SameInterval returns true if the slot occupies exactly [start, end).
func (s *TimeSlot) SameInterval(start, end string) bool {
	return s.StartTime == start && s.EndTime == end
}

// Clone returns a deep copy of the slot.
func (s *TimeSlot) Clone() *TimeSlot {
	c := *s
	c.SubjectID = cloneString(s.SubjectID)
	c.TeacherID = cloneString(s.TeacherID)
	c.SyllabusChapterID = cloneString(s.SyllabusChapterID)
	c.SyllabusTopicID = cloneString(s.SyllabusTopicID)
	c.PlanText = cloneString(s.PlanText)
	return &c
}

// Label returns a short human-readable name for the slot.
func (s *TimeSlot) Label() string {
	if s.Name != "" {
		return s.Name
	}
	if s.IsBreak() {
		return "Break"
	}
	return fmt.Sprintf("Period %d", s.PeriodNumber)
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
