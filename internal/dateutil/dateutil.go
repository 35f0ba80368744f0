// Package dateutil provides class-date parsing and validation utilities.
// Class dates are naive local dates in YYYY-MM-DD form.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Layout is the canonical class-date layout.
const Layout = "2006-01-02"

// ErrInvalidDateFormat is returned for dates that are not YYYY-MM-DD or a known keyword.
var ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ValidDate returns true if s is a real calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	if len(s) != len(Layout) {
		return false
	}
	_, err := time.Parse(Layout, s)
	return err == nil
}

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	t = TruncateToDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday becomes day 7 in ISO week
	}
	monday = t.AddDate(0, 0, -(weekday - 1))
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ResolveClassDate turns user input into a canonical class date.
// Accepted input (case-insensitive):
//   - Empty string or "today": relativeTo
//   - "tomorrow", "yesterday"
//   - Weekday names: "monday" through "sunday" (today if it matches, else the next occurrence)
//   - Absolute date: "2025-01-15"
//
// Past dates are allowed; timetables are corrected after the fact.
func ResolveClassDate(s string, relativeTo time.Time) (string, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today.Format(Layout), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1).Format(Layout), nil
	case "yesterday":
		return today.AddDate(0, 0, -1).Format(Layout), nil
	}

	if target, ok := weekdayMap[input]; ok {
		return upcomingWeekday(today, target).Format(Layout), nil
	}

	if !ValidDate(input) {
		return "", ErrInvalidDateFormat
	}
	return input, nil
}

// Weekday returns the lower-case weekday name of a class date.
func Weekday(classDate string) (string, error) {
	t, err := time.Parse(Layout, classDate)
	if err != nil {
		return "", ErrInvalidDateFormat
	}
	return strings.ToLower(t.Weekday().String()), nil
}

// upcomingWeekday returns today if it is the target weekday, otherwise the
// next occurrence.
func upcomingWeekday(today time.Time, target time.Weekday) time.Time {
	daysUntil := (int(target) - int(today.Weekday()) + 7) % 7
	return today.AddDate(0, 0, daysUntil)
}
