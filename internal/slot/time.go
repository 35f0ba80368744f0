package slot

import "fmt"

// MinutesPerDay is the exclusive upper bound of a slot boundary.
const MinutesPerDay = 24 * 60

// EndOfDay is the latest end a slot can have. A cascade may leave a slot
// ending exactly here.
const EndOfDay = "24:00:00"

// TimeToMinutes converts "HH:MM" or "HH:MM:SS" to minutes since midnight.
// Seconds are ignored. Returns 0 for invalid input.
func TimeToMinutes(t string) int {
	if len(t) < 5 || t[2] != ':' {
		return 0
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	return hours*60 + mins
}

// MinutesToTime converts minutes since midnight to "HH:MM:SS" format.
// 24:00:00 is allowed as an end-of-day boundary.
func MinutesToTime(m int) string {
	if m < 0 {
		m = 0
	}
	if m > MinutesPerDay {
		m = MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d:00", m/60, m%60)
}

// Canonical normalizes "HH:MM" to "HH:MM:SS". Other inputs are returned unchanged.
func Canonical(t string) string {
	if len(t) == 5 && t[2] == ':' {
		return t + ":00"
	}
	return t
}

// ShortTime trims the seconds of a canonical time for display.
func ShortTime(t string) string {
	if len(t) == 8 {
		return t[:5]
	}
	return t
}

// OverlapMinutes returns the length of the intersection of two half-open
// intervals, 0 when they only touch or are disjoint.
func OverlapMinutes(start1, end1, start2, end2 string) int {
	from := max(TimeToMinutes(start1), TimeToMinutes(start2))
	to := min(TimeToMinutes(end1), TimeToMinutes(end2))
	return max(0, to-from)
}

// TimesOverlap returns true if two half-open time ranges overlap.
// Two time ranges overlap if: start1 < end2 AND start2 < end1
func TimesOverlap(start1, end1, start2, end2 string) bool {
	return Canonical(start1) < Canonical(end2) && Canonical(start2) < Canonical(end1)
}
