// Package timeparse turns free-form clock input ("9", "9:30am", "2pm") into
// canonical HH:MM:SS times.
//
// Disambiguation of input without am/pm:
//   - Explicit 24-hour: hour 0 or >= 12, a zero-padded hour ("09", "0930"),
//     or a value carrying seconds ("10:00:00"). Canonical output is therefore
//     always a fixed point.
//   - Bare hours 1-11 with a reference hour R: the first of {h, h+12} that is
//     >= R, otherwise the school-hours default.
//   - Bare hours 1-11 without a reference: 8-11 are morning, 1-7 afternoon.
//   - A bare number 24-59 with a reference hour is minutes past R.
package timeparse

import (
	"fmt"
	"strconv"
	"strings"
)

// NoReference disables reference-hour disambiguation.
const NoReference = -1

// School-hours default window used when no reference hour is given.
const (
	schoolMorningFrom = 8
	schoolAfternoonTo = 7
)

// Result is the outcome of parsing one time string.
type Result struct {
	Formatted string // "HH:MM:SS", empty when invalid
	IsValid   bool
	Error     string
	Hour      int
	Minute    int
}

// Minutes returns the parsed time as minutes since midnight.
func (r Result) Minutes() int {
	return r.Hour*60 + r.Minute
}

// Parse parses input using the school-hours default for ambiguous hours.
func Parse(input string) Result {
	return ParseRelative(input, NoReference)
}

// ParseRelative parses input, disambiguating bare hours against referenceHour
// (0-23). Pass NoReference to use the school-hours default.
func ParseRelative(input string, referenceHour int) Result {
	if referenceHour < NoReference || referenceHour > 23 {
		referenceHour = NoReference
	}

	s := normalize(input)
	if s == "" {
		return invalid("time is empty")
	}

	body, meridiem := splitMeridiem(s)
	if body == "" {
		return invalid(fmt.Sprintf("%q has no hour", input))
	}

	tok, err := tokenize(body)
	if err != nil {
		return invalid(fmt.Sprintf("%q is not a time: %s", input, err))
	}

	if tok.minute > 59 {
		return invalid(fmt.Sprintf("minute %d is out of range 0-59", tok.minute))
	}
	if tok.second > 59 {
		return invalid(fmt.Sprintf("second %d is out of range 0-59", tok.second))
	}

	if meridiem != "" {
		return withMeridiem(tok, meridiem)
	}

	hour := tok.hour
	minute := tok.minute

	switch {
	case tok.bare && hour >= 24 && hour <= 59 && referenceHour != NoReference:
		// "30" relative to 9 -> 09:30
		minute = hour
		hour = referenceHour
	case hour > 23:
		return invalid(fmt.Sprintf("hour %d is out of range 0-23", hour))
	case isExplicit(tok):
	default:
		hour = disambiguate(hour, referenceHour)
	}

	return valid(hour, minute)
}

// token is the numeric content of an input before am/pm handling.
type token struct {
	hour       int
	minute     int
	second     int
	padded     bool // hour written with a leading zero
	hasSeconds bool
	bare       bool // a single number with no minutes
}

func normalize(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	return strings.Join(strings.Fields(s), "")
}

// splitMeridiem strips an am/pm suffix and returns "am", "pm" or "".
func splitMeridiem(s string) (string, string) {
	for _, suffix := range []struct{ text, meridiem string }{
		{"a.m.", "am"}, {"p.m.", "pm"},
		{"am", "am"}, {"pm", "pm"},
		{"a", "am"}, {"p", "pm"},
	} {
		if strings.HasSuffix(s, suffix.text) {
			return strings.TrimSuffix(s, suffix.text), suffix.meridiem
		}
	}
	return s, ""
}

func tokenize(body string) (token, error) {
	parts := strings.Split(body, ":")
	for _, p := range parts {
		if p == "" || !isDigits(p) {
			return token{}, fmt.Errorf("expected digits separated by ':'")
		}
	}

	var tok token
	switch len(parts) {
	case 1:
		return tokenizeCompact(parts[0])
	case 2, 3:
		if len(parts[0]) > 2 || len(parts[1]) != 2 {
			return token{}, fmt.Errorf("expected H:MM or HH:MM")
		}
		tok.hour, _ = strconv.Atoi(parts[0])
		tok.minute, _ = strconv.Atoi(parts[1])
		tok.padded = len(parts[0]) == 2 && parts[0][0] == '0'
		if len(parts) == 3 {
			if len(parts[2]) != 2 {
				return token{}, fmt.Errorf("expected HH:MM:SS")
			}
			tok.second, _ = strconv.Atoi(parts[2])
			tok.hasSeconds = true
		}
		return tok, nil
	default:
		return token{}, fmt.Errorf("too many ':' separators")
	}
}

// tokenizeCompact handles "9", "09", "930" and "0930".
func tokenizeCompact(digits string) (token, error) {
	var tok token
	switch len(digits) {
	case 1, 2:
		tok.hour, _ = strconv.Atoi(digits)
		tok.padded = len(digits) == 2 && digits[0] == '0'
		tok.bare = true
	case 3:
		tok.hour, _ = strconv.Atoi(digits[:1])
		tok.minute, _ = strconv.Atoi(digits[1:])
	case 4:
		tok.hour, _ = strconv.Atoi(digits[:2])
		tok.minute, _ = strconv.Atoi(digits[2:])
		tok.padded = digits[0] == '0'
	default:
		return token{}, fmt.Errorf("too many digits")
	}
	return tok, nil
}

func withMeridiem(tok token, meridiem string) Result {
	if tok.hour < 1 || tok.hour > 12 {
		return invalid(fmt.Sprintf("hour %d is out of range 1-12 for %s", tok.hour, meridiem))
	}
	hour := tok.hour % 12
	if meridiem == "pm" {
		hour += 12
	}
	return valid(hour, tok.minute)
}

func isExplicit(tok token) bool {
	return tok.hour == 0 || tok.hour >= 12 || tok.padded || tok.hasSeconds
}

// disambiguate resolves a bare hour 1-11 to morning or afternoon.
func disambiguate(hour, referenceHour int) int {
	if referenceHour != NoReference {
		if hour >= referenceHour {
			return hour
		}
		if hour+12 >= referenceHour {
			return hour + 12
		}
	}
	if hour >= schoolMorningFrom {
		return hour
	}
	if hour <= schoolAfternoonTo {
		return hour + 12
	}
	return hour
}

func valid(hour, minute int) Result {
	return Result{
		Formatted: fmt.Sprintf("%02d:%02d:00", hour, minute),
		IsValid:   true,
		Hour:      hour,
		Minute:    minute,
	}
}

func invalid(msg string) Result {
	return Result{Error: msg}
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
