package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		today := TruncateToDay(time.Now())
		if !got.Equal(today) {
			t.Errorf("got %v, want %v", got, today)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestValidDate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2025-01-15", true},
		{"2024-02-29", true},
		{"2025-02-29", false},
		{"2025-1-15", false},
		{"15-01-2025", false},
		{"", false},
		{"2025-01-15T00:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ValidDate(tt.input); got != tt.want {
				t.Errorf("ValidDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name       string
		input      time.Time
		wantMonday string
		wantSunday string
	}{
		{"monday returns same monday", time.Date(2025, 1, 13, 10, 30, 0, 0, time.UTC), "2025-01-13", "2025-01-19"},
		{"wednesday returns previous monday", time.Date(2025, 1, 15, 14, 0, 0, 0, time.UTC), "2025-01-13", "2025-01-19"},
		{"sunday belongs to the week before", time.Date(2025, 1, 19, 23, 59, 0, 0, time.UTC), "2025-01-13", "2025-01-19"},
		{"week spanning a year boundary", time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC), "2024-12-30", "2025-01-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monday, sunday := WeekRange(tt.input)
			if got := monday.Format(Layout); got != tt.wantMonday {
				t.Errorf("monday: got %s, want %s", got, tt.wantMonday)
			}
			if got := sunday.Format(Layout); got != tt.wantSunday {
				t.Errorf("sunday: got %s, want %s", got, tt.wantSunday)
			}
		})
	}
}

func TestTruncateToDay(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123456789, time.UTC)
	got := TruncateToDay(input)
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolveClassDate(t *testing.T) {
	// Reference date: Friday, January 10, 2025
	friday := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty returns today", input: "", want: "2025-01-10"},
		{name: "today keyword", input: "today", want: "2025-01-10"},
		{name: "TODAY uppercase", input: "TODAY", want: "2025-01-10"},
		{name: "tomorrow", input: "tomorrow", want: "2025-01-11"},
		{name: "yesterday", input: "yesterday", want: "2025-01-09"},
		{name: "same weekday is today", input: "friday", want: "2025-01-10"},
		{name: "next monday", input: "monday", want: "2025-01-13"},
		{name: "thursday wraps to next week", input: "Thursday", want: "2025-01-16"},
		{name: "absolute date", input: "2025-03-03", want: "2025-03-03"},
		{name: "past absolute date allowed", input: "2024-12-02", want: "2024-12-02"},
		{name: "surrounding whitespace", input: "  2025-03-03 ", want: "2025-03-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveClassDate(tt.input, friday)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveClassDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveClassDate_Errors(t *testing.T) {
	friday := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)

	for _, input := range []string{"next-monday", "2025/01/10", "someday", "2025-13-01"} {
		t.Run(input, func(t *testing.T) {
			_, err := ResolveClassDate(input, friday)
			if !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("ResolveClassDate(%q) error = %v, want %v", input, err, ErrInvalidDateFormat)
			}
		})
	}
}

func TestWeekday(t *testing.T) {
	got, err := Weekday("2025-01-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "friday" {
		t.Errorf("Weekday = %q, want friday", got)
	}

	if _, err := Weekday("not-a-date"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("expected ErrInvalidDateFormat, got %v", err)
	}
}
