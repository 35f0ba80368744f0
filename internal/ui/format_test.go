package ui

import (
	"reflect"
	"strings"
	"testing"

	"github.com/classbell/classbell/internal/config"
	"github.com/classbell/classbell/internal/slot"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{75, "1h15m"},
		{420, "7h"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestDayRows_TruncatesPlan(t *testing.T) {
	plan := strings.Repeat("x", 40)
	rows := dayRows([]*slot.TimeSlot{
		{PeriodNumber: 1, Type: slot.TypePeriod, StartTime: "08:00:00", EndTime: "08:45:00", Status: slot.StatusPlanned, PlanText: &plan},
	}, 12)

	if len(rows) != 1 || len(rows[0]) != len(dayTableHeaders) {
		t.Fatalf("unexpected rows %v", rows)
	}
	if got := rows[0][4]; got != strings.Repeat("x", 11)+"…" {
		t.Errorf("plan cell = %q", got)
	}
	if rows[0][3] != "○ planned" {
		t.Errorf("status cell = %q", rows[0][3])
	}
}

func TestParseBreaks(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []config.BreakConfig
		wantErr bool
	}{
		{
			name:  "two breaks with spaces in names",
			input: "Short Break 10:15-10:30; Lunch 12:30-13:15",
			want: []config.BreakConfig{
				{Name: "Short Break", Start: "10:15", End: "10:30"},
				{Name: "Lunch", Start: "12:30", End: "13:15"},
			},
		},
		{name: "none clears", input: "none", want: nil},
		{name: "empty clears", input: "  ", want: nil},
		{name: "missing name", input: "10:15-10:30", wantErr: true},
		{name: "missing end", input: "Lunch 12:30-", wantErr: true},
		{name: "no range", input: "Lunch 12:30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBreaks(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseBreaks(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseBreaks(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBreaks_RoundTrip(t *testing.T) {
	breaks := config.Default().Schedule.Breaks
	got, err := parseBreaks(formatBreaks(breaks))
	if err != nil {
		t.Fatalf("parseBreaks failed: %v", err)
	}
	if !reflect.DeepEqual(got, breaks) {
		t.Errorf("round trip = %+v, want %+v", got, breaks)
	}
}
