package timeparse

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// Explicit 24-hour
		{name: "canonical", input: "09:00:00", want: "09:00:00"},
		{name: "canonical afternoon", input: "14:30:00", want: "14:30:00"},
		{name: "canonical ambiguous-looking hour", input: "10:00:00", want: "10:00:00"},
		{name: "padded hour", input: "09", want: "09:00:00"},
		{name: "padded compact", input: "0930", want: "09:30:00"},
		{name: "compact afternoon", input: "1430", want: "14:30:00"},
		{name: "24h with minutes", input: "13:05", want: "13:05:00"},
		{name: "noon", input: "12", want: "12:00:00"},
		{name: "midnight", input: "0", want: "00:00:00"},
		{name: "seconds truncated", input: "10:15:42", want: "10:15:00"},

		// am/pm
		{name: "9am", input: "9am", want: "09:00:00"},
		{name: "9:30am", input: "9:30am", want: "09:30:00"},
		{name: "2pm", input: "2pm", want: "14:00:00"},
		{name: "uppercase PM with space", input: " 2:15 PM ", want: "14:15:00"},
		{name: "dotted p.m.", input: "3 p.m.", want: "15:00:00"},
		{name: "short a", input: "11a", want: "11:00:00"},
		{name: "12am is midnight", input: "12am", want: "00:00:00"},
		{name: "12pm is noon", input: "12pm", want: "12:00:00"},
		{name: "compact with suffix", input: "930pm", want: "21:30:00"},

		// School-hours default
		{name: "bare 9 is morning", input: "9", want: "09:00:00"},
		{name: "bare 8 is morning", input: "8", want: "08:00:00"},
		{name: "bare 11:15 is morning", input: "11:15", want: "11:15:00"},
		{name: "bare 1 is afternoon", input: "1", want: "13:00:00"},
		{name: "bare 7 is afternoon", input: "7", want: "19:00:00"},
		{name: "bare 2:30 is afternoon", input: "2:30", want: "14:30:00"},
		{name: "compact 930", input: "930", want: "09:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !got.IsValid {
				t.Fatalf("Parse(%q) invalid: %s", tt.input, got.Error)
			}
			if got.Formatted != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got.Formatted, tt.want)
			}
		})
	}
}

func TestParseRelative(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ref  int
		want string
	}{
		{name: "same hour stays morning", in: "9", ref: 9, want: "09:00:00"},
		{name: "later morning hour", in: "10:30", ref: 9, want: "10:30:00"},
		{name: "earlier hour becomes afternoon", in: "2", ref: 11, want: "14:00:00"},
		{name: "8 after a 1pm start", in: "8", ref: 13, want: "20:00:00"},
		{name: "morning ref keeps 8 in the morning", in: "8", ref: 7, want: "08:00:00"},
		{name: "11 late in the evening", in: "11", ref: 23, want: "23:00:00"},
		{name: "neither fits falls back to default", in: "5", ref: 20, want: "17:00:00"},
		{name: "explicit 24h ignores reference", in: "09:30", ref: 14, want: "09:30:00"},
		{name: "canonical ignores reference", in: "10:00:00", ref: 14, want: "10:00:00"},
		{name: "suffix ignores reference", in: "9am", ref: 14, want: "09:00:00"},
		{name: "bare minutes past reference", in: "30", ref: 9, want: "09:30:00"},
		{name: "bare 45 past reference", in: "45", ref: 13, want: "13:45:00"},
		{name: "out-of-range reference ignored", in: "2", ref: 40, want: "14:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRelative(tt.in, tt.ref)
			if !got.IsValid {
				t.Fatalf("ParseRelative(%q, %d) invalid: %s", tt.in, tt.ref, got.Error)
			}
			if got.Formatted != tt.want {
				t.Errorf("ParseRelative(%q, %d) = %q, want %q", tt.in, tt.ref, got.Formatted, tt.want)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ref  int
	}{
		{name: "empty", in: "", ref: NoReference},
		{name: "whitespace", in: "   ", ref: NoReference},
		{name: "letters", in: "noon", ref: NoReference},
		{name: "hour 24", in: "24:00", ref: NoReference},
		{name: "hour 25", in: "25", ref: NoReference},
		{name: "bare 30 without reference", in: "30", ref: NoReference},
		{name: "bare 75 with reference", in: "75", ref: 9},
		{name: "minute 60", in: "9:60", ref: NoReference},
		{name: "second 60", in: "09:00:60", ref: NoReference},
		{name: "13pm", in: "13pm", ref: NoReference},
		{name: "0am", in: "0am", ref: NoReference},
		{name: "single digit minutes", in: "9:5", ref: NoReference},
		{name: "too many digits", in: "09300", ref: NoReference},
		{name: "too many separators", in: "9:00:00:00", ref: NoReference},
		{name: "only suffix", in: "pm", ref: NoReference},
		{name: "negative", in: "-9", ref: NoReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRelative(tt.in, tt.ref)
			if got.IsValid {
				t.Fatalf("ParseRelative(%q, %d) = %q, want invalid", tt.in, tt.ref, got.Formatted)
			}
			if got.Error == "" {
				t.Error("expected a human-readable error")
			}
			if got.Formatted != "" {
				t.Errorf("invalid result carries Formatted %q", got.Formatted)
			}
		})
	}
}

// Canonical output must parse back to the same result under any reference.
func TestParse_CanonicalIsFixedPoint(t *testing.T) {
	inputs := []string{
		"0", "1", "7", "8", "9", "11", "12", "13", "23",
		"9:30", "2:45", "0930", "930", "1215",
		"9am", "12am", "12pm", "7pm", "11:59pm", "30",
	}
	refs := []int{NoReference, 0, 7, 9, 12, 13, 18, 23}

	for _, ref := range refs {
		for _, in := range inputs {
			first := ParseRelative(in, ref)
			if !first.IsValid {
				continue
			}
			for _, ref2 := range refs {
				second := ParseRelative(first.Formatted, ref2)
				if second != first {
					t.Errorf("ParseRelative(%q, %d) = %+v, reparse with ref %d = %+v",
						in, ref, first, ref2, second)
				}
			}
		}
	}
}

func TestParse_Deterministic(t *testing.T) {
	for range 3 {
		if got := ParseRelative("4:15", 9); got.Formatted != "16:15:00" {
			t.Fatalf("got %q", got.Formatted)
		}
	}
}

func TestResult_Minutes(t *testing.T) {
	if got := Parse("2:30pm").Minutes(); got != 870 {
		t.Errorf("Minutes = %d, want 870", got)
	}
}
