package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Schedule.DayStart != "08:00" {
		t.Errorf("expected day_start 08:00, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.DayEnd != "15:00" {
		t.Errorf("expected day_end 15:00, got %s", cfg.Schedule.DayEnd)
	}
	if len(cfg.Schedule.Workdays) != 5 {
		t.Errorf("expected 5 workdays, got %d", len(cfg.Schedule.Workdays))
	}
	if cfg.Schedule.PeriodMinutes != 45 {
		t.Errorf("expected period_minutes 45, got %d", cfg.Schedule.PeriodMinutes)
	}
	if len(cfg.Schedule.Breaks) != 2 {
		t.Errorf("expected 2 breaks, got %d", len(cfg.Schedule.Breaks))
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "console" {
		t.Errorf("unexpected log defaults %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Schedule.DayStart != "08:00" {
		t.Errorf("expected default day_start, got %s", cfg.Schedule.DayStart)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[schedule]
workdays = ["monday", "tuesday", "wednesday"]
day_start = "07:30"
day_end = "14:00"
period_minutes = 40
breaks = [
  { name = "Assembly", start = "07:30", end = "07:45" },
]

[school]
code = "GHS"
actor = "principal"

[storage]
db_path = "/tmp/test.db"

[log]
level = "debug"
format = "json"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.DayStart != "07:30" {
		t.Errorf("expected day_start 07:30, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.DayEnd != "14:00" {
		t.Errorf("expected day_end 14:00, got %s", cfg.Schedule.DayEnd)
	}
	if len(cfg.Schedule.Workdays) != 3 {
		t.Errorf("expected 3 workdays, got %d", len(cfg.Schedule.Workdays))
	}
	if cfg.Schedule.PeriodMinutes != 40 {
		t.Errorf("expected period_minutes 40, got %d", cfg.Schedule.PeriodMinutes)
	}
	if len(cfg.Schedule.Breaks) != 1 || cfg.Schedule.Breaks[0].Name != "Assembly" {
		t.Errorf("expected Assembly break, got %+v", cfg.Schedule.Breaks)
	}
	if cfg.School.Code != "GHS" || cfg.School.Actor != "principal" {
		t.Errorf("unexpected school %+v", cfg.School)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log %+v", cfg.Log)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[schedule]
day_start = "08:00"
day_end = "16:00"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("CLASSBELL_DAY_START", "09:00")
	t.Setenv("CLASSBELL_PERIOD_MINUTES", "50")
	t.Setenv("CLASSBELL_SCHOOL_CODE", "NPS")
	t.Setenv("CLASSBELL_LOG_LEVEL", "error")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.Schedule.DayStart != "09:00" {
		t.Errorf("expected day_start 09:00 from env, got %s", cfg.Schedule.DayStart)
	}
	// File value should be kept when no env override
	if cfg.Schedule.DayEnd != "16:00" {
		t.Errorf("expected day_end 16:00 from file, got %s", cfg.Schedule.DayEnd)
	}
	// Env should override default
	if cfg.Schedule.PeriodMinutes != 50 {
		t.Errorf("expected period_minutes 50 from env, got %d", cfg.Schedule.PeriodMinutes)
	}
	if cfg.School.Code != "NPS" {
		t.Errorf("expected school code NPS from env, got %s", cfg.School.Code)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("expected log level error from env, got %s", cfg.Log.Level)
	}
}

func TestLoadFrom_BadPeriodMinutesEnv(t *testing.T) {
	t.Setenv("CLASSBELL_PERIOD_MINUTES", "forty")

	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for non-numeric CLASSBELL_PERIOD_MINUTES")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "day_start missing leading zero", modify: func(c *Config) { c.Schedule.DayStart = "8:00" }},
		{name: "day_end out of range", modify: func(c *Config) { c.Schedule.DayEnd = "25:00" }},
		{name: "day_start after day_end", modify: func(c *Config) {
			c.Schedule.DayStart = "18:00"
			c.Schedule.DayEnd = "09:00"
		}},
		{name: "zero period length", modify: func(c *Config) { c.Schedule.PeriodMinutes = 0 }},
		{name: "unnamed break", modify: func(c *Config) { c.Schedule.Breaks[0].Name = "" }},
		{name: "break ends before it starts", modify: func(c *Config) {
			c.Schedule.Breaks[0].Start = "11:00"
			c.Schedule.Breaks[0].End = "10:45"
		}},
		{name: "overlapping breaks", modify: func(c *Config) {
			c.Schedule.Breaks = []BreakConfig{
				{Name: "A", Start: "10:00", End: "10:30"},
				{Name: "B", Start: "10:15", End: "10:45"},
			}
		}},
		{name: "invalid workday", modify: func(c *Config) { c.Schedule.Workdays = []string{"monday", "funday"} }},
		{name: "empty workdays", modify: func(c *Config) { c.Schedule.Workdays = []string{} }},
		{name: "empty school code", modify: func(c *Config) { c.School.Code = "" }},
		{name: "empty db path", modify: func(c *Config) { c.Storage.DBPath = "" }},
		{name: "bad log level", modify: func(c *Config) { c.Log.Level = "verbose" }},
		{name: "bad log format", modify: func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestIsWorkday(t *testing.T) {
	cfg := Default()

	tests := []struct {
		day  string
		want bool
	}{
		{"monday", true},
		{"Monday", true},
		{"FRIDAY", true},
		{"saturday", false},
		{"sunday", false},
	}

	for _, tc := range tests {
		t.Run(tc.day, func(t *testing.T) {
			got := cfg.IsWorkday(tc.day)
			if got != tc.want {
				t.Errorf("IsWorkday(%q) = %v, want %v", tc.day, got, tc.want)
			}
		})
	}
}

func TestSchedulerOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.SchedulerOptions()

	if opts.DayStart != "08:00" || opts.DayEnd != "15:00" || opts.PeriodMinutes != 45 {
		t.Errorf("unexpected options %+v", opts)
	}
	if len(opts.Breaks) != 2 || opts.Breaks[1].Name != "Lunch" {
		t.Errorf("unexpected breaks %+v", opts.Breaks)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.Schedule.DayStart = "07:30"
	cfg.Schedule.DayEnd = "15:30"
	cfg.Schedule.Workdays = []string{"monday", "tuesday", "wednesday", "thursday"}
	cfg.School.Code = "GHS"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Schedule.DayStart != "07:30" {
		t.Errorf("expected day_start 07:30, got %s", loaded.Schedule.DayStart)
	}
	if loaded.Schedule.DayEnd != "15:30" {
		t.Errorf("expected day_end 15:30, got %s", loaded.Schedule.DayEnd)
	}
	if len(loaded.Schedule.Workdays) != 4 {
		t.Errorf("expected 4 workdays, got %d", len(loaded.Schedule.Workdays))
	}
	if len(loaded.Schedule.Breaks) != 2 {
		t.Errorf("expected breaks to survive round trip, got %d", len(loaded.Schedule.Breaks))
	}
	if loaded.School.Code != "GHS" {
		t.Errorf("expected school code GHS, got %s", loaded.School.Code)
	}
}
