// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/classbell/classbell/internal/scheduler"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	School   SchoolConfig   `toml:"school"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
}

// ScheduleConfig holds the school day used by quick generate and time validation.
type ScheduleConfig struct {
	Workdays      []string      `toml:"workdays"`       // e.g., ["monday", "tuesday", ...]
	DayStart      string        `toml:"day_start"`      // e.g., "08:00"
	DayEnd        string        `toml:"day_end"`        // e.g., "15:00"
	PeriodMinutes int           `toml:"period_minutes"` // e.g., 45
	Breaks        []BreakConfig `toml:"breaks"`
}

// BreakConfig is a fixed break placed by quick generate.
type BreakConfig struct {
	Name  string `toml:"name"`
	Start string `toml:"start"`
	End   string `toml:"end"`
}

// SchoolConfig holds the tenant and identity the CLI acts as.
type SchoolConfig struct {
	Code  string `toml:"code"`
	Actor string `toml:"actor"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json, console
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			Workdays:      []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
			DayStart:      "08:00",
			DayEnd:        "15:00",
			PeriodMinutes: 45,
			Breaks: []BreakConfig{
				{Name: "Short Break", Start: "10:15", End: "10:30"},
				{Name: "Lunch", Start: "12:30", End: "13:15"},
			},
		},
		School: SchoolConfig{
			Code:  "default",
			Actor: defaultActor(),
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

func defaultActor() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "classbell"
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "classbell.db"
	}
	return filepath.Join(home, ".local", "share", "classbell", "classbell.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "classbell", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("CLASSBELL_DAY_START"); v != "" {
		cfg.Schedule.DayStart = v
	}
	if v := os.Getenv("CLASSBELL_DAY_END"); v != "" {
		cfg.Schedule.DayEnd = v
	}
	if v := os.Getenv("CLASSBELL_WORKDAYS"); v != "" {
		cfg.Schedule.Workdays = strings.Split(v, ",")
	}
	if v := os.Getenv("CLASSBELL_PERIOD_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CLASSBELL_PERIOD_MINUTES: %w", err)
		}
		cfg.Schedule.PeriodMinutes = n
	}

	if v := os.Getenv("CLASSBELL_SCHOOL_CODE"); v != "" {
		cfg.School.Code = v
	}
	if v := os.Getenv("CLASSBELL_ACTOR"); v != "" {
		cfg.School.Actor = v
	}

	if v := os.Getenv("CLASSBELL_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("CLASSBELL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CLASSBELL_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validateTime(c.Schedule.DayStart, "day_start"); err != nil {
		return err
	}
	if err := validateTime(c.Schedule.DayEnd, "day_end"); err != nil {
		return err
	}
	if c.Schedule.DayStart >= c.Schedule.DayEnd {
		return errors.New("day_start must be before day_end")
	}
	if c.Schedule.PeriodMinutes <= 0 {
		return fmt.Errorf("period_minutes must be positive, got %d", c.Schedule.PeriodMinutes)
	}

	for i, b := range c.Schedule.Breaks {
		if b.Name == "" {
			return fmt.Errorf("breaks[%d]: name must be set", i)
		}
		if err := validateTime(b.Start, fmt.Sprintf("breaks[%d].start", i)); err != nil {
			return err
		}
		if err := validateTime(b.End, fmt.Sprintf("breaks[%d].end", i)); err != nil {
			return err
		}
		if b.Start >= b.End {
			return fmt.Errorf("break %q must start before it ends", b.Name)
		}
		for _, other := range c.Schedule.Breaks[:i] {
			if b.Start < other.End && other.Start < b.End {
				return fmt.Errorf("break %q overlaps break %q", b.Name, other.Name)
			}
		}
	}

	if len(c.Schedule.Workdays) == 0 {
		return errors.New("at least one workday must be configured")
	}
	for _, day := range c.Schedule.Workdays {
		if !isValidWeekday(day) {
			return fmt.Errorf("invalid workday: %s", day)
		}
	}

	if c.School.Code == "" {
		return errors.New("school code must be set")
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	hour := t[0:2]
	min := t[3:5]
	if !isDigits(hour) || !isDigits(min) {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	if hour > "23" || min > "59" {
		return fmt.Errorf("%s is out of range, got %q", field, t)
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

var validWeekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

func isValidWeekday(day string) bool {
	return validWeekdays[strings.ToLower(day)]
}

// IsWorkday returns true if the given weekday name is a configured workday.
func (c *Config) IsWorkday(weekday string) bool {
	weekday = strings.ToLower(weekday)
	for _, d := range c.Schedule.Workdays {
		if strings.ToLower(d) == weekday {
			return true
		}
	}
	return false
}

// SchedulerOptions converts the schedule section for scheduler.New.
func (c *Config) SchedulerOptions() scheduler.Options {
	breaks := make([]scheduler.Break, len(c.Schedule.Breaks))
	for i, b := range c.Schedule.Breaks {
		breaks[i] = scheduler.Break{Name: b.Name, Start: b.Start, End: b.End}
	}
	return scheduler.Options{
		Workdays:      c.Schedule.Workdays,
		DayStart:      c.Schedule.DayStart,
		DayEnd:        c.Schedule.DayEnd,
		PeriodMinutes: c.Schedule.PeriodMinutes,
		Breaks:        breaks,
	}
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
