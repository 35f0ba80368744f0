package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/classbell/classbell/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  classbell config`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(cfg)

	// Ask if user wants to edit
	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(os.Stdin)

	cfg.Schedule.DayStart = promptValue(reader, "Day start", cfg.Schedule.DayStart)
	cfg.Schedule.DayEnd = promptValue(reader, "Day end", cfg.Schedule.DayEnd)
	cfg.Schedule.Workdays = promptSlice(reader, "Workdays (comma-separated)", cfg.Schedule.Workdays)
	cfg.Schedule.PeriodMinutes = promptInt(reader, "Period length in minutes", cfg.Schedule.PeriodMinutes)
	cfg.Schedule.Breaks = promptBreaks(reader, cfg.Schedule.Breaks)
	cfg.School.Code = promptValue(reader, "School code", cfg.School.Code)
	cfg.School.Actor = promptValue(reader, "Acting as", cfg.School.Actor)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.Log.Level = promptValue(reader, "Log level (debug, info, warn, error)", cfg.Log.Level)
	cfg.Log.Format = promptValue(reader, "Log format (console, json)", cfg.Log.Format)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[schedule]")
	fmt.Printf("  day_start        = %s\n", cfg.Schedule.DayStart)
	fmt.Printf("  day_end          = %s\n", cfg.Schedule.DayEnd)
	fmt.Printf("  workdays         = %s\n", strings.Join(cfg.Schedule.Workdays, ", "))
	fmt.Printf("  period_minutes   = %d\n", cfg.Schedule.PeriodMinutes)
	if len(cfg.Schedule.Breaks) > 0 {
		fmt.Printf("  breaks           = %s\n", formatBreaks(cfg.Schedule.Breaks))
	}
	fmt.Println("\n[school]")
	fmt.Printf("  code             = %s\n", cfg.School.Code)
	fmt.Printf("  actor            = %s\n", cfg.School.Actor)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[log]")
	fmt.Printf("  level            = %s\n", cfg.Log.Level)
	fmt.Printf("  format           = %s\n", cfg.Log.Format)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptSlice(reader *bufio.Reader, label string, current []string) []string {
	currentStr := strings.Join(current, ", ")
	fmt.Printf("  %s [%s]: ", label, currentStr)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil && n > 0 {
			return n
		}
		fmt.Printf("  Invalid number %q\n", value)
	}
}

func promptBreaks(reader *bufio.Reader, current []config.BreakConfig) []config.BreakConfig {
	for {
		value := promptValue(reader, "Breaks (Name HH:MM-HH:MM; ...)", formatBreaks(current))
		breaks, err := parseBreaks(value)
		if err == nil {
			return breaks
		}
		fmt.Printf("  %v\n", err)
	}
}

// formatBreaks renders breaks as "Name HH:MM-HH:MM; ...".
func formatBreaks(breaks []config.BreakConfig) string {
	parts := make([]string, 0, len(breaks))
	for _, b := range breaks {
		parts = append(parts, fmt.Sprintf("%s %s-%s", b.Name, b.Start, b.End))
	}
	return strings.Join(parts, "; ")
}

// parseBreaks reads the format produced by formatBreaks. "none" clears all breaks.
func parseBreaks(input string) ([]config.BreakConfig, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "none") {
		return nil, nil
	}

	var breaks []config.BreakConfig
	for _, part := range strings.Split(input, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.LastIndex(part, " ")
		if idx <= 0 {
			return nil, fmt.Errorf("invalid break %q, want \"Name HH:MM-HH:MM\"", part)
		}
		name, span := strings.TrimSpace(part[:idx]), part[idx+1:]
		start, end, ok := strings.Cut(span, "-")
		if !ok || start == "" || end == "" {
			return nil, fmt.Errorf("invalid break time %q, want HH:MM-HH:MM", span)
		}
		breaks = append(breaks, config.BreakConfig{Name: name, Start: start, End: end})
	}
	return breaks, nil
}
