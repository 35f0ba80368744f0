package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/classbell/classbell/internal/dateutil"
	"github.com/classbell/classbell/internal/slot"
)

func (a *App) showCmd() *cobra.Command {
	var (
		date    string
		copyDay bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a day's timetable",
		Long: `Display the class's periods and breaks for one day.

The date accepts YYYY-MM-DD, today, tomorrow, yesterday, or a weekday name.

Example:
  classbell show --date=monday --class=7b
  classbell show --copy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShow(cmd, date, copyDay)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Class date (default: today)")
	cmd.Flags().BoolVar(&copyDay, "copy", false, "Copy the day as plain text to the clipboard")
	return cmd
}

func (a *App) runShow(cmd *cobra.Command, dateInput string, copyToClipboard bool) error {
	if err := a.ensureService(); err != nil {
		return err
	}
	classDate, err := a.resolveDate(dateInput)
	if err != nil {
		return err
	}

	slots, err := a.loader.Load(cmd.Context(), a.class, classDate)
	if err != nil {
		return fmt.Errorf("loading day: %w", err)
	}

	out := cmd.OutOrStdout()
	header := classDate
	if t, err := dateutil.ParseDate(classDate); err == nil {
		header = t.Format("Monday, January 2, 2006")
	}
	fmt.Fprintf(out, "=== %s · %s ===\n\n", formatHeader(header), a.class)

	if len(slots) == 0 {
		fmt.Fprintln(out, "No slots scheduled. Use 'classbell generate' to lay out the day.")
		return nil
	}

	fmt.Fprintln(out, RenderDayTable(slots, termWidth()))
	fmt.Fprintln(out)

	day, err := slot.NewDayWithSlots(a.class, classDate, slots)
	if err != nil {
		return err
	}
	PrintDayStats(out, day.Stats())

	if copyToClipboard {
		if err := clipboard.WriteAll(day.Text()); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Fprintln(out, formatMuted("Copied day to clipboard"))
	}
	return nil
}
