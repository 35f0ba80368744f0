package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/classbell/classbell/internal/dateutil"
	"github.com/classbell/classbell/internal/summary"
)

func (a *App) weekCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the week's timetable summary",
		Long: `Display Monday through Sunday of the ISO week containing --date with
per-day periods, teaching time and progress.

Example:
  classbell week
  classbell week --date=2025-01-15 --class=7b`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			classDate, err := a.resolveDate(date)
			if err != nil {
				return err
			}
			ref, err := dateutil.ParseDate(classDate)
			if err != nil {
				return err
			}

			week, err := summary.BuildWeekSummary(cmd.Context(), a.repo, a.class, ref)
			if err != nil {
				return fmt.Errorf("building week summary: %w", err)
			}

			out := cmd.OutOrStdout()
			header := fmt.Sprintf("WEEK: %s - %s · %s",
				week.Start.Format("Mon Jan 2"), week.End.Format("Mon Jan 2, 2006"), a.class)
			fmt.Fprintf(out, "\n  %s\n", formatHeader(header))
			fmt.Fprintln(out, strings.Repeat("─", 60))

			if week.Totals.Periods == 0 && week.Totals.Breaks == 0 {
				fmt.Fprintln(out, "  No slots scheduled for this week.")
				return nil
			}

			for _, d := range week.Days {
				day := fmt.Sprintf("%-9s %s", strings.ToUpper(d.Weekday[:1])+d.Weekday[1:], d.Date[5:])
				if len(d.Slots) == 0 {
					fmt.Fprintf(out, "  %s  %s\n", day, formatMuted("-"))
					continue
				}
				fmt.Fprintf(out, "  %s  %s  %s  %s\n",
					day,
					formatPeriod(fmt.Sprintf("%2d periods", d.Stats.Periods)),
					fmt.Sprintf("%6s", FormatDuration(d.Stats.TeachingMinutes)),
					formatDone(fmt.Sprintf("%d taught", d.Stats.Done)))
			}

			fmt.Fprintln(out, strings.Repeat("─", 60))
			fmt.Fprintf(out, "  Periods: %d  |  Teaching: %s  |  Taught: %s\n",
				week.Totals.Periods, FormatDuration(week.Totals.TeachingMinutes),
				formatDone(fmt.Sprintf("%d%%", week.CompletionPercent())))
			if best := week.BusiestDay(); best != nil {
				fmt.Fprintf(out, "  Busiest day: %s (%s)\n", best.Date, FormatDuration(best.Stats.TeachingMinutes))
			}
			if week.Totals.Cancelled > 0 {
				fmt.Fprintf(out, "  %s\n", formatMuted(fmt.Sprintf("Cancelled: %d", week.Totals.Cancelled)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date in the week (default: today)")
	return cmd
}
