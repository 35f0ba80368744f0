package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/classbell/classbell/internal/slot"
	"github.com/classbell/classbell/internal/timetable"
)

// Table styling, kept in lipgloss so it degrades with the color profile.
var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableBreakStyle  = tableCellStyle.Foreground(lipgloss.Color("8"))
	tableDoneStyle   = tableCellStyle.Foreground(lipgloss.Color("2"))
	tableCancelStyle = tableCellStyle.Foreground(lipgloss.Color("1")).Strikethrough(true)
)

var dayTableHeaders = []string{"#", "Time", "Slot", "Status", "Plan"}

// Plan column width when the terminal is too narrow to compute one.
const minPlanWidth = 12

// statusSymbol returns the status indicator for a slot.
func statusSymbol(s *slot.TimeSlot) string {
	switch {
	case s.IsBreak():
		return "·"
	case s.IsDone():
		return "✓"
	case s.Status == slot.StatusCancelled:
		return "✗"
	default:
		return "○"
	}
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// timeRange formats a slot interval as "HH:MM-HH:MM".
func timeRange(start, end string) string {
	return slot.ShortTime(start) + "-" + slot.ShortTime(end)
}

func planText(s *slot.TimeSlot) string {
	if s.PlanText == nil {
		return ""
	}
	return strings.Join(strings.Fields(*s.PlanText), " ")
}

// dayRows builds one table row per slot. Plan text is cut to planWidth cells.
func dayRows(slots []*slot.TimeSlot, planWidth int) [][]string {
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		number := strconv.Itoa(s.PeriodNumber)
		plan := planText(s)
		if planWidth > 0 {
			plan = ansi.Truncate(plan, planWidth, "…")
		}
		rows = append(rows, []string{
			number,
			timeRange(s.StartTime, s.EndTime),
			s.Label(),
			statusSymbol(s) + " " + string(s.Status),
			plan,
		})
	}
	return rows
}

// RenderDayTable renders the day's slots as a bordered table that fits width.
func RenderDayTable(slots []*slot.TimeSlot, width int) string {
	// "#", time and status are narrow; the plan column takes what is left.
	planWidth := width - 60
	if planWidth < minPlanWidth {
		planWidth = minPlanWidth
	}
	rows := dayRows(slots, planWidth)

	t := table.New().
		Headers(dayTableHeaders...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		BorderRow(false).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if row < 0 || row >= len(slots) {
				return tableCellStyle
			}
			s := slots[row]
			switch {
			case s.IsBreak():
				return tableBreakStyle
			case s.IsDone():
				return tableDoneStyle
			case s.Status == slot.StatusCancelled:
				return tableCancelStyle
			default:
				return tableCellStyle
			}
		})

	return t.Render()
}

// PrintDayStats prints the summary line under a day table.
func PrintDayStats(w io.Writer, stats slot.DayStats) {
	periods := formatPeriod(fmt.Sprintf("Periods: %d", stats.Periods))
	breaks := formatBreak(fmt.Sprintf("Breaks: %d", stats.Breaks))
	fmt.Fprintf(w, "%s | %s | Teaching: %s\n", periods, breaks, FormatDuration(stats.TeachingMinutes))

	if stats.Done > 0 || stats.Cancelled > 0 {
		fmt.Fprintf(w, "%s  %s\n",
			formatDone(fmt.Sprintf("Taught: %d", stats.Done)),
			formatMuted(fmt.Sprintf("Cancelled: %d", stats.Cancelled)))
	}
}

// PrintConflict lists the slots a candidate interval overlaps.
func PrintConflict(w io.Writer, info *slot.ConflictInfo) {
	fmt.Fprintf(w, "%s the slot overlaps %d existing slot(s):\n",
		formatConflict("Conflict:"), len(info.Conflicts))
	for _, c := range info.Conflicts {
		fmt.Fprintf(w, "  %s  %s  %s  %s  %s\n",
			statusSymbol(c), timeRange(c.StartTime, c.EndTime), c.Label(),
			formatConflict("overlaps "+FormatDuration(info.Overlap(c))), formatMuted(c.ID))
	}
	fmt.Fprintf(w, "Resolve with --on-conflict=abort, --on-conflict=replace --replace-id=<id>, or --on-conflict=shift (minimum %s)\n",
		FormatDuration(info.ShiftDelta))
	if info.NextFreeStart != "" {
		length := slot.TimeToMinutes(info.End) - slot.TimeToMinutes(info.Start)
		fmt.Fprintf(w, "%s\n", formatMuted(fmt.Sprintf("A free %s gap starts at %s",
			FormatDuration(length), slot.ShortTime(info.NextFreeStart))))
	}
}

// PrintOutcome reports a successful create or update.
func PrintOutcome(w io.Writer, verb string, out timetable.Outcome) {
	msg := fmt.Sprintf("%s slot %s", verb, out.SlotID)
	if out.Recovered {
		msg += " (merged into an identical slot created concurrently)"
	}
	fmt.Fprintln(w, formatDone(msg))
	if out.ConflictsResolved > 0 || out.SlotsShifted > 0 {
		fmt.Fprintln(w, formatMuted(fmt.Sprintf("  conflicts resolved: %d, slots shifted: %d",
			out.ConflictsResolved, out.SlotsShifted)))
	}
}
