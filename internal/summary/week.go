// Package summary provides week summaries of a class timetable.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/classbell/classbell/internal/dateutil"
	"github.com/classbell/classbell/internal/slot"
)

// DayLister is the read side of the slot repository.
type DayLister interface {
	ListSlots(ctx context.Context, classInstanceID, classDate string) ([]*slot.TimeSlot, error)
}

// DaySummary holds one day of the week.
type DaySummary struct {
	Date    string // YYYY-MM-DD
	Weekday string // lower-case name
	Slots   []*slot.TimeSlot
	Stats   slot.DayStats
}

// WeekSummary holds aggregated week data for one class.
type WeekSummary struct {
	ClassInstanceID string
	Start           time.Time
	End             time.Time
	Days            []DaySummary // Monday first, always seven entries
	Totals          slot.DayStats
}

// SummarizeWeek groups slots into the ISO week containing weekStart. Slots
// for other classes or outside the week are ignored.
func SummarizeWeek(classInstanceID string, weekStart time.Time, slots []*slot.TimeSlot) *WeekSummary {
	start, end := dateutil.WeekRange(weekStart)

	byDate := make(map[string][]*slot.TimeSlot)
	for _, s := range slots {
		if s.ClassInstanceID == classInstanceID {
			byDate[s.ClassDate] = append(byDate[s.ClassDate], s)
		}
	}

	w := &WeekSummary{ClassInstanceID: classInstanceID, Start: start, End: end}
	for i := range 7 {
		date := start.AddDate(0, 0, i)
		ds := DaySummary{
			Date:    date.Format(dateutil.Layout),
			Weekday: strings.ToLower(date.Weekday().String()),
		}
		ds.Slots = byDate[ds.Date]
		slot.SortByStart(ds.Slots)
		ds.Stats = statsOf(ds.Slots)
		w.add(ds)
	}
	return w
}

// BuildWeekSummary loads each day of the week containing ref.
func BuildWeekSummary(ctx context.Context, repo DayLister, classInstanceID string, ref time.Time) (*WeekSummary, error) {
	start, _ := dateutil.WeekRange(ref)

	var slots []*slot.TimeSlot
	for i := range 7 {
		date := start.AddDate(0, 0, i).Format(dateutil.Layout)
		day, err := repo.ListSlots(ctx, classInstanceID, date)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", date, err)
		}
		slots = append(slots, day...)
	}
	return SummarizeWeek(classInstanceID, start, slots), nil
}

func (w *WeekSummary) add(ds DaySummary) {
	w.Days = append(w.Days, ds)
	w.Totals.Periods += ds.Stats.Periods
	w.Totals.Breaks += ds.Stats.Breaks
	w.Totals.Done += ds.Stats.Done
	w.Totals.Cancelled += ds.Stats.Cancelled
	w.Totals.TeachingMinutes += ds.Stats.TeachingMinutes
	w.Totals.BreakMinutes += ds.Stats.BreakMinutes
}

// CompletionPercent returns the share of non-cancelled periods already taught.
func (w *WeekSummary) CompletionPercent() int {
	planned := w.Totals.Periods - w.Totals.Cancelled
	if planned <= 0 {
		return 0
	}
	return (w.Totals.Done * 100) / planned
}

// BusiestDay returns the day with the most teaching minutes, or nil for an
// empty week.
func (w *WeekSummary) BusiestDay() *DaySummary {
	var best *DaySummary
	for i := range w.Days {
		d := &w.Days[i]
		if d.Stats.TeachingMinutes == 0 {
			continue
		}
		if best == nil || d.Stats.TeachingMinutes > best.Stats.TeachingMinutes {
			best = d
		}
	}
	return best
}

// statsOf computes day stats, skipping a slot that overlaps an earlier one.
func statsOf(slots []*slot.TimeSlot) slot.DayStats {
	day := slot.NewDay("", "")
	for _, s := range slots {
		_ = day.AddSlot(s)
	}
	return day.Stats()
}
