package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/classbell/classbell/internal/dateutil"
	"github.com/classbell/classbell/internal/slot"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	periodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	cancelledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Strikethrough(true)
	selectedStyle  = lipgloss.NewStyle().Bold(true).Reverse(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

const helpText = "←/→ day  ↑/↓ select  t today  g go to  c copy  q quit"

// Width used before the first WindowSizeMsg arrives.
const defaultWidth = 80

// View renders the model.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderBody(width))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(width))
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.date
	if t, err := dateutil.ParseDate(m.date); err == nil {
		title = t.Format("Monday, January 2, 2006")
	}
	header := headerStyle.Render(fmt.Sprintf("classbell · %s · %s", m.class, title))
	if m.loading {
		header += " " + mutedStyle.Render("loading…")
	}
	return header
}

func (m Model) renderBody(width int) string {
	switch {
	case m.err != nil:
		return errorStyle.Render("Error: " + m.err.Error())
	case len(m.slots) == 0 && m.loading:
		return mutedStyle.Render("Loading...")
	case len(m.slots) == 0:
		return mutedStyle.Render("No slots scheduled for this day.")
	}

	lines := make([]string, 0, len(m.slots)+2)
	for i, s := range m.slots {
		lines = append(lines, m.renderSlotLine(i, s, width-6))
	}
	if sel := m.selected(); sel != nil {
		if detail := renderDetail(sel, width-6); detail != "" {
			lines = append(lines, "", detail)
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderSlotLine(i int, s *slot.TimeSlot, width int) string {
	line := fmt.Sprintf("%2d  %s-%s  %-20s %s",
		s.PeriodNumber, slot.ShortTime(s.StartTime), slot.ShortTime(s.EndTime),
		ansi.Truncate(s.Label(), 20, "…"), s.Status)
	line = ansi.Truncate(line, max(0, width), "…")

	if i == m.cursor {
		return selectedStyle.Render(line)
	}
	switch {
	case s.IsBreak():
		return mutedStyle.Render(line)
	case s.IsDone():
		return doneStyle.Render(line)
	case s.Status == slot.StatusCancelled:
		return cancelledStyle.Render(line)
	default:
		return periodStyle.Render(line)
	}
}

// renderDetail shows the syllabus linkage and plan of the selected slot.
func renderDetail(s *slot.TimeSlot, width int) string {
	var parts []string
	for _, f := range []struct {
		label string
		value *string
	}{
		{"subject", s.SubjectID},
		{"teacher", s.TeacherID},
		{"chapter", s.SyllabusChapterID},
		{"topic", s.SyllabusTopicID},
		{"plan", s.PlanText},
	} {
		if f.value != nil && *f.value != "" {
			parts = append(parts, f.label+": "+strings.Join(strings.Fields(*f.value), " "))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	for i, p := range parts {
		parts[i] = mutedStyle.Render(ansi.Truncate(p, max(0, width), "…"))
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderFooter(width int) string {
	if m.mode == ModePrompt {
		return m.prompt.View()
	}
	footer := helpText
	if m.statusMsg != "" {
		footer = m.statusMsg + "  ·  " + footer
	}
	return mutedStyle.Render(ansi.Truncate(footer, width, "…"))
}

func (m Model) selected() *slot.TimeSlot {
	if m.cursor < 0 || m.cursor >= len(m.slots) {
		return nil
	}
	return m.slots[m.cursor]
}
