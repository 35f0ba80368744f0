package tui

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/classbell/classbell/internal/dateutil"
	"github.com/classbell/classbell/internal/slot"
	"github.com/classbell/classbell/internal/timetable"
)

// Clipboard writer, replaced in tests.
var writeClipboard = clipboard.WriteAll

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == ModePrompt {
			return m.handlePromptKeys(msg)
		}
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.Width = max(0, msg.Width-len(m.prompt.Prompt)-2)
		return m, nil

	case dayLoadedMsg:
		// A superseded fetch or a late answer for a day we already left.
		if errors.Is(msg.err, timetable.ErrSuperseded) || msg.date != m.date {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.slots = nil
			return m, nil
		}
		m.slots = msg.slots
		m.cursor = min(m.cursor, max(0, len(m.slots)-1))
		return m, nil

	case clearStatusMsg:
		m.statusMsg = ""
		return m, nil
	}

	return m, nil
}

// handleKeyMsg handles keyboard input in normal mode.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		return m.shiftDay(-1)
	case "right", "l":
		return m.shiftDay(1)
	case "t":
		return m.goTo(m.today())
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.slots)-1 {
			m.cursor++
		}
		return m, nil
	case "g":
		m.mode = ModePrompt
		m.prompt.Reset()
		m.prompt.Focus()
		return m, textinput.Blink
	case "c":
		return m.copyDay()
	}
	return m, nil
}

// handlePromptKeys handles input while the go-to-date prompt is open.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.mode = ModeNormal
		m.prompt.Blur()
		return m, nil
	case "enter":
		m.mode = ModeNormal
		m.prompt.Blur()
		date, err := dateutil.ResolveClassDate(m.prompt.Value(), m.nowFunc())
		if err != nil {
			return m.setStatus(fmt.Sprintf("Invalid date: %v", err))
		}
		return m.goTo(date)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) shiftDay(days int) (tea.Model, tea.Cmd) {
	t, err := dateutil.ParseDate(m.date)
	if err != nil {
		return m.setStatus(err.Error())
	}
	return m.goTo(t.AddDate(0, 0, days).Format(dateutil.Layout))
}

// goTo switches to date and starts loading it. The previous day stays on
// screen until the new one arrives.
func (m Model) goTo(date string) (tea.Model, tea.Cmd) {
	if date == m.date && !m.loading {
		return m, nil
	}
	m.date = date
	m.cursor = 0
	m.loading = true
	return m, m.loadDay(date)
}

func (m Model) copyDay() (tea.Model, tea.Cmd) {
	if len(m.slots) == 0 {
		return m.setStatus("No slots to copy")
	}
	day, err := slot.NewDayWithSlots(m.class, m.date, m.slots)
	if err != nil {
		return m.setStatus(fmt.Sprintf("Copy failed: %v", err))
	}
	if err := writeClipboard(day.Text()); err != nil {
		return m.setStatus(fmt.Sprintf("Copy failed: %v", err))
	}
	return m.setStatus("Copied day")
}

func (m Model) setStatus(msg string) (tea.Model, tea.Cmd) {
	m.statusMsg = msg
	return m, clearStatusAfter(statusTimeout)
}
