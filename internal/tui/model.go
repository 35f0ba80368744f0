// Package tui provides the terminal day browser for classbell.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/classbell/classbell/internal/dateutil"
	"github.com/classbell/classbell/internal/slot"
	"github.com/classbell/classbell/internal/timetable"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt      // Typing a date to jump to
)

// How long a status message stays in the footer.
const statusTimeout = 3 * time.Second

// Model is the main TUI model.
type Model struct {
	// Dependencies
	loader  *timetable.Loader
	class   string
	nowFunc func() time.Time

	// State
	date      string // class date on screen, YYYY-MM-DD
	slots     []*slot.TimeSlot
	cursor    int
	mode      Mode
	loading   bool
	err       error
	statusMsg string

	// Components
	prompt textinput.Model

	// Terminal dimensions
	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithNow overrides the clock used for "today".
func WithNow(now func() time.Time) Option {
	return func(m *Model) {
		m.nowFunc = now
	}
}

// WithDate opens the browser on a specific class date.
func WithDate(date string) Option {
	return func(m *Model) {
		m.date = date
	}
}

// New creates a browser for one class.
func New(loader *timetable.Loader, class string, opts ...Option) Model {
	prompt := textinput.New()
	prompt.Placeholder = "YYYY-MM-DD, tomorrow, friday..."
	prompt.Prompt = "Go to: "
	prompt.CharLimit = 32

	m := Model{
		loader:  loader,
		class:   class,
		nowFunc: time.Now,
		prompt:  prompt,
		loading: true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.date == "" {
		m.date = m.today()
	}
	return m
}

func (m Model) today() string {
	return dateutil.TruncateToDay(m.nowFunc()).Format(dateutil.Layout)
}

// Init loads the first day.
func (m Model) Init() tea.Cmd {
	return m.loadDay(m.date)
}

// dayLoadedMsg carries the result of one day fetch.
type dayLoadedMsg struct {
	date  string
	slots []*slot.TimeSlot
	err   error
}

type clearStatusMsg struct{}

// loadDay fetches a day in the background. A newer fetch cancels this one
// through the loader, so rapid paging only ever lands on the latest day.
func (m Model) loadDay(date string) tea.Cmd {
	loader, class := m.loader, m.class
	return func() tea.Msg {
		slots, err := loader.Load(context.Background(), class, date)
		return dayLoadedMsg{date: date, slots: slots, err: err}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// Run starts the browser and blocks until the user quits.
func Run(loader *timetable.Loader, class string, opts ...Option) error {
	p := tea.NewProgram(New(loader, class, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
