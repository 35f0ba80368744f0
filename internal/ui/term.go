package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Teaching periods: bold cyan
	colorPeriod = color.New(color.FgCyan, color.Bold)

	// Breaks: dim so the teaching day stands out
	colorBreak = color.New(color.FgWhite, color.Faint)

	// Taught periods: green
	colorDone = color.New(color.FgGreen)

	// Cancelled periods and refusals: red
	colorCancelled = color.New(color.FgRed)

	// Conflicts: yellow to make them pop
	colorConflict = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output, including table styling.
func DisableColor() {
	color.NoColor = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

func formatPeriod(s string) string {
	return colorPeriod.Sprint(s)
}

func formatBreak(s string) string {
	return colorBreak.Sprint(s)
}

func formatDone(s string) string {
	return colorDone.Sprint(s)
}

func formatCancelled(s string) string {
	return colorCancelled.Sprint(s)
}

func formatConflict(s string) string {
	return colorConflict.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
