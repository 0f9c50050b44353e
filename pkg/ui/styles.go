// pkg/ui/styles.go

package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorBlue)

	Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorBlue).
		MarginTop(1)

	Success = lipgloss.NewStyle().Foreground(colorGreen)
	Failure = lipgloss.NewStyle().Foreground(colorRed)
	Warning = lipgloss.NewStyle().Foreground(colorYellow)
	Dim     = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	checkMark = "[OK]"
	crossMark = "[!!]"
	skipMark  = "[--]"
	warnMark  = "[??]"
)

// Header prints a section heading such as "==> [3/14] mariadb-root".
func Header(w io.Writer, index, total int, name, description string) {
	line := Section.Render(fmt.Sprintf("==> [%d/%d] %s", index, total, name))
	if description != "" {
		line += " " + Dim.Render(description)
	}
	_, _ = fmt.Fprintln(w, line)
}

// Outcome is the mark shown next to a result line.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeFailed
	OutcomeSkipped
	OutcomeWarning
)

// ResultLine prints one aligned result, e.g. "[OK] platform  Ubuntu 22.04".
func ResultLine(w io.Writer, outcome Outcome, name, detail string) {
	var mark string
	switch outcome {
	case OutcomeOK:
		mark = Success.Render(checkMark)
	case OutcomeFailed:
		mark = Failure.Render(crossMark)
	case OutcomeSkipped:
		mark = Dim.Render(skipMark)
	default:
		mark = Warning.Render(warnMark)
	}
	line := fmt.Sprintf("%s %-18s", mark, name)
	if detail != "" {
		line += " " + detail
	}
	_, _ = fmt.Fprintln(w, line)
}
