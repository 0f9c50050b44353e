// pkg/ui/spinner.go

package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// StepSpinner shows progress for one long-running step at a time.
type StepSpinner struct {
	spinner *spinner.Spinner
	prefix  string
	out     io.Writer
	step    string
}

// NewStepSpinner writes to stderr. The animation is suppressed when
// stderr is not a terminal; the final status line is always printed.
func NewStepSpinner(prefix string) *StepSpinner {
	return newStepSpinner(prefix, os.Stderr)
}

func newStepSpinner(prefix string, out io.Writer) *StepSpinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(out))
	s.Prefix = fmt.Sprintf("[%s] ", prefix)
	return &StepSpinner{spinner: s, prefix: prefix, out: out}
}

func (s *StepSpinner) Start(step string) {
	s.step = step
	s.spinner.Suffix = " " + step
	s.spinner.Start()
}

func (s *StepSpinner) Stop(success bool) {
	s.spinner.Stop()
	mark := Success.Render(checkMark)
	if !success {
		mark = Failure.Render(crossMark)
	}
	_, _ = fmt.Fprintf(s.out, "[%s] %s %s\n", s.prefix, mark, s.step)
}
