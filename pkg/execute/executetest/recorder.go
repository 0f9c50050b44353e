// Package executetest provides a scripted execute.Runner for tests.
package executetest

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/execute"
)

// Call is one recorded invocation. Stdin is drained and kept as text.
type Call struct {
	Options execute.Options
	Stdin   string
}

// Line renders the command and args separated by spaces.
func (c Call) Line() string {
	return strings.TrimSpace(c.Options.Command + " " + strings.Join(c.Options.Args, " "))
}

// Response is returned for calls whose line contains Match.
type Response struct {
	Match  string
	Output string
	Code   int
}

// Recorder records calls and answers from Responses. The first matching
// response wins; unmatched calls succeed with empty output.
type Recorder struct {
	mu        sync.Mutex
	Calls     []Call
	Responses []Response
}

// New returns a recorder with the given scripted responses.
func New(responses ...Response) *Recorder {
	return &Recorder{Responses: responses}
}

// Run implements execute.Runner.
func (r *Recorder) Run(ctx context.Context, opts execute.Options) (string, error) {
	call := Call{Options: opts}
	if opts.Stdin != nil {
		b, _ := io.ReadAll(opts.Stdin)
		call.Stdin = string(b)
	}

	r.mu.Lock()
	r.Calls = append(r.Calls, call)
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	line := call.Line()
	for _, resp := range r.Responses {
		if !strings.Contains(line, resp.Match) {
			continue
		}
		if resp.Code != 0 {
			return resp.Output, &execute.ExitError{
				Command: execute.CommandString(opts),
				Code:    resp.Code,
				Summary: resp.Output,
			}
		}
		return resp.Output, nil
	}
	return "", nil
}

// Lines returns every recorded command line in order.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		out = append(out, c.Line())
	}
	return out
}

// Count returns how many recorded lines contain substr.
func (r *Recorder) Count(substr string) int {
	n := 0
	for _, l := range r.Lines() {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}
