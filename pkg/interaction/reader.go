// pkg/interaction/reader.go

package interaction

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Prompter reads operator answers. Prompts go to out (stderr for a
// terminal) so stdout stays usable for automation.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal used for hidden input, or -1 when input is not a TTY.
	fd int
}

// NewPrompter reads from any reader. Secret input is read as plain lines.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
}

// NewTerminalPrompter reads from stdin, hiding secret input when stdin is a TTY.
func NewTerminalPrompter() *Prompter {
	p := NewPrompter(os.Stdin, os.Stderr)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		p.fd = fd
	}
	return p
}

// IsTerminal reports whether secret input is hidden.
func (p *Prompter) IsTerminal() bool {
	return p.fd >= 0
}

// ReadLine prompts the user with a label and returns a trimmed line of input.
// A final line without a trailing newline is accepted.
func (p *Prompter) ReadLine(ctx context.Context, label string) (string, error) {
	text, err := p.readRaw(ctx, label)
	return strings.TrimSpace(text), err
}

// readRaw returns one line with only its line terminator removed.
func (p *Prompter) readRaw(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	logger := otelzap.Ctx(ctx)
	logger.Debug("Prompting user for input", zap.String("label", label))

	_, _ = fmt.Fprint(p.out, label+": ")

	text, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && text != "") {
		logger.Error("Failed to read user input", zap.Error(err))
		return "", err
	}
	return strings.TrimRight(text, "\r\n"), nil
}

func (p *Prompter) readHidden(ctx context.Context, label string) ([]byte, error) {
	if p.fd < 0 {
		line, err := p.readRaw(ctx, label)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, _ = fmt.Fprint(p.out, label+": ")
	b, err := term.ReadPassword(p.fd)
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		otelzap.Ctx(ctx).Error("Failed to read secret input", zap.Error(err))
		return nil, err
	}
	return b, nil
}

// Printf writes operator-facing text to the prompt stream.
func (p *Prompter) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// SaveTerminal captures the terminal mode so an interrupted hidden read can
// be undone. It is a no-op when input is not a TTY.
func (p *Prompter) SaveTerminal() (restore func() error, err error) {
	if p.fd < 0 {
		return func() error { return nil }, nil
	}
	state, err := term.GetState(p.fd)
	if err != nil {
		return nil, fmt.Errorf("saving terminal state: %w", err)
	}
	fd := p.fd
	return func() error { return term.Restore(fd, state) }, nil
}
