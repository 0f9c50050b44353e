// pkg/execute/execute.go

package execute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_err"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/telemetry"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Options describes one external command invocation.
type Options struct {
	Command string
	Args    []string
	// Env entries (KEY=VALUE) are added to this child's environment only.
	// With Sudo they travel in argv, so they must not carry secrets.
	Env   []string
	Dir   string
	Stdin io.Reader
	// Sudo prefixes the command with sudo when not already root.
	Sudo bool
	// Capture returns combined output to the caller.
	Capture bool
	// Quiet suppresses streaming output to the terminal.
	Quiet   bool
	Timeout time.Duration
	// Redact lists values that must never appear in logs.
	Redact []string
}

// Runner executes external commands. Stages and the database bootstrapper
// depend on this interface so tests can substitute a fake.
type Runner interface {
	Run(ctx context.Context, opts Options) (string, error)
}

// Local runs commands on this host.
type Local struct {
	DryRun  bool
	IsRoot  bool
	Timeout time.Duration
	Stdout  io.Writer
}

// NewLocal returns a runner for the current host.
func NewLocal(dryRun bool, timeout time.Duration) *Local {
	return &Local{
		DryRun:  dryRun,
		IsRoot:  unix.Geteuid() == 0,
		Timeout: timeout,
		Stdout:  os.Stdout,
	}
}

// ExitError carries the exit status of a failed command.
type ExitError struct {
	Command string
	Code    int
	Summary string
	Err     error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.Code, e.Summary)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode finds the exit status of a failed command in the error chain.
func ExitCode(err error) (int, bool) {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return 0, false
}

// Run executes a command with structured logging and proper error handling
func (l *Local) Run(ctx context.Context, opts Options) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := otelzap.Ctx(ctx)
	name, args := l.commandLine(opts)
	cmdStr := CommandString(opts)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = l.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ctx, span := telemetry.Start(ctx, "execute.Run",
		attribute.String("command", cmdStr),
		attribute.Bool("sudo", opts.Sudo && !l.IsRoot),
	)
	defer span.End()

	if l.DryRun {
		logger.Info("Dry run mode - command not executed", zap.String("command", cmdStr))
		return "", nil
	}

	logger.Info("Starting execution", zap.String("command", cmdStr), zap.String("dir", opts.Dir))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	cmd.Stdin = opts.Stdin
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var buf bytes.Buffer
	var writer io.Writer = &buf
	if !opts.Quiet && l.Stdout != nil {
		writer = io.MultiWriter(l.Stdout, &buf)
	}
	cmd.Stdout = writer
	cmd.Stderr = writer

	start := time.Now()
	err := cmd.Run()
	output := buf.String()

	if err != nil {
		code := 1
		var ee *exec.ExitError
		if errors.As(err, &ee) && ee.ExitCode() > 0 {
			code = ee.ExitCode()
		}
		summary := redact(hestia_err.ExtractSummary(output, 2), opts.Redact)
		span.RecordError(err)
		span.SetAttributes(attribute.Int("exit_code", code))
		logger.Error("Execution failed",
			zap.String("command", cmdStr),
			zap.Int("exit_code", code),
			zap.String("summary", summary),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return output, &ExitError{Command: cmdStr, Code: code, Summary: summary, Err: err}
	}

	logger.Info("Execution succeeded",
		zap.String("command", cmdStr),
		zap.Duration("duration", time.Since(start)))

	if opts.Capture {
		return output, nil
	}
	return "", nil
}

// commandLine builds the argv. sudo resets the environment, so Env entries
// are handed to env(1) on the far side of it.
func (l *Local) commandLine(opts Options) (string, []string) {
	if opts.Sudo && !l.IsRoot {
		args := make([]string, 0, len(opts.Env)+len(opts.Args)+3)
		args = append(args, "--")
		if len(opts.Env) > 0 {
			args = append(args, "env")
			args = append(args, opts.Env...)
		}
		args = append(args, opts.Command)
		return "sudo", append(args, opts.Args...)
	}
	return opts.Command, opts.Args
}
