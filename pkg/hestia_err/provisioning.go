// pkg/hestia_err/provisioning.go

package hestia_err

import (
	"fmt"
	"strings"
)

// UnsupportedPlatformError reports a host outside the supported matrix.
type UnsupportedPlatformError struct {
	Distribution string
	Version      string
	Reason       string
}

func (e *UnsupportedPlatformError) Error() string {
	name := e.Distribution
	if name == "" {
		name = "unknown distribution"
	}
	ver := e.Version
	if ver == "" {
		ver = "unknown version"
	}
	msg := fmt.Sprintf("unsupported platform: %s %s", name, ver)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// StageFailure aborts the pipeline. ExitCode is the failing command's status.
type StageFailure struct {
	Stage    string
	ExitCode int
	Cause    error
}

func (e *StageFailure) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("stage %q failed with exit code %d", e.Stage, e.ExitCode)
	}
	return fmt.Sprintf("stage %q failed with exit code %d: %v", e.Stage, e.ExitCode, e.Cause)
}

func (e *StageFailure) Unwrap() error {
	return e.Cause
}

// AttemptError records why one authentication strategy did not succeed.
type AttemptError struct {
	Strategy string
	Err      error
}

func (a AttemptError) String() string {
	return fmt.Sprintf("%s: %v", a.Strategy, a.Err)
}

// AuthExhaustedError is returned once every database authentication strategy failed.
type AuthExhaustedError struct {
	Attempts []AttemptError
}

func (e *AuthExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("all %d database authentication strategies failed (%s)",
		len(e.Attempts), strings.Join(parts, "; "))
}

// Last returns the outcome of the final strategy tried.
func (e *AuthExhaustedError) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}
