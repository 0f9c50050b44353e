// pkg/stages/stage.go

package stages

import (
	"context"
	"time"
)

// Stage is one named unit of provisioning work.
type Stage struct {
	Name        string
	Description string
	// Enabled is false for stages the operator declined.
	Enabled bool
	// Done reports whether the stage's effect is already in place. Nil means
	// the stage always runs.
	Done func(ctx context.Context) (bool, error)
	// Action performs the stage. Its error aborts the pipeline.
	Action func(ctx context.Context) error
}

// Status is the recorded outcome of a stage.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusSkipped  Status = "skipped"
	StatusDisabled Status = "disabled"
	StatusFailed   Status = "failed"
	StatusNotRun   Status = "not_run"
)

// StageResult records what happened to one stage.
type StageResult struct {
	Name     string        `yaml:"name"`
	Status   Status        `yaml:"status"`
	Duration time.Duration `yaml:"duration"`
	ExitCode int           `yaml:"exit_code,omitempty"`
	Message  string        `yaml:"message,omitempty"`
}
