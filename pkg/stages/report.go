// pkg/stages/report.go

package stages

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_io"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/platform"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/ui"
)

// Report is the record of one installer run.
type Report struct {
	RunID     string         `yaml:"run_id"`
	StartedAt time.Time      `yaml:"started_at"`
	EndedAt   time.Time      `yaml:"ended_at"`
	Host      *platform.Host `yaml:"host,omitempty"`
	Branch    string         `yaml:"branch,omitempty"`
	Site      string         `yaml:"site,omitempty"`
	DryRun    bool           `yaml:"dry_run,omitempty"`
	Status    Status         `yaml:"status"`
	Stages    []StageResult  `yaml:"stages"`
	Error     string         `yaml:"error,omitempty"`
}

func (r *Report) add(res StageResult) {
	r.Stages = append(r.Stages, res)
}

// Result returns the recorded outcome for a stage name.
func (r *Report) Result(name string) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageResult{}, false
}

// Count returns how many stages ended with status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, s := range r.Stages {
		if s.Status == status {
			n++
		}
	}
	return n
}

// WriteReport stores the report as <stateDir>/runs/<run-id>.yaml.
func WriteReport(ctx context.Context, stateDir string, r *Report) (string, error) {
	if r.RunID == "" {
		return "", fmt.Errorf("report has no run id")
	}
	p := filepath.Join(stateDir, shared.RunsSubdir, r.RunID+".yaml")
	if err := hestia_io.WriteYAML(ctx, p, r, shared.FilePermOwnerReadWrite); err != nil {
		return "", fmt.Errorf("writing run report: %w", err)
	}
	return p, nil
}

// PrintSummary writes one line per stage and an overall status line.
func PrintSummary(w io.Writer, r *Report) {
	_, _ = fmt.Fprintln(w, ui.Title.Render("Summary"))
	for _, s := range r.Stages {
		var outcome ui.Outcome
		detail := string(s.Status)
		switch s.Status {
		case StatusSuccess:
			outcome = ui.OutcomeOK
			detail = s.Duration.String()
		case StatusFailed:
			outcome = ui.OutcomeFailed
			detail = fmt.Sprintf("exit code %d", s.ExitCode)
		case StatusSkipped:
			outcome = ui.OutcomeSkipped
			detail = "already complete"
		default:
			outcome = ui.OutcomeSkipped
		}
		ui.ResultLine(w, outcome, s.Name, detail)
	}

	if r.Status == StatusFailed {
		_, _ = fmt.Fprintln(w, ui.Failure.Render("Installation failed: "+r.Error))
		return
	}
	_, _ = fmt.Fprintln(w, ui.Success.Render(fmt.Sprintf("Installation finished: %d completed, %d already complete",
		r.Count(StatusSuccess), r.Count(StatusSkipped))))
}
