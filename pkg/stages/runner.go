// pkg/stages/runner.go

package stages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_err"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/telemetry"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/ui"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Runner executes stages in declaration order and stops at the first failure.
type Runner struct {
	// Out receives the per-stage headers. Nil discards them.
	Out io.Writer
}

// NewRunner prints stage headers to stderr.
func NewRunner() *Runner {
	return &Runner{Out: os.Stderr}
}

// Run executes every enabled stage. Disabled stages and stages whose Done
// predicate is true are recorded and passed over. The first failing stage
// ends the run: it is returned as a *hestia_err.StageFailure and every later
// stage is recorded as not run.
func (r *Runner) Run(ctx context.Context, stages []Stage) (*Report, error) {
	logger := otelzap.Ctx(ctx)
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	report := &Report{StartedAt: time.Now().UTC(), Status: StatusSuccess}
	defer func() { report.EndedAt = time.Now().UTC() }()

	logger.Info("Starting pipeline", zap.Int("stages", len(stages)))

	for i, st := range stages {
		if !st.Enabled {
			logger.Debug("Stage disabled", zap.String("stage", st.Name))
			report.add(StageResult{Name: st.Name, Status: StatusDisabled})
			continue
		}

		ui.Header(out, i+1, len(stages), st.Name, st.Description)
		res, err := r.runStage(ctx, st)
		report.add(res)
		if err != nil {
			for _, rest := range stages[i+1:] {
				report.add(StageResult{Name: rest.Name, Status: StatusNotRun})
			}
			failure := &hestia_err.StageFailure{Stage: st.Name, ExitCode: res.ExitCode, Cause: err}
			report.Status = StatusFailed
			report.Error = failure.Error()
			logger.Error("Pipeline aborted",
				zap.String("stage", st.Name),
				zap.Int("exit_code", res.ExitCode),
				zap.Error(err))
			return report, failure
		}
	}

	logger.Info("Pipeline completed", zap.Duration("duration", time.Since(report.StartedAt)))
	return report, nil
}

func (r *Runner) runStage(ctx context.Context, st Stage) (res StageResult, err error) {
	logger := otelzap.Ctx(ctx).WithOptions(zap.Fields(zap.String("stage", st.Name)))
	start := time.Now()
	res = StageResult{Name: st.Name}

	ctx, span := telemetry.Start(ctx, "stage."+st.Name, attribute.String("stage", st.Name))
	defer func() {
		res.Duration = time.Since(start).Round(time.Millisecond)
		span.SetAttributes(attribute.String("status", string(res.Status)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	fail := func(e error) (StageResult, error) {
		res.Status = StatusFailed
		res.ExitCode = exitCodeOf(e)
		res.Message = e.Error()
		return res, e
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	if st.Done != nil {
		done, err := st.Done(ctx)
		if err != nil {
			return fail(fmt.Errorf("checking whether %s is already complete: %w", st.Name, err))
		}
		if done {
			logger.Info("Stage already complete, skipping")
			res.Status = StatusSkipped
			res.Message = "already complete"
			return res, nil
		}
	}

	if st.Action == nil {
		return fail(errors.New("stage has no action"))
	}

	logger.Info("Running stage", zap.String("description", st.Description))
	if err := st.Action(ctx); err != nil {
		return fail(err)
	}

	res.Status = StatusSuccess
	logger.Info("Stage completed", zap.Duration("duration", time.Since(start)))
	return res, nil
}

func exitCodeOf(err error) int {
	if code, ok := execute.ExitCode(err); ok && code > 0 {
		return code
	}
	return 1
}
