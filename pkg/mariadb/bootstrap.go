// pkg/mariadb/bootstrap.go

package mariadb

import (
	"context"
	"errors"
	"fmt"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_err"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/interaction"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/marker"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/telemetry"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MarkerName identifies the root configuration completion marker.
const MarkerName = "mariadb-root"

// State tracks the bootstrapper's progress.
type State int

const (
	StateNotAttempted State = iota
	StateTrying
	StateSucceeded
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateNotAttempted:
		return "not_attempted"
	case StateTrying:
		return "trying"
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Progress reports each attempt to the operator.
type Progress interface {
	Start(step string)
	Stop(success bool)
}

// Bootstrapper applies the one-time root configuration script.
type Bootstrapper struct {
	Runner     execute.Runner
	Markers    *marker.Store
	Strategies []Strategy
	Progress   Progress
	RunID      string
	Host       string

	state   State
	current string
}

// State returns the current state.
func (b *Bootstrapper) State() State {
	return b.state
}

// Current names the strategy being tried, or the one that succeeded.
func (b *Bootstrapper) Current() string {
	return b.current
}

func (b *Bootstrapper) transition(ctx context.Context, s State, strategy string) {
	b.state = s
	b.current = strategy
	otelzap.Ctx(ctx).Info("Database bootstrap state",
		zap.String("state", s.String()),
		zap.String("strategy", strategy))
}

// Done reports whether the completion marker exists.
func (b *Bootstrapper) Done(ctx context.Context) (bool, error) {
	return b.Markers.Exists(MarkerName)
}

// ApplyRootConfiguration runs script as the database root user, trying each
// strategy in order until one succeeds. A present completion marker makes
// this a no-op. When every strategy fails the result is an
// *hestia_err.AuthExhaustedError.
func (b *Bootstrapper) ApplyRootConfiguration(ctx context.Context, script string, password *interaction.Secret) error {
	logger := otelzap.Ctx(ctx)

	done, err := b.Done(ctx)
	if err != nil {
		return err
	}
	if done {
		fields := []zap.Field{zap.String("marker", MarkerName)}
		if rec, err := b.Markers.Read(ctx, MarkerName); err == nil {
			fields = append(fields, zap.Time("completed_at", rec.CompletedAt), zap.String("by_run", rec.RunID))
		}
		logger.Info("Database root configuration already applied", fields...)
		b.transition(ctx, StateSucceeded, "")
		return nil
	}
	if len(b.Strategies) == 0 {
		return hestia_err.NewInternalError("no database authentication strategies configured", nil)
	}
	// The script changes the root password; it must not run unless its
	// completion can be recorded.
	if err := b.Markers.CheckWritable(); err != nil {
		return hestia_err.NewFilesystemError("cannot record database root configuration", err,
			"Run hestia as root, or set state_dir (HESTIA_STATE_DIR) to a directory this user can write")
	}

	exhausted := &hestia_err.AuthExhaustedError{}
	for _, s := range b.Strategies {
		b.transition(ctx, StateTrying, s.Name())
		err := b.attempt(ctx, s, script, password)
		if err == nil {
			if err := b.Markers.Write(ctx, marker.Record{Name: MarkerName, RunID: b.RunID, Host: b.Host}); err != nil {
				return err
			}
			b.transition(ctx, StateSucceeded, s.Name())
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		exhausted.Attempts = append(exhausted.Attempts, hestia_err.AttemptError{Strategy: s.Name(), Err: err})
		if errors.Is(err, ErrStrategyNotApplicable) {
			logger.Info("Authentication strategy not applicable", zap.String("strategy", s.Name()))
		} else {
			logger.Warn("Authentication strategy failed", zap.String("strategy", s.Name()), zap.Error(err))
		}
	}

	b.transition(ctx, StateExhausted, "")
	return exhausted
}

func (b *Bootstrapper) attempt(ctx context.Context, s Strategy, script string, password *interaction.Secret) (err error) {
	ctx, span := telemetry.Start(ctx, "mariadb.auth", attribute.String("strategy", s.Name()))
	defer func() {
		span.SetAttributes(attribute.Bool("success", err == nil))
		span.End()
	}()

	if b.Progress != nil {
		b.Progress.Start(s.Name() + " authentication")
		defer func() { b.Progress.Stop(err == nil) }()
	}
	return s.Apply(ctx, b.Runner, script, password)
}
