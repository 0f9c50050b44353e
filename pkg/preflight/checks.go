// Package preflight runs read-only host checks before any prompt or
// host mutation.
package preflight

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// DefaultCheckTimeout bounds each check.
const DefaultCheckTimeout = 10 * time.Second

// Check represents a single preflight check
type Check struct {
	Name        string
	Description string
	Check       func(context.Context) error
	Required    bool
	Timeout     time.Duration
}

// CheckResult contains the result of running preflight checks
type CheckResult struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	Passed      bool   `yaml:"passed"`
	Error       error  `yaml:"-"`
	Warning     string `yaml:"warning,omitempty"`
}

// RunChecks executes every check and returns all results. The error
// aggregates each required failure; optional failures become warnings.
func RunChecks(ctx context.Context, checks []Check) ([]CheckResult, error) {
	logger := otelzap.Ctx(ctx)
	logger.Info("Running preflight checks", zap.Int("total_checks", len(checks)))

	results := make([]CheckResult, 0, len(checks))
	var failures *multierror.Error

	for _, check := range checks {
		result := CheckResult{
			Name:        check.Name,
			Description: check.Description,
			Required:    check.Required,
		}

		timeout := check.Timeout
		if timeout <= 0 {
			timeout = DefaultCheckTimeout
		}
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		err := check.Check(checkCtx)
		cancel()

		switch {
		case err == nil:
			result.Passed = true
			logger.Info("Check passed", zap.String("check", check.Name))
		case check.Required:
			result.Error = err
			failures = multierror.Append(failures, err)
			logger.Error("Check failed (required)", zap.String("check", check.Name), zap.Error(err))
		default:
			result.Error = err
			result.Warning = err.Error()
			logger.Warn("Check failed (optional)", zap.String("check", check.Name), zap.Error(err))
		}

		results = append(results, result)
	}

	if err := failures.ErrorOrNil(); err != nil {
		return results, err
	}
	logger.Info("All required checks passed")
	return results, nil
}
