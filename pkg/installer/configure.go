// pkg/installer/configure.go

package installer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/frappe"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_err"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/interaction"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// DefaultSite is offered when the operator has no site name in mind.
const DefaultSite = "site1.local"

// Configure asks the operator for every choice the run needs. Declining the
// final confirmation, or closing input before it, returns
// hestia_err.ErrCancelled. Secrets collected before any error are cleared.
func Configure(ctx context.Context, p *interaction.Prompter, out io.Writer, defaultBranch string) (plan *frappe.Plan, err error) {
	logger := otelzap.Ctx(ctx)
	plan = &frappe.Plan{}
	defer func() {
		if err != nil {
			plan.Clear()
			plan = nil
		}
		if errors.Is(err, io.EOF) {
			logger.Info("Input closed before the plan was confirmed")
			err = fmt.Errorf("%w: input closed before confirmation", hestia_err.ErrCancelled)
		}
	}()

	if plan.Branch, err = p.PromptSelect(ctx, "Frappe release branch", frappe.Branches(), defaultBranch); err != nil {
		return plan, err
	}
	if plan.Site, err = p.PromptValidated(ctx, "Site name", DefaultSite, interaction.ValidateSiteName); err != nil {
		return plan, err
	}
	if plan.DBRootPassword, err = p.CollectSecret(ctx, "MariaDB root password"); err != nil {
		return plan, err
	}
	if plan.AdminPassword, err = p.CollectSecret(ctx, "Administrator password"); err != nil {
		return plan, err
	}
	if plan.InstallERPNext, err = p.ConfirmStage(ctx, "Install ERPNext?"); err != nil {
		return plan, err
	}
	if plan.InstallERPNext {
		if plan.InstallHRMS, err = p.ConfirmStage(ctx, "Install HRMS?"); err != nil {
			return plan, err
		}
	}
	if plan.Production, err = p.ConfirmStage(ctx, "Set up production (nginx and supervisor)?"); err != nil {
		return plan, err
	}
	if plan.Production {
		if plan.TLS, err = p.ConfirmStage(ctx, fmt.Sprintf("Issue a Let's Encrypt certificate for %s?", plan.Site)); err != nil {
			return plan, err
		}
	}
	if plan.TLS {
		if plan.Email, err = p.PromptValidated(ctx, "E-mail for certificate notices", "", interaction.ValidateEmail); err != nil {
			return plan, err
		}
	}

	plan.PrintSummary(out)
	proceed, err := p.ConfirmStage(ctx, "Proceed with installation?")
	if err != nil {
		return plan, err
	}
	if !proceed {
		logger.Info("Operator declined to proceed")
		return plan, hestia_err.ErrCancelled
	}

	logger.Info("Installation plan confirmed",
		zap.String("branch", plan.Branch),
		zap.String("site", plan.Site),
		zap.Bool("erpnext", plan.InstallERPNext),
		zap.Bool("hrms", plan.InstallHRMS),
		zap.Bool("production", plan.Production),
		zap.Bool("tls", plan.TLS))
	return plan, nil
}
