// pkg/installer/installer.go

package installer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/config"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/frappe"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/interaction"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/mariadb"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/marker"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/platform"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/preflight"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/stages"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/ui"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// RequiredCommands must be on PATH before anything is installed.
var RequiredCommands = []string{"apt-get", "dpkg-query", "systemctl", "bash"}

// Installer wires configuration, prompts and runners into one run.
type Installer struct {
	Config   *config.Config
	Prompter *interaction.Prompter
	// Runner executes stage actions; Inspector runs read-only commands and is
	// never a dry-run runner.
	Runner    execute.Runner
	Inspector execute.Runner
	Progress  mariadb.Progress
	Out       io.Writer
	RunID     string
	IsRoot    bool
	// OSReleasePaths overrides where the host is detected from.
	OSReleasePaths []string
}

func (in *Installer) out() io.Writer {
	if in.Out == nil {
		return io.Discard
	}
	return in.Out
}

func (in *Installer) inspector() execute.Runner {
	if in.Inspector != nil {
		return in.Inspector
	}
	return in.Runner
}

// BaseChecks run before any prompt.
func (in *Installer) BaseChecks(host *platform.Host) []preflight.Check {
	cfg := in.Config
	return []preflight.Check{
		preflight.PlatformCheck("platform", host, platform.DefaultMatrix()),
		preflight.PrivilegeCheck(in.IsRoot),
		preflight.BenchUserCheck(in.IsRoot),
		preflight.CommandsCheck(RequiredCommands...),
		preflight.StateDirCheck(cfg.StateDir, !cfg.DryRun),
		preflight.DiskSpaceCheck(cfg.Bench.UserHome, cfg.Preflight.MinFreeDiskGB),
	}
}

// ReleaseChecks run once the branch is known.
func (in *Installer) ReleaseChecks(host *platform.Host, rel frappe.Release) []preflight.Check {
	cfg := in.Config
	checks := []preflight.Check{
		preflight.PlatformCheck("release-platform", host, rel.Platforms),
		preflight.PythonCheck(in.inspector(), cfg.Bench.Python, rel.MinPython),
	}
	if cfg.Preflight.CheckRemoteBranch {
		checks = append(checks, preflight.RemoteBranchCheck(cfg.Preflight.FrappeRepo, rel.Branch))
	}
	return checks
}

// Check runs every preflight check for the configured default branch
// without prompting or changing the host.
func (in *Installer) Check(ctx context.Context) ([]preflight.CheckResult, error) {
	host := platform.DetectHost(ctx, in.OSReleasePaths...)
	rel, err := frappe.Lookup(in.Config.Bench.DefaultBranch)
	if err != nil {
		return nil, err
	}
	checks := append(in.BaseChecks(host), in.ReleaseChecks(host, rel)...)
	return preflight.RunChecks(ctx, checks)
}

// Run performs a full interactive install.
func (in *Installer) Run(ctx context.Context) error {
	logger := otelzap.Ctx(ctx)
	cfg := in.Config

	host := platform.DetectHost(ctx, in.OSReleasePaths...)
	if results, err := preflight.RunChecks(ctx, in.BaseChecks(host)); err != nil {
		PrintCheckResults(in.out(), results)
		return err
	}

	plan, err := Configure(ctx, in.Prompter, in.out(), cfg.Bench.DefaultBranch)
	if err != nil {
		return err
	}
	defer plan.Clear()

	rel, err := frappe.Lookup(plan.Branch)
	if err != nil {
		return err
	}
	if results, err := preflight.RunChecks(ctx, in.ReleaseChecks(host, rel)); err != nil {
		PrintCheckResults(in.out(), results)
		return err
	}

	markers, cleanup, err := in.markerStore()
	if err != nil {
		return err
	}
	defer cleanup()
	env := frappe.Env{
		Runner:    in.Runner,
		Inspector: in.inspector(),
		Settings:  cfg.FrappeSettings(),
		Bootstrap: &mariadb.Bootstrapper{
			Runner:     in.Runner,
			Markers:    markers,
			Strategies: mariadb.DefaultStrategies(cfg.MariaDB.MaintenanceFile),
			Progress:   in.Progress,
			RunID:      in.RunID,
			Host:       host.String(),
		},
	}
	list, err := frappe.BuildStages(plan, env)
	if err != nil {
		return err
	}

	report, runErr := (&stages.Runner{Out: in.out()}).Run(ctx, list)
	report.RunID = in.RunID
	report.Host = host
	report.Branch = plan.Branch
	report.Site = plan.Site
	report.DryRun = cfg.DryRun

	if path, err := stages.WriteReport(ctx, cfg.StateDir, report); err != nil {
		logger.Warn("Could not write run report", zap.Error(err))
	} else {
		logger.Info("Run report written", zap.String("path", path))
	}
	stages.PrintSummary(in.out(), report)
	if runErr == nil {
		printNextSteps(in.out(), report, plan, env.Settings)
	}
	return runErr
}

// printNextSteps tells the operator how to reach the site once it exists.
func printNextSteps(w io.Writer, report *stages.Report, plan *frappe.Plan, s frappe.Settings) {
	site, ok := report.Result("new-site")
	if !ok || (site.Status != stages.StatusSuccess && site.Status != stages.StatusSkipped) {
		return
	}
	_, _ = fmt.Fprintf(w, "\nSite %s is ready.\n", plan.Site)
	if prod, ok := report.Result("production"); ok && prod.Status != stages.StatusDisabled {
		scheme := "http"
		if plan.TLS {
			scheme = "https"
		}
		_, _ = fmt.Fprintf(w, "  Open %s://%s and log in as Administrator.\n", scheme, plan.Site)
		return
	}
	_, _ = fmt.Fprintf(w, "  Start it with: cd %s && bench start\n", s.BenchDir())
	_, _ = fmt.Fprintf(w, "  Then open http://%s:8000 and log in as Administrator.\n", plan.Site)
}

// markerStore keeps dry-run markers out of the real state directory so a
// rehearsal never marks work as done.
func (in *Installer) markerStore() (*marker.Store, func(), error) {
	if !in.Config.DryRun {
		return marker.New(in.Config.StateDir), func() {}, nil
	}
	dir, err := os.MkdirTemp("", "hestia-dry-run-")
	if err != nil {
		return nil, nil, fmt.Errorf("creating dry-run state dir: %w", err)
	}
	return marker.New(dir), func() { _ = os.RemoveAll(dir) }, nil
}

// PrintCheckResults writes one line per check.
func PrintCheckResults(w io.Writer, results []preflight.CheckResult) {
	for _, r := range results {
		switch {
		case r.Passed:
			ui.ResultLine(w, ui.OutcomeOK, r.Name, r.Description)
		case r.Required:
			ui.ResultLine(w, ui.OutcomeFailed, r.Name, r.Error.Error())
		default:
			ui.ResultLine(w, ui.OutcomeWarning, r.Name, r.Warning)
		}
	}
}
