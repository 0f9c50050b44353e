// cmd/install.go

package cmd

import (
	"os"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_cli"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_io"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/installer"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/interaction"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Provision this host for Frappe, interactively",
	Long: `Runs the preflight checks, asks for the release branch, site name,
passwords and optional components, then installs everything in order.

Secrets are only ever read from the terminal.`,
	Args: cobra.NoArgs,
	RunE: hestia_cli.Wrap(runInstall),
}

func runInstall(rc *hestia_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	cfg := appConfig

	prompter := interaction.NewTerminalPrompter()
	if !prompter.IsTerminal() {
		rc.Log.Warn("Standard input is not a terminal; passwords will be read without hiding them")
	}

	signals := hestia_cli.NewSignalHandler(rc.Ctx)
	defer signals.Stop()
	if restore, err := prompter.SaveTerminal(); err != nil {
		rc.Log.Warn("Could not save terminal state", zap.Error(err))
	} else {
		signals.RegisterCleanup(restore)
	}

	rc.Attributes["dry_run"] = boolString(cfg.DryRun)
	in := &installer.Installer{
		Config:    cfg,
		Prompter:  prompter,
		Runner:    execute.NewLocal(cfg.DryRun, cfg.CommandTimeout),
		Inspector: execute.NewLocal(false, cfg.CommandTimeout),
		Progress:  ui.NewStepSpinner("mariadb"),
		Out:       os.Stderr,
		RunID:     rc.RunID,
		IsRoot:    unix.Geteuid() == 0,
	}
	return in.Run(signals.Context())
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
