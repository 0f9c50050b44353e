// cmd/check.go

package cmd

import (
	"fmt"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_cli"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_io"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/installer"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/ui"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the preflight checks without changing the host",
	Long: `Checks the distribution and version, privileges, required tools, free
disk space and the Python version needed by the default release branch.`,
	Args: cobra.NoArgs,
	RunE: hestia_cli.Wrap(runCheck),
}

func runCheck(rc *hestia_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	in := &installer.Installer{
		Config: appConfig,
		Runner: execute.NewLocal(false, appConfig.CommandTimeout),
		IsRoot: unix.Geteuid() == 0,
	}

	results, err := in.Check(rc.Ctx)
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, ui.Title.Render("Preflight checks for "+appConfig.Bench.DefaultBranch))
	installer.PrintCheckResults(out, results)
	return err
}
