// cmd/version.go

package cmd

import (
	"fmt"
	"runtime"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/shared"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the hestia version",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s/%s, %s)\n",
			shared.AppName, shared.Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}
