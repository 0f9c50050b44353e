/* cmd/root.go */

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/config"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_err"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath        string
	appConfig         *config.Config
	telemetryShutdown telemetry.ShutdownFunc
)

// RootCmd is the base command. Without a subcommand it installs.
var RootCmd = &cobra.Command{
	Use:   shared.AppName,
	Short: "Interactive ERPNext/Frappe host installer",
	Long: `Hestia provisions a Debian or Ubuntu host for the Frappe framework:
system packages, MariaDB, Node.js, the bench CLI, a site, optional ERPNext
and HRMS, and an optional production setup with TLS.

Every answer is collected interactively. Re-running after a failure skips
the stages that already completed.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdownTelemetry(cmd.Context())
	},
	RunE: installCmd.RunE,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", fmt.Sprintf("config file (default %s/%s.yaml)", shared.ConfigDir, shared.ConfigName))
	flags.Bool("dry-run", false, "log every command without executing it")
	flags.String("log-level", "info", "log level: debug, info, warn or error")

	RootCmd.AddCommand(installCmd, checkCmd, versionCmd)
}

// setup loads configuration and starts logging and telemetry for every command.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	appConfig = cfg

	if _, err := logger.Initialize(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		logger.L().Warn("File logging disabled", zap.Error(err))
	}

	shutdown, err := telemetry.Init(shared.AppName, cfg.Telemetry.Enabled, cfg.Telemetry.Path)
	if err != nil {
		logger.L().Warn("Telemetry disabled", zap.Error(err))
		shutdown, _ = telemetry.Init(shared.AppName, false, "")
	}
	telemetryShutdown = shutdown
	return nil
}

func shutdownTelemetry(ctx context.Context) error {
	if telemetryShutdown == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := telemetryShutdown(ctx)
	telemetryShutdown = nil
	return err
}

// Execute runs the root command and exits with the mapped status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()

	code := hestia_err.GetExitCode(err)
	switch {
	case err == nil:
	case hestia_err.IsExpectedUserError(err):
		logger.L().Warn("Hestia finished without changes", zap.Error(err))
		_, _ = fmt.Fprintln(os.Stderr, err)
	default:
		logger.L().Error("Hestia failed", zap.Int("exit_code", code), zap.Error(err))
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	_ = shutdownTelemetry(context.Background())
	if syncErr := logger.Sync(); syncErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to flush logs: %v\n", syncErr)
	}
	os.Exit(code)
}
