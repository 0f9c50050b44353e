// pkg/frappe/stages.go

package frappe

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/mariadb"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/stages"
)

// Env carries the collaborators every stage uses.
type Env struct {
	Runner execute.Runner
	// Inspector runs the read-only commands behind Done predicates. It defaults
	// to Runner; a dry run sets it to a real runner so state is still read.
	Inspector execute.Runner
	Bootstrap *mariadb.Bootstrapper
	Settings  Settings
}

// BuildStages returns the install pipeline in execution order. Stages the
// operator declined are present but disabled.
func BuildStages(plan *Plan, env Env) ([]stages.Stage, error) {
	rel, err := Lookup(plan.Branch)
	if err != nil {
		return nil, err
	}
	s := env.Settings
	run := env.Runner
	inspect := env.Inspector
	if inspect == nil {
		inspect = run
	}
	benchDir := s.BenchDir()
	site := plan.Site

	do := func(opts ...execute.Options) func(context.Context) error {
		return func(ctx context.Context) error {
			for _, o := range opts {
				if _, err := run.Run(ctx, o); err != nil {
					return err
				}
			}
			return nil
		}
	}
	aptInstall := func(pkgs ...string) execute.Options {
		return execute.Options{
			Command: "apt-get",
			Args:    append([]string{"install", "-y", "--no-install-recommends"}, pkgs...),
			Env:     []string{"DEBIAN_FRONTEND=noninteractive"},
			Sudo:    true,
		}
	}
	siteHasApp := func(app string) func(context.Context) (bool, error) {
		return func(ctx context.Context) (bool, error) {
			opts := s.Bench(benchDir, "--site", site, "list-apps")
			opts.Capture = true
			opts.Quiet = true
			out, err := inspect.Run(ctx, opts)
			if err != nil {
				if _, ok := execute.ExitCode(err); ok {
					return false, nil
				}
				return false, err
			}
			for _, line := range strings.Split(out, "\n") {
				if fields := strings.Fields(line); len(fields) > 0 && fields[0] == app {
					return true, nil
				}
			}
			return false, nil
		}
	}

	list := []stages.Stage{
		{
			Name:        "system-packages",
			Description: "Install operating system packages",
			Enabled:     true,
			Done: func(ctx context.Context) (bool, error) {
				return PackagesInstalled(ctx, inspect, s.Packages)
			},
			Action: do(
				execute.Options{Command: "apt-get", Args: []string{"update"}, Sudo: true},
				aptInstall(s.Packages...),
			),
		},
		{
			Name:        "mariadb-config",
			Description: "Configure the MariaDB character set",
			Enabled:     true,
			Done: func(context.Context) (bool, error) {
				return mariadb.ServerConfigCurrent(s.MariaDBConfig)
			},
			Action: func(ctx context.Context) error {
				return mariadb.WriteServerConfig(ctx, run, s.MariaDBConfig)
			},
		},
		{
			Name:        "mariadb-service",
			Description: "Start MariaDB",
			Enabled:     true,
			Done: func(ctx context.Context) (bool, error) {
				return mariadb.ServiceActive(ctx, inspect, "mariadb")
			},
			Action: do(execute.Options{Command: "systemctl", Args: []string{"enable", "--now", "mariadb"}, Sudo: true}),
		},
		{
			Name:        "mariadb-root",
			Description: "Secure the MariaDB root account",
			Enabled:     true,
			Done:        env.Bootstrap.Done,
			Action: func(ctx context.Context) error {
				return env.Bootstrap.ApplyRootConfiguration(ctx, mariadb.RootConfigurationSQL(plan.DBRootPassword), plan.DBRootPassword)
			},
		},
		{
			Name:        "nvm",
			Description: "Install the Node version manager",
			Enabled:     true,
			Done:        existsCheck(s.nvmScript()),
			Action: do(execute.Options{
				Command: "bash",
				Args: []string{"-c", fmt.Sprintf("mkdir -p %s && curl -fsSL %s | bash",
					execute.Quote(s.NVMDir), execute.Quote(s.NVMInstallURL))},
				Env: []string{"NVM_DIR=" + s.NVMDir, "PROFILE=/dev/null"},
			}),
		},
		{
			Name:        "node",
			Description: fmt.Sprintf("Install Node.js %s", rel.NodeMajor),
			Enabled:     true,
			Done:        succeeds(inspect, s.nvmShell("nvm which "+rel.NodeMajor)),
			Action:      do(s.nvmShell(fmt.Sprintf("nvm install %[1]s && nvm alias default %[1]s", rel.NodeMajor))),
		},
		{
			Name:        "yarn",
			Description: "Install yarn",
			Enabled:     true,
			Done:        succeeds(inspect, s.nvmShell("command -v yarn")),
			Action:      do(s.nvmShell("npm install -g yarn")),
		},
		{
			Name:        "bench-cli",
			Description: "Install the bench command",
			Enabled:     true,
			Done:        existsCheck(filepath.Join(s.localBin(), "bench")),
			Action:      do(execute.Options{Command: "pipx", Args: []string{"install", "frappe-bench"}}),
		},
		{
			Name:        "bench-init",
			Description: fmt.Sprintf("Initialise %s on %s", benchDir, plan.Branch),
			Enabled:     true,
			Done:        existsCheck(filepath.Join(benchDir, "apps", "frappe")),
			Action: do(s.Bench(s.UserHome, "init",
				"--frappe-branch", plan.Branch,
				"--python", s.Python,
				s.BenchDirName)),
		},
		{
			Name:        "new-site",
			Description: "Create site " + site,
			Enabled:     true,
			Done:        existsCheck(filepath.Join(benchDir, "sites", site, "site_config.json")),
			Action: func(ctx context.Context) error {
				dbPassword := plan.DBRootPassword.Reveal()
				adminPassword := plan.AdminPassword.Reveal()
				opts := s.Bench(benchDir, "new-site", site,
					"--mariadb-root-password", dbPassword,
					"--admin-password", adminPassword)
				opts.Redact = []string{dbPassword, adminPassword}
				_, err := run.Run(ctx, opts)
				return err
			},
		},
		{
			Name:        "erpnext-get",
			Description: "Fetch the ERPNext app",
			Enabled:     plan.InstallERPNext,
			Done:        existsCheck(filepath.Join(benchDir, "apps", "erpnext")),
			Action:      do(s.Bench(benchDir, "get-app", "--branch", plan.Branch, "erpnext")),
		},
		{
			Name:        "erpnext-install",
			Description: "Install ERPNext on " + site,
			Enabled:     plan.InstallERPNext,
			Done:        siteHasApp("erpnext"),
			Action:      do(s.Bench(benchDir, "--site", site, "install-app", "erpnext")),
		},
		{
			Name:        "hrms-get",
			Description: "Fetch the HRMS app",
			Enabled:     plan.InstallERPNext && plan.InstallHRMS,
			Done:        existsCheck(filepath.Join(benchDir, "apps", "hrms")),
			Action:      do(s.Bench(benchDir, "get-app", "--branch", plan.Branch, "hrms")),
		},
		{
			Name:        "hrms-install",
			Description: "Install HRMS on " + site,
			Enabled:     plan.InstallERPNext && plan.InstallHRMS,
			Done:        siteHasApp("hrms"),
			Action:      do(s.Bench(benchDir, "--site", site, "install-app", "hrms")),
		},
		{
			Name:        "production",
			Description: "Configure nginx and supervisor",
			Enabled:     plan.Production,
			Done:        existsCheck(filepath.Join(s.NginxConfDir, s.BenchDirName+".conf")),
			Action: func(ctx context.Context) error {
				if _, err := run.Run(ctx, aptInstall("nginx", "supervisor")); err != nil {
					return err
				}
				opts := s.Bench(benchDir, "setup", "production", s.User, "--yes")
				opts.Sudo = true
				_, err := run.Run(ctx, opts)
				return err
			},
		},
		{
			Name:        "tls",
			Description: "Issue a TLS certificate for " + site,
			Enabled:     plan.Production && plan.TLS,
			Done:        existsCheck(filepath.Join(s.LetsEncryptDir, "live", site, "fullchain.pem")),
			Action: do(
				aptInstall("certbot", "python3-certbot-nginx"),
				execute.Options{
					Command: "certbot",
					Args: []string{"--nginx", "--non-interactive", "--agree-tos",
						"--email", plan.Email, "--domains", site, "--redirect"},
					Sudo: true,
				},
			),
		},
	}
	return list, nil
}
