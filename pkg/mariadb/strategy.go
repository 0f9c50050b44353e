// pkg/mariadb/strategy.go

package mariadb

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/interaction"
)

// DefaultMaintenanceFile is the Debian maintenance account credential file.
const DefaultMaintenanceFile = "/etc/mysql/debian.cnf"

// ErrStrategyNotApplicable means a strategy cannot be tried on this host.
var ErrStrategyNotApplicable = errors.New("strategy not applicable on this host")

// Strategy is one way of authenticating as the database root user.
// Apply must build its own command and hold no state between calls.
type Strategy interface {
	Name() string
	Apply(ctx context.Context, runner execute.Runner, script string, password *interaction.Secret) error
}

// DefaultStrategies is the fallback order: local socket, maintenance
// credential file, operator password.
func DefaultStrategies(maintenanceFile string) []Strategy {
	return []Strategy{
		SocketStrategy{},
		MaintenanceFileStrategy{Path: maintenanceFile},
		PasswordStrategy{},
	}
}

// SocketStrategy uses unix_socket authentication, which only works while
// root has no password (fresh installs).
type SocketStrategy struct{}

func (SocketStrategy) Name() string { return "socket" }

func (SocketStrategy) Apply(ctx context.Context, runner execute.Runner, script string, password *interaction.Secret) error {
	_, err := runner.Run(ctx, execute.Options{
		Command: "mysql",
		Args:    []string{"--user=root", "--batch"},
		Stdin:   strings.NewReader(script),
		Sudo:    true,
		Quiet:   true,
	})
	return err
}

// MaintenanceFileStrategy authenticates with the maintenance account's
// defaults file.
type MaintenanceFileStrategy struct {
	Path string
}

func (MaintenanceFileStrategy) Name() string { return "maintenance-file" }

func (m MaintenanceFileStrategy) Apply(ctx context.Context, runner execute.Runner, script string, password *interaction.Secret) error {
	path := m.Path
	if path == "" {
		path = DefaultMaintenanceFile
	}
	if _, err := os.Stat(path); err != nil {
		return ErrStrategyNotApplicable
	}
	_, err := runner.Run(ctx, execute.Options{
		Command: "mysql",
		Args:    []string{"--defaults-file=" + path, "--batch"},
		Stdin:   strings.NewReader(script),
		Sudo:    true,
		Quiet:   true,
	})
	return err
}

// PasswordStrategy uses the operator-supplied root password. The password
// travels in MYSQL_PWD of this one child process.
type PasswordStrategy struct{}

func (PasswordStrategy) Name() string { return "password" }

func (PasswordStrategy) Apply(ctx context.Context, runner execute.Runner, script string, password *interaction.Secret) error {
	if password.IsEmpty() {
		return ErrStrategyNotApplicable
	}
	pw := password.Reveal()
	_, err := runner.Run(ctx, execute.Options{
		Command: "mysql",
		Args:    []string{"--user=root", "--host=localhost", "--batch"},
		Env:     []string{"MYSQL_PWD=" + pw},
		Stdin:   strings.NewReader(script),
		Quiet:   true,
		Redact:  []string{pw},
	})
	return err
}
