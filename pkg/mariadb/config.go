// pkg/mariadb/config.go

package mariadb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/shared"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// DefaultServerConfigPath is where the character set fragment is installed.
const DefaultServerConfigPath = "/etc/mysql/mariadb.conf.d/99-frappe.cnf"

// ServerConfig is the fragment the framework requires.
const ServerConfig = `[mysqld]
character-set-client-handshake = FALSE
character-set-server = utf8mb4
collation-server = utf8mb4_unicode_ci

[mysql]
default-character-set = utf8mb4
`

// ServerConfigCurrent reports whether path already holds ServerConfig.
func ServerConfigCurrent(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return bytes.Equal(data, []byte(ServerConfig)), nil
}

// WriteServerConfig installs the fragment through runner so the write can
// use sudo, then restarts the server.
func WriteServerConfig(ctx context.Context, runner execute.Runner, path string) error {
	current, err := ServerConfigCurrent(path)
	if err != nil {
		return err
	}
	if current {
		otelzap.Ctx(ctx).Info("MariaDB server config already in place", zap.String("path", path))
		return nil
	}

	if _, err := runner.Run(ctx, execute.Options{
		Command: "install",
		Args:    []string{"-d", "-m", fmt.Sprintf("%o", shared.DirPermStandard), filepath.Dir(path)},
		Sudo:    true,
	}); err != nil {
		return err
	}
	if _, err := runner.Run(ctx, execute.Options{
		Command: "tee",
		Args:    []string{path},
		Stdin:   strings.NewReader(ServerConfig),
		Sudo:    true,
		Quiet:   true,
	}); err != nil {
		return err
	}
	_, err = runner.Run(ctx, execute.Options{
		Command: "systemctl",
		Args:    []string{"restart", "mariadb"},
		Sudo:    true,
	})
	return err
}
