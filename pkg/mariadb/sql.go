// pkg/mariadb/sql.go

package mariadb

import (
	"context"
	"fmt"
	"strings"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/interaction"
)

// EscapeString escapes a value for a single-quoted SQL literal.
func EscapeString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\x00", `\0`, "\n", `\n`, "\r", `\r`, "\x1a", `\Z`)
	return r.Replace(s)
}

// RootConfigurationSQL sets the root password and removes the insecure
// defaults left by a fresh install.
func RootConfigurationSQL(password *interaction.Secret) string {
	pw := EscapeString(password.Reveal())
	var b strings.Builder
	fmt.Fprintf(&b, "ALTER USER 'root'@'localhost' IDENTIFIED BY '%s';\n", pw)
	b.WriteString("DROP USER IF EXISTS ''@'localhost';\n")
	b.WriteString("DROP USER IF EXISTS ''@'%';\n")
	b.WriteString("DROP USER IF EXISTS 'root'@'%';\n")
	b.WriteString("DROP DATABASE IF EXISTS test;\n")
	b.WriteString("DELETE FROM mysql.db WHERE Db='test' OR Db='test\\\\_%';\n")
	b.WriteString("FLUSH PRIVILEGES;\n")
	return b.String()
}

// ServiceActive reports whether systemd considers the unit running.
func ServiceActive(ctx context.Context, runner execute.Runner, unit string) (bool, error) {
	_, err := runner.Run(ctx, execute.Options{
		Command: "systemctl",
		Args:    []string{"is-active", "--quiet", unit},
		Quiet:   true,
	})
	if err == nil {
		return true, nil
	}
	if _, ok := execute.ExitCode(err); ok {
		return false, nil
	}
	return false, err
}
