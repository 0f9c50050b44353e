// pkg/frappe/bench.go

package frappe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/execute"
)

// Settings are the host paths and defaults the stages work with.
type Settings struct {
	User            string
	UserHome        string
	BenchDirName    string
	Python          string
	Packages        []string
	NVMInstallURL   string
	NVMDir          string
	MariaDBConfig   string
	MaintenanceFile string
	NginxConfDir    string
	LetsEncryptDir  string
}

// BenchDir is the bench root, e.g. /home/frappe/frappe-bench.
func (s Settings) BenchDir() string {
	return filepath.Join(s.UserHome, s.BenchDirName)
}

func (s Settings) localBin() string {
	return filepath.Join(s.UserHome, ".local", "bin")
}

func (s Settings) nvmScript() string {
	return filepath.Join(s.NVMDir, "nvm.sh")
}

// nvmShell runs script in bash with nvm loaded and pipx's bin dir on PATH.
func (s Settings) nvmShell(script string) execute.Options {
	prelude := fmt.Sprintf("export NVM_DIR=%s; export PATH=%s:\"$PATH\"; . %s; ",
		execute.Quote(s.NVMDir), execute.Quote(s.localBin()), execute.Quote(s.nvmScript()))
	return execute.Options{
		Command: "bash",
		Args:    []string{"-c", prelude + script},
	}
}

// Bench returns options that run `bench args...` with the right node and
// PATH. Arguments are passed positionally, never spliced into the script.
func (s Settings) Bench(dir string, args ...string) execute.Options {
	opts := s.nvmShell(`exec bench "$@"`)
	opts.Args = append(opts.Args, "bench")
	opts.Args = append(opts.Args, args...)
	opts.Dir = dir
	return opts
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func existsCheck(path string) func(context.Context) (bool, error) {
	return func(context.Context) (bool, error) {
		return exists(path)
	}
}

// succeeds is a Done predicate that is true when the command exits 0.
func succeeds(runner execute.Runner, opts execute.Options) func(context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		opts.Quiet = true
		_, err := runner.Run(ctx, opts)
		if err == nil {
			return true, nil
		}
		if _, ok := execute.ExitCode(err); ok {
			return false, nil
		}
		return false, err
	}
}

// PackagesInstalled asks dpkg whether every package is installed.
func PackagesInstalled(ctx context.Context, runner execute.Runner, pkgs []string) (bool, error) {
	if len(pkgs) == 0 {
		return true, nil
	}
	out, err := runner.Run(ctx, execute.Options{
		Command: "dpkg-query",
		Args:    append([]string{"-W", "-f=${db:Status-Abbrev}\\n"}, pkgs...),
		Capture: true,
		Quiet:   true,
	})
	if err != nil {
		if _, ok := execute.ExitCode(err); ok {
			return false, nil
		}
		return false, err
	}
	installed := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "ii") {
			installed++
		}
	}
	return installed == len(pkgs), nil
}
