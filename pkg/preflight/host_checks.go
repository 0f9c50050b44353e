// pkg/preflight/host_checks.go

package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_err"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_io"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/platform"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/shared"
	"golang.org/x/sys/unix"
)

// LookPath is replaced in tests.
var LookPath = exec.LookPath

// PlatformCheck validates the detected host against a supported matrix.
func PlatformCheck(name string, host *platform.Host, m platform.Matrix) Check {
	return Check{
		Name:        name,
		Description: fmt.Sprintf("Distribution is one of %s at a supported version", strings.Join(m.Distributions(), ", ")),
		Required:    true,
		Check: func(context.Context) error {
			return platform.CheckPlatform(m, host.Distribution, host.Version)
		},
	}
}

// PrivilegeCheck requires root or a sudo binary.
func PrivilegeCheck(isRoot bool) Check {
	return Check{
		Name:        "privileges",
		Description: "Running as root or sudo is available",
		Required:    true,
		Check: func(context.Context) error {
			if isRoot {
				return nil
			}
			if _, err := LookPath("sudo"); err != nil {
				return hestia_err.NewPermissionError("the host", "provision",
					"Run hestia as root", "Or install sudo and grant this user sudo rights")
			}
			return nil
		},
	}
}

// BenchUserCheck warns when bench would run as root.
func BenchUserCheck(isRoot bool) Check {
	return Check{
		Name:        "bench-user",
		Description: "Bench runs as an unprivileged user",
		Check: func(context.Context) error {
			if isRoot {
				return errors.New("running as root: bench directories will be owned by root; prefer a dedicated user with sudo rights")
			}
			return nil
		},
	}
}

// CommandsCheck requires each named binary on PATH.
func CommandsCheck(names ...string) Check {
	return Check{
		Name:        "commands",
		Description: "Required tools are installed: " + strings.Join(names, ", "),
		Required:    true,
		Check: func(context.Context) error {
			var missing []string
			for _, n := range names {
				if _, err := LookPath(n); err != nil {
					missing = append(missing, n)
				}
			}
			if len(missing) > 0 {
				return hestia_err.NewDependencyError(strings.Join(missing, ", "), "provisioning",
					"Install the missing tools with apt-get and re-run hestia")
			}
			return nil
		},
	}
}

// StateDirCheck requires that markers and run reports can be written under
// stateDir. Commands run through sudo but these files are written by this
// process, so a non-root user needs a state_dir it owns.
func StateDirCheck(stateDir string, required bool) Check {
	return Check{
		Name:        "state-dir",
		Description: fmt.Sprintf("State directory %s is writable", stateDir),
		Required:    required,
		Check: func(context.Context) error {
			for _, sub := range []string{shared.MarkersSubdir, shared.RunsSubdir} {
				if err := hestia_io.EnsureWritableDir(filepath.Join(stateDir, sub)); err != nil {
					return hestia_err.NewFilesystemError("state directory is not writable", err,
						"Run hestia as root",
						fmt.Sprintf("Or create it for this user: sudo install -d -o \"$USER\" %s", stateDir),
						"Or set state_dir (HESTIA_STATE_DIR) to a directory this user can write")
				}
			}
			return nil
		},
	}
}

// DiskSpaceCheck verifies minimum free space on the filesystem holding path.
// A path that does not exist yet is measured at its nearest existing parent.
func DiskSpaceCheck(path string, minGB int) Check {
	return Check{
		Name:        "disk-space",
		Description: fmt.Sprintf("At least %dGB free at %s", minGB, path),
		Required:    true,
		Check: func(context.Context) error {
			availableGB, err := FreeGB(path)
			if err != nil {
				return hestia_err.NewFilesystemError("failed to check disk space", err)
			}
			if availableGB < uint64(minGB) {
				return hestia_err.NewFilesystemError(
					fmt.Sprintf("insufficient disk space: %dGB available, %dGB required", availableGB, minGB),
					nil,
					"Check usage: df -h",
					"Free space or lower preflight.min_free_disk_gb")
			}
			return nil
		},
	}
}

// FreeGB reports the space available to unprivileged users, in whole GiB.
func FreeGB(path string) (uint64, error) {
	p := existingParent(path)
	var stat unix.Statfs_t
	if err := unix.Statfs(p, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", p, err)
	}
	return (stat.Bavail * uint64(stat.Bsize)) / (1024 * 1024 * 1024), nil
}

func existingParent(path string) string {
	p := filepath.Clean(path)
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}
