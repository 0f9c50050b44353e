// pkg/preflight/release_checks.go

package preflight

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_err"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/platform"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/storage/memory"
)

var pythonVersionRe = regexp.MustCompile(`(\d+(?:\.\d+)+)`)

// ParsePythonVersion extracts the version from `python3 --version` output.
func ParsePythonVersion(output string) (string, error) {
	m := pythonVersionRe.FindString(output)
	if m == "" {
		return "", fmt.Errorf("no version found in %q", output)
	}
	return m, nil
}

// PythonCheck requires the interpreter to be at least minVersion.
func PythonCheck(runner execute.Runner, python, minVersion string) Check {
	return Check{
		Name:        "python",
		Description: fmt.Sprintf("%s %s or newer", python, minVersion),
		Required:    true,
		Check: func(ctx context.Context) error {
			out, err := runner.Run(ctx, execute.Options{
				Command: python,
				Args:    []string{"--version"},
				Capture: true,
				Quiet:   true,
			})
			if err != nil {
				return hestia_err.NewDependencyError(python, "bench",
					fmt.Sprintf("Install Python %s or newer", minVersion))
			}
			have, err := ParsePythonVersion(out)
			if err != nil {
				return err
			}
			ok, err := platform.AtLeast(have, minVersion)
			if err != nil {
				return err
			}
			if !ok {
				return hestia_err.NewValidationError(
					fmt.Sprintf("%s is %s, %s or newer is required", python, have, minVersion), nil,
					"Install a newer Python and set bench.python to its path",
					"Or choose an older Frappe branch")
			}
			return nil
		},
	}
}

// ListRemoteBranches returns the branch names advertised by a git remote.
func ListRemoteBranches(ctx context.Context, url string) ([]string, error) {
	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})
	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", url, err)
	}
	var branches []string
	for _, ref := range refs {
		if ref.Name().IsBranch() {
			branches = append(branches, ref.Name().Short())
		}
	}
	return branches, nil
}

// RemoteBranchCheck confirms the branch exists on the framework repository.
func RemoteBranchCheck(url, branch string) Check {
	return Check{
		Name:        "frappe-branch",
		Description: fmt.Sprintf("Branch %s exists on %s", branch, url),
		Timeout:     30 * time.Second,
		Check: func(ctx context.Context) error {
			branches, err := ListRemoteBranches(ctx, url)
			if err != nil {
				return err
			}
			for _, b := range branches {
				if b == branch {
					return nil
				}
			}
			return fmt.Errorf("branch %s not found on %s", branch, url)
		},
	}
}
