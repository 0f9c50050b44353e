// pkg/frappe/release.go

package frappe

import (
	"fmt"
	"strings"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/platform"
)

// Release holds the toolchain and host requirements of one framework branch.
type Release struct {
	Branch    string
	NodeMajor string
	MinPython string
	Platforms platform.Matrix
}

var releases = []Release{
	{
		Branch:    "version-13",
		NodeMajor: "14",
		MinPython: "3.8",
		Platforms: platform.NewMatrix(
			platform.SupportedPlatform{Distribution: "ubuntu", MinVersion: "20.04"},
			platform.SupportedPlatform{Distribution: "debian", MinVersion: "10"},
		),
	},
	{
		Branch:    "version-14",
		NodeMajor: "16",
		MinPython: "3.10",
		Platforms: platform.NewMatrix(
			platform.SupportedPlatform{Distribution: "ubuntu", MinVersion: "22.04"},
			platform.SupportedPlatform{Distribution: "debian", MinVersion: "11"},
		),
	},
	{
		Branch:    "version-15",
		NodeMajor: "18",
		MinPython: "3.10",
		Platforms: platform.NewMatrix(
			platform.SupportedPlatform{Distribution: "ubuntu", MinVersion: "22.04"},
			platform.SupportedPlatform{Distribution: "debian", MinVersion: "12"},
		),
	},
	{
		Branch:    "develop",
		NodeMajor: "20",
		MinPython: "3.11",
		Platforms: platform.NewMatrix(
			platform.SupportedPlatform{Distribution: "ubuntu", MinVersion: "22.04"},
			platform.SupportedPlatform{Distribution: "debian", MinVersion: "12"},
		),
	},
}

// DefaultBranch is offered first when the operator picks a release.
const DefaultBranch = "version-15"

// Branches lists the known branches, oldest first.
func Branches() []string {
	out := make([]string, 0, len(releases))
	for _, r := range releases {
		out = append(out, r.Branch)
	}
	return out
}

// Lookup returns the requirements for branch.
func Lookup(branch string) (Release, error) {
	for _, r := range releases {
		if r.Branch == branch {
			return r, nil
		}
	}
	return Release{}, fmt.Errorf("unknown branch %q (known: %s)", branch, strings.Join(Branches(), ", "))
}
