// pkg/platform/osrelease.go

package platform

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// OSReleasePaths are tried in order, matching os-release(5).
var OSReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// OSRelease represents parsed os-release information
type OSRelease struct {
	ID              string
	IDLike          string
	Name            string
	VersionID       string
	VersionCodename string
	PrettyName      string
}

// ParseOSRelease reads KEY=value pairs in os-release format.
func ParseOSRelease(r io.Reader) (*OSRelease, error) {
	env, err := godotenv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing os-release: %w", err)
	}
	rel := &OSRelease{
		ID:              strings.ToLower(env["ID"]),
		IDLike:          strings.ToLower(env["ID_LIKE"]),
		Name:            env["NAME"],
		VersionID:       env["VERSION_ID"],
		VersionCodename: env["VERSION_CODENAME"],
		PrettyName:      env["PRETTY_NAME"],
	}
	if rel.VersionCodename == "" {
		rel.VersionCodename = env["UBUNTU_CODENAME"]
	}
	return rel, nil
}

// ReadOSRelease loads the first os-release file found.
func ReadOSRelease(paths ...string) (*OSRelease, error) {
	if len(paths) == 0 {
		paths = OSReleasePaths
	}
	var lastErr error
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			lastErr = err
			continue
		}
		rel, err := ParseOSRelease(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		return rel, nil
	}
	return nil, fmt.Errorf("no os-release file found: %w", lastErr)
}

// IsDebianBased reports whether the distribution is Debian or a derivative.
func (r *OSRelease) IsDebianBased() bool {
	return r.ID == "debian" || r.ID == "ubuntu" || strings.Contains(r.IDLike, "debian")
}
