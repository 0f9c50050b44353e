// pkg/platform/matrix.go

package platform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_err"
)

// SupportedPlatform is a distribution and the lowest version accepted for it.
type SupportedPlatform struct {
	Distribution string `mapstructure:"distribution" yaml:"distribution" validate:"required"`
	MinVersion   string `mapstructure:"min_version" yaml:"min_version" validate:"required"`
}

// Matrix is the set of supported platforms, keyed by distribution ID.
type Matrix map[string]SupportedPlatform

// DefaultMatrix lists the hosts the installer supports.
func DefaultMatrix() Matrix {
	return NewMatrix(
		SupportedPlatform{Distribution: "ubuntu", MinVersion: "20.04"},
		SupportedPlatform{Distribution: "debian", MinVersion: "10"},
	)
}

// NewMatrix builds a matrix; distribution names are case-insensitive.
func NewMatrix(platforms ...SupportedPlatform) Matrix {
	m := make(Matrix, len(platforms))
	for _, p := range platforms {
		p.Distribution = strings.ToLower(p.Distribution)
		m[p.Distribution] = p
	}
	return m
}

// Distributions returns the supported distribution IDs, sorted.
func (m Matrix) Distributions() []string {
	out := make([]string, 0, len(m))
	for d := range m {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// CheckPlatform accepts a host when its distribution is in the matrix and
// its version is at or above the minimum. Empty or unparseable input is
// unsupported.
func CheckPlatform(m Matrix, name, ver string) error {
	p, ok := m[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return &hestia_err.UnsupportedPlatformError{
			Distribution: name,
			Version:      ver,
			Reason:       fmt.Sprintf("supported distributions are %s", strings.Join(m.Distributions(), ", ")),
		}
	}

	ok, err := AtLeast(strings.TrimSpace(ver), p.MinVersion)
	if err != nil {
		return &hestia_err.UnsupportedPlatformError{
			Distribution: name,
			Version:      ver,
			Reason:       "could not determine the distribution version",
		}
	}
	if !ok {
		return &hestia_err.UnsupportedPlatformError{
			Distribution: name,
			Version:      ver,
			Reason:       fmt.Sprintf("%s %s or newer is required", p.Distribution, p.MinVersion),
		}
	}
	return nil
}
