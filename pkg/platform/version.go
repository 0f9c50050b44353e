// pkg/platform/version.go

package platform

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

// CompareVersions compares dotted versions component by component as
// numbers, so "9.10" sorts after "9.9". It returns -1, 0 or 1.
func CompareVersions(a, b string) (int, error) {
	va, err := version.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", a, err)
	}
	vb, err := version.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", b, err)
	}
	return va.Compare(vb), nil
}

// AtLeast reports whether have >= min.
func AtLeast(have, min string) (bool, error) {
	c, err := CompareVersions(have, min)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}
