// pkg/platform/host.go

package platform

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Host describes the machine being provisioned.
type Host struct {
	Distribution string `yaml:"distribution"`
	Version      string `yaml:"version"`
	Codename     string `yaml:"codename,omitempty"`
	PrettyName   string `yaml:"pretty_name,omitempty"`
	DebianBased  bool   `yaml:"debian_based"`
	Arch         string `yaml:"arch,omitempty"`
	Kernel       string `yaml:"kernel,omitempty"`
}

// DetectHost inspects the running system. A missing os-release file is
// not an error: the host is returned with empty distribution fields and
// the platform check reports it as unsupported.
func DetectHost(ctx context.Context, osReleasePaths ...string) *Host {
	logger := otelzap.Ctx(ctx)
	h := &Host{}

	if rel, err := ReadOSRelease(osReleasePaths...); err != nil {
		logger.Warn("Could not read os-release", zap.Error(err))
	} else {
		h.Distribution = rel.ID
		h.Version = rel.VersionID
		h.Codename = rel.VersionCodename
		h.PrettyName = rel.PrettyName
		h.DebianBased = rel.IsDebianBased()
	}

	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		h.Arch = unix.ByteSliceToString(uts.Machine[:])
		h.Kernel = unix.ByteSliceToString(uts.Release[:])
	}

	logger.Info("Host detected",
		zap.String("distribution", h.Distribution),
		zap.String("version", h.Version),
		zap.String("codename", h.Codename),
		zap.String("arch", h.Arch))
	return h
}

// String is the operator-facing name, e.g. "ubuntu 22.04".
func (h *Host) String() string {
	if h.PrettyName != "" {
		return h.PrettyName
	}
	return h.Distribution + " " + h.Version
}
