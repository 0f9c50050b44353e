// pkg/shared/constants.go

package shared

const (
	AppName       = "hestia"
	EnvPrefix     = "HESTIA"
	ConfigDir     = "/etc/hestia"
	ConfigName    = "hestia"
	StateDir      = "/var/lib/hestia"
	LogDir        = "/var/log/hestia/"
	LogFile       = LogDir + "hestia.log"
	TelemetryFile = LogDir + "telemetry.jsonl"
)

const (
	// Permission modes (in octal)
	DirPermStandard        = 0755
	RuntimeDirPerms        = 0750
	FilePermOwnerRWX       = 0700
	FilePermStandard       = 0644
	FilePermOwnerReadWrite = 0600
)

// Subdirectories of the state directory.
const (
	MarkersSubdir = "markers"
	RunsSubdir    = "runs"
)
