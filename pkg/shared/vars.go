// pkg/shared/vars.go

package shared

// Version is stamped at build time with -ldflags "-X .../pkg/shared.Version=...".
var Version = "dev"
