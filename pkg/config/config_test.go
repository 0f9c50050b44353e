package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_err"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "hestia.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_DefaultsValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"), nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/var/lib/hestia", cfg.StateDir)
	assert.Equal(t, "frappe-bench", cfg.Bench.DirName)
	assert.Equal(t, "version-15", cfg.Bench.DefaultBranch)
	assert.Equal(t, 10, cfg.Preflight.MinFreeDiskGB)
	assert.Contains(t, cfg.Packages, "mariadb-server")
	assert.Equal(t, filepath.Join(cfg.Bench.UserHome, ".nvm"), cfg.NVM.Dir)
	assert.False(t, cfg.DryRun)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	p := writeConfig(t, `
log_level: debug
state_dir: /tmp/hestia-state
command_timeout: 45m
bench:
  user: frappe
  user_home: /home/frappe
  python: python3.11
packages: [git, curl]
preflight:
  min_free_disk_gb: 20
  check_remote_branch: true
`)
	cfg, err := Load(p, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/hestia-state", cfg.StateDir)
	assert.Equal(t, 45*time.Minute, cfg.CommandTimeout)
	assert.Equal(t, "frappe", cfg.Bench.User)
	assert.Equal(t, "/home/frappe/.nvm", cfg.NVM.Dir)
	assert.Equal(t, []string{"git", "curl"}, cfg.Packages)
	assert.Equal(t, 20, cfg.Preflight.MinFreeDiskGB)
	assert.True(t, cfg.Preflight.CheckRemoteBranch)

	s := cfg.FrappeSettings()
	assert.Equal(t, "/home/frappe/frappe-bench", s.BenchDir())
	assert.Equal(t, "python3.11", s.Python)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HESTIA_LOG_LEVEL", "warn")
	t.Setenv("HESTIA_BENCH_DIR_NAME", "erp-bench")

	cfg, err := Load(writeConfig(t, "log_level: debug\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "erp-bench", cfg.Bench.DirName)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	t.Setenv("HESTIA_LOG_LEVEL", "warn")
	flags := pflag.NewFlagSet("hestia", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.Bool("dry-run", false, "")
	require.NoError(t, flags.Parse([]string{"--log-level=error", "--dry-run"}))

	cfg, err := Load(writeConfig(t, "log_level: debug\n"), flags)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.True(t, cfg.DryRun)
}

func TestLoad_InvalidValuesAreValidationErrors(t *testing.T) {
	p := writeConfig(t, `
log_level: loud
bench:
  dir_name: a/b
packages: []
`)
	_, err := Load(p, nil)
	require.Error(t, err)

	var classified *hestia_err.ClassifiedError
	require.True(t, errors.As(err, &classified))
	assert.Equal(t, hestia_err.CategoryValidation, classified.Category)
	assert.Equal(t, 2, hestia_err.GetExitCode(err))
	assert.Contains(t, err.Error(), "LogLevel")
	assert.Contains(t, err.Error(), "DirName")
	assert.Contains(t, err.Error(), "Packages")
}

func TestLoad_RejectsInvalidBenchUser(t *testing.T) {
	p := writeConfig(t, `
bench:
  user: "Frappe Admin"
`)
	_, err := Load(p, nil)
	require.Error(t, err)
	assert.Equal(t, 2, hestia_err.GetExitCode(err))
	assert.Contains(t, err.Error(), "Bench.User")
	assert.Contains(t, err.Error(), "invalid username")
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Equal(t, 2, hestia_err.GetExitCode(err))
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, "log_level: [unclosed\n"), nil)
	require.Error(t, err)
}
