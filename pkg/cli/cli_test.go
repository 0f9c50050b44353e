package cli

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyForFlag(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "dry_run", KeyForFlag("dry-run"))
	assert.Equal(t, "config", KeyForFlag("config"))
}

func TestBindFlagsToViper_OnlyChangedFlagsOverride(t *testing.T) {
	t.Parallel()
	v := viper.New()
	v.SetDefault("log_level", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.Bool("dry-run", false, "")
	require.NoError(t, BindFlagsToViper(flags, v))

	assert.Equal(t, "warn", v.GetString("log_level"), "unset flag keeps the configured value")

	require.NoError(t, flags.Parse([]string{"--log-level=debug", "--dry-run"}))
	assert.Equal(t, "debug", v.GetString("log_level"))
	assert.True(t, v.GetBool("dry_run"))
}

func TestSetViperEnvPrefix(t *testing.T) {
	t.Setenv("HESTIATEST_BENCH_USER_HOME", "/srv/frappe")
	v := viper.New()
	v.SetDefault("bench.user_home", "/home/frappe")
	SetViperEnvPrefix(v, "HESTIATEST")

	assert.Equal(t, "/srv/frappe", v.GetString("bench.user_home"))
}
