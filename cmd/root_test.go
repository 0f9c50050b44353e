package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Commands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"install", "check", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
	assert.NotNil(t, RootCmd.RunE, "bare hestia installs")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "dry-run", "log-level"} {
		assert.NotNil(t, RootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
	})

	require.NoError(t, RootCmd.ExecuteContext(context.Background()))
	assert.True(t, strings.HasPrefix(out.String(), shared.AppName+" "+shared.Version))
}
