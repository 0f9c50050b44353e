package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zap.DebugLevel,
		"DEBUG":   zap.DebugLevel,
		" warn ":  zap.WarnLevel,
		"warning": zap.WarnLevel,
		"error":   zap.ErrorLevel,
		"info":    zap.InfoLevel,
		"":        zap.InfoLevel,
		"loud":    zap.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), "input %q", in)
	}
}

func TestInitialize_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "hestia.log")

	l, err := Initialize(Options{Level: "info", File: path})
	require.NoError(t, err)
	require.NotNil(t, l)

	L().Info("stage completed", zap.String("stage", "bench-init"))
	_ = Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"stage completed"`)
	assert.Contains(t, string(data), `"stage":"bench-init"`)
}

func TestInitialize_UnwritableFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	// a path beneath a regular file can never be created
	l, err := Initialize(Options{Level: "debug", File: filepath.Join(blocker, "hestia.log")})
	assert.Error(t, err)
	require.NotNil(t, l)
	assert.Same(t, l, L())
}
