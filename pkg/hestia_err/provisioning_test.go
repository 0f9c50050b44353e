package hestia_err

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsupportedPlatformError_NamesHost(t *testing.T) {
	t.Parallel()

	err := &UnsupportedPlatformError{Distribution: "ubuntu", Version: "18.04", Reason: "minimum is 20.04"}
	assert.Equal(t, "unsupported platform: ubuntu 18.04: minimum is 20.04", err.Error())

	unknown := &UnsupportedPlatformError{}
	assert.Equal(t, "unsupported platform: unknown distribution unknown version", unknown.Error())
}

func TestStageFailure_Unwrap(t *testing.T) {
	t.Parallel()

	auth := &AuthExhaustedError{Attempts: []AttemptError{
		{Strategy: "socket", Err: errors.New("access denied")},
		{Strategy: "maintenance-file", Err: errors.New("not applicable")},
		{Strategy: "password", Err: errors.New("access denied for root")},
	}}
	err := &StageFailure{Stage: "mariadb-root", ExitCode: 1, Cause: auth}

	var got *AuthExhaustedError
	require.True(t, errors.As(err, &got))
	assert.Len(t, got.Attempts, 3)
	assert.EqualError(t, got.Last(), "access denied for root")
	assert.Contains(t, err.Error(), `stage "mariadb-root" failed with exit code 1`)
	assert.Contains(t, err.Error(), "all 3 database authentication strategies failed")
}

func TestAuthExhaustedError_LastEmpty(t *testing.T) {
	t.Parallel()
	assert.NoError(t, (&AuthExhaustedError{}).Last())
}
