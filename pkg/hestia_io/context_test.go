package hestia_io

import (
	"context"
	"errors"
	"testing"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	t.Parallel()

	rc := NewContext(context.Background(), "install")
	require.NotNil(t, rc.Log)
	require.NotNil(t, rc.Span)
	assert.Equal(t, "install", rc.Command)
	assert.NotEmpty(t, rc.RunID)
	assert.NotEqual(t, rc.RunID, NewContext(context.Background(), "install").RunID)

	var err error
	rc.End(&err)
}

func TestHandlePanic(t *testing.T) {
	t.Parallel()

	rc := NewContext(context.Background(), "check")
	run := func() (err error) {
		defer rc.HandlePanic(&err)
		panic("unexpected nil stage")
	}

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected nil stage")
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", classifyError(nil))
	assert.Equal(t, "user", classifyError(hestia_err.ErrCancelled))
	assert.Equal(t, "system", classifyError(errors.New("apt-get failed")))
}
