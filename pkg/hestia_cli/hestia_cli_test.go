package hestia_cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_err"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_io"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_PassesRuntimeContext(t *testing.T) {
	cmd := &cobra.Command{Use: "install"}
	var got *hestia_io.RuntimeContext
	run := Wrap(func(rc *hestia_io.RuntimeContext, _ *cobra.Command, args []string) error {
		got = rc
		assert.Equal(t, []string{"a"}, args)
		return nil
	})

	require.NoError(t, run(cmd, []string{"a"}))
	require.NotNil(t, got)
	assert.Equal(t, "install", got.Command)
	assert.NotEmpty(t, got.RunID)
}

func TestWrap_RecoversPanic(t *testing.T) {
	cmd := &cobra.Command{Use: "install"}
	run := Wrap(func(*hestia_io.RuntimeContext, *cobra.Command, []string) error {
		panic("boom")
	})

	err := run(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestWrap_KeepsErrorChain(t *testing.T) {
	cmd := &cobra.Command{Use: "install"}
	failure := &hestia_err.StageFailure{Stage: "bench-init", ExitCode: 4}
	run := Wrap(func(*hestia_io.RuntimeContext, *cobra.Command, []string) error {
		return failure
	})

	err := run(cmd, nil)
	var got *hestia_err.StageFailure
	require.True(t, errors.As(err, &got))
	assert.Equal(t, 4, hestia_err.GetExitCode(err))
}

func TestWrap_ExpectedErrorUnchanged(t *testing.T) {
	cmd := &cobra.Command{Use: "install"}
	run := Wrap(func(*hestia_io.RuntimeContext, *cobra.Command, []string) error {
		return hestia_err.ErrCancelled
	})

	err := run(cmd, nil)
	assert.Same(t, hestia_err.ErrCancelled, err)
	assert.Equal(t, 0, hestia_err.GetExitCode(err))
}

func TestSignalHandler_CleanupsRunInReverseOrder(t *testing.T) {
	var out bytes.Buffer
	codes := make(chan int, 1)
	h := newSignalHandler(context.Background(), &out, func(code int) { codes <- code })
	h.grace = 10 * time.Millisecond

	var mu sync.Mutex
	var order []string
	for _, name := range []string{"first", "second"} {
		name := name
		h.RegisterCleanup(func() error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		})
	}

	go h.handleSignals()
	h.sigChan <- os.Interrupt

	select {
	case code := <-codes:
		assert.Equal(t, InterruptExitCode, code)
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not exit")
	}
	assert.ErrorIs(t, h.Context().Err(), context.Canceled)
	mu.Lock()
	assert.Equal(t, []string{"second", "first"}, order)
	mu.Unlock()
	assert.True(t, strings.Contains(out.String(), "cleaning up"))
}

func TestSignalHandler_CleanupErrorExitsOne(t *testing.T) {
	codes := make(chan int, 1)
	h := newSignalHandler(context.Background(), &bytes.Buffer{}, func(code int) { codes <- code })
	h.RegisterCleanup(func() error { return errors.New("restore failed") })

	go h.handleSignals()
	h.sigChan <- os.Interrupt

	select {
	case code := <-codes:
		assert.Equal(t, 1, code)
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not exit")
	}
}

func TestSignalHandler_NoExitWhenCommandUnwinds(t *testing.T) {
	h := newSignalHandler(context.Background(), &bytes.Buffer{}, func(int) { t.Error("unexpected exit") })
	h.grace = time.Second
	finished := make(chan struct{})
	go func() {
		h.handleSignals()
		close(finished)
	}()

	h.sigChan <- os.Interrupt
	<-h.Context().Done()
	h.Stop()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after Stop")
	}
}

func TestSignalHandler_StopWithoutSignal(t *testing.T) {
	h := newSignalHandler(context.Background(), &bytes.Buffer{}, func(int) { t.Error("unexpected exit") })
	go h.handleSignals()
	h.Stop()
	assert.ErrorIs(t, h.Context().Err(), context.Canceled)
}
