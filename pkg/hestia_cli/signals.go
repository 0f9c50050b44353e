// pkg/hestia_cli/signals.go
//
// Signal handling for interactive runs.

package hestia_cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// InterruptExitCode is the conventional status after SIGINT.
const InterruptExitCode = 130

// CleanupTimeout bounds the cleanup functions run after a signal and is the
// default grace period for the command to unwind.
const CleanupTimeout = 5 * time.Second

// CleanupFunc performs one cleanup step.
type CleanupFunc func() error

// SignalHandler cancels its context on SIGINT or SIGTERM and runs the
// registered cleanups. If the command has not returned within the grace
// period it exits with status 130. A second signal exits immediately.
type SignalHandler struct {
	ctx      context.Context
	cancel   context.CancelFunc
	sigChan  chan os.Signal
	doneChan chan struct{}
	out      io.Writer
	exit     func(int)
	grace    time.Duration

	mu       sync.Mutex
	cleanups []CleanupFunc
	stopOnce sync.Once
}

// NewSignalHandler starts listening for interrupts.
func NewSignalHandler(ctx context.Context) *SignalHandler {
	h := newSignalHandler(ctx, os.Stderr, os.Exit)
	signal.Notify(h.sigChan, os.Interrupt, syscall.SIGTERM)
	go h.handleSignals()
	return h
}

func newSignalHandler(ctx context.Context, out io.Writer, exit func(int)) *SignalHandler {
	ctx, cancel := context.WithCancel(ctx)
	return &SignalHandler{
		ctx:      ctx,
		cancel:   cancel,
		sigChan:  make(chan os.Signal, 2),
		doneChan: make(chan struct{}),
		out:      out,
		exit:     exit,
		grace:    CleanupTimeout,
	}
}

// RegisterCleanup adds a cleanup. Cleanups run in reverse order.
func (h *SignalHandler) RegisterCleanup(cleanup CleanupFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleanups = append(h.cleanups, cleanup)
}

// Context is cancelled when a signal arrives.
func (h *SignalHandler) Context() context.Context {
	return h.ctx
}

// Stop releases the signal subscription. Call it when the command returns.
func (h *SignalHandler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.doneChan)
		h.cancel()
	})
}

func (h *SignalHandler) handleSignals() {
	logger := otelzap.Ctx(h.ctx)

	var sig os.Signal
	select {
	case <-h.doneChan:
		return
	case sig = <-h.sigChan:
	}

	logger.Info("Received signal, initiating cleanup", zap.String("signal", sig.String()))
	_, _ = fmt.Fprintf(h.out, "\n\nReceived %v, cleaning up...\n", sig)
	h.cancel()

	done := make(chan error, 1)
	go func() { done <- h.runCleanup() }()

	select {
	case err := <-done:
		if err != nil {
			_, _ = fmt.Fprintf(h.out, "Cleanup completed with errors: %v\n", err)
			h.exit(1)
			return
		}
	case <-time.After(CleanupTimeout):
		logger.Error("Cleanup timed out", zap.Duration("timeout", CleanupTimeout))
		h.exit(1)
		return
	case sig := <-h.sigChan:
		h.forceExit(sig)
		return
	}

	select {
	case <-h.doneChan:
	case <-time.After(h.grace):
		h.exit(InterruptExitCode)
	case sig := <-h.sigChan:
		h.forceExit(sig)
	}
}

func (h *SignalHandler) forceExit(sig os.Signal) {
	otelzap.Ctx(h.ctx).Error("Received second signal, forcing exit", zap.String("signal", sig.String()))
	_, _ = fmt.Fprintln(h.out, "Received second interrupt, forcing exit")
	h.exit(1)
}

func (h *SignalHandler) runCleanup() error {
	h.mu.Lock()
	cleanups := append([]CleanupFunc(nil), h.cleanups...)
	h.mu.Unlock()

	var errs *multierror.Error
	for i := len(cleanups) - 1; i >= 0; i-- {
		if err := cleanups[i](); err != nil {
			otelzap.Ctx(h.ctx).Warn("Cleanup function failed", zap.Int("index", i), zap.Error(err))
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}
