// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/kestrel-gateway/kestrel/lib/clock"
)

// State is the lifecycle position of a spawned child.
type State int

const (
	// StateRunning means the child has not been reaped yet.
	StateRunning State = iota
	// StateExited means the child exited on its own with a status.
	StateExited
	// StateKilled means the child was ended by a signal.
	StateKilled
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateKilled:
		return "killed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Handle is a live child returned by Runner.Start. Exactly one
// goroutine reaps the child; Wait, State, and Close may be called from
// any goroutine.
type Handle struct {
	argv    []string
	command *exec.Cmd
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	clock   clock.Clock
	logger  *slog.Logger

	reapOnce sync.Once
	done     chan struct{}

	mu      sync.Mutex
	waitErr error
}

// PID returns the child's process ID, which is also its process group
// ID.
func (h *Handle) PID() int {
	return h.command.Process.Pid
}

// Done returns a channel closed once the child has been reaped.
func (h *Handle) Done() <-chan struct{} {
	h.reap()
	return h.done
}

// State reports the child's lifecycle state and, for StateExited, its
// exit code. The exit code is -1 for any other state.
func (h *Handle) State() (State, int) {
	h.reap()
	select {
	case <-h.done:
	default:
		return StateRunning, -1
	}
	processState := h.command.ProcessState
	if processState == nil {
		return StateExited, -1
	}
	if status, ok := processState.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return StateKilled, -1
	}
	return StateExited, processState.ExitCode()
}

// Wait blocks until the child exits or ctx is done. Cancelling ctx
// does not touch the child; the caller still owns it.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	h.reap()
	select {
	case <-h.done:
		return h.result(), nil
	case <-ctx.Done():
		return Result{PID: h.PID(), ExitCode: -1}, ctx.Err()
	}
}

// Signal delivers sig to the child's whole process group. Signalling a
// group that no longer exists is not an error.
func (h *Handle) Signal(sig unix.Signal) error {
	if err := unix.Kill(-h.PID(), sig); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("signalling process group %d with %v: %w", h.PID(), sig, err)
	}
	return nil
}

// Kill sends SIGKILL to the child's process group.
func (h *Handle) Kill() error {
	return h.Signal(unix.SIGKILL)
}

// Close kills the child if it is still running and reaps it. It is
// safe to call more than once and after Wait.
func (h *Handle) Close() error {
	h.reap()
	select {
	case <-h.done:
		return nil
	default:
	}
	err := h.Kill()
	<-h.done
	return err
}

// release is Close for paths that cannot return the error.
func (h *Handle) release() {
	if err := h.Close(); err != nil {
		h.logger.Warn("releasing child process", "argv", h.argv, "pid", h.PID(), "error", err)
	}
}

func (h *Handle) reap() {
	h.reapOnce.Do(func() {
		go func() {
			err := h.command.Wait()
			h.mu.Lock()
			h.waitErr = err
			h.mu.Unlock()
			close(h.done)
		}()
	})
}

// waitFor waits for the child under a timeout. On expiry or ctx
// cancellation the process group is terminated and reaped before
// returning, so the caller never sees a running child.
func (h *Handle) waitFor(ctx context.Context, timeout, grace time.Duration) (Result, error) {
	h.reap()

	var expired chan struct{}
	if timeout > 0 {
		expired = make(chan struct{})
		timer := h.clock.AfterFunc(timeout, func() { close(expired) })
		defer timer.Stop()
	}

	select {
	case <-h.done:
		return h.result(), nil

	case <-expired:
		h.logger.Warn("command timed out; terminating process group",
			"argv", h.argv, "pid", h.PID(), "timeout", timeout)
		escalation := h.terminate(grace)
		<-h.done
		if escalation != nil {
			escalation.Stop()
		}
		result := h.result()
		result.TimedOut = true
		return result, fmt.Errorf("%q: %w after %v", h.argv[0], ErrTimeout, timeout)

	case <-ctx.Done():
		if err := h.Kill(); err != nil {
			h.logger.Warn("killing cancelled command", "argv", h.argv, "error", err)
		}
		<-h.done
		return h.result(), ctx.Err()
	}
}

// terminate sends SIGTERM and arms a SIGKILL after grace, or sends
// SIGKILL at once when grace is not positive. The returned timer, if
// any, must be stopped once the child is reaped.
func (h *Handle) terminate(grace time.Duration) *clock.Timer {
	if grace <= 0 {
		if err := h.Kill(); err != nil {
			h.logger.Warn("killing timed-out command", "argv", h.argv, "error", err)
		}
		return nil
	}
	if err := h.Signal(unix.SIGTERM); err != nil {
		h.logger.Warn("terminating timed-out command", "argv", h.argv, "error", err)
	}
	return h.clock.AfterFunc(grace, func() {
		select {
		case <-h.done:
			return
		default:
		}
		h.logger.Warn("grace period elapsed; killing process group",
			"argv", h.argv, "pid", h.PID(), "grace_period", grace)
		if err := h.Kill(); err != nil {
			h.logger.Warn("killing timed-out command", "argv", h.argv, "error", err)
		}
	})
}

// result must only be called after done is closed.
func (h *Handle) result() Result {
	result := Result{PID: h.PID(), ExitCode: -1}

	h.mu.Lock()
	waitErr := h.waitErr
	h.mu.Unlock()

	var exitError *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitError) {
		// I/O copy failures and exceeded WaitDelay still leave a reaped
		// child; they only mean the captured output may be short.
		h.logger.Warn("collecting child output", "argv", h.argv, "pid", result.PID, "error", waitErr)
	}

	if processState := h.command.ProcessState; processState != nil {
		result.ExitCode = processState.ExitCode()
		if status, ok := processState.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			result.Signaled = true
		}
	}
	if h.stdout != nil {
		result.Stdout = bytes.Clone(h.stdout.Bytes())
		result.Stderr = bytes.Clone(h.stderr.Bytes())
	}
	return result
}
