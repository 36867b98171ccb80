// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"syscall"
	"time"

	"github.com/kestrel-gateway/kestrel/lib/clock"
)

// DefaultWaitDelay bounds how long Wait keeps draining stdout and
// stderr after the child exits. Grandchildren that inherited the pipes
// would otherwise hold a reap open indefinitely.
const DefaultWaitDelay = 5 * time.Second

// Options controls a single Run call.
type Options struct {
	// Wait blocks until the child exits and collects its status.
	Wait bool

	// Background transfers ownership of the child away from Run: it is
	// not killed or reaped when Run returns. Combined with Wait=false
	// this leaks the child's process-table entry.
	Background bool

	// Timeout bounds Wait. Zero waits indefinitely.
	Timeout time.Duration

	// GracePeriod is the delay between SIGTERM and SIGKILL when the
	// timeout fires. Zero sends SIGKILL immediately.
	GracePeriod time.Duration

	// Dir is the working directory. Empty inherits the caller's.
	Dir string

	// Env replaces the environment when non-nil.
	Env []string

	// Stdin is connected to the child's standard input when non-nil.
	Stdin io.Reader
}

// Result is the terminal snapshot of a finished child.
type Result struct {
	PID      int
	ExitCode int
	Stdout   []byte
	Stderr   []byte

	// TimedOut is set when the child was terminated because it
	// outlived Options.Timeout.
	TimedOut bool

	// Signaled is set when the child was ended by a signal. ExitCode
	// is -1 in that case.
	Signaled bool
}

// Success reports whether the child exited 0.
func (r Result) Success() bool {
	return r.ExitCode == 0 && !r.Signaled && !r.TimedOut
}

// RunnerOptions configures a Runner. Zero values select Real clock,
// the default logger, and DefaultWaitDelay.
type RunnerOptions struct {
	Clock     clock.Clock
	Logger    *slog.Logger
	WaitDelay time.Duration
}

// Runner spawns child processes. It holds no per-call state and is
// safe for concurrent use; each Run is independent.
type Runner struct {
	clock     clock.Clock
	logger    *slog.Logger
	waitDelay time.Duration
}

// NewRunner returns a Runner.
func NewRunner(options RunnerOptions) *Runner {
	runner := &Runner{
		clock:     options.Clock,
		logger:    options.Logger,
		waitDelay: options.WaitDelay,
	}
	if runner.clock == nil {
		runner.clock = clock.Real()
	}
	if runner.logger == nil {
		runner.logger = slog.Default()
	}
	if runner.waitDelay <= 0 {
		runner.waitDelay = DefaultWaitDelay
	}
	return runner
}

// Run executes argv according to options. See the package
// documentation for the ownership rules of each Wait/Background
// combination.
//
// A child that exits nonzero returns a nil error and its exit code in
// Result. A child that cannot be created returns *SpawnError. A child
// that times out returns its partial Result and an error wrapping
// ErrTimeout. Cancelling ctx while waiting kills the child and returns
// ctx's error.
func (r *Runner) Run(ctx context.Context, argv []string, options Options) (Result, error) {
	handle, err := r.start(argv, options, options.Wait)
	if err != nil {
		return Result{}, err
	}
	if !options.Background {
		defer handle.release()
	}

	if !options.Wait {
		if options.Background {
			r.logger.Debug("background process left running and unreaped",
				"argv", argv, "pid", handle.PID())
		}
		return Result{PID: handle.PID()}, nil
	}

	result, err := handle.waitFor(ctx, options.Timeout, options.GracePeriod)
	if err != nil {
		r.logger.Warn("command did not complete", "argv", argv, "pid", result.PID, "error", err)
		return result, err
	}

	r.logger.Info("command returned", "argv", argv, "exit_code", result.ExitCode)
	if result.ExitCode != 0 {
		r.logger.Debug("command output",
			"argv", argv,
			"stdout", string(result.Stdout),
			"stderr", string(result.Stderr),
		)
	}
	return result, nil
}

// RunWithCapture runs argv to completion and returns its captured
// output.
func (r *Runner) RunWithCapture(ctx context.Context, argv []string) (Result, error) {
	return r.Run(ctx, argv, Options{Wait: true})
}

// Start spawns argv and hands ownership of the child to the caller,
// who must call Wait or Close on the returned Handle. Output is
// captured. Options.Wait, Background, Timeout, and GracePeriod are
// ignored.
func (r *Runner) Start(argv []string, options Options) (*Handle, error) {
	return r.start(argv, options, true)
}

func (r *Runner) start(argv []string, options Options, capture bool) (*Handle, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, &SpawnError{Argv: argv, Err: errEmptyCommand}
	}

	command := exec.Command(argv[0], argv[1:]...)
	command.Dir = options.Dir
	command.Env = options.Env
	command.Stdin = options.Stdin
	command.WaitDelay = r.waitDelay

	// Own process group, so termination reaches everything the child
	// spawned (negative PID = the whole group).
	command.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	handle := &Handle{
		argv:    append([]string(nil), argv...),
		command: command,
		clock:   r.clock,
		logger:  r.logger,
		done:    make(chan struct{}),
	}
	if capture {
		handle.stdout = new(bytes.Buffer)
		handle.stderr = new(bytes.Buffer)
		command.Stdout = handle.stdout
		command.Stderr = handle.stderr
	}

	r.logger.Info("executing", "argv", argv)
	if err := command.Start(); err != nil {
		return nil, &SpawnError{Argv: handle.argv, Err: err}
	}
	return handle, nil
}
