// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/kestrel-gateway/kestrel/cmd/kestrel/cli"
	"github.com/kestrel-gateway/kestrel/lib/process"
)

func runCommand(app *App) *cli.Command {
	var (
		timeout    time.Duration
		grace      time.Duration
		background bool
		noWait     bool
		dir        string
	)
	return &cli.Command{
		Name:    "run",
		Summary: "Run a command through the process runner",
		Description: `Run a command in its own process group and relay its captured stdout
and stderr. kestrel exits with the child's exit code.

--timeout kills the group when it expires (after SIGTERM and
--grace when a grace period is set). --no-wait prints the PID and
kills the child on return unless --background is also given, in which
case the child keeps running unreaped.`,
		Usage: "kestrel run [flags] -- argv...",
		Examples: []cli.Example{
			{Description: "Bound a slow probe", Command: "kestrel run --timeout 5s -- dmidecode -t system"},
			{Description: "Start a detached helper", Command: "kestrel run --no-wait --background -- /opt/kestrel/bin/watchdog"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("run", pflag.ContinueOnError)
			flagSet.DurationVar(&timeout, "timeout", 0, "kill the child after this long (0 = no limit)")
			flagSet.DurationVar(&grace, "grace", 0, "delay between SIGTERM and SIGKILL on timeout")
			flagSet.BoolVar(&background, "background", false, "leave the child running when kestrel returns")
			flagSet.BoolVar(&noWait, "no-wait", false, "print the PID instead of waiting")
			flagSet.StringVar(&dir, "dir", "", "working directory for the child")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("run requires a command after --")
			}
			ctx, stop := signal.NotifyContext(app.context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := app.open(ctx).runner
			result, err := runner.Run(ctx, args, process.Options{
				Wait:        !noWait,
				Background:  background,
				Timeout:     timeout,
				GracePeriod: grace,
				Dir:         dir,
			})
			if noWait {
				if err != nil {
					return err
				}
				fmt.Fprintln(app.Stdout, result.PID)
				return nil
			}

			app.Stdout.Write(result.Stdout)
			app.Stderr.Write(result.Stderr)
			switch {
			case errors.Is(err, process.ErrTimeout):
				return app.exitCode(124, "timed out after %v", timeout)
			case err != nil:
				return err
			case result.Signaled:
				return app.exitCode(128, "terminated by signal")
			case result.ExitCode != 0:
				return app.exitCode(result.ExitCode, "")
			}
			return nil
		},
	}
}
