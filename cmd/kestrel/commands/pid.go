// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/kestrel-gateway/kestrel/cmd/kestrel/cli"
	"github.com/kestrel-gateway/kestrel/lib/process"
)

func pidCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:    "pid",
		Summary: "Find and signal processes",
		Subcommands: []*cli.Command{
			pidFindCommand(app),
			pidStopCommand(app),
			pidKillAllCommand(app),
			pidFileCommand(app),
		},
	}
}

func pidFindCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:    "find",
		Summary: "Print the PID of the first process whose command line matches",
		Description: `Print the PID of the first process listed by ps whose command text
contains the substring and every additional token. Exits 1 when no
process matches.`,
		Usage: "kestrel pid find <substring> [token...]",
		Examples: []cli.Example{
			{Description: "Find the gateway JVM", Command: "kestrel pid find java kestrel.jar"},
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("pid find requires a command substring")
			}
			pid, found, err := app.open(app.context()).lookup.FindPid(app.context(), args[0], args[1:]...)
			if err != nil {
				return err
			}
			if !found {
				return app.exitCode(1, "no process matches %q", args[0])
			}
			fmt.Fprintln(app.Stdout, pid)
			return nil
		},
	}
}

func pidStopCommand(app *App) *cli.Command {
	var force bool
	return &cli.Command{
		Name:    "stop",
		Summary: "Signal a PID with kill",
		Usage:   "kestrel pid stop <pid> [--force]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("stop", pflag.ContinueOnError)
			flagSet.BoolVarP(&force, "force", "f", false, "send SIGKILL instead of SIGTERM")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("pid stop takes exactly one PID")
			}
			pid, err := strconv.Atoi(args[0])
			if err != nil || pid <= 0 {
				return fmt.Errorf("invalid PID %q", args[0])
			}
			if !app.open(app.context()).lookup.Stop(app.context(), pid, force) {
				return app.exitCode(1, "kill %d failed", pid)
			}
			return nil
		},
	}
}

func pidKillAllCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:    "killall",
		Summary: "Signal every process with the given name",
		Usage:   "kestrel pid killall <name>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("pid killall takes exactly one process name")
			}
			if !app.open(app.context()).lookup.StopAll(app.context(), args[0]) {
				return app.exitCode(1, "killall %s failed", args[0])
			}
			return nil
		},
	}
}

func pidFileCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:    "file",
		Summary: "Print the PID recorded in a daemon pid file",
		Usage:   fmt.Sprintf("kestrel pid file [path]  (default %s)", process.DefaultPidFile),
		Run: func(args []string) error {
			path := process.DefaultPidFile
			switch len(args) {
			case 0:
			case 1:
				path = args[0]
			default:
				return fmt.Errorf("pid file takes at most one path")
			}
			pid, found, err := process.ReadPidFile(path)
			if err != nil {
				return err
			}
			if !found {
				return app.exitCode(1, "%s does not exist", path)
			}
			fmt.Fprintln(app.Stdout, pid)
			return nil
		},
	}
}
