// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kestrel-gateway/kestrel/cmd/kestrel/cli"
)

func propertyCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:    "property",
		Summary: "Read merged configuration properties",
		Subcommands: []*cli.Command{
			propertyGetCommand(app),
			propertyListCommand(app),
		},
	}
}

func propertyGetCommand(app *App) *cli.Command {
	var fallback string
	var flagSet *pflag.FlagSet
	return &cli.Command{
		Name:    "get",
		Summary: "Print one property",
		Description: `Print one property from the merged snapshot. Exits 1 when the key is
absent and no --default is given.`,
		Usage: "kestrel property get <key> [--default value]",
		Flags: func() *pflag.FlagSet {
			flagSet = pflag.NewFlagSet("get", pflag.ContinueOnError)
			flagSet.StringVar(&fallback, "default", "", "value printed when the key is absent")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("property get takes exactly one key")
			}
			gateway := app.open(app.context())
			value, ok := gateway.resolver.GetProperty(args[0])
			if !ok {
				if !flagSet.Changed("default") {
					return app.exitCode(1, "%s is not set", args[0])
				}
				value = fallback
			}
			fmt.Fprintln(app.Stdout, value)
			return nil
		},
	}
}

func propertyListCommand(app *App) *cli.Command {
	var digest bool
	return &cli.Command{
		Name:    "list",
		Summary: "Print every property, sorted by key",
		Usage:   "kestrel property list [--digest]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.BoolVar(&digest, "digest", false, "print only the snapshot digest")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("property list takes no arguments")
			}
			snapshot := app.open(app.context()).resolver.Snapshot()
			if digest {
				fmt.Fprintln(app.Stdout, snapshot.Digest())
				return nil
			}
			for _, key := range snapshot.Keys() {
				value, _ := snapshot.Get(key)
				fmt.Fprintf(app.Stdout, "%s=%s\n", key, value)
			}
			return nil
		},
	}
}
