// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kestrel-gateway/kestrel/cmd/kestrel/cli"
	"github.com/kestrel-gateway/kestrel/lib/version"
)

func versionCommand(app *App) *cli.Command {
	var short bool
	return &cli.Command{
		Name:    "version",
		Summary: "Print binary and gateway versions",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			flagSet.BoolVar(&short, "short", false, "print only the binary version number")
			return flagSet
		},
		Run: func(args []string) error {
			if short {
				fmt.Fprintln(app.Stdout, version.Short())
				return nil
			}
			provider := app.open(app.context()).provider
			fmt.Fprintln(app.Stdout, "kestrel "+version.Full())
			fmt.Fprintf(app.Stdout, "  Gateway: %s %s\n", provider.ProductName(), provider.ProductVersion())
			return nil
		},
	}
}
