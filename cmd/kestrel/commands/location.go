// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/kestrel-gateway/kestrel/cmd/kestrel/cli"
	"github.com/kestrel-gateway/kestrel/lib/config"
)

func locationCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:    "location",
		Summary: "Resolve a well-known filesystem location",
		Description: `Resolve a well-known location to an absolute path, optionally joined
with a relative path. Kinds: config, data, temp, snapshots, packages.

temp is created when missing and must be writable. packages is
created when configured. Exits 1 when the location is not configured.`,
		Usage: "kestrel location <kind> [relative]",
		Examples: []cli.Example{
			{Description: "Where snapshots are written", Command: "kestrel location snapshots"},
		},
		Run: func(args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return fmt.Errorf("location takes a kind and an optional relative path")
			}
			kind, err := config.ParseLocationKind(args[0])
			if err != nil {
				return err
			}
			relative := ""
			if len(args) == 2 {
				relative = args[1]
			}

			path, ok, err := app.open(app.context()).resolver.ResolveLocation(kind, relative)
			if err != nil {
				return err
			}
			if !ok {
				return app.exitCode(1, "%s location is not configured", kind)
			}
			fmt.Fprintln(app.Stdout, path)
			return nil
		},
	}
}
