// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import "github.com/kestrel-gateway/kestrel/cmd/kestrel/cli"

// Root builds the kestrel command tree over app.
func Root(app *App) *cli.Command {
	return &cli.Command{
		Name:    "kestrel",
		Summary: "Inspect and drive the gateway system abstraction layer",
		Description: `Inspect and drive the gateway system abstraction layer.

Global options (before the command):
  -D, --define key=value   set a system property (repeatable)

Configuration is merged from kestrel.configuration,
kestrel.custom.configuration, the environment (KESTREL_FOO_BAR becomes
kestrel.foo.bar), -D definitions, and built-in defaults.`,
		HelpOutput: app.Stderr,
		Subcommands: []*cli.Command{
			factsCommand(app),
			propertyCommand(app),
			locationCommand(app),
			pidCommand(app),
			runCommand(app),
			watchCommand(app),
			sealCommand(app),
			versionCommand(app),
		},
	}
}
