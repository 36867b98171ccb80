// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

// Kestrel is the operator CLI for the gateway system abstraction
// layer: platform facts, merged configuration, well-known locations,
// and process control.
package main

import (
	"os"

	"github.com/kestrel-gateway/kestrel/cmd/kestrel/commands"
	"github.com/kestrel-gateway/kestrel/lib/process"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	app := &commands.App{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Environ: os.Environ(),
	}
	return app.Execute(os.Args[1:])
}
