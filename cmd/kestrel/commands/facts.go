// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/kestrel-gateway/kestrel/cmd/kestrel/cli"
	"github.com/kestrel-gateway/kestrel/lib/codec"
	"github.com/kestrel-gateway/kestrel/lib/sysinfo"
)

func factsCommand(app *App) *cli.Command {
	var format string
	return &cli.Command{
		Name:    "facts",
		Summary: "Resolve platform facts",
		Description: `Resolve platform facts: OS, hardware identity, and primary network
interface. Each fact comes from its override property when set, else
from a platform probe command, else a sentinel ("unknown" or
"unsupported").

Formats: text (default), json, cbor (deterministic binary on stdout),
diag (CBOR diagnostic notation).`,
		Usage: "kestrel facts [--format text|json|cbor|diag] [fact...]",
		Examples: []cli.Example{
			{Description: "Show every fact", Command: "kestrel facts"},
			{Description: "Read the serial number as JSON", Command: "kestrel facts --format json serial-number"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("facts", pflag.ContinueOnError)
			flagSet.StringVar(&format, "format", "text", "output format: text, json, cbor, diag")
			return flagSet
		},
		Run: func(args []string) error {
			if !slices.Contains(factFormats, format) {
				return fmt.Errorf("unknown format %q (want text, json, cbor or diag)", format)
			}
			ctx := app.context()
			wanted := sysinfo.AllFacts
			if len(args) > 0 {
				wanted = make([]sysinfo.Fact, 0, len(args))
				for _, name := range args {
					fact, err := sysinfo.ParseFact(name)
					if err != nil {
						return err
					}
					wanted = append(wanted, fact)
				}
			}

			gateway := app.open(ctx)
			facts := make([]sysinfo.PlatformFact, 0, len(wanted))
			for _, fact := range wanted {
				resolved := gateway.provider.Resolve(ctx, fact)
				if resolved.Err != nil {
					app.logger().Warn("fact probe failed", "fact", fact, "error", resolved.Err)
				}
				facts = append(facts, resolved)
			}
			return app.writeFacts(format, facts)
		},
	}
}

var factFormats = []string{"text", "json", "cbor", "diag"}

func (a *App) writeFacts(format string, facts []sysinfo.PlatformFact) error {
	switch format {
	case "text":
		tw := tabwriter.NewWriter(a.Stdout, 2, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FACT\tVALUE\tSOURCE")
		for _, fact := range facts {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", fact.Fact, fact.Value, fact.Source)
		}
		return tw.Flush()
	case "json":
		encoder := json.NewEncoder(a.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(facts)
	case "cbor":
		data, err := codec.Marshal(facts)
		if err != nil {
			return fmt.Errorf("encoding facts: %w", err)
		}
		_, err = a.Stdout.Write(data)
		return err
	case "diag":
		data, err := codec.Marshal(facts)
		if err != nil {
			return fmt.Errorf("encoding facts: %w", err)
		}
		diagnostic, err := codec.Diagnose(data)
		if err != nil {
			return fmt.Errorf("diagnosing facts: %w", err)
		}
		_, err = fmt.Fprintln(a.Stdout, diagnostic)
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, json, cbor or diag)", format)
	}
}
