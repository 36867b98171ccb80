// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kestrel-gateway/kestrel/cmd/kestrel/cli"
	"github.com/kestrel-gateway/kestrel/lib/sealed"
	"github.com/kestrel-gateway/kestrel/lib/secret"
)

func sealCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:    "seal",
		Summary: "Manage sealed (age-encrypted) password properties",
		Subcommands: []*cli.Command{
			sealKeygenCommand(app),
			sealEncryptCommand(app),
		},
	}
}

func sealKeygenCommand(app *App) *cli.Command {
	var output string
	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an identity file and print its public key",
		Description: `Generate an age identity, write the private key to --output with mode
0600, and print the public key. Point kestrel.crypto.identity.file at
the output so sealed passwords can be opened.`,
		Usage: "kestrel seal keygen --output path",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
			flagSet.StringVarP(&output, "output", "o", "", "identity file to create")
			return flagSet
		},
		Run: func(args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			keypair, err := sealed.GenerateKeypair()
			if err != nil {
				return err
			}
			defer keypair.Close()

			file, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if err != nil {
				return fmt.Errorf("creating identity file: %w", err)
			}
			if _, err := file.Write(keypair.PrivateKey.Bytes()); err != nil {
				file.Close()
				return fmt.Errorf("writing identity file: %w", err)
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("writing identity file: %w", err)
			}
			fmt.Fprintln(app.Stdout, keypair.PublicKey)
			return nil
		},
	}
}

func sealEncryptCommand(app *App) *cli.Command {
	var recipients []string
	return &cli.Command{
		Name:    "encrypt",
		Summary: "Seal a password read from stdin",
		Description: `Read a password from stdin (one trailing newline is dropped), encrypt
it to every --recipient, and print the "age:" property value.`,
		Usage: "kestrel seal encrypt --recipient age1... < password",
		Examples: []cli.Example{
			{Command: "printf changeit | kestrel seal encrypt --recipient age1qy..."},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("encrypt", pflag.ContinueOnError)
			flagSet.StringArrayVarP(&recipients, "recipient", "r", nil, "age public key (repeatable)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(recipients) == 0 {
				return fmt.Errorf("at least one --recipient is required")
			}
			for _, recipient := range recipients {
				if err := sealed.ParsePublicKey(strings.TrimSpace(recipient)); err != nil {
					return fmt.Errorf("--recipient %q: %w", recipient, err)
				}
			}
			plaintext, err := io.ReadAll(app.Stdin)
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			defer secret.Zero(plaintext)
			plaintext = bytes.TrimSuffix(plaintext, []byte("\n"))
			if len(plaintext) == 0 {
				return fmt.Errorf("empty password on stdin")
			}

			value, err := sealed.Seal(plaintext, recipients)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Stdout, value)
			return nil
		},
	}
}
