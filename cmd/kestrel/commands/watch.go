// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/kestrel-gateway/kestrel/cmd/kestrel/cli"
	"github.com/kestrel-gateway/kestrel/lib/config"
	"github.com/kestrel-gateway/kestrel/lib/process"
)

func watchCommand(app *App) *cli.Command {
	var pidFile string
	return &cli.Command{
		Name:    "watch",
		Summary: "Activate and reload configuration on SIGHUP",
		Description: `Load configuration, activate the gateway (create the snapshots and temp
directories), then reload on every SIGHUP until SIGINT or SIGTERM.
Each reload that changes a property logs the new snapshot digest.`,
		Usage: "kestrel watch [--pidfile path]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("watch", pflag.ContinueOnError)
			flagSet.StringVar(&pidFile, "pidfile", "", "write this process's PID here while watching")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("watch takes no arguments")
			}
			ctx, stop := signal.NotifyContext(app.context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := app.logger()
			gateway := app.open(ctx)
			if err := gateway.provider.Activate(ctx); err != nil {
				return fmt.Errorf("activating gateway: %w", err)
			}

			if pidFile != "" {
				if err := process.WritePidFile(pidFile, os.Getpid()); err != nil {
					return err
				}
				defer func() {
					if err := os.Remove(pidFile); err != nil {
						logger.Warn("removing pid file", "path", pidFile, "error", err)
					}
				}()
			}

			logger.Info("watching for SIGHUP", "pid", os.Getpid(), "digest", gateway.resolver.Snapshot().Digest())
			gateway.resolver.ReloadOnSignal(ctx, func(snapshot *config.Snapshot) {
				logger.Info("configuration changed", "digest", snapshot.Digest(), "properties", snapshot.Len())
			})
			logger.Info("watch stopped")
			return nil
		},
	}
}
