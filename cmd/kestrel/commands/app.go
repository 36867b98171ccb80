// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kestrel-gateway/kestrel/cmd/kestrel/cli"
	"github.com/kestrel-gateway/kestrel/lib/config"
	"github.com/kestrel-gateway/kestrel/lib/process"
	"github.com/kestrel-gateway/kestrel/lib/sysinfo"
)

// App carries the process-level inputs every command reads. Tests
// construct one with buffers and a synthetic environment.
type App struct {
	// Context bounds every command. Nil means context.Background().
	Context context.Context

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Environ is the environment the system properties are built from.
	Environ []string

	Logger *slog.Logger

	// HTTPClient fetches http(s) configuration documents.
	HTTPClient *http.Client

	// MarkerPath replaces the default Cloudbees marker file.
	MarkerPath string

	// TempBase replaces os.TempDir() for the temp fallback.
	TempBase string

	// Executor replaces the real process runner for probe and ps/kill
	// commands.
	Executor process.Executor

	defines map[string]string
}

// gateway is the wired stack a command operates on.
type gateway struct {
	resolver *config.Resolver
	runner   *process.Runner
	provider *sysinfo.Provider
	lookup   *process.PidLookup
}

// Execute parses the global -D/--define options, then dispatches the
// remaining arguments through the command tree.
func (a *App) Execute(args []string) error {
	defines, rest, err := parseDefines(args)
	if err != nil {
		return err
	}
	a.defines = defines
	return Root(a).Execute(rest)
}

// parseDefines consumes leading "-D key=value", "-Dkey=value",
// "--define key=value" and "--define=key=value" arguments.
func parseDefines(args []string) (map[string]string, []string, error) {
	defines := map[string]string{}
	for len(args) > 0 {
		arg := args[0]
		var definition string
		switch {
		case arg == "-D" || arg == "--define":
			if len(args) < 2 {
				return nil, nil, fmt.Errorf("%s requires key=value", arg)
			}
			definition = args[1]
			args = args[2:]
		case strings.HasPrefix(arg, "--define="):
			definition = strings.TrimPrefix(arg, "--define=")
			args = args[1:]
		case strings.HasPrefix(arg, "-D"):
			definition = strings.TrimPrefix(arg, "-D")
			args = args[1:]
		default:
			return defines, args, nil
		}
		key, value, ok := strings.Cut(definition, "=")
		if !ok || key == "" {
			return nil, nil, fmt.Errorf("invalid definition %q: want key=value", definition)
		}
		defines[key] = value
	}
	return defines, args, nil
}

// open loads configuration and wires the runner, provider and lookup
// over it. Skipped sources are logged, never fatal.
func (a *App) open(ctx context.Context) *gateway {
	logger := a.logger()
	system := config.SystemProperties(a.Environ, a.defines)
	resolver := config.NewResolver(config.ResolverOptions{
		Sources: config.StandardSources(system, config.SourceOptions{
			HTTPClient: a.HTTPClient,
			MarkerPath: a.MarkerPath,
		}),
		Logger:   logger,
		TempBase: a.TempBase,
	})
	for _, warning := range resolver.Load(ctx) {
		logger.Warn("configuration source skipped", "error", warning)
	}

	runner := process.NewRunner(process.RunnerOptions{Logger: logger})
	var executor process.Executor = runner
	if a.Executor != nil {
		executor = a.Executor
	}
	provider := sysinfo.NewProvider(sysinfo.ProviderOptions{
		Configuration: resolver,
		Executor:      executor,
		Logger:        logger,
	})
	lookup := process.NewPidLookup(process.PidLookupOptions{
		Executor: executor,
		Platform: provider,
		Logger:   logger,
	})
	return &gateway{resolver: resolver, runner: runner, provider: provider, lookup: lookup}
}

func (a *App) context() context.Context {
	if a.Context == nil {
		return context.Background()
	}
	return a.Context
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		a.Logger = cli.NewCommandLogger()
	}
	return a.Logger
}

// exitCode reports a handled failure: the message goes to stderr and
// the binary exits with code without an "error:" line.
func (a *App) exitCode(code int, format string, args ...any) error {
	if format != "" {
		fmt.Fprintf(a.Stderr, format+"\n", args...)
	}
	return &cli.ExitError{Code: code}
}
