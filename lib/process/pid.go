// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
)

// Executor runs a command to completion. *Runner implements it; tests
// substitute a scripted fake.
type Executor interface {
	Run(ctx context.Context, argv []string, options Options) (Result, error)
}

// PlatformDetector reports whether the host userland is BusyBox, whose
// ps takes no flags. The sysinfo provider implements it.
type PlatformDetector interface {
	UsingBusyBox() bool
}

// PidLookupOptions configures a PidLookup. Executor is required.
// A nil Platform assumes a standard (non-BusyBox) userland.
type PidLookupOptions struct {
	Executor Executor
	Platform PlatformDetector
	Logger   *slog.Logger
}

// PidLookup finds processes by command text and signals them through
// the host's kill and killall utilities.
type PidLookup struct {
	executor Executor
	platform PlatformDetector
	logger   *slog.Logger
}

// NewPidLookup returns a PidLookup.
func NewPidLookup(options PidLookupOptions) *PidLookup {
	lookup := &PidLookup{
		executor: options.Executor,
		platform: options.Platform,
		logger:   options.Logger,
	}
	if lookup.logger == nil {
		lookup.logger = slog.Default()
	}
	return lookup
}

// ListingCommand returns the argv used to list processes on this host.
func (l *PidLookup) ListingCommand() []string {
	if l.platform != nil && l.platform.UsingBusyBox() {
		return []string{"ps"}
	}
	return []string{"ps", "-ax"}
}

// FindPid lists processes and returns the PID of the first one whose
// command text contains command and every one of tokens. found is
// false when nothing matches. An error means the listing itself could
// not be produced.
func (l *PidLookup) FindPid(ctx context.Context, command string, tokens ...string) (pid int, found bool, err error) {
	if command == "" {
		return 0, false, nil
	}
	argv := l.ListingCommand()
	result, err := l.executor.Run(ctx, argv, Options{Wait: true})
	if err != nil {
		return 0, false, fmt.Errorf("listing processes: %w", err)
	}
	if result.ExitCode != 0 {
		l.logger.Warn("process listing exited nonzero",
			"argv", argv, "exit_code", result.ExitCode, "stderr", string(result.Stderr))
	}
	pid, found = ParseProcessListing(string(result.Stdout), command, tokens)
	return pid, found, nil
}

// ParseProcessListing scans ps output for the first line whose command
// text contains command and every token. The PID is the first
// whitespace-delimited field; the command text is everything after the
// fourth field. Header lines and lines too short to carry a command
// are skipped.
func ParseProcessListing(listing, command string, tokens []string) (int, bool) {
	if command == "" {
		return 0, false
	}
	for line := range strings.Lines(listing) {
		pidField, text, ok := splitListingLine(strings.TrimRight(line, "\r\n"))
		if !ok {
			continue
		}
		pid, err := strconv.Atoi(pidField)
		if err != nil || pid <= 0 {
			continue
		}
		if !strings.Contains(text, command) || !containsAll(text, tokens) {
			continue
		}
		return pid, true
	}
	return 0, false
}

// splitListingLine returns the first field and the remainder of line
// after its fourth field, with original spacing inside the remainder
// preserved.
func splitListingLine(line string) (first, rest string, ok bool) {
	remaining := line
	for field := 0; field < 4; field++ {
		remaining = strings.TrimLeftFunc(remaining, unicode.IsSpace)
		if remaining == "" {
			return "", "", false
		}
		end := strings.IndexFunc(remaining, unicode.IsSpace)
		if end < 0 {
			return "", "", false
		}
		if field == 0 {
			first = remaining[:end]
		}
		remaining = remaining[end:]
	}
	rest = strings.TrimSpace(remaining)
	if rest == "" {
		return "", "", false
	}
	return first, rest, true
}

func containsAll(text string, tokens []string) bool {
	for _, token := range tokens {
		if !strings.Contains(text, token) {
			return false
		}
	}
	return true
}

// Stop asks pid to terminate with kill, or kill -9 when force is set.
// It reports whether the kill utility exited 0; the target may still
// be running. A pid of 0 or below names a process group (or every
// process) to kill, so it is refused without running anything.
func (l *PidLookup) Stop(ctx context.Context, pid int, force bool) bool {
	if pid <= 0 {
		l.logger.Warn("refusing to signal non-positive pid", "pid", pid)
		return false
	}
	argv := []string{"kill", strconv.Itoa(pid)}
	if force {
		argv = []string{"kill", "-9", strconv.Itoa(pid)}
	}
	return l.signalCommand(ctx, argv)
}

// Kill is Stop with force.
func (l *PidLookup) Kill(ctx context.Context, pid int) bool {
	return l.Stop(ctx, pid, true)
}

// StopAll signals every process named name with killall and reports
// whether killall exited 0.
func (l *PidLookup) StopAll(ctx context.Context, name string) bool {
	if name == "" {
		return false
	}
	return l.signalCommand(ctx, []string{"killall", name})
}

// KillAll is an alias of StopAll.
func (l *PidLookup) KillAll(ctx context.Context, name string) bool {
	return l.StopAll(ctx, name)
}

func (l *PidLookup) signalCommand(ctx context.Context, argv []string) bool {
	result, err := l.executor.Run(ctx, argv, Options{Wait: true})
	if err != nil {
		l.logger.Error("signalling process", "argv", argv, "error", err)
		return false
	}
	if result.ExitCode != 0 {
		l.logger.Warn("signalling command failed",
			"argv", argv, "exit_code", result.ExitCode, "stderr", strings.TrimSpace(string(result.Stderr)))
		return false
	}
	return true
}
