// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package process_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/kestrel-gateway/kestrel/lib/process"
	"github.com/kestrel-gateway/kestrel/lib/testutil"
)

type fakeExecutor struct {
	calls  [][]string
	result process.Result
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, argv []string, _ process.Options) (process.Result, error) {
	f.calls = append(f.calls, argv)
	return f.result, f.err
}

type platform bool

func (p platform) UsingBusyBox() bool { return bool(p) }

const procpsListing = `    PID TTY      STAT   TIME COMMAND
      1 ?        Ss     0:03 /sbin/init splash
    812 ?        Ssl    1:12 /usr/bin/gatewayd --port 8080
   1044 pts/0    S+     0:00 java -Dkestrel.home=/opt/kestrel -jar kestrel.jar
   1045 pts/0    S+     0:00 java -jar other.jar
`

const busyboxListing = `  PID USER       VSZ STAT COMMAND
    1 root      1544 S    init
  233 root      2080 S    /usr/sbin/dropbear -R
  301 root      1548 S    {exe} ash /etc/init.d/kestrel start
`

func TestParseProcessListing(t *testing.T) {
	tests := []struct {
		name    string
		listing string
		command string
		tokens  []string
		wantPID int
		wantOK  bool
	}{
		{"first match", procpsListing, "java", nil, 1044, true},
		{"tokens narrow the match", procpsListing, "java", []string{"other.jar"}, 1045, true},
		{"every token required", procpsListing, "java", []string{"-jar", "kestrel.jar"}, 1044, true},
		{"token missing", procpsListing, "java", []string{"absent.jar"}, 0, false},
		{"flags count as command text", procpsListing, "gatewayd --port 8080", nil, 812, true},
		{"header is not a process", procpsListing, "COMMAND", nil, 0, false},
		{"stat column is not command text", procpsListing, "Ssl", nil, 0, false},
		{"busybox layout", busyboxListing, "dropbear", nil, 233, true},
		{"busybox tokens", busyboxListing, "ash", []string{"kestrel", "start"}, 301, true},
		{"empty command", procpsListing, "", nil, 0, false},
		{"empty listing", "", "java", nil, 0, false},
		{"short lines skipped", "12 a b c\n", "c", nil, 0, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pid, ok := process.ParseProcessListing(test.listing, test.command, test.tokens)
			if pid != test.wantPID || ok != test.wantOK {
				t.Errorf("ParseProcessListing = %d, %v, want %d, %v", pid, ok, test.wantPID, test.wantOK)
			}
		})
	}
}

func TestListingCommand(t *testing.T) {
	standard := process.NewPidLookup(process.PidLookupOptions{Executor: &fakeExecutor{}, Platform: platform(false)})
	if got := standard.ListingCommand(); !slices.Equal(got, []string{"ps", "-ax"}) {
		t.Errorf("standard ListingCommand = %q, want [ps -ax]", got)
	}
	busybox := process.NewPidLookup(process.PidLookupOptions{Executor: &fakeExecutor{}, Platform: platform(true)})
	if got := busybox.ListingCommand(); !slices.Equal(got, []string{"ps"}) {
		t.Errorf("busybox ListingCommand = %q, want [ps]", got)
	}
	unknown := process.NewPidLookup(process.PidLookupOptions{Executor: &fakeExecutor{}})
	if got := unknown.ListingCommand(); !slices.Equal(got, []string{"ps", "-ax"}) {
		t.Errorf("nil platform ListingCommand = %q, want [ps -ax]", got)
	}
}

func TestFindPid(t *testing.T) {
	executor := &fakeExecutor{result: process.Result{Stdout: []byte(busyboxListing)}}
	lookup := process.NewPidLookup(process.PidLookupOptions{
		Executor: executor,
		Platform: platform(true),
		Logger:   discardLogger(),
	})

	pid, found, err := lookup.FindPid(context.Background(), "dropbear", "-R")
	if err != nil {
		t.Fatalf("FindPid: %v", err)
	}
	if !found || pid != 233 {
		t.Errorf("FindPid = %d, %v, want 233, true", pid, found)
	}
	if len(executor.calls) != 1 || !slices.Equal(executor.calls[0], []string{"ps"}) {
		t.Errorf("executor calls = %q, want [[ps]]", executor.calls)
	}
}

func TestFindPidListingFailure(t *testing.T) {
	executor := &fakeExecutor{err: &process.SpawnError{Argv: []string{"ps"}, Err: errors.New("not found")}}
	lookup := process.NewPidLookup(process.PidLookupOptions{Executor: executor, Logger: discardLogger()})

	_, found, err := lookup.FindPid(context.Background(), "java")
	if !process.IsSpawnError(err) {
		t.Errorf("err = %v, want wrapped *SpawnError", err)
	}
	if found {
		t.Error("found = true on listing failure")
	}
}

func TestStop(t *testing.T) {
	tests := []struct {
		name     string
		pid      int
		force    bool
		exitCode int
		err      error
		wantArgv []string
		want     bool
	}{
		{"graceful", 1234, false, 0, nil, []string{"kill", "1234"}, true},
		{"forced", 1234, true, 0, nil, []string{"kill", "-9", "1234"}, true},
		{"no such process", 1234, false, 1, nil, []string{"kill", "1234"}, false},
		{"kill missing", 1234, true, 0, &process.SpawnError{Argv: []string{"kill"}, Err: errors.New("not found")}, []string{"kill", "-9", "1234"}, false},
		{"zero pid", 0, true, 0, nil, nil, false},
		{"negative pid", -1, true, 0, nil, nil, false},
		{"negative graceful", -42, false, 0, nil, nil, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			executor := &fakeExecutor{result: process.Result{ExitCode: test.exitCode}, err: test.err}
			lookup := process.NewPidLookup(process.PidLookupOptions{Executor: executor, Logger: discardLogger()})
			if got := lookup.Stop(context.Background(), test.pid, test.force); got != test.want {
				t.Errorf("Stop = %v, want %v", got, test.want)
			}
			if test.wantArgv == nil {
				if len(executor.calls) != 0 {
					t.Errorf("argv = %q, want no command run", executor.calls)
				}
				return
			}
			if len(executor.calls) != 1 || !slices.Equal(executor.calls[0], test.wantArgv) {
				t.Errorf("argv = %q, want %q", executor.calls, test.wantArgv)
			}
		})
	}
}

func TestKillRejectsNonPositivePid(t *testing.T) {
	executor := &fakeExecutor{result: process.Result{ExitCode: 0}}
	lookup := process.NewPidLookup(process.PidLookupOptions{Executor: executor, Logger: discardLogger()})
	if lookup.Kill(context.Background(), -1) {
		t.Error("Kill(-1) = true, want false")
	}
	if len(executor.calls) != 0 {
		t.Errorf("argv = %q, want no command run", executor.calls)
	}
}

func TestStopAll(t *testing.T) {
	executor := &fakeExecutor{}
	lookup := process.NewPidLookup(process.PidLookupOptions{Executor: executor, Logger: discardLogger()})

	if !lookup.KillAll(context.Background(), "gatewayd") {
		t.Error("KillAll = false, want true")
	}
	if len(executor.calls) != 1 || !slices.Equal(executor.calls[0], []string{"killall", "gatewayd"}) {
		t.Errorf("argv = %q, want [[killall gatewayd]]", executor.calls)
	}
	if lookup.StopAll(context.Background(), "") {
		t.Error("StopAll(\"\") = true, want false")
	}
}

func TestFindAndStopRealProcess(t *testing.T) {
	requireBinary(t, "ps")
	requireBinary(t, "sleep")
	requireBinary(t, "kill")

	runner := process.NewRunner(process.RunnerOptions{Logger: discardLogger()})
	lookup := process.NewPidLookup(process.PidLookupOptions{Executor: runner, Logger: discardLogger()})

	// A distinctive duration doubles as a token no other process has.
	handle, err := runner.Start([]string{"sleep", "7319.5"}, process.Options{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = handle.Close() })

	pid, found, err := lookup.FindPid(context.Background(), "sleep", "7319.5")
	if err != nil {
		t.Fatalf("FindPid: %v", err)
	}
	if !found || pid != handle.PID() {
		t.Fatalf("FindPid = %d, %v, want %d, true", pid, found, handle.PID())
	}

	if !lookup.Stop(context.Background(), pid, false) {
		t.Fatal("Stop = false, want true")
	}
	testutil.RequireClosed(t, handle.Done(), 5*time.Second, "sleep exits after SIGTERM")
	if state, _ := handle.State(); state != process.StateKilled {
		t.Errorf("State() = %v, want killed", state)
	}

	if _, found, _ := lookup.FindPid(context.Background(), "sleep", "7319.5"); found {
		t.Error("FindPid found the process after it was stopped")
	}
}

