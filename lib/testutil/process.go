// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// RequireProcessGone fails the test unless pid leaves the process
// table within timeout. A zombie still counts as present, so this also
// verifies the child was reaped.
func RequireProcessGone(t *testing.T, pid int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		exists, err := process.PidExists(int32(pid))
		if err != nil {
			t.Fatalf("checking pid %d: %v", pid, err)
		}
		if !exists {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("pid %d still in the process table after %v", pid, timeout)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// ProcessExists reports whether pid is in the process table.
func ProcessExists(t *testing.T, pid int) bool {
	t.Helper()
	exists, err := process.PidExists(int32(pid))
	if err != nil {
		t.Fatalf("checking pid %d: %v", pid, err)
	}
	return exists
}
