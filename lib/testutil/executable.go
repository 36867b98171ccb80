// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FakeExecutables writes each script as an executable /bin/sh program
// into a fresh directory and puts that directory first on PATH for the
// rest of the test. The directory is returned.
//
//	testutil.FakeExecutables(t, map[string]string{
//		"dmidecode": `echo "/dev/mem: Permission denied"`,
//	})
//
// Tests that call it cannot run in parallel, since PATH is process
// wide.
func FakeExecutables(t *testing.T, scripts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range scripts {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
			t.Fatalf("writing fake executable %s: %v", name, err)
		}
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return dir
}
