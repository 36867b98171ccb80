// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteTree creates a temporary directory and writes files into it.
// Keys are slash-separated paths relative to the root; parent
// directories are created as needed. The root is returned and removed
// when the test completes.
//
//	root := testutil.WriteTree(t, map[string]string{
//		"sys/kernel/osrelease": "6.1.0\n",
//		"sys/kernel/version":   "#1 SMP PREEMPT\n",
//	})
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating parent of %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return root
}

// RequireFile fails the test unless path exists within timeout. Tests
// use it to wait for a child process to report that it is ready by
// creating a marker file.
func RequireFile(t *testing.T, path string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		_, err := os.Stat(path)
		if err == nil {
			return
		}
		if !os.IsNotExist(err) {
			t.Fatalf("checking %s: %v", path, err)
		}
		if time.Now().After(deadline) {
			t.Fatalf("%s not created within %v", path, timeout)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
