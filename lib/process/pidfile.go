// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// DefaultPidFile is where the gateway daemon records its own PID.
const DefaultPidFile = "/var/run/kestrel.pid"

// ReadPidFile reads a PID from the first line of path. A missing file
// reports found=false with no error. A file whose first line is not a
// positive integer is an error.
func ReadPidFile(path string) (pid int, found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading pid file: %w", err)
	}
	line, _, _ := strings.Cut(string(data), "\n")
	pid, err = strconv.Atoi(strings.TrimSpace(line))
	if err != nil || pid <= 0 {
		return 0, false, fmt.Errorf("pid file %s: invalid pid %q", path, strings.TrimSpace(line))
	}
	return pid, true, nil
}

// WritePidFile records pid in path, replacing any existing content.
// The file is written beside path, fsynced, and renamed into place, so
// a concurrent ReadPidFile sees either the old PID or the new one.
func WritePidFile(path string, pid int) error {
	temporaryPath := path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating temporary pid file: %w", err)
	}
	if _, err := file.WriteString(strconv.Itoa(pid) + "\n"); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary pid file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary pid file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary pid file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming pid file into place: %w", err)
	}
	return nil
}
