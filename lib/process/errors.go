// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTimeout is wrapped by the error Run returns when a child outlived
// Options.Timeout and was terminated.
var ErrTimeout = errors.New("process timed out")

var errEmptyCommand = errors.New("empty command")

// SpawnError reports that the OS could not create the child process:
// the binary is missing, not executable, or argv is empty. It is never
// used for a child that started and then exited nonzero.
type SpawnError struct {
	Argv []string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawning %q: %v", strings.Join(e.Argv, " "), e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// IsSpawnError reports whether err is or wraps a *SpawnError.
func IsSpawnError(err error) bool {
	var spawnError *SpawnError
	return errors.As(err, &spawnError)
}
