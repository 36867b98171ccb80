// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code without printing an extra
// error message. The command is expected to have already written its
// own output: "pid find" exits 1 when nothing matches, "run" exits
// with the child's code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. process.Fatal checks for this
// method to tell a handled exit from an error to display.
func (e *ExitError) ExitCode() int {
	return e.Code
}
