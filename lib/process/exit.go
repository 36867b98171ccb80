// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"os"
)

// Fatal terminates a binary after run() failed. Errors that carry
// their own exit code (an ExitCode() int method) exit with that code
// and print nothing, since the command already reported its outcome.
// Everything else prints "error: err" to stderr and exits 1.
func Fatal(err error) {
	if coder, ok := err.(interface{ ExitCode() int }); ok {
		os.Exit(coder.ExitCode())
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
