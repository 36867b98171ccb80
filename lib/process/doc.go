// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

// Package process spawns and reaps the external commands Kestrel uses
// to probe the host, and finds and signals processes it did not start.
//
// # Runner
//
// [Runner.Run] starts argv in its own process group, captures stdout
// and stderr, and waits according to [Options]:
//
//   - Wait=true blocks until the child exits or Timeout elapses. On
//     timeout the whole process group is terminated (SIGTERM first when
//     GracePeriod is positive, otherwise SIGKILL) and reaped before Run
//     returns a Result with TimedOut set and an error wrapping
//     [ErrTimeout].
//   - Wait=false returns immediately with exit code 0. Unless
//     Background is set, the child is killed and reaped before Run
//     returns.
//   - Background=true, Wait=false leaves the child running and
//     unreaped. Nothing in this package will ever collect its exit
//     status; the caller accepts the process-table entry as a leak.
//     Callers that need to own a long-running child use [Runner.Start]
//     and the returned [Handle] instead.
//
// Output is always fully drained before a child is released, so a
// child never blocks on a full pipe. A nonzero exit code is not an
// error. The only error for a child that could not be created is
// [*SpawnError].
//
// # PidLookup
//
// [PidLookup] lists processes with ps ("ps" on BusyBox platforms,
// "ps -ax" elsewhere), returns the first PID whose command text
// contains a substring and a set of tokens, and signals processes via
// kill and killall. Success means the signalling command exited 0, not
// that the target has terminated.
//
// # Entrypoints
//
// [Fatal] is the standard error exit for cmd/ binaries.
package process
