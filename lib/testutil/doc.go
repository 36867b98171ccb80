// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Kestrel packages.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-deadline
// pattern so individual tests do not call time.After directly. They
// are the only place in the test suite where a wall-clock deadline
// guards a channel operation.
//
// [WriteTree] lays out fixture files (fake /proc trees, property
// files, pid files) under a test-owned temporary directory.
// [RequireFile] waits for a marker file a child process creates once
// it is ready.
//
// [FakeExecutables] installs shell-script stand-ins for system tools
// (dmidecode, ifconfig, ps) at the front of PATH, so tests drive the
// real process runner end to end.
//
// [RequireProcessGone] polls the kernel process table until a PID has
// been reaped, for tests that verify a child was not leaked.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil
