// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds keystore and truststore passwords, and the age
// identity that unseals them, outside the garbage-collected heap.
//
// [Buffer] memory comes from an anonymous mmap, is locked against swap
// with mlock, and on Linux is excluded from core dumps. Close zeroes,
// unlocks, and unmaps it. Any access after Close panics; Close is
// idempotent.
//
// Depends on golang.org/x/sys/unix only.
package secret
