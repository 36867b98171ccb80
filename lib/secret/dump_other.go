// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package secret

// Darwin has no per-mapping core dump exclusion.
func excludeFromDumps([]byte) error { return nil }
