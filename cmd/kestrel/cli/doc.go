// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command-tree framework behind the kestrel
// binary: nested [Command] values with lazily built pflag sets, typo
// suggestions for unknown commands and flags, an [ExitError] for
// handled nonzero exits, and the stderr logger every command shares.
package cli
