// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

// Package config resolves Kestrel's configuration properties and
// filesystem locations.
//
// Properties come from an ordered list of [Source]s merged into an
// immutable [Snapshot]. Later sources override earlier ones. The
// standard order, lowest precedence first, is:
//
//  1. the document named by kestrel.configuration
//  2. the document named by kestrel.custom.configuration
//  3. system properties: the process environment verbatim, KESTREL_*
//     variables translated to kestrel.* keys, and -D definitions
//  4. the hosting-environment marker (os.name is set to
//     "Linux (Cloudbees)" when the marker file exists)
//  5. built-in defaults for the capability flags and version, applied
//     only to keys still unset
//
// Documents are fetched from file paths, file:// URLs, or http(s)://
// URLs. The format follows the extension: .properties (the default),
// .yaml/.yml, or .json/.jsonc. A trailing .gz, .zst, or .lz4 is
// decompressed first. A source that fails to load is skipped with a
// warning and never modifies the snapshot partially.
//
// [Resolver] owns the active snapshot. Reload builds a new snapshot and
// swaps it in atomically, so readers always see one complete merge.
// Locations (config, data, temp, snapshots, packages) resolve through
// backing properties; an unset base yields no location, except temp,
// which falls back to a directory under os.TempDir and is created on
// demand. Failing to produce a temp directory is
// [ErrUnrecoverableLocation].
package config
