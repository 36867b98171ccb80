// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds Kestrel's CBOR configuration.
//
// JSON is for people and scripts (CLI --format json). CBOR is for
// machine consumers that cache resolved facts or configuration
// snapshots: the encoding is deterministic, so equal inputs produce
// equal bytes and a cached blob can be compared byte-for-byte.
//
// Types carry `json` tags only. fxamacker/cbor falls back to them
// when no `cbor` tag is present, so one tag names a field in both
// formats.
//
//	data, err := codec.Marshal(facts)
//	err = codec.Unmarshal(data, &facts)
package codec
