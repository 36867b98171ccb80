// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

// Package sysinfo derives platform and hardware facts for the gateway:
// OS identity, BIOS and firmware versions, model, serial and part
// numbers, device name, and the primary network interface and MAC.
//
// Every fact resolves the same way:
//
//  1. An override property (see [OverrideKey]) is returned verbatim.
//  2. Otherwise the fact is derived for the current OS, usually by
//     running a host tool and parsing its output with a pure parser
//     from the probe table.
//  3. Otherwise the fact's sentinel, [Unknown] or [Unsupported], is
//     returned. Facts are never empty because of a failed probe.
//
// A probe that cannot even spawn its command reports the
// [process.SpawnError] in [PlatformFact.Err] next to the sentinel
// value, so callers that care can surface it.
//
// The OS name itself is an override or derived from the build target,
// and selects between the Linux, Mac OS X, and Linux (Cloudbees) probe
// sets. Some Linux probes apply only to specific legacy kernel
// versions and route to vendor tools (eth_vers_bios and similar).
//
// [Provider] also carries typed accessors for the gateway's scalar
// properties (snapshot retention, upload limits, capability flags,
// store passwords) and [Provider.Activate], which prepares the
// snapshot and temp directories at startup.
package sysinfo
