// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for Kestrel
// binaries.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//	go build -ldflags "-X github.com/kestrel-gateway/kestrel/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// They default to "unknown" / "0.1.0-dev" in development builds and
// test runs. The product version property (kestrel.version) is
// separate: it describes the installed gateway distribution, while
// this package describes the binary.
package version
