// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package config

// Property keys read by this package.
const (
	KeyConfiguration       = "kestrel.configuration"
	KeyCustomConfiguration = "kestrel.custom.configuration"

	KeyHome      = "kestrel.home"
	KeyData      = "kestrel.data"
	KeyTemp      = "kestrel.tmp"
	KeySnapshots = "kestrel.snapshots"
	KeyPackages  = "kestrel.packages"

	KeyHaveNetAdmin     = "kestrel.have.net.admin"
	KeyHaveWebInterface = "kestrel.have.web.inter"
	KeyVersion          = "kestrel.version"

	// KeyOSName overrides the reported operating system name. The
	// hosting-environment marker source sets it.
	KeyOSName = "os.name"
)

// Defaults for keys left unset by every other source.
const (
	DefaultHaveNetAdmin     = "true"
	DefaultHaveWebInterface = "true"
	DefaultVersion          = "version-unknown"
)

// CloudbeesOSName is the OS name assigned when the Cloudbees hosting
// marker is present.
const CloudbeesOSName = "Linux (Cloudbees)"

// DefaultMarkerPath is the file whose presence identifies a Cloudbees
// build host.
const DefaultMarkerPath = "/private/eurotech/settings-security.xml"

// tempDirectoryName is the subdirectory of os.TempDir used when
// kestrel.tmp is unset.
const tempDirectoryName = ".kestrel"

// environmentPrefix marks variables translated into kestrel.* keys:
// KESTREL_HAVE_NET_ADMIN becomes kestrel.have.net.admin.
const environmentPrefix = "KESTREL_"
