// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package sysinfo

import (
	"errors"
	"fmt"
)

// Fact names one platform fact.
type Fact string

const (
	FactOSName                Fact = "os-name"
	FactOSVersion             Fact = "os-version"
	FactOSArch                Fact = "os-arch"
	FactOSDistribution        Fact = "os-distribution"
	FactOSDistributionVersion Fact = "os-distribution-version"
	FactPlatform              Fact = "platform"
	FactBIOSVersion           Fact = "bios-version"
	FactFirmwareVersion       Fact = "firmware-version"
	FactModelID               Fact = "model-id"
	FactModelName             Fact = "model-name"
	FactPartNumber            Fact = "part-number"
	FactSerialNumber          Fact = "serial-number"
	FactDeviceName            Fact = "device-name"
	FactPrimaryInterface      Fact = "primary-interface"
	FactPrimaryMAC            Fact = "primary-mac"
)

// AllFacts lists every fact in report order.
var AllFacts = []Fact{
	FactOSName,
	FactOSVersion,
	FactOSArch,
	FactOSDistribution,
	FactOSDistributionVersion,
	FactPlatform,
	FactBIOSVersion,
	FactFirmwareVersion,
	FactModelID,
	FactModelName,
	FactPartNumber,
	FactSerialNumber,
	FactDeviceName,
	FactPrimaryInterface,
	FactPrimaryMAC,
}

// ErrUnknownFact is reported for a name outside AllFacts.
var ErrUnknownFact = errors.New("unknown fact")

// ParseFact converts a name to a Fact.
func ParseFact(name string) (Fact, error) {
	for _, fact := range AllFacts {
		if string(fact) == name {
			return fact, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFact, name)
}

// Sentinel values for facts that could not be determined.
const (
	Unknown     = "unknown"
	Unsupported = "unsupported"
)

// OS names used for probe dispatch.
const (
	OSLinux     = "Linux"
	OSMacOSX    = "Mac OS X"
	OSCloudbees = "Linux (Cloudbees)"
)

// Source records how a fact's value was obtained.
type Source string

const (
	SourceOverride Source = "override"
	SourceCommand  Source = "command"
	SourceDefault  Source = "default"
)

// PlatformFact is a resolved fact. Value is never empty unless an
// override set it so. Err is set when a probe command could not run;
// Value is then the sentinel.
type PlatformFact struct {
	Fact   Fact   `json:"fact"`
	Value  string `json:"value"`
	Source Source `json:"source"`
	Err    error  `json:"-"`
}

// overrideKeys maps each fact to the property that overrides it.
var overrideKeys = map[Fact]string{
	FactOSName:                "os.name",
	FactOSVersion:             "os.version",
	FactOSArch:                "os.arch",
	FactOSDistribution:        "os.distribution",
	FactOSDistributionVersion: "os.distribution.version",
	FactPlatform:              "kestrel.platform",
	FactBIOSVersion:           "kestrel.bios.version",
	FactFirmwareVersion:       "kestrel.firmware.version",
	FactModelID:               "kestrel.model.id",
	FactModelName:             "kestrel.model.name",
	FactPartNumber:            "kestrel.part.number",
	FactSerialNumber:          "kestrel.serial.number",
	FactDeviceName:            "kestrel.device.name",
	FactPrimaryInterface:      "kestrel.primary.network.interface",
	FactPrimaryMAC:            "kestrel.primary.mac.address",
}

// OverrideKey returns the property that overrides fact.
func OverrideKey(fact Fact) string {
	return overrideKeys[fact]
}

// sentinel returns the placeholder for an undetermined fact.
// Hardware facts that only some platforms can report are unsupported
// elsewhere; identity facts are unknown.
func sentinel(fact Fact) string {
	switch fact {
	case FactBIOSVersion, FactFirmwareVersion, FactPartNumber, FactPrimaryInterface:
		return Unsupported
	default:
		return Unknown
	}
}
