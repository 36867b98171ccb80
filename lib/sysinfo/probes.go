// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package sysinfo

import (
	"net"
	"strings"
)

// Kernel versions of the WindRiver and Yocto gateway images whose
// hardware facts come from vendor tools instead of DMI.
const (
	windRiver42Kernel = "2.6.34.9-WR4.2.0.0_standard"
	windRiver43Kernel = "2.6.34.12-WR4.3.0.0_standard"
	yoctoAVRKernel    = "3.0.35-12.09.01+yocto"
)

type probeKey struct {
	os   string
	fact Fact
}

// probe derives one fact on one OS. Every command runs in order and
// parse receives their normalized outputs in the same order.
type probe struct {
	// when restricts the probe to matching OS versions. Nil matches
	// every version.
	when     func(osVersion string) bool
	commands [][]string
	parse    func(outputs []string) (string, bool)
}

// profiler runs system_profiler through a shell so grep can select the
// line.
func profiler(field string) []string {
	return []string{"/bin/sh", "-c", "system_profiler SPHardwareDataType | grep '" + field + "'"}
}

var probes = map[probeKey][]probe{
	{OSLinux, FactBIOSVersion}: {
		{when: isWindRiverKernel, commands: [][]string{{"eth_vers_bios"}}, parse: trimmedOutput},
		{commands: [][]string{{"dmidecode", "-s", "bios-version"}}, parse: parseDMIBIOSVersion},
	},
	{OSMacOSX, FactBIOSVersion}: {
		{commands: [][]string{profiler("Boot ROM")}, parse: parseProfilerField},
	},

	{OSLinux, FactFirmwareVersion}: {
		{when: hasWindRiverPrefix, commands: [][]string{{"eth_vers_cpld"}, {"eth_vers_uctl"}}, parse: joinedOutputs},
		{when: hasYoctoAVRPrefix, commands: [][]string{{"eth_vers_avr"}}, parse: trimmedOutput},
	},

	{OSLinux, FactPartNumber}: {
		{when: isWindRiverKernel, commands: [][]string{{"eth_partno_bsp"}, {"eth_partno_epr"}}, parse: joinedOutputs},
	},

	{OSLinux, FactModelID}: {
		{commands: [][]string{{"dmidecode", "-t", "system"}}, parse: dmiField("Version:")},
	},
	{OSMacOSX, FactModelID}: {
		{commands: [][]string{{"sysctl", "-b", "hw.model"}}, parse: trimmedOutput},
	},

	{OSLinux, FactModelName}: {
		{commands: [][]string{{"dmidecode", "-t", "system"}}, parse: dmiField("Product Name:")},
	},
	{OSMacOSX, FactModelName}: {
		{commands: [][]string{profiler("Model Name")}, parse: parseProfilerField},
	},

	{OSLinux, FactSerialNumber}: {
		{commands: [][]string{{"dmidecode", "-t", "system"}}, parse: dmiField("Serial Number:")},
	},
	{OSMacOSX, FactSerialNumber}: {
		{commands: [][]string{profiler("Serial Number")}, parse: parseProfilerField},
	},

	{OSLinux, FactDeviceName}: {
		{commands: [][]string{{"hostname"}}, parse: trimmedOutput},
	},
	{OSCloudbees, FactDeviceName}: {
		{commands: [][]string{{"hostname"}}, parse: trimmedOutput},
	},
	{OSMacOSX, FactDeviceName}: {
		{commands: [][]string{{"scutil", "--get", "ComputerName"}}, parse: trimmedOutput},
	},
}

func isWindRiverKernel(osVersion string) bool {
	return osVersion == windRiver42Kernel || osVersion == windRiver43Kernel
}

func hasWindRiverPrefix(osVersion string) bool {
	return strings.HasPrefix(osVersion, windRiver42Kernel) || strings.HasPrefix(osVersion, windRiver43Kernel)
}

func hasYoctoAVRPrefix(osVersion string) bool {
	return strings.HasPrefix(osVersion, yoctoAVRKernel)
}

// trimmedOutput accepts the first command's output when non-empty.
func trimmedOutput(outputs []string) (string, bool) {
	value := strings.TrimSpace(outputs[0])
	return value, value != ""
}

// joinedOutputs joins every output with a space. It misses only when
// all outputs are empty.
func joinedOutputs(outputs []string) (string, bool) {
	parts := make([]string, len(outputs))
	nonEmpty := false
	for index, output := range outputs {
		parts[index] = strings.TrimSpace(output)
		nonEmpty = nonEmpty || parts[index] != ""
	}
	return strings.Join(parts, " "), nonEmpty
}

// parseDMIBIOSVersion accepts dmidecode's bios-version output unless
// it is empty or a permission error from a non-root caller.
func parseDMIBIOSVersion(outputs []string) (string, bool) {
	value := strings.TrimSpace(outputs[0])
	if value == "" || strings.Contains(value, "Permission denied") {
		return "", false
	}
	return value, true
}

// parseProfilerField takes everything after the first ": " of a
// system_profiler line such as "Serial Number (system): C02XL0GZJG5J".
func parseProfilerField(outputs []string) (string, bool) {
	_, value, found := strings.Cut(outputs[0], ": ")
	value = strings.TrimSpace(value)
	return value, found && value != ""
}

// dmiField returns a parser for "Anchor: value" lines of dmidecode -t
// output, taking the rest of the first line after the anchor.
func dmiField(anchor string) func([]string) (string, bool) {
	return func(outputs []string) (string, bool) {
		output := outputs[0]
		index := strings.Index(output, anchor+" ")
		if index < 0 {
			return "", false
		}
		rest := strings.TrimLeft(output[index+len(anchor):], " \t")
		line, _, _ := strings.Cut(rest, "\n")
		line = strings.TrimSpace(line)
		return line, line != ""
	}
}

// ParseIfconfig finds the hardware address of iface in ifconfig
// output. The address is on the line after the interface header, or
// the one after that when the next line is not the "ether" line; its
// second field is the address. Fields that are not MAC addresses are
// misses. The result is uppercased.
func ParseIfconfig(output, iface string) (string, bool) {
	if iface == "" {
		return "", false
	}
	lines := strings.Split(output, "\n")
	for index, line := range lines {
		if !strings.HasPrefix(line, iface) {
			continue
		}
		next := index + 1
		if next >= len(lines) {
			return "", false
		}
		if !strings.HasPrefix(strings.TrimSpace(lines[next]), "ether") {
			next++
			if next >= len(lines) {
				return "", false
			}
		}
		fields := strings.Fields(lines[next])
		if len(fields) < 2 {
			return "", false
		}
		if _, err := net.ParseMAC(fields[1]); err != nil {
			return "", false
		}
		return strings.ToUpper(fields[1]), true
	}
	return "", false
}
