// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package sysinfo

import (
	"context"
	"net"
	"strings"
)

// primaryInterface defaults to en0 on Mac OS X and eth0 on Linux.
func (p *Provider) primaryInterface(ctx context.Context) PlatformFact {
	switch osName := p.Resolve(ctx, FactOSName).Value; osName {
	case OSMacOSX:
		return p.derived(FactPrimaryInterface, "en0")
	case OSLinux:
		return p.derived(FactPrimaryInterface, "eth0")
	default:
		p.logger.Error("no primary network interface default for platform", "os", osName)
		return p.fallback(FactPrimaryInterface, nil)
	}
}

// primaryMAC reads the primary interface's hardware address. Mac OS X
// parses ifconfig; elsewhere the interface table is consulted first
// and ifconfig is the fallback.
func (p *Provider) primaryMAC(ctx context.Context) PlatformFact {
	iface := p.Resolve(ctx, FactPrimaryInterface)
	if iface.Source == SourceDefault {
		return p.fallback(FactPrimaryMAC, iface.Err)
	}

	if p.Resolve(ctx, FactOSName).Value != OSMacOSX {
		if address, ok := p.interfaceTableMAC(ctx, iface.Value); ok {
			return p.derived(FactPrimaryMAC, address)
		}
	}

	p.logger.Info("reading hardware address from ifconfig", "interface", iface.Value)
	output, err := p.runSystemInfoCommand(ctx, []string{"ifconfig"})
	if err != nil {
		return p.fallback(FactPrimaryMAC, err)
	}
	if address, ok := ParseIfconfig(output, iface.Value); ok {
		return p.derived(FactPrimaryMAC, address)
	}
	p.logger.Warn("interface not found in ifconfig output", "interface", iface.Value)
	return p.fallback(FactPrimaryMAC, nil)
}

func (p *Provider) interfaceTableMAC(ctx context.Context, name string) (string, bool) {
	interfaces, err := p.host.Interfaces(ctx)
	if err != nil {
		p.logger.Warn("listing network interfaces", "error", err)
		return "", false
	}
	for _, candidate := range interfaces {
		if candidate.Name != name {
			continue
		}
		hardware, err := net.ParseMAC(candidate.HardwareAddr)
		if err != nil {
			return "", false
		}
		return strings.ToUpper(hardware.String()), true
	}
	return "", false
}
