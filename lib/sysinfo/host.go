// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package sysinfo

import (
	"context"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// Interface is one row of the host's network interface table.
type Interface struct {
	Name         string
	HardwareAddr string
}

// Host answers the facts that come from the kernel rather than from a
// command. The default implementation uses gopsutil.
type Host interface {
	// KernelRelease returns the release string, e.g. "6.1.0-18-arm64".
	KernelRelease(ctx context.Context) (string, error)
	// KernelArch returns the machine hardware name, e.g. "armv7l".
	KernelArch(ctx context.Context) (string, error)
	// Interfaces lists network interfaces.
	Interfaces(ctx context.Context) ([]Interface, error)
}

// SystemHost returns the Host backed by the running kernel.
func SystemHost() Host { return systemHost{} }

type systemHost struct{}

func (systemHost) KernelRelease(ctx context.Context) (string, error) {
	return host.KernelVersionWithContext(ctx)
}

func (systemHost) KernelArch(context.Context) (string, error) {
	return host.KernelArch()
}

func (systemHost) Interfaces(ctx context.Context) ([]Interface, error) {
	stats, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	interfaces := make([]Interface, 0, len(stats))
	for _, stat := range stats {
		interfaces = append(interfaces, Interface{Name: stat.Name, HardwareAddr: stat.HardwareAddr})
	}
	return interfaces, nil
}

// hostOSName maps a GOOS value to the OS name used for dispatch.
func hostOSName(goos string) string {
	switch goos {
	case "linux":
		return OSLinux
	case "darwin":
		return OSMacOSX
	default:
		return strings.ToUpper(goos[:1]) + goos[1:]
	}
}

func defaultGOOS() string { return runtime.GOOS }
