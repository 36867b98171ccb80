// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package sysinfo

import (
	"context"
	"fmt"
	"os"
)

// Activate logs the capability flags and version and makes sure the
// snapshots and temp directories exist. An error means the gateway
// cannot run and startup must abort.
func (p *Provider) Activate(ctx context.Context) error {
	p.logger.Info("gateway capabilities",
		"net_admin", p.NetAdminEnabled(),
		"web_interface", p.WebInterfaceEnabled(),
		"version", p.ProductVersion(),
	)

	if snapshots, ok := p.SnapshotsDirectory(); ok {
		p.logger.Info("snapshots directory", "path", snapshots)
		if err := os.MkdirAll(snapshots, 0o755); err != nil {
			return fmt.Errorf("creating snapshots directory: %w", err)
		}
	} else {
		p.logger.Error("snapshots directory not configured")
	}

	temp, err := p.TemporaryDirectory()
	if err != nil {
		return err
	}
	p.logger.Info("temp directory", "path", temp)

	p.logger.Info("gateway starting",
		"product", p.ProductName(),
		"version", p.ProductVersion(),
		"os", p.OSName(ctx),
		"busybox", p.UsingBusyBox(),
	)
	return nil
}
