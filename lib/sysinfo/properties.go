// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package sysinfo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kestrel-gateway/kestrel/lib/config"
	"github.com/kestrel-gateway/kestrel/lib/sealed"
	"github.com/kestrel-gateway/kestrel/lib/secret"
)

// Scalar property keys.
const (
	KeyProductName                   = "kestrel.name"
	KeySnapshotsCount                = "kestrel.snapshots.count"
	KeyWifiTopChannel                = "kestrel.wifi.top.channel"
	KeyStyleDirectory                = "kestrel.style.dir"
	KeyZipMaxUploadSize              = "file.command.zip.max.size"
	KeyZipMaxUploadNumber            = "file.command.zip.max.number"
	KeyDeviceManagementServiceIgnore = "console.device.management.service.ignore"
	KeyKeyStorePassword              = "kestrel.ssl.keystore.password"
	KeyTrustStorePassword            = "kestrel.ssl.truststore.password"
	KeyIdentityFile                  = "kestrel.crypto.identity.file"
)

// Defaults for unset or malformed scalar properties.
const (
	DefaultSnapshotsCount     = 10
	DefaultWifiTopChannel     = 11
	DefaultZipMaxUploadSize   = 100
	DefaultZipMaxUploadNumber = 1024
)

func (p *Provider) property(key string) (string, bool) {
	value, ok := p.configuration.GetProperty(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// intProperty parses key, falling back on absence or a malformed
// value.
func (p *Provider) intProperty(key string, fallback int) int {
	value, ok := p.property(key)
	if !ok {
		p.logger.Debug("property not set, using default", "key", key, "default", fallback)
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		p.logger.Error("invalid integer property, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return parsed
}

// ProductName returns the product name property, or empty when unset.
func (p *Provider) ProductName() string {
	value, _ := p.configuration.GetProperty(KeyProductName)
	return value
}

// ProductVersion returns the product version. The defaults source
// guarantees it is set after a load.
func (p *Provider) ProductVersion() string {
	value, ok := p.configuration.GetProperty(config.KeyVersion)
	if !ok {
		return config.DefaultVersion
	}
	return value
}

// NetAdminEnabled reports whether the gateway manages networking.
func (p *Provider) NetAdminEnabled() bool {
	value, ok := p.configuration.GetProperty(config.KeyHaveNetAdmin)
	if !ok {
		value = config.DefaultHaveNetAdmin
	}
	return config.NormalizeBool(value) == "true"
}

// WebInterfaceEnabled reports whether the web console is enabled.
func (p *Provider) WebInterfaceEnabled() bool {
	value, ok := p.configuration.GetProperty(config.KeyHaveWebInterface)
	if !ok {
		value = config.DefaultHaveWebInterface
	}
	return config.NormalizeBool(value) == "true"
}

// DataDirectory returns the data location.
func (p *Provider) DataDirectory() (string, bool) {
	path, ok, _ := p.configuration.ResolveLocation(config.LocationData, "")
	return path, ok
}

// TemporaryDirectory returns the temp location, creating it if needed.
func (p *Provider) TemporaryDirectory() (string, error) {
	path, _, err := p.configuration.ResolveLocation(config.LocationTemp, "")
	return path, err
}

// SnapshotsDirectory returns the snapshots location: the snapshots
// property when set, else <data>/snapshots.
func (p *Provider) SnapshotsDirectory() (string, bool) {
	path, ok, _ := p.configuration.ResolveLocation(config.LocationSnapshots, "")
	return path, ok
}

// SnapshotsCount is how many configuration snapshots to retain.
func (p *Provider) SnapshotsCount() int {
	return p.intProperty(KeySnapshotsCount, DefaultSnapshotsCount)
}

// WifiTopChannel is the highest usable Wi-Fi channel. An unset value
// is logged at warning level.
func (p *Provider) WifiTopChannel() int {
	if _, ok := p.property(KeyWifiTopChannel); !ok {
		p.logger.Warn("wifi top channel not configured", "default", DefaultWifiTopChannel)
	}
	return p.intProperty(KeyWifiTopChannel, DefaultWifiTopChannel)
}

// ZipMaxUploadSize is the command upload size limit in megabytes.
func (p *Provider) ZipMaxUploadSize() int {
	return p.intProperty(KeyZipMaxUploadSize, DefaultZipMaxUploadSize)
}

// ZipMaxUploadNumber is the command upload file-count limit.
func (p *Provider) ZipMaxUploadNumber() int {
	return p.intProperty(KeyZipMaxUploadNumber, DefaultZipMaxUploadNumber)
}

// StyleDirectory returns the console style directory, if configured.
func (p *Provider) StyleDirectory() (string, bool) {
	return p.property(KeyStyleDirectory)
}

// DeviceManagementServiceIgnore returns the comma-separated service
// list, trimmed and without empty entries. Nil when unset.
func (p *Provider) DeviceManagementServiceIgnore() []string {
	value, ok := p.property(KeyDeviceManagementServiceIgnore)
	if !ok {
		return nil
	}
	var services []string
	for service := range strings.SplitSeq(value, ",") {
		if service = strings.TrimSpace(service); service != "" {
			services = append(services, service)
		}
	}
	return services
}

// KeyStorePassword returns the keystore password in protected memory.
// ok is false when the property is unset. Sealed values are opened
// with the identity at kestrel.crypto.identity.file.
func (p *Provider) KeyStorePassword() (password *secret.Buffer, ok bool, err error) {
	return p.password(KeyKeyStorePassword)
}

// TrustStorePassword is KeyStorePassword for the truststore.
func (p *Provider) TrustStorePassword() (password *secret.Buffer, ok bool, err error) {
	return p.password(KeyTrustStorePassword)
}

func (p *Provider) password(key string) (*secret.Buffer, bool, error) {
	value, ok := p.configuration.GetProperty(key)
	if !ok || value == "" {
		return nil, false, nil
	}
	if !sealed.IsSealed(value) {
		buffer, err := secret.NewFromString(value)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", key, err)
		}
		return buffer, true, nil
	}

	identityPath, ok := p.property(KeyIdentityFile)
	if !ok {
		return nil, false, fmt.Errorf("%s is sealed but %s is not set", key, KeyIdentityFile)
	}
	identity, err := secret.ReadFromPath(strings.TrimSpace(identityPath))
	if err != nil {
		return nil, false, fmt.Errorf("%s: loading identity: %w", key, err)
	}
	defer identity.Close()

	buffer, err := sealed.Open(value, identity)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", key, err)
	}
	return buffer, true, nil
}
