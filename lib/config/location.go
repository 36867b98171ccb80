// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// LocationKind names a logical filesystem location.
type LocationKind string

const (
	LocationConfig    LocationKind = "config"
	LocationData      LocationKind = "data"
	LocationTemp      LocationKind = "temp"
	LocationSnapshots LocationKind = "snapshots"
	LocationPackages  LocationKind = "packages"
)

// LocationKinds lists every kind in display order.
var LocationKinds = []LocationKind{
	LocationConfig, LocationData, LocationTemp, LocationSnapshots, LocationPackages,
}

// ErrUnrecoverableLocation means no usable temporary directory could
// be produced. Callers must abort initialization.
var ErrUnrecoverableLocation = errors.New("unrecoverable location")

// ErrUnknownLocation is returned for a kind outside LocationKinds.
var ErrUnknownLocation = errors.New("unknown location kind")

// ParseLocationKind converts a name to a LocationKind.
func ParseLocationKind(name string) (LocationKind, error) {
	for _, kind := range LocationKinds {
		if string(kind) == name {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLocation, name)
}

// ResolveLocation returns the path for kind with relative appended
// when non-empty. ok is false when the kind has no base: config, data,
// snapshots (when data is also unset), and packages (when unset or not
// creatable). Temp always has a base; the directory is created if
// missing and must be writable, or the error wraps
// ErrUnrecoverableLocation.
func (r *Resolver) ResolveLocation(kind LocationKind, relative string) (path string, ok bool, err error) {
	snapshot := r.Snapshot()

	var base string
	switch kind {
	case LocationConfig:
		base = r.base(snapshot, KeyHome)
	case LocationData:
		base = r.base(snapshot, KeyData)
	case LocationSnapshots:
		base = r.base(snapshot, KeySnapshots)
		if base == "" {
			if data := r.base(snapshot, KeyData); data != "" {
				base = filepath.Join(data, "snapshots")
			}
		}
	case LocationPackages:
		base = r.base(snapshot, KeyPackages)
		if base == "" {
			r.logger.Debug("packages location not configured", "key", KeyPackages)
			return "", false, nil
		}
		if err := os.MkdirAll(base, 0o755); err != nil {
			r.logger.Warn("packages location unavailable", "path", base, "error", err)
			return "", false, nil
		}
	case LocationTemp:
		base, err = r.tempBaseDirectory(snapshot)
		if err != nil {
			return "", false, err
		}
	default:
		return "", false, fmt.Errorf("%w: %q", ErrUnknownLocation, kind)
	}

	if base == "" {
		return "", false, nil
	}
	if relative != "" {
		base = filepath.Join(base, relative)
	}
	absolute, err := filepath.Abs(base)
	if err != nil {
		return "", false, fmt.Errorf("resolving %s location: %w", kind, err)
	}
	return absolute, true, nil
}

func (r *Resolver) base(snapshot *Snapshot, key string) string {
	value, _ := snapshot.Get(key)
	return strings.TrimSpace(expandVars(value, snapshot))
}

func (r *Resolver) tempBaseDirectory(snapshot *Snapshot) (string, error) {
	base := r.base(snapshot, KeyTemp)
	if base == "" {
		base = filepath.Join(r.tempBase, tempDirectoryName)
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating temp directory: %w", ErrUnrecoverableLocation, err)
	}
	if err := unix.Access(base, unix.W_OK); err != nil {
		return "", fmt.Errorf("%w: temp directory %s is not writable: %w", ErrUnrecoverableLocation, base, err)
	}
	return base, nil
}

// ConfigurationLocation returns the config base.
func (r *Resolver) ConfigurationLocation() (string, bool) {
	path, ok, _ := r.ResolveLocation(LocationConfig, "")
	return path, ok
}

// DataLocation returns the data base.
func (r *Resolver) DataLocation() (string, bool) {
	path, ok, _ := r.ResolveLocation(LocationData, "")
	return path, ok
}

// TempLocation returns the temp directory, creating it if needed.
func (r *Resolver) TempLocation() (string, error) {
	path, _, err := r.ResolveLocation(LocationTemp, "")
	return path, err
}

// SnapshotsLocation returns the snapshots directory.
func (r *Resolver) SnapshotsLocation() (string, bool) {
	path, ok, _ := r.ResolveLocation(LocationSnapshots, "")
	return path, ok
}

// PackagesLocation returns the packages directory, creating it if
// needed.
func (r *Resolver) PackagesLocation() (string, bool) {
	path, ok, _ := r.ResolveLocation(LocationPackages, "")
	return path, ok
}
