// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// Sources are merged in order on every load.
	Sources []Source

	Logger *slog.Logger

	// TempBase replaces os.TempDir() as the parent of the temp
	// fallback directory.
	TempBase string
}

// Resolver owns the active snapshot and resolves locations against it.
// Readers never block and never see a partially merged snapshot.
type Resolver struct {
	sources  []Source
	logger   *slog.Logger
	tempBase string

	current atomic.Pointer[Snapshot]

	// reloadMu serializes loads so two concurrent reloads cannot
	// publish out of order.
	reloadMu sync.Mutex
}

// NewResolver returns a resolver holding an empty snapshot until Load
// is called.
func NewResolver(options ResolverOptions) *Resolver {
	resolver := &Resolver{
		sources:  options.Sources,
		logger:   options.Logger,
		tempBase: options.TempBase,
	}
	if resolver.logger == nil {
		resolver.logger = slog.Default()
	}
	if resolver.tempBase == "" {
		resolver.tempBase = os.TempDir()
	}
	resolver.current.Store(NewSnapshot(nil))
	return resolver
}

// Load merges the sources and installs the result. The returned
// warnings name any skipped sources.
func (r *Resolver) Load(ctx context.Context) []error {
	_, warnings := r.Reload(ctx)
	return warnings
}

// Reload merges the sources, installs the result, and reports whether
// any property changed.
func (r *Resolver) Reload(ctx context.Context) (changed bool, warnings []error) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	snapshot, warnings := Load(ctx, r.logger, r.sources...)
	previous := r.current.Swap(snapshot)
	changed = previous.Digest() != snapshot.Digest()
	r.logger.Info("configuration loaded",
		"properties", snapshot.Len(),
		"digest", snapshot.Digest()[:16],
		"changed", changed,
		"warnings", len(warnings),
	)
	return changed, warnings
}

// ReloadOnSignal reloads whenever one of signals arrives, calling
// onChange (when non-nil) with each snapshot that differs from its
// predecessor. With no signals given it listens for SIGHUP. It blocks
// until ctx is done.
func (r *Resolver) ReloadOnSignal(ctx context.Context, onChange func(*Snapshot), signals ...os.Signal) {
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGHUP}
	}
	notifications := make(chan os.Signal, 1)
	signal.Notify(notifications, signals...)
	defer signal.Stop(notifications)

	for {
		select {
		case <-ctx.Done():
			return
		case received := <-notifications:
			r.logger.Info("reloading configuration", "signal", received.String())
			changed, _ := r.Reload(ctx)
			if changed && onChange != nil {
				onChange(r.Snapshot())
			}
		}
	}
}

// Snapshot returns the active snapshot.
func (r *Resolver) Snapshot() *Snapshot {
	return r.current.Load()
}

// GetProperty returns the value of key in the active snapshot.
func (r *Resolver) GetProperty(key string) (string, bool) {
	return r.current.Load().Get(key)
}

// GetPropertyDefault returns the value of key, or fallback when unset.
func (r *Resolver) GetPropertyDefault(key, fallback string) string {
	return r.current.Load().GetDefault(key, fallback)
}
