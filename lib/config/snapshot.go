// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/binary"
	"encoding/hex"
	"maps"
	"slices"

	"github.com/zeebo/blake3"
)

// Snapshot is an immutable merged view of configuration properties.
// It is safe for concurrent use.
type Snapshot struct {
	values map[string]string
	keys   []string
	digest [32]byte
}

// NewSnapshot returns a snapshot holding a copy of values.
func NewSnapshot(values map[string]string) *Snapshot {
	snapshot := &Snapshot{
		values: maps.Clone(values),
		keys:   slices.Sorted(maps.Keys(values)),
	}
	if snapshot.values == nil {
		snapshot.values = map[string]string{}
	}

	// Length-prefixed so ("ab","c") and ("a","bc") hash differently.
	var buffer []byte
	for _, key := range snapshot.keys {
		value := snapshot.values[key]
		buffer = binary.AppendUvarint(buffer, uint64(len(key)))
		buffer = append(buffer, key...)
		buffer = binary.AppendUvarint(buffer, uint64(len(value)))
		buffer = append(buffer, value...)
	}
	snapshot.digest = blake3.Sum256(buffer)
	return snapshot
}

// Get returns the value for key and whether it is set.
func (s *Snapshot) Get(key string) (string, bool) {
	value, ok := s.values[key]
	return value, ok
}

// GetDefault returns the value for key, or fallback when unset.
func (s *Snapshot) GetDefault(key, fallback string) string {
	if value, ok := s.values[key]; ok {
		return value
	}
	return fallback
}

// Keys returns every key in sorted order.
func (s *Snapshot) Keys() []string {
	return slices.Clone(s.keys)
}

// Len returns the number of properties.
func (s *Snapshot) Len() int {
	return len(s.keys)
}

// Properties returns a copy of every property.
func (s *Snapshot) Properties() map[string]string {
	return maps.Clone(s.values)
}

// Digest returns a hex fingerprint of the snapshot's contents. Two
// snapshots with the same properties have the same digest.
func (s *Snapshot) Digest() string {
	return hex.EncodeToString(s.digest[:])
}
