// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"crypto/subtle"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer holds a password or key in memory that is locked against
// swapping, kept out of core dumps where the kernel supports it, and
// zeroed on Close. The backing region comes from an anonymous mmap, so
// the garbage collector never sees it and never copies it.
//
// A Buffer must not be copied after creation. All methods are safe
// for concurrent use. Reading the contents after Close panics.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

// New allocates a zero-filled buffer of size bytes. The region is:
//   - outside the Go heap (anonymous private mmap)
//   - locked into physical RAM (mlock)
//   - excluded from core dumps on Linux (MADV_DONTDUMP)
//
// A failure at any step releases what was already acquired. mlock can
// fail under a low RLIMIT_MEMLOCK; the error names the step. The
// caller must Close the returned buffer.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: buffer size must be positive, got %d", size)
	}

	// Anonymous memory the runtime does not manage.
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap: %w", err)
	}
	// Keep the pages out of swap.
	if err := unix.Mlock(data); err != nil {
		unix.Munmap(data)
		return nil, fmt.Errorf("secret: mlock: %w", err)
	}
	// No-op off Linux; see dump_other.go.
	if err := excludeFromDumps(data); err != nil {
		unix.Munlock(data)
		unix.Munmap(data)
		return nil, err
	}
	return &Buffer{data: data}, nil
}

// NewFromBytes copies source into a new buffer and then zeroes
// source in place, so the caller's slice no longer holds the secret.
// source is zeroed even when allocation fails.
func NewFromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("secret: cannot create buffer from empty source")
	}
	buffer, err := New(len(source))
	if err != nil {
		Zero(source)
		return nil, err
	}
	copy(buffer.data, source)
	Zero(source)
	return buffer, nil
}

// NewFromString copies value into a new buffer. The string itself
// cannot be erased; callers should drop their reference promptly.
func NewFromString(value string) (*Buffer, error) {
	return NewFromBytes([]byte(value))
}

// Bytes returns the protected memory itself, not a copy. Writes
// through the slice change the secret. The slice must not be retained
// past Close: the pages are unmapped and any access faults.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		panic("secret: read from closed buffer")
	}
	return b.data
}

// String returns a heap copy of the contents, for APIs that only
// accept strings (age identity parsing, for one). The copy is ordinary
// garbage-collected memory and cannot be zeroed; keep its lifetime
// short.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		panic("secret: read from closed buffer")
	}
	return string(b.data)
}

// Len returns the buffer size, or 0 after Close.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Equal reports whether the contents equal other, in time that
// depends only on the lengths.
func (b *Buffer) Equal(other []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		panic("secret: read from closed buffer")
	}
	return subtle.ConstantTimeCompare(b.data, other) == 1
}

// Close zeroes the contents, then unlocks and unmaps the region. It
// is idempotent; later calls return nil. When both munlock and munmap
// fail, the munlock error is returned.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	// Zero before unlocking so the plaintext never reaches a page that
	// could be swapped.
	Zero(b.data)

	var firstError error
	if err := unix.Munlock(b.data); err != nil {
		firstError = fmt.Errorf("secret: munlock: %w", err)
	}
	if err := unix.Munmap(b.data); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munmap: %w", err)
	}
	b.data = nil
	return firstError
}

// Zero overwrites data with zeros. Use it on heap copies of secrets,
// such as a password read from stdin, once they have been moved into a
// Buffer or are no longer needed.
func Zero(data []byte) {
	clear(data)
}
