// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"crypto/subtle"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer is a fixed-size region of locked, non-dumpable memory. A
// Buffer must not be copied after creation.
type Buffer struct {
	mu     sync.Mutex
	region []byte
	closed bool
}

// New maps a zero-filled buffer of size bytes.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: buffer size must be positive, got %d", size)
	}

	region, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap: %w", err)
	}
	if err := unix.Mlock(region); err != nil {
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: mlock: %w", err)
	}
	if err := unix.Madvise(region, unix.MADV_DONTDUMP); err != nil {
		unix.Munlock(region)
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: madvise(MADV_DONTDUMP): %w", err)
	}

	return &Buffer{region: region}, nil
}

// NewFromBytes copies source into a new Buffer and zeroes source.
func NewFromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("secret: cannot create buffer from empty source")
	}

	buffer, err := New(len(source))
	if err != nil {
		return nil, err
	}
	copy(buffer.region, source)
	Zero(source)
	return buffer, nil
}

// NewFromReader reads at most limit bytes from reader into a new
// Buffer. Reading more than limit bytes, or nothing at all, is an
// error. The intermediate heap buffer is zeroed before returning.
func NewFromReader(reader io.Reader, limit int) (*Buffer, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("secret: read limit must be positive, got %d", limit)
	}

	scratch := make([]byte, limit+1)
	defer Zero(scratch)

	count, err := io.ReadFull(reader, scratch)
	switch {
	case err == io.EOF:
		return nil, fmt.Errorf("secret: reader is empty")
	case err == io.ErrUnexpectedEOF:
		// Fewer than limit+1 bytes: the expected case.
	case err != nil:
		return nil, fmt.Errorf("secret: reading: %w", err)
	default:
		return nil, fmt.Errorf("secret: input exceeds %d bytes", limit)
	}

	return NewFromBytes(scratch[:count])
}

// Bytes returns the secret. The slice aliases the locked region and
// must not outlive the Buffer.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		panic("secret: read from closed buffer")
	}
	return b.region
}

// Len returns the secret's length, or 0 after Close.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.region)
}

// Equal compares the secret with other in constant time.
func (b *Buffer) Equal(other []byte) bool {
	return subtle.ConstantTimeCompare(b.Bytes(), other) == 1
}

// Close zeroes and releases the region.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	Zero(b.region)
	var firstError error
	if err := unix.Munlock(b.region); err != nil {
		firstError = fmt.Errorf("secret: munlock: %w", err)
	}
	if err := unix.Munmap(b.region); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munmap: %w", err)
	}
	b.region = nil
	return firstError
}

// Zero overwrites data with zeros.
func Zero(data []byte) {
	for index := range data {
		data[index] = 0
	}
}
