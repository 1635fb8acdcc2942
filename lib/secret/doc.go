// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds cipher keys in memory the garbage collector
// never sees.
//
// [Buffer] is backed by an anonymous mmap region that is mlock'd
// (never swapped) and marked MADV_DONTDUMP (absent from core dumps).
// Close zeroes, unlocks, and unmaps it. Constructors:
//
//   - [New] allocates a zero-filled buffer
//   - [NewFromBytes] copies a slice in and zeroes the source
//   - [NewFromReader] reads up to a size limit from an io.Reader
//   - [ReadFromPath] reads a key file (or stdin for "-")
//
// After Close every accessor panics. Close is idempotent.
package secret
