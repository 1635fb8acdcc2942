// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package storage is the file access layer beneath the artifact
// resolver. It answers three questions about a logical path (does it
// exist, what are its bytes, where does it live) without knowing
// anything about artifacts, ciphers, or compression.
//
// Implementations:
//
//   - [Dir] searches an ordered list of root directories. The first
//     root that contains a relative path wins; absolute paths bypass
//     the search.
//   - [Archive] reads from a zip file (an application package) below
//     an optional in-archive prefix.
//   - [Memory] holds files in a map, for tests and embedded bundles.
//   - [Layered] stacks other storages; the first layer that has a
//     path serves it.
//
// Missing files are reported by Read as errors wrapping
// [fs.ErrNotExist]. Canonicalize returns "" for a relative path that
// no root contains.
//
// Implementations that can enumerate directories also satisfy
// [Lister], which the FUSE mount uses to build listings.
package storage
