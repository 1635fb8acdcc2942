// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package resolver decides what a script host receives when it asks
// for a source file.
//
// For a logical path such as "src/main.js" the [Resolver] first probes
// for the precompiled sibling "src/main.jsc". If the sibling exists it
// is read, decrypted with the resolver's key, and inflated when the
// decrypted buffer carries the gzip signature; the raw source is never
// consulted in that case, even when decoding fails. Without a sibling
// the source file's bytes pass through unchanged.
//
// The core operations ([Resolver.Bytes], [Resolver.Text],
// [Resolver.FullPath], [Resolver.Exists], [Resolver.Stat]) return
// results and wrapped errors. [Delegate] adapts them to the four hooks
// a script host's module loader calls, which report failures to a
// logger and yield empty results instead of returning errors.
//
// Exists checks only the source path, never the sibling, while every
// other operation prefers the sibling.
//
// The key is fixed at construction and a Resolver is safe for
// concurrent use. Passing an empty path to any operation is a caller
// bug and panics.
package resolver
