// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bytecode defines the on-disk form of precompiled script
// artifacts and the decode pipeline that turns one back into the bytes
// a script host executes.
//
// An artifact lives next to the source it replaces: the source path
// with its extension replaced by [Suffix] (".jsc"). Its contents are
//
//	xxtea(gzip?(payload))
//
// Compression is optional and always applied before encryption, so the
// gzip signature is probed on the decrypted buffer, never on the raw
// file. [Decode] is strictly linear (decrypt, then inflate when the
// signature is present) and [Encode] is its inverse.
//
// Path helpers:
//
//   - [StripExtension] removes the text from the last "." onward.
//   - [SiblingPath] maps a logical source path to its artifact path.
//   - [SourcePath] maps an artifact path back to a source path.
//
// A path has an extension iff it contains a "." at an index other than
// 0. The last "." is used even when it belongs to a directory component
// ("lib.v2/main" strips to "lib").
package bytecode
