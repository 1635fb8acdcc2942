// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package mount exposes a resolved script tree as a read-only FUSE
// filesystem.
//
// Every file in the mount is a logical source path: reading it returns
// what the resolver would hand a script host, so an encrypted artifact
// scripts/main.jsc appears as scripts/main.js containing the decoded
// source. Artifacts never appear under their own names. When both
// main.js and main.jsc exist, one main.js entry is listed and it
// serves the artifact.
//
// The filesystem is read-only; opening for write fails with EROFS.
// Attribute and entry timeouts are short because the underlying tree
// is not watched.
package mount
