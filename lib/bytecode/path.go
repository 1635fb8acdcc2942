// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bytecode

import "strings"

// Suffix identifies precompiled artifacts. No content sniffing is
// performed on source paths: a file is an artifact iff its name ends
// with Suffix.
const Suffix = ".jsc"

// SourceSuffix is the extension SourcePath gives a stripped artifact
// path.
const SourceSuffix = ".js"

// StripExtension returns path without the text from its last "."
// onward. A path whose only "." is at index 0, or that contains no
// ".", is returned unchanged.
func StripExtension(path string) string {
	position := strings.LastIndexByte(path, '.')
	if position > 0 {
		return path[:position]
	}
	return path
}

// HasExtension reports whether StripExtension would remove anything.
func HasExtension(path string) bool {
	return strings.LastIndexByte(path, '.') > 0
}

// SiblingPath returns the artifact path for a logical source path and
// true. A path without an extension has no sibling; it is returned
// unchanged with false, and callers go straight to the source.
func SiblingPath(path string) (string, bool) {
	if !HasExtension(path) {
		return path, false
	}
	return StripExtension(path) + Suffix, true
}

// IsArtifact reports whether path names a precompiled artifact.
func IsArtifact(path string) bool {
	return len(path) > len(Suffix) && strings.HasSuffix(path, Suffix)
}

// SourcePath returns the logical source path an artifact stands in
// for: "a/b.jsc" becomes "a/b.js". Paths that are not artifacts are
// returned unchanged.
func SourcePath(artifactPath string) string {
	if !IsArtifact(artifactPath) {
		return artifactPath
	}
	return strings.TrimSuffix(artifactPath, Suffix) + SourceSuffix
}
