// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bytecode

import "testing"

func TestStripExtension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.js", "main"},
		{"src/game/main.js", "src/game/main"},
		{"archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
		{".hidden", ".hidden"},
		{"a.", "a"},
		{"lib.v2/main", "lib"},
		{"./main.js", "./main"},
		{".", "."},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := StripExtension(tt.path); got != tt.want {
				t.Errorf("StripExtension(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestSiblingPath(t *testing.T) {
	tests := []struct {
		path       string
		want       string
		hasSibling bool
	}{
		{"main.js", "main.jsc", true},
		{"src/app.ts", "src/app.jsc", true},
		{"already.jsc", "already.jsc", true},
		{"noext", "noext", false},
		{".hidden", ".hidden", false},
		{"/abs/path/index.js", "/abs/path/index.jsc", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := SiblingPath(tt.path)
			if got != tt.want || ok != tt.hasSibling {
				t.Errorf("SiblingPath(%q) = (%q, %v), want (%q, %v)",
					tt.path, got, ok, tt.want, tt.hasSibling)
			}
		})
	}
}

func TestSourcePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.jsc", "main.js"},
		{"a/b/c.jsc", "a/b/c.js"},
		{"main.js", "main.js"},
		{".jsc", ".jsc"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := SourcePath(tt.path); got != tt.want {
				t.Errorf("SourcePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
