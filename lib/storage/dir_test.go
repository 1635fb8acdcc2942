// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestDirSearchOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	writeFile(t, filepath.Join(first, "src/main.js"), "first")
	writeFile(t, filepath.Join(second, "src/main.js"), "second")
	writeFile(t, filepath.Join(second, "src/only.js"), "only in second")

	dir, err := NewDir(first, second)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}

	data, err := dir.Read("src/main.js")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("Read(src/main.js) = %q, want the first root's copy", data)
	}

	data, err = dir.Read("./src/only.js")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "only in second" {
		t.Errorf("Read(./src/only.js) = %q", data)
	}

	if got, want := dir.Canonicalize("src/only.js"), filepath.Join(second, "src", "only.js"); got != want {
		t.Errorf("Canonicalize = %q, want %q", got, want)
	}
}

func TestDirMissing(t *testing.T) {
	dir, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}

	if dir.Exists("missing.js") {
		t.Error("Exists(missing.js) = true")
	}
	if _, err := dir.Read("missing.js"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Read(missing.js): got %v, want fs.ErrNotExist", err)
	}
	if got := dir.Canonicalize("missing.js"); got != "" {
		t.Errorf("Canonicalize(missing.js) = %q, want empty", got)
	}
}

func TestDirDirectoriesAreNotFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg/index.js"), "x")

	dir, err := NewDir(root)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if dir.Exists("pkg") {
		t.Error("Exists(pkg) = true for a directory")
	}
}

func TestDirAbsolutePath(t *testing.T) {
	root := t.TempDir()
	elsewhere := t.TempDir()
	absolute := filepath.Join(elsewhere, "abs.js")
	writeFile(t, absolute, "absolute")

	dir, err := NewDir(root)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}

	if !dir.Exists(absolute) {
		t.Fatal("Exists(absolute) = false")
	}
	data, err := dir.Read(absolute)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "absolute" {
		t.Errorf("Read = %q", data)
	}

	missing := filepath.Join(elsewhere, "nope", "..", "missing.js")
	if got, want := dir.Canonicalize(missing), filepath.Join(elsewhere, "missing.js"); got != want {
		t.Errorf("Canonicalize(missing absolute) = %q, want %q", got, want)
	}
}

func TestDirList(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "src/a.js"), "a")
	writeFile(t, filepath.Join(second, "src/a.js"), "shadowed")
	writeFile(t, filepath.Join(second, "src/b.jsc"), "b")
	writeFile(t, filepath.Join(second, "src/lib/c.js"), "c")

	dir, err := NewDir(first, second)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}

	entries, err := dir.List("src")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []Entry{{Name: "a.js"}, {Name: "b.jsc"}, {Name: "lib", Dir: true}}
	if len(entries) != len(want) {
		t.Fatalf("List = %v, want %v", entries, want)
	}
	for index := range want {
		if entries[index] != want[index] {
			t.Errorf("entry %d = %v, want %v", index, entries[index], want[index])
		}
	}

	if _, err := dir.List("absent"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("List(absent): got %v, want fs.ErrNotExist", err)
	}
}

func TestNewDirRequiresRoots(t *testing.T) {
	if _, err := NewDir(); err == nil {
		t.Error("NewDir() should fail without roots")
	}
	if _, err := NewDir(""); err == nil {
		t.Error("NewDir(\"\") should fail")
	}
}
