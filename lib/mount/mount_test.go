// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mount

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/bureau-foundation/scriptvault/lib/bytecode"
	"github.com/bureau-foundation/scriptvault/lib/resolver"
	"github.com/bureau-foundation/scriptvault/lib/secret"
	"github.com/bureau-foundation/scriptvault/lib/storage"
	"github.com/bureau-foundation/scriptvault/lib/testutil"
)

func TestLogicalEntries(t *testing.T) {
	listing := []storage.Entry{
		{Name: "app.js"},
		{Name: "app.jsc"},
		{Name: "lib", Dir: true},
		{Name: "lib.jsc"},
		{Name: "readme.txt"},
		{Name: "util.jsc"},
	}

	got := LogicalEntries(listing)
	want := []storage.Entry{
		{Name: "app.js"},
		{Name: "lib", Dir: true},
		{Name: "lib.js"},
		{Name: "readme.txt"},
		{Name: "util.js"},
	}
	if len(got) != len(want) {
		t.Fatalf("LogicalEntries = %v, want %v", got, want)
	}
	for index := range want {
		if got[index] != want[index] {
			t.Errorf("entry %d = %+v, want %+v", index, got[index], want[index])
		}
	}
}

func TestLogicalEntriesDirectoryShadowsFile(t *testing.T) {
	got := LogicalEntries([]storage.Entry{
		{Name: "x.js", Dir: true},
		{Name: "x.jsc"},
	})
	if len(got) != 1 || !got[0].Dir {
		t.Errorf("LogicalEntries = %v, want a single directory", got)
	}
}

func TestFileHandleSlice(t *testing.T) {
	handle := &fileHandle{data: []byte("0123456789")}
	tests := []struct {
		length int
		offset int64
		want   string
	}{
		{4, 0, "0123"},
		{4, 8, "89"},
		{4, 10, ""},
		{100, 3, "3456789"},
	}
	for _, test := range tests {
		if got := string(handle.slice(test.length, test.offset)); got != test.want {
			t.Errorf("slice(%d, %d) = %q, want %q", test.length, test.offset, got, test.want)
		}
	}
}

func TestMountRequiresOptions(t *testing.T) {
	if _, err := Mount(Options{}); err == nil {
		t.Error("expected error for missing mountpoint")
	}
	if _, err := Mount(Options{Mountpoint: t.TempDir()}); err == nil {
		t.Error("expected error for missing resolver")
	}
}

// fuseAvailable skips the test when /dev/fuse is absent.
func fuseAvailable(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/dev/fuse"); err != nil {
		t.Skip("skipping: /dev/fuse not available")
	}
}

func TestMountServesResolvedScripts(t *testing.T) {
	fuseAvailable(t)

	artifact, err := bytecode.Encode([]byte("decoded();"), testutil.TestKey, bytecode.EncodeOptions{Compress: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	root := testutil.WriteTree(t, map[string][]byte{
		"main.js":        []byte("stale source"),
		"main.jsc":       artifact,
		"lib/helper.js":  []byte("helper();"),
		"lib/broken.jsc": []byte("not an artifact"),
	})

	dir, err := storage.NewDir(root)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	key, err := secret.NewFromBytes(append([]byte(nil), testutil.TestKey...))
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	scripts, err := resolver.New(resolver.Options{Storage: dir, Key: key})
	if err != nil {
		t.Fatalf("resolver.New: %v", err)
	}
	t.Cleanup(func() { scripts.Close() })

	mountpoint := filepath.Join(t.TempDir(), "mount")
	server, err := Mount(Options{Mountpoint: mountpoint, Resolver: scripts, Lister: dir})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	t.Cleanup(func() {
		if err := server.Unmount(); err != nil {
			t.Errorf("Unmount: %v", err)
		}
	})

	entries, err := os.ReadDir(mountpoint)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	if len(names) != 2 || names[0] != "lib" || names[1] != "main.js" {
		t.Errorf("root listing = %v, want [lib main.js]", names)
	}

	content, err := os.ReadFile(filepath.Join(mountpoint, "main.js"))
	if err != nil {
		t.Fatalf("ReadFile main.js: %v", err)
	}
	if string(content) != "decoded();" {
		t.Errorf("main.js = %q, want decoded artifact", content)
	}

	content, err = os.ReadFile(filepath.Join(mountpoint, "lib", "helper.js"))
	if err != nil {
		t.Fatalf("ReadFile helper.js: %v", err)
	}
	if string(content) != "helper();" {
		t.Errorf("helper.js = %q", content)
	}

	if _, err := os.Stat(filepath.Join(mountpoint, "lib", "broken.js")); !errors.Is(err, syscall.EIO) {
		t.Errorf("stat of undecryptable artifact: got %v, want EIO", err)
	}

	file, err := os.OpenFile(filepath.Join(mountpoint, "lib", "helper.js"), os.O_WRONLY, 0)
	if err == nil {
		file.Close()
		t.Fatal("expected write open to fail")
	}
	if !errors.Is(err, syscall.EROFS) {
		t.Errorf("write open: got %v, want EROFS", err)
	}
}
