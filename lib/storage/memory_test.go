// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"errors"
	"io/fs"
	"testing"
)

func TestMemory(t *testing.T) {
	memory := NewMemory(map[string][]byte{
		"src/main.js":  []byte("main"),
		"/src/util.js": []byte("util"),
	})

	if !memory.Exists("./src/main.js") {
		t.Error("Exists(./src/main.js) = false")
	}
	if !memory.Exists("src/util.js") {
		t.Error("leading slash should be normalized away")
	}
	if got := memory.Canonicalize("src//main.js"); got != "src/main.js" {
		t.Errorf("Canonicalize = %q, want src/main.js", got)
	}

	data, err := memory.Read("src/main.js")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	data[0] = 'X'
	again, _ := memory.Read("src/main.js")
	if string(again) != "main" {
		t.Error("Read should return a copy")
	}

	memory.Remove("src/main.js")
	if _, err := memory.Read("src/main.js"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Read after Remove: got %v, want fs.ErrNotExist", err)
	}
}

func TestMemoryList(t *testing.T) {
	memory := NewMemory(map[string][]byte{
		"a.js":         nil,
		"src/b.js":     nil,
		"src/c.jsc":    nil,
		"src/lib/d.js": nil,
	})

	root, err := memory.List("")
	if err != nil {
		t.Fatalf("List(root): %v", err)
	}
	if len(root) != 2 || root[0] != (Entry{Name: "a.js"}) || root[1] != (Entry{Name: "src", Dir: true}) {
		t.Errorf("List(root) = %v", root)
	}

	src, err := memory.List("src/")
	if err != nil {
		t.Fatalf("List(src): %v", err)
	}
	want := []Entry{{Name: "b.js"}, {Name: "c.jsc"}, {Name: "lib", Dir: true}}
	if len(src) != len(want) {
		t.Fatalf("List(src) = %v, want %v", src, want)
	}
	for index := range want {
		if src[index] != want[index] {
			t.Errorf("entry %d = %v, want %v", index, src[index], want[index])
		}
	}

	if _, err := memory.List("nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("List(nope): got %v, want fs.ErrNotExist", err)
	}
}
