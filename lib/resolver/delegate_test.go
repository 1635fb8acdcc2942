// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"strings"
	"testing"

	"github.com/bureau-foundation/scriptvault/lib/bytecode"
)

func TestDelegateGetDataFromFile(t *testing.T) {
	resolver, _ := newTestResolver(t, map[string][]byte{
		"main.jsc": encodeArtifact(t, "decoded main", true),
		"util.js":  []byte("raw util"),
	})
	delegate := NewDelegate(resolver)

	var received []string
	delegate.GetDataFromFile("main.js", func(data []byte) { received = append(received, string(data)) })
	delegate.GetDataFromFile("util.js", func(data []byte) { received = append(received, string(data)) })

	if len(received) != 2 || received[0] != "decoded main" || received[1] != "raw util" {
		t.Errorf("received = %q", received)
	}
}

func TestDelegateGetDataFromFileDecryptFailure(t *testing.T) {
	wrongKey, err := bytecode.Encode([]byte("x"), []byte("another-key"), bytecode.EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	resolver, logs := newTestResolver(t, map[string][]byte{
		"main.js":  []byte("fallback must not happen"),
		"main.jsc": wrongKey,
	})
	delegate := NewDelegate(resolver)

	called := false
	delegate.GetDataFromFile("main.js", func([]byte) { called = true })

	if called {
		t.Error("consumer was called after a decrypt failure")
	}
	if !strings.Contains(logs.String(), "can't decrypt code") || !strings.Contains(logs.String(), "main.jsc") {
		t.Errorf("expected a decrypt diagnostic naming main.jsc, got %q", logs.String())
	}
}

func TestDelegateGetDataFromFileMissingSource(t *testing.T) {
	resolver, _ := newTestResolver(t, nil)
	delegate := NewDelegate(resolver)

	called := false
	var got []byte
	delegate.GetDataFromFile("missing.js", func(data []byte) {
		called = true
		got = data
	})

	if !called {
		t.Fatal("consumer should receive empty data for a missing source")
	}
	if len(got) != 0 {
		t.Errorf("data = %q, want empty", got)
	}
}

func TestDelegateGetStringFromFile(t *testing.T) {
	wrongKey, err := bytecode.Encode([]byte("x"), []byte("another-key"), bytecode.EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	resolver, logs := newTestResolver(t, map[string][]byte{
		"ok.jsc":  encodeArtifact(t, "text payload", false),
		"bad.jsc": wrongKey,
	})
	delegate := NewDelegate(resolver)

	if got := delegate.GetStringFromFile("ok.js"); got != "text payload" {
		t.Errorf("GetStringFromFile(ok.js) = %q", got)
	}

	if got := delegate.GetStringFromFile("bad.js"); got != "" {
		t.Errorf("GetStringFromFile(bad.js) = %q, want empty", got)
	}
	if !strings.Contains(logs.String(), "bad.jsc") {
		t.Errorf("decrypt diagnostic should name bad.jsc, got %q", logs.String())
	}

	if got := delegate.GetStringFromFile("gone.js"); got != "" {
		t.Errorf("GetStringFromFile(gone.js) = %q, want empty", got)
	}
	if !strings.Contains(logs.String(), "file not found") {
		t.Errorf("expected a not-found diagnostic, got %q", logs.String())
	}
}

func TestDelegatePathHooks(t *testing.T) {
	resolver, _ := newTestResolver(t, map[string][]byte{
		"a.jsc": encodeArtifact(t, "a", false),
		"b.js":  []byte("b"),
	})
	delegate := NewDelegate(resolver)

	if got := delegate.GetFullPath("a.js"); got != "a.jsc" {
		t.Errorf("GetFullPath(a.js) = %q, want a.jsc", got)
	}
	if got := delegate.GetFullPath("b.js"); got != "b.js" {
		t.Errorf("GetFullPath(b.js) = %q", got)
	}
	if delegate.CheckFileExist("a.js") {
		t.Error("CheckFileExist(a.js) = true")
	}
	if !delegate.CheckFileExist("b.js") {
		t.Error("CheckFileExist(b.js) = false")
	}
}

func TestDelegateRoundtrip(t *testing.T) {
	plaintext := "module.exports = function boot() { return 'ready'; };\n"
	for _, compress := range []bool{false, true} {
		resolver, _ := newTestResolver(t, map[string][]byte{
			"boot.jsc": encodeArtifact(t, plaintext, compress),
		})
		delegate := NewDelegate(resolver)

		var got string
		delegate.GetDataFromFile("boot.js", func(data []byte) { got = string(data) })
		if got != plaintext {
			t.Errorf("compress=%v: roundtrip = %q, want %q", compress, got, plaintext)
		}
	}
}
