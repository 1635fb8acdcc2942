// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/scriptvault/lib/clock"
	"github.com/bureau-foundation/scriptvault/lib/codec"
)

// Version is the manifest format version this package writes.
const Version = 1

// DefaultFileName is the manifest name pack uses inside its output
// directory.
const DefaultFileName = "scriptvault.manifest"

// fingerprintContext is the BLAKE3 key-derivation context for key
// fingerprints. Changing it invalidates every existing manifest.
const fingerprintContext = "scriptvault 2026 artifact key fingerprint v1"

// Digest is a BLAKE3-256 hash of an artifact's plaintext.
type Digest [32]byte

// String returns the lowercase hex encoding.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Fingerprint identifies a cipher key without revealing it.
type Fingerprint [8]byte

// String returns the lowercase hex encoding.
func (f Fingerprint) String() string { return hex.EncodeToString(f[:]) }

// Sum returns the digest of data.
func Sum(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}

// KeyFingerprint derives the fingerprint of key. The empty key has a
// fingerprint too.
func KeyFingerprint(key []byte) Fingerprint {
	var derived [32]byte
	blake3.DeriveKey(fingerprintContext, key, derived[:])
	var fingerprint Fingerprint
	copy(fingerprint[:], derived[:])
	return fingerprint
}

// Entry describes one artifact.
type Entry struct {
	Source     string `cbor:"source"`
	Artifact   string `cbor:"artifact"`
	Compressed bool   `cbor:"compressed"`
	Size       int64  `cbor:"size"`
	Digest     Digest `cbor:"digest"`
}

// Manifest is the record of one pack run.
type Manifest struct {
	Version        int         `cbor:"version"`
	CreatedAt      time.Time   `cbor:"created_at"`
	KeyFingerprint Fingerprint `cbor:"key_fingerprint"`
	Entries        []Entry     `cbor:"entries"`
}

// Lookup returns the entry for a logical source path.
func (m *Manifest) Lookup(source string) (Entry, bool) {
	index := sort.Search(len(m.Entries), func(i int) bool { return m.Entries[i].Source >= source })
	if index < len(m.Entries) && m.Entries[index].Source == source {
		return m.Entries[index], true
	}
	return Entry{}, false
}

// Builder accumulates entries during a pack run. Not safe for
// concurrent use.
type Builder struct {
	clock       clock.Clock
	fingerprint Fingerprint
	entries     map[string]Entry
}

// NewBuilder starts a manifest for artifacts encrypted under key.
func NewBuilder(key []byte, clk clock.Clock) *Builder {
	return &Builder{
		clock:       clk,
		fingerprint: KeyFingerprint(key),
		entries:     make(map[string]Entry),
	}
}

// Add records an artifact. Adding the same source twice replaces the
// earlier entry.
func (b *Builder) Add(source, artifact string, plaintext []byte, compressed bool) {
	b.entries[source] = Entry{
		Source:     source,
		Artifact:   artifact,
		Compressed: compressed,
		Size:       int64(len(plaintext)),
		Digest:     Sum(plaintext),
	}
}

// Len returns the number of recorded entries.
func (b *Builder) Len() int { return len(b.entries) }

// Build returns the manifest with entries sorted by source path.
func (b *Builder) Build() *Manifest {
	entries := make([]Entry, 0, len(b.entries))
	for _, entry := range b.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Source < entries[j].Source })

	return &Manifest{
		Version:        Version,
		CreatedAt:      b.clock.Now().UTC(),
		KeyFingerprint: b.fingerprint,
		Entries:        entries,
	}
}

// Marshal encodes m as deterministic CBOR.
func Marshal(m *Manifest) ([]byte, error) {
	return codec.Marshal(m)
}

// Unmarshal decodes a manifest and checks its version.
func Unmarshal(data []byte) (*Manifest, error) {
	var m Manifest
	if err := codec.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if m.Version != Version {
		return nil, fmt.Errorf("unsupported manifest version %d (this build reads version %d)", m.Version, Version)
	}
	sort.Slice(m.Entries, func(i, j int) bool { return m.Entries[i].Source < m.Entries[j].Source })
	return &m, nil
}

// ReadFile loads a manifest from disk.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteFile stores m at path, replacing any existing file atomically.
func WriteFile(path string, m *Manifest) error {
	data, err := Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	temporary, err := os.CreateTemp(filepath.Dir(path), ".manifest-*")
	if err != nil {
		return fmt.Errorf("creating temporary manifest: %w", err)
	}
	temporaryPath := temporary.Name()
	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := temporary.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing manifest: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("installing manifest: %w", err)
	}
	return nil
}
