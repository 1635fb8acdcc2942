// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/scriptvault/lib/bytecode"
	"github.com/bureau-foundation/scriptvault/lib/storage"
)

// ErrKeyMismatch is returned by Verify when the key's fingerprint
// differs from the one recorded in the manifest.
var ErrKeyMismatch = errors.New("key does not match the manifest's key fingerprint")

// Problem is one entry that failed verification.
type Problem struct {
	Entry Entry
	Err   error
}

func (p Problem) Error() string {
	return fmt.Sprintf("%s: %v", p.Entry.Artifact, p.Err)
}

// Report summarizes a verification run.
type Report struct {
	Checked  int
	Problems []Problem
}

// OK reports whether every entry verified.
func (r *Report) OK() bool { return len(r.Problems) == 0 }

// Verify decodes every artifact in m from store with key and compares
// size, compression, and digest with the recorded values. A key
// fingerprint mismatch aborts before any artifact is read.
func Verify(m *Manifest, store storage.Storage, key []byte) (*Report, error) {
	if KeyFingerprint(key) != m.KeyFingerprint {
		return nil, fmt.Errorf("%w (manifest %s, key %s)", ErrKeyMismatch, m.KeyFingerprint, KeyFingerprint(key))
	}

	report := &Report{}
	for _, entry := range m.Entries {
		report.Checked++
		if err := verifyEntry(entry, store, key); err != nil {
			report.Problems = append(report.Problems, Problem{Entry: entry, Err: err})
		}
	}
	return report, nil
}

func verifyEntry(entry Entry, store storage.Storage, key []byte) error {
	raw, err := store.Read(entry.Artifact)
	if err != nil {
		return err
	}
	decoded, err := bytecode.Decode(raw, key)
	if err != nil {
		return err
	}
	if decoded.Compressed != entry.Compressed {
		return fmt.Errorf("compressed = %v, manifest records %v", decoded.Compressed, entry.Compressed)
	}
	if int64(len(decoded.Data)) != entry.Size {
		return fmt.Errorf("size %d, manifest records %d", len(decoded.Data), entry.Size)
	}
	if digest := Sum(decoded.Data); digest != entry.Digest {
		return fmt.Errorf("digest %s, manifest records %s", digest, entry.Digest)
	}
	return nil
}
