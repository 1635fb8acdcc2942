// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest records what a pack run produced so that a later
// verify run can prove every artifact still decodes to the source it
// was built from.
//
// A [Manifest] lists one [Entry] per artifact: the logical source path,
// the artifact path, whether the payload was compressed, and the
// plaintext's size and BLAKE3-256 digest. It also carries a short
// [Fingerprint] of the cipher key (a BLAKE3 derived key, not the key
// itself) so verification can reject the wrong key before decoding
// anything. Manifests are stored as deterministic CBOR via lib/codec.
package manifest
