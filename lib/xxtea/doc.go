// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package xxtea wraps github.com/xxtea/xxtea-go with the error
// reporting and key handling that precompiled script artifacts need.
// The cipher is XXTEA (Corrected Block TEA) in its byte-oriented
// framing.
//
// [Encrypt] packs the plaintext into little-endian 32-bit words,
// appends the plaintext length as a final word, and runs the XXTEA
// rounds over the whole buffer. [Decrypt] reverses this and checks the
// recovered length word, which is the only integrity signal the format
// carries. A wrong key or a corrupted artifact almost always produces
// a length outside the valid range. The library reports that as a nil
// result; this package turns it into [ErrInvalidCiphertext].
//
// Keys are always 16 bytes. Shorter keys (including the empty key) are
// zero-padded; bytes beyond 16 are ignored.
//
// XXTEA is not an authenticated cipher and offers no protection
// against a motivated attacker. It exists here for compatibility with
// artifacts produced by existing script toolchains.
package xxtea
