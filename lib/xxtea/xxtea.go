// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package xxtea

import (
	"errors"
	"fmt"

	"github.com/xxtea/xxtea-go/xxtea"
)

// KeySize is the effective key length. Shorter keys are padded with
// zeros, longer keys are truncated.
const KeySize = 16

// ErrInvalidCiphertext is returned by Decrypt when the input cannot be
// a valid ciphertext, or when the length word recovered after
// decryption is inconsistent (the usual symptom of a wrong key).
var ErrInvalidCiphertext = errors.New("xxtea: invalid ciphertext")

// Encrypt encrypts data under key. The plaintext length is appended as
// a trailing little-endian word before encryption, so the ciphertext
// is always a multiple of 4 bytes and at least 8 bytes long. Returns
// nil for empty input.
func Encrypt(data, key []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	return xxtea.Encrypt(data, fixKey(key))
}

// Decrypt reverses Encrypt. The returned slice is newly allocated; the
// input is not modified.
func Decrypt(data, key []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidCiphertext)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of 4", ErrInvalidCiphertext, len(data))
	}
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: length %d is shorter than the minimum of 8", ErrInvalidCiphertext, len(data))
	}

	// The library signals a recovered length word outside [n-3, n] by
	// returning nil.
	plaintext := xxtea.Decrypt(data, fixKey(key))
	if plaintext == nil {
		return nil, fmt.Errorf("%w: recovered length word does not fit %d payload bytes",
			ErrInvalidCiphertext, len(data)-4)
	}
	return plaintext, nil
}

// fixKey returns a fresh 16-byte key so the library never aliases the
// caller's key buffer.
func fixKey(key []byte) []byte {
	fixed := make([]byte, KeySize)
	copy(fixed, key)
	return fixed
}
