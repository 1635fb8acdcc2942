// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bytecode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/bureau-foundation/scriptvault/lib/xxtea"
)

// gzipMagic is the two-byte gzip member signature (RFC 1952 ID1, ID2).
var gzipMagic = [2]byte{0x1f, 0x8b}

var (
	// ErrDecrypt wraps every failure to decrypt an artifact.
	ErrDecrypt = errors.New("cannot decrypt artifact")

	// ErrInflate wraps every failure to decompress a decrypted
	// artifact that carried the gzip signature.
	ErrInflate = errors.New("cannot inflate artifact")
)

// IsGzip reports whether data begins with the gzip signature.
func IsGzip(data []byte) bool {
	return len(data) >= len(gzipMagic) && data[0] == gzipMagic[0] && data[1] == gzipMagic[1]
}

// Inflate decompresses a gzip stream. Concatenated members are
// decoded in sequence, as gzip(1) does.
func Inflate(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInflate, err)
	}
	defer reader.Close()

	inflated, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInflate, err)
	}
	return inflated, nil
}

// Deflate gzip-compresses data at the given level. Level 0 selects
// gzip.DefaultCompression.
func Deflate(data []byte, level int) ([]byte, error) {
	if level == 0 {
		level = gzip.DefaultCompression
	}

	var buffer bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buffer, level)
	if err != nil {
		return nil, fmt.Errorf("creating gzip writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buffer.Bytes(), nil
}

// Decoded is the result of decoding one artifact.
type Decoded struct {
	// Data is the payload the script host receives.
	Data []byte

	// Compressed is true when the decrypted buffer carried the gzip
	// signature and was inflated.
	Compressed bool
}

// Decode decrypts an artifact with key and inflates the result when it
// carries the gzip signature. Errors wrap ErrDecrypt or ErrInflate.
func Decode(artifact, key []byte) (Decoded, error) {
	decrypted, err := xxtea.Decrypt(artifact, key)
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %w", ErrDecrypt, err)
	}

	if !IsGzip(decrypted) {
		return Decoded{Data: decrypted}, nil
	}

	inflated, err := Inflate(decrypted)
	if err != nil {
		return Decoded{}, err
	}
	return Decoded{Data: inflated, Compressed: true}, nil
}

// EncodeOptions controls how Encode produces an artifact.
type EncodeOptions struct {
	// Compress gzips the payload before encryption.
	Compress bool

	// Level is the gzip level (1-9, or -1 for the library default).
	// Zero selects the default. Ignored unless Compress is set.
	Level int
}

// Encode produces an artifact from payload: gzip when requested, then
// encrypt with key. An empty uncompressed payload cannot be framed and
// is rejected.
func Encode(payload, key []byte, options EncodeOptions) ([]byte, error) {
	body := payload
	if options.Compress {
		compressed, err := Deflate(payload, options.Level)
		if err != nil {
			return nil, err
		}
		body = compressed
	} else if IsGzip(payload) {
		// The decoder would inflate this on the way back out.
		return nil, fmt.Errorf("payload begins with the gzip signature; pack it with compression enabled")
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("cannot encode an empty payload without compression")
	}
	return xxtea.Encrypt(body, key), nil
}
