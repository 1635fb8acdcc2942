// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// MaxKeyFileSize bounds how much ReadFromPath will read. Key files,
// plain or sealed, are a few hundred bytes at most.
const MaxKeyFileSize = 64 << 10

// ReadFile returns the raw contents of path, or of stdin for "-". The
// caller owns the returned slice and should Zero it when done.
func ReadFile(path string) ([]byte, error) {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		reader = file
	}

	data, err := io.ReadAll(io.LimitReader(reader, MaxKeyFileSize+1))
	if err != nil {
		Zero(data)
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) > MaxKeyFileSize {
		Zero(data)
		return nil, fmt.Errorf("%s exceeds %d bytes", path, MaxKeyFileSize)
	}
	return data, nil
}

// ReadFromPath reads a plain key from path (or stdin for "-"), trims
// surrounding whitespace, and moves it into a Buffer. Every heap copy
// is zeroed. An empty key after trimming is an error; callers that
// accept empty keys check for that before calling.
func ReadFromPath(path string) (*Buffer, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer Zero(data)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%s: key is empty", path)
	}
	return NewFromBytes(trimmed)
}
