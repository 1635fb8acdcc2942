// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Archive serves files from a zip archive. Only entries below Prefix
// are visible, and logical paths are relative to it: with prefix
// "assets/", the logical path "src/main.js" reads the entry
// "assets/src/main.js".
type Archive struct {
	closer io.Closer
	prefix string
	files  map[string]*zip.File
	names  []string
}

var (
	_ Storage = (*Archive)(nil)
	_ Lister  = (*Archive)(nil)
)

// OpenArchive opens the zip file at path. The caller must Close the
// returned Archive.
func OpenArchive(path, prefix string) (*Archive, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	archive := newArchive(&reader.Reader, prefix)
	archive.closer = reader
	return archive, nil
}

// NewArchive serves an already-open zip stream. Close is a no-op for
// archives built this way; the caller owns readerAt.
func NewArchive(readerAt io.ReaderAt, size int64, prefix string) (*Archive, error) {
	reader, err := zip.NewReader(readerAt, size)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	return newArchive(reader, prefix), nil
}

func newArchive(reader *zip.Reader, prefix string) *Archive {
	prefix = cleanRelative(prefix)
	if prefix != "" {
		prefix += "/"
	}

	archive := &Archive{
		prefix: prefix,
		files:  make(map[string]*zip.File),
	}
	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !strings.HasPrefix(file.Name, prefix) {
			continue
		}
		name := cleanRelative(file.Name[len(prefix):])
		if name == "" {
			continue
		}
		if _, duplicate := archive.files[name]; duplicate {
			continue
		}
		archive.files[name] = file
		archive.names = append(archive.names, name)
	}
	return archive
}

// Close releases the underlying file when the archive was opened by
// path.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *Archive) lookup(name string) (*zip.File, bool) {
	file, ok := a.files[cleanRelative(name)]
	return file, ok
}

func (a *Archive) Exists(name string) bool {
	_, ok := a.lookup(name)
	return ok
}

func (a *Archive) Read(name string) ([]byte, error) {
	file, ok := a.lookup(name)
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}

	reader, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s in archive: %w", file.Name, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading %s in archive: %w", file.Name, err)
	}
	return data, nil
}

// Canonicalize returns the full entry name inside the archive
// (including the prefix), or "" if absent.
func (a *Archive) Canonicalize(name string) string {
	file, ok := a.lookup(name)
	if !ok {
		return ""
	}
	return file.Name
}

func (a *Archive) List(dir string) ([]Entry, error) {
	entries := childEntries(a.names, dir)
	if len(entries) == 0 && cleanRelative(dir) != "" {
		return nil, &fs.PathError{Op: "list", Path: dir, Err: fs.ErrNotExist}
	}
	return entries, nil
}
