// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"path"
	"sort"
	"strings"
)

// Storage is the read side of a file system as seen by the resolver.
// Paths are slash-separated.
type Storage interface {
	// Exists reports whether path names a regular file.
	Exists(name string) bool

	// Read returns the full contents of path. A missing file yields an
	// error wrapping fs.ErrNotExist.
	Read(name string) ([]byte, error)

	// Canonicalize returns the location that serves path, in the
	// implementation's own namespace (an absolute host path for Dir,
	// an in-archive name for Archive). Returns "" when a relative path
	// is not found.
	Canonicalize(name string) string
}

// Entry is one item of a directory listing.
type Entry struct {
	// Name is the base name within the listed directory.
	Name string

	// Dir is true for subdirectories.
	Dir bool
}

// Lister is implemented by storages that can enumerate a directory.
// List of "" or "." lists the root. Entries are sorted by name and
// deduplicated across search roots or layers.
type Lister interface {
	List(dir string) ([]Entry, error)
}

// cleanRelative normalizes a relative logical path for map and archive
// lookups: no leading "./" or "/", no trailing slash, "" for the root.
func cleanRelative(name string) string {
	cleaned := path.Clean("/" + name)
	cleaned = strings.TrimPrefix(cleaned, "/")
	return cleaned
}

// mergeEntries combines listings, keeping the first occurrence of
// each name (earlier sources shadow later ones), sorted by name.
func mergeEntries(listings ...[]Entry) []Entry {
	seen := make(map[string]bool)
	var merged []Entry
	for _, listing := range listings {
		for _, entry := range listing {
			if seen[entry.Name] {
				continue
			}
			seen[entry.Name] = true
			merged = append(merged, entry)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })
	return merged
}

// childEntries derives the immediate children of dir from a flat set
// of file names. Used by the map- and archive-backed storages.
func childEntries(names []string, dir string) []Entry {
	prefix := cleanRelative(dir)
	if prefix != "" {
		prefix += "/"
	}

	var entries []Entry
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		relative := name[len(prefix):]
		if relative == "" {
			continue
		}
		if slash := strings.IndexByte(relative, '/'); slash >= 0 {
			entries = append(entries, Entry{Name: relative[:slash], Dir: true})
		} else {
			entries = append(entries, Entry{Name: relative})
		}
	}
	return mergeEntries(entries)
}
