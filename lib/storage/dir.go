// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// Dir resolves paths against an ordered list of root directories.
type Dir struct {
	roots []string
}

var (
	_ Storage = (*Dir)(nil)
	_ Lister  = (*Dir)(nil)
)

// NewDir returns a Dir searching roots in order. Roots are made
// absolute so that Canonicalize results do not depend on the working
// directory at call time. At least one root is required.
func NewDir(roots ...string) (*Dir, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("at least one search root is required")
	}

	absolute := make([]string, 0, len(roots))
	for _, root := range roots {
		if root == "" {
			return nil, fmt.Errorf("search root must not be empty")
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving search root %s: %w", root, err)
		}
		absolute = append(absolute, abs)
	}
	return &Dir{roots: absolute}, nil
}

// Roots returns the absolute search roots in order.
func (d *Dir) Roots() []string {
	return append([]string(nil), d.roots...)
}

// locate returns the host path serving name, or "" if none.
func (d *Dir) locate(name string) string {
	if filepath.IsAbs(name) {
		if isRegular(name) {
			return filepath.Clean(name)
		}
		return ""
	}

	relative := filepath.FromSlash(cleanRelative(name))
	for _, root := range d.roots {
		candidate := filepath.Join(root, relative)
		if isRegular(candidate) {
			return candidate
		}
	}
	return ""
}

func (d *Dir) Exists(name string) bool {
	return d.locate(name) != ""
}

func (d *Dir) Read(name string) ([]byte, error) {
	location := d.locate(name)
	if location == "" {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return os.ReadFile(location)
}

// Canonicalize returns the absolute host path serving name. Absolute
// inputs are returned cleaned whether or not they exist.
func (d *Dir) Canonicalize(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return d.locate(name)
}

// List merges the directory across all roots. A directory missing
// from every root is an error wrapping fs.ErrNotExist.
func (d *Dir) List(dir string) ([]Entry, error) {
	relative := filepath.FromSlash(cleanRelative(dir))

	var listings [][]Entry
	found := false
	for _, root := range d.roots {
		dirEntries, err := os.ReadDir(filepath.Join(root, relative))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
				continue
			}
			return nil, fmt.Errorf("listing %s in %s: %w", dir, root, err)
		}
		found = true

		listing := make([]Entry, 0, len(dirEntries))
		for _, entry := range dirEntries {
			listing = append(listing, Entry{Name: entry.Name(), Dir: entry.IsDir()})
		}
		listings = append(listings, listing)
	}

	if !found {
		return nil, &fs.PathError{Op: "list", Path: dir, Err: fs.ErrNotExist}
	}
	return mergeEntries(listings...), nil
}

func isRegular(hostPath string) bool {
	info, err := os.Stat(hostPath)
	return err == nil && info.Mode().IsRegular()
}
