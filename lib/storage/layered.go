// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"errors"
	"io/fs"
)

// Layered consults its layers in order. Typical use puts a writable
// override directory in front of a read-only application archive.
type Layered struct {
	layers []Storage
}

var (
	_ Storage = (*Layered)(nil)
	_ Lister  = (*Layered)(nil)
)

// NewLayered returns a Layered over layers, highest priority first.
func NewLayered(layers ...Storage) *Layered {
	return &Layered{layers: append([]Storage(nil), layers...)}
}

func (l *Layered) find(name string) Storage {
	for _, layer := range l.layers {
		if layer.Exists(name) {
			return layer
		}
	}
	return nil
}

func (l *Layered) Exists(name string) bool {
	return l.find(name) != nil
}

func (l *Layered) Read(name string) ([]byte, error) {
	layer := l.find(name)
	if layer == nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return layer.Read(name)
}

// Canonicalize asks the serving layer. A path no layer has is passed
// to the first layer, so absolute paths keep their Dir semantics.
func (l *Layered) Canonicalize(name string) string {
	layer := l.find(name)
	if layer == nil {
		if len(l.layers) == 0 {
			return ""
		}
		return l.layers[0].Canonicalize(name)
	}
	return layer.Canonicalize(name)
}

// List merges listings from every layer that implements Lister.
// Layers without the directory are skipped.
func (l *Layered) List(dir string) ([]Entry, error) {
	var listings [][]Entry
	found := false
	for _, layer := range l.layers {
		lister, ok := layer.(Lister)
		if !ok {
			continue
		}
		listing, err := lister.List(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		found = true
		listings = append(listings, listing)
	}
	if !found {
		return nil, &fs.PathError{Op: "list", Path: dir, Err: fs.ErrNotExist}
	}
	return mergeEntries(listings...), nil
}
