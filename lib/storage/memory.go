// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"io/fs"
	"sort"
	"sync"
)

// Memory is a map-backed Storage. Paths are stored in cleaned relative
// form; absolute and "./"-prefixed lookups are normalized the same way.
// Safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

var (
	_ Storage = (*Memory)(nil)
	_ Lister  = (*Memory)(nil)
)

// NewMemory returns a Memory holding a copy of files.
func NewMemory(files map[string][]byte) *Memory {
	memory := &Memory{files: make(map[string][]byte, len(files))}
	for name, data := range files {
		memory.Put(name, data)
	}
	return memory
}

// Put stores a copy of data at name, replacing any existing file.
func (m *Memory) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[cleanRelative(name)] = append([]byte(nil), data...)
}

// Remove deletes name. Removing a missing file is a no-op.
func (m *Memory) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, cleanRelative(name))
}

func (m *Memory) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[cleanRelative(name)]
	return ok
}

// Read returns a copy of the stored bytes.
func (m *Memory) Read(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[cleanRelative(name)]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// Canonicalize returns the cleaned relative key, or "" if absent.
func (m *Memory) Canonicalize(name string) string {
	key := cleanRelative(name)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.files[key]; !ok {
		return ""
	}
	return key
}

func (m *Memory) List(dir string) ([]Entry, error) {
	m.mu.RLock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	m.mu.RUnlock()
	sort.Strings(names)

	entries := childEntries(names, dir)
	if len(entries) == 0 && cleanRelative(dir) != "" {
		return nil, &fs.PathError{Op: "list", Path: dir, Err: fs.ErrNotExist}
	}
	return entries, nil
}
