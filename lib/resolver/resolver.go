// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bureau-foundation/scriptvault/lib/bytecode"
	"github.com/bureau-foundation/scriptvault/lib/secret"
	"github.com/bureau-foundation/scriptvault/lib/storage"
)

var (
	// ErrDecrypt is wrapped by errors for artifacts that fail to
	// decrypt (wrong key or corrupt data).
	ErrDecrypt = bytecode.ErrDecrypt

	// ErrInflate is wrapped by errors for artifacts whose decrypted
	// payload carries the gzip signature but does not inflate.
	ErrInflate = bytecode.ErrInflate

	// ErrNotFound is wrapped by Text when neither the artifact nor the
	// source exists.
	ErrNotFound = errors.New("file not found")
)

// Options configures a Resolver.
type Options struct {
	// Storage answers existence, read, and canonical-path queries.
	// Required.
	Storage storage.Storage

	// Key is the artifact cipher key. The Resolver takes ownership and
	// closes it in Close. Nil means the empty key.
	Key *secret.Buffer

	// Logger receives diagnostics. If nil, errors go to stderr.
	Logger *slog.Logger
}

// Resolver maps logical source paths to the bytes a script host runs.
type Resolver struct {
	storage storage.Storage
	key     *secret.Buffer
	logger  *slog.Logger
}

// Source describes which file serves a logical path.
type Source struct {
	// Path is the logical path that was requested.
	Path string

	// Location is the storage path that was (or would be) read: the
	// artifact sibling when Artifact is true, otherwise Path.
	Location string

	// Artifact is true when a precompiled sibling serves the path.
	Artifact bool

	// Compressed is true when the artifact payload was gzip-framed.
	Compressed bool

	// Size is the decoded length in bytes.
	Size int
}

// New returns a Resolver. On error the key is not consumed.
func New(options Options) (*Resolver, error) {
	if options.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	}
	return &Resolver{
		storage: options.Storage,
		key:     options.Key,
		logger:  options.Logger,
	}, nil
}

// Close releases the key.
func (r *Resolver) Close() error {
	if r.key == nil {
		return nil
	}
	return r.key.Close()
}

// Logger returns the resolver's diagnostics logger.
func (r *Resolver) Logger() *slog.Logger {
	return r.logger
}

// Storage returns the storage the resolver reads through.
func (r *Resolver) Storage() storage.Storage {
	return r.storage
}

func (r *Resolver) keyBytes() []byte {
	if r.key == nil {
		return nil
	}
	return r.key.Bytes()
}

func requirePath(path string) {
	if path == "" {
		panic("resolver: empty path")
	}
}

// sibling returns the artifact path for path if that artifact exists.
func (r *Resolver) sibling(path string) (string, bool) {
	siblingPath, ok := bytecode.SiblingPath(path)
	if !ok || !r.storage.Exists(siblingPath) {
		return "", false
	}
	return siblingPath, true
}

// load runs the resolution pipeline. The returned Source is populated
// as far as resolution got, so callers can tell an artifact failure
// from a source failure.
func (r *Resolver) load(path string) (Source, []byte, error) {
	requirePath(path)
	source := Source{Path: path, Location: path}

	if siblingPath, ok := r.sibling(path); ok {
		source.Location = siblingPath
		source.Artifact = true

		raw, err := r.storage.Read(siblingPath)
		if err != nil {
			return source, nil, fmt.Errorf("reading %s: %w", siblingPath, err)
		}
		decoded, err := bytecode.Decode(raw, r.keyBytes())
		if err != nil {
			return source, nil, fmt.Errorf("%s: %w", siblingPath, err)
		}
		source.Compressed = decoded.Compressed
		source.Size = len(decoded.Data)
		return source, decoded.Data, nil
	}

	data, err := r.storage.Read(path)
	if err != nil {
		return source, nil, err
	}
	source.Size = len(data)
	return source, data, nil
}

// Bytes returns the content a host should execute for path: the
// decoded artifact when a sibling exists, otherwise the raw source.
// A missing source is reported with the storage layer's own error.
func (r *Resolver) Bytes(path string) ([]byte, error) {
	_, data, err := r.load(path)
	return data, err
}

// Text is Bytes interpreted as text. When neither the artifact nor
// the source exists the error wraps ErrNotFound.
func (r *Resolver) Text(path string) (string, error) {
	requirePath(path)
	if _, ok := r.sibling(path); !ok && !r.storage.Exists(path) {
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	_, data, err := r.load(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Stat resolves path and reports which file serves it. The content is
// decoded to learn its size and then discarded.
func (r *Resolver) Stat(path string) (Source, error) {
	source, _, err := r.load(path)
	return source, err
}

// FullPath returns the artifact's canonical location if a sibling
// exists, otherwise the source's. No decoding is performed.
func (r *Resolver) FullPath(path string) string {
	requirePath(path)
	if siblingPath, ok := r.sibling(path); ok {
		return r.storage.Canonicalize(siblingPath)
	}
	return r.storage.Canonicalize(path)
}

// Exists reports whether the source path itself exists. Artifacts are
// not considered.
func (r *Resolver) Exists(path string) bool {
	requirePath(path)
	return r.storage.Exists(path)
}
