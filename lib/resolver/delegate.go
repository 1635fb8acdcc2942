// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"errors"
	"log/slog"
)

// Delegate exposes a Resolver through the file operation hooks a
// script engine's module loader calls. None of its methods return
// errors: failures are logged and surface as empty results.
type Delegate struct {
	resolver *Resolver
	logger   *slog.Logger
}

// NewDelegate returns a Delegate over resolver, logging through the
// resolver's logger.
func NewDelegate(resolver *Resolver) *Delegate {
	return &Delegate{
		resolver: resolver,
		logger:   resolver.Logger(),
	}
}

// GetDataFromFile pushes the content for path to consume.
//
// When an artifact exists but cannot be read or decoded, the failure
// is logged and consume is not called. When no artifact exists and
// the source cannot be read, consume receives an empty slice, which is
// how the storage layer reports a missing file to the host.
func (d *Delegate) GetDataFromFile(path string, consume func(data []byte)) {
	source, data, err := d.resolver.load(path)
	if err != nil {
		if source.Artifact {
			d.logger.Error("can't decrypt code",
				"path", source.Location,
				"error", err,
			)
			return
		}
		d.logger.Debug("source read failed",
			"path", path,
			"error", err,
		)
		consume(nil)
		return
	}
	consume(data)
}

// GetStringFromFile returns the content for path as text, or "" on
// any failure.
func (d *Delegate) GetStringFromFile(path string) string {
	text, err := d.resolver.Text(path)
	if err == nil {
		return text
	}

	switch {
	case errors.Is(err, ErrNotFound):
		d.logger.Error("file not found, possible missing file", "path", path)
	case errors.Is(err, ErrDecrypt), errors.Is(err, ErrInflate):
		siblingPath, _ := d.resolver.sibling(path)
		d.logger.Error("can't decrypt code",
			"path", siblingPath,
			"error", err,
		)
	default:
		d.logger.Error("reading script failed",
			"path", path,
			"error", err,
		)
	}
	return ""
}

// GetFullPath returns the filesystem location serving path.
func (d *Delegate) GetFullPath(path string) string {
	return d.resolver.FullPath(path)
}

// CheckFileExist reports whether the source path exists.
func (d *Delegate) CheckFileExist(path string) bool {
	return d.resolver.Exists(path)
}
