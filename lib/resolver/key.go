// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"bytes"
	"fmt"
	"os"

	"github.com/bureau-foundation/scriptvault/lib/sealed"
	"github.com/bureau-foundation/scriptvault/lib/secret"
)

// KeySource says where the artifact key comes from. At most one of
// Env and File may be set; with neither, the key is empty.
type KeySource struct {
	// Env names an environment variable holding the key verbatim.
	Env string

	// File is a key file path, or "-" for stdin. The file may hold
	// the key in plain text or sealed with age.
	File string

	// IdentityFile holds age identities for opening a sealed File.
	IdentityFile string

	// Passphrase opens a passphrase-sealed File.
	Passphrase string
}

// LoadKey materializes the key described by source. A nil Buffer with
// a nil error means the empty key.
func LoadKey(source KeySource) (*secret.Buffer, error) {
	if source.Env != "" && source.File != "" {
		return nil, fmt.Errorf("key env and key file are mutually exclusive")
	}

	if source.Env != "" {
		value, ok := os.LookupEnv(source.Env)
		if !ok {
			return nil, fmt.Errorf("key environment variable %s is not set", source.Env)
		}
		if value == "" {
			return nil, nil
		}
		return secret.NewFromBytes([]byte(value))
	}

	if source.File == "" {
		return nil, nil
	}

	data, err := secret.ReadFile(source.File)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}
	defer secret.Zero(data)

	if !sealed.IsSealed(data) {
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 {
			return nil, nil
		}
		return secret.NewFromBytes(trimmed)
	}

	switch {
	case source.IdentityFile != "":
		identities, err := sealed.ReadIdentityFile(source.IdentityFile)
		if err != nil {
			return nil, err
		}
		return sealed.OpenKey(data, identities...)
	case source.Passphrase != "":
		return sealed.OpenKeyWithPassphrase(data, source.Passphrase)
	default:
		return nil, fmt.Errorf("key file %s is sealed; an identity file or passphrase is required", source.File)
	}
}
