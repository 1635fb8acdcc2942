// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the scriptvault command tree.
//
// Every command that reads scripts or artifacts shares one set of
// flags for locating them (--search-path, --archive) and for the
// cipher key (--key-file, --key-stdin, --key-env, --identity-file,
// --passphrase). Those flags override the matching fields of the
// configuration file named by --config or SCRIPTVAULT_CONFIG. Without
// a config file and without --search-path, scripts are looked up in
// the current directory.
package commands
