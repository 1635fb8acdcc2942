// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads scriptvault configuration.
//
// Configuration comes from a single file named by the --config flag or
// the SCRIPTVAULT_CONFIG environment variable. There is no discovery
// and no merging of multiple files. Files ending in .json or .jsonc
// are read as JSON with comments and trailing commas; everything else
// is YAML.
//
// The file may carry "development" and "production" sections whose
// values override the base settings when the top-level environment
// matches. ${VAR} and ${VAR:-default} references are expanded in path
// fields, and relative paths are resolved against the directory
// containing the config file.
package config
