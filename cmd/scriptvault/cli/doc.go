// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for scriptvault.
//
// The central type is [Command]: a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory, and a Run
// function. [Command.Execute] handles flag parsing, subcommand routing,
// and help output. Unknown subcommands and flags get a "did you mean"
// suggestion when a known name is within edit distance 3.
package cli
