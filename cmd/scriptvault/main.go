// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Scriptvault packages scripts into encrypted .jsc artifacts and
// resolves logical script paths the way an embedding host does.
package main

import (
	"os"

	"github.com/bureau-foundation/scriptvault/cmd/scriptvault/commands"
	"github.com/bureau-foundation/scriptvault/lib/process"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	return commands.Root(commands.StandardStreams()).Execute(os.Args[1:])
}
