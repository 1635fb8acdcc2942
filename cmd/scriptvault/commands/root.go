// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"io"
	"os"

	"github.com/bureau-foundation/scriptvault/cmd/scriptvault/cli"
	"github.com/bureau-foundation/scriptvault/lib/clock"
)

// Streams carries the process I/O and time source into commands.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Clock stamps pack manifests. Nil means the system clock.
	Clock clock.Clock
}

// StandardStreams returns the process's own streams.
func StandardStreams() Streams {
	return Streams{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Clock:  clock.Real(),
	}
}

func (s Streams) clock() clock.Clock {
	if s.Clock == nil {
		return clock.Real()
	}
	return s.Clock
}

// Root returns the top-level scriptvault command.
func Root(streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "scriptvault",
		Summary: "Package and resolve encrypted script artifacts",
		Description: `Package scripts into encrypted .jsc artifacts and resolve them the way
a script host does.

A logical path such as src/main.js is served by its precompiled sibling
src/main.jsc when one exists: the artifact is XXTEA-decrypted and, if
the payload is gzip-framed, inflated. Without a sibling the source file
is served as-is.`,
		HelpOutput: streams.Stderr,
		Subcommands: []*cli.Command{
			packCommand(streams),
			catCommand(streams),
			pathCommand(streams),
			existsCommand(streams),
			statCommand(streams),
			verifyCommand(streams),
			manifestCommand(streams),
			mountCommand(streams),
			keyCommand(streams),
		},
		Examples: []cli.Example{
			{
				Description: "Encrypt every .js file under scripts/ into build/",
				Command:     "scriptvault pack scripts --out build --key-file artifact.key",
			},
			{
				Description: "Print what the host would run for main.js",
				Command:     "scriptvault cat main.js --search-path build --key-file artifact.key",
			},
			{
				Description: "Check a build against its manifest",
				Command:     "scriptvault verify --search-path build --manifest build/scriptvault.manifest --key-file artifact.key",
			},
		},
	}
}
