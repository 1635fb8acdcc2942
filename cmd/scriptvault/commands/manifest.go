// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/scriptvault/cmd/scriptvault/cli"
	"github.com/bureau-foundation/scriptvault/lib/codec"
	"github.com/bureau-foundation/scriptvault/lib/manifest"
)

func manifestCommand(streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "manifest",
		Summary: "Inspect pack manifests",
		Subcommands: []*cli.Command{
			manifestShowCommand(streams),
		},
	}
}

func manifestShowCommand(streams Streams) *cli.Command {
	var diagnostic bool
	return &cli.Command{
		Name:    "show",
		Summary: "Print a manifest's entries",
		Description: `Print the key fingerprint, creation time, and every entry of a pack
manifest. With --diag, print the raw CBOR in diagnostic notation
instead.`,
		Usage: "scriptvault manifest show <file> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flagSet.BoolVar(&diagnostic, "diag", false, "print CBOR diagnostic notation")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("manifest show: expected exactly one file")
			}

			if diagnostic {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				notation, err := codec.Diagnose(data)
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				fmt.Fprintln(streams.Stdout, notation)
				return nil
			}

			packed, err := manifest.ReadFile(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(streams.Stdout, "version:         %d\n", packed.Version)
			fmt.Fprintf(streams.Stdout, "created:         %s\n", packed.CreatedAt.Format(time.RFC3339))
			fmt.Fprintf(streams.Stdout, "key fingerprint: %s\n", packed.KeyFingerprint)
			fmt.Fprintf(streams.Stdout, "entries:         %d\n\n", len(packed.Entries))

			writer := tabwriter.NewWriter(streams.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "SOURCE\tARTIFACT\tGZIP\tSIZE\tDIGEST\n")
			for _, entry := range packed.Entries {
				digest := entry.Digest.String()
				fmt.Fprintf(writer, "%s\t%s\t%v\t%d\t%s\n",
					entry.Source, entry.Artifact, entry.Compressed, entry.Size, digest[:16])
			}
			return writer.Flush()
		},
	}
}
