// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/scriptvault/cmd/scriptvault/cli"
	"github.com/bureau-foundation/scriptvault/lib/manifest"
)

func verifyCommand(streams Streams) *cli.Command {
	var (
		global       globalFlags
		manifestPath string
	)
	return &cli.Command{
		Name:    "verify",
		Summary: "Check artifacts against a pack manifest",
		Description: `Decode every artifact a manifest lists and compare its compression,
size, and BLAKE3 digest with the recorded values. Artifacts are read
through the search paths and archives, so a manifest written by pack
can be checked against the installed application.

The key's fingerprint is compared with the manifest's first; a
mismatch fails before any artifact is read. Exits 1 if any artifact
fails.`,
		Usage: "scriptvault verify [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.StringVar(&manifestPath, "manifest", "", "manifest file (default pack.manifest from config, or scriptvault.manifest in the first search path)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("verify: unexpected arguments %v", args)
			}
			env, err := global.open(streams, "verify")
			if err != nil {
				return err
			}
			defer env.Close()

			if manifestPath == "" {
				manifestPath = env.config.Pack.Manifest
			}
			if manifestPath == "" && len(env.config.Storage.SearchPaths) > 0 {
				manifestPath = filepath.Join(env.config.Storage.SearchPaths[0], manifest.DefaultFileName)
			}
			if manifestPath == "" {
				return fmt.Errorf("verify: --manifest is required")
			}

			packed, err := manifest.ReadFile(manifestPath)
			if err != nil {
				return err
			}

			key, err := global.loadKey(env, streams)
			if err != nil {
				return err
			}
			var keyBytes []byte
			if key != nil {
				defer key.Close()
				keyBytes = key.Bytes()
			}

			report, err := manifest.Verify(packed, env.storage, keyBytes)
			if err != nil {
				return err
			}

			if !report.OK() {
				writer := tabwriter.NewWriter(streams.Stdout, 2, 0, 3, ' ', 0)
				fmt.Fprintf(writer, "ARTIFACT\tPROBLEM\n")
				for _, problem := range report.Problems {
					fmt.Fprintf(writer, "%s\t%v\n", problem.Entry.Artifact, problem.Err)
				}
				writer.Flush()
			}
			fmt.Fprintf(streams.Stdout, "%d checked, %d failed\n", report.Checked, len(report.Problems))

			env.logger.Info("verify complete",
				"manifest", manifestPath,
				"checked", report.Checked,
				"failed", len(report.Problems),
			)
			if !report.OK() {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
