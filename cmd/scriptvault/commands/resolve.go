// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/scriptvault/cmd/scriptvault/cli"
)

func catCommand(streams Streams) *cli.Command {
	var (
		global globalFlags
		text   bool
		output string
	)
	return &cli.Command{
		Name:    "cat",
		Summary: "Print the content the host would run for a path",
		Description: `Resolve a logical path and write the result to stdout.

If the precompiled sibling exists it is decrypted (and inflated when
gzip-framed); a sibling that fails to decode is an error, and the
source file is never consulted in its place. Without a sibling the
source file is printed as-is.

With --text, a path served by neither file reports "file not found"
instead of the storage error.`,
		Usage: "scriptvault cat <path> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("cat", pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.BoolVar(&text, "text", false, "resolve as text")
			flagSet.StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
			return flagSet
		},
		Run: func(args []string) error {
			path, err := singlePath("cat", args)
			if err != nil {
				return err
			}
			env, scripts, err := global.newResolver(streams, "cat")
			if err != nil {
				return err
			}
			defer env.Close()
			defer scripts.Close()

			var data []byte
			if text {
				content, err := scripts.Text(path)
				if err != nil {
					return err
				}
				data = []byte(content)
			} else {
				data, err = scripts.Bytes(path)
				if err != nil {
					return err
				}
			}

			if output != "" {
				return os.WriteFile(output, data, 0o644)
			}
			_, err = streams.Stdout.Write(data)
			return err
		},
	}
}

func pathCommand(streams Streams) *cli.Command {
	var global globalFlags
	return &cli.Command{
		Name:    "path",
		Summary: "Print the canonical location serving a path",
		Description: `Print where the content for a logical path comes from: the
artifact's canonical location when a precompiled sibling exists,
otherwise the source's. Nothing is decrypted. For directory search
paths the location is an absolute host path; for archives it is the
entry name inside the archive.`,
		Usage: "scriptvault path <path> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("path", pflag.ContinueOnError)
			global.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			path, err := singlePath("path", args)
			if err != nil {
				return err
			}
			env, scripts, err := global.newResolver(streams, "path")
			if err != nil {
				return err
			}
			defer env.Close()
			defer scripts.Close()

			location := scripts.FullPath(path)
			if location == "" {
				return fmt.Errorf("%s: not found", path)
			}
			fmt.Fprintln(streams.Stdout, location)
			return nil
		},
	}
}

func existsCommand(streams Streams) *cli.Command {
	var global globalFlags
	return &cli.Command{
		Name:    "exists",
		Summary: "Exit 0 if the source file for a path exists",
		Description: `Report whether the source file for a logical path exists, by exit
status: 0 if it does, 1 if it does not. Precompiled artifacts are not
considered, so a path served only by its .jsc sibling does not exist.`,
		Usage: "scriptvault exists <path> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("exists", pflag.ContinueOnError)
			global.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			path, err := singlePath("exists", args)
			if err != nil {
				return err
			}
			env, scripts, err := global.newResolver(streams, "exists")
			if err != nil {
				return err
			}
			defer env.Close()
			defer scripts.Close()

			if !scripts.Exists(path) {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func statCommand(streams Streams) *cli.Command {
	var global globalFlags
	return &cli.Command{
		Name:    "stat",
		Summary: "Show which file serves a path and its decoded size",
		Usage:   "scriptvault stat <path>... [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("stat", pflag.ContinueOnError)
			global.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("stat: at least one path is required")
			}
			env, scripts, err := global.newResolver(streams, "stat")
			if err != nil {
				return err
			}
			defer env.Close()
			defer scripts.Close()

			writer := tabwriter.NewWriter(streams.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "PATH\tSERVED BY\tKIND\tSIZE\n")
			var failed int
			for _, path := range args {
				if path == "" {
					return fmt.Errorf("stat: empty path")
				}
				source, err := scripts.Stat(path)
				if err != nil {
					env.logger.Error("stat failed", "path", path, "error", err)
					failed++
					continue
				}
				kind := "source"
				if source.Artifact {
					kind = "artifact"
					if source.Compressed {
						kind = "artifact+gzip"
					}
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%d\n", source.Path, source.Location, kind, source.Size)
			}
			writer.Flush()
			if failed > 0 {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

// singlePath validates that args is exactly one non-empty path.
func singlePath(command string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s: expected exactly one path, got %d", command, len(args))
	}
	if args[0] == "" {
		return "", fmt.Errorf("%s: path must not be empty", command)
	}
	return args[0], nil
}
