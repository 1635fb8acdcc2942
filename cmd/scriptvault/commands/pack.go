// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/scriptvault/cmd/scriptvault/cli"
	"github.com/bureau-foundation/scriptvault/lib/bytecode"
	"github.com/bureau-foundation/scriptvault/lib/manifest"
)

func packCommand(streams Streams) *cli.Command {
	var (
		global     globalFlags
		outputDir  string
		compress   bool
		noCompress bool
		level      int
		manifestTo string
		noManifest bool
	)
	return &cli.Command{
		Name:    "pack",
		Summary: "Encrypt source scripts into .jsc artifacts",
		Description: `Encrypt source scripts into precompiled artifacts.

Each SRC is a file or a directory. Directories are walked for files
with the configured source extensions (default .js). Each source
a/b.js becomes OUT/a/b.jsc, its path relative to the SRC directory
preserved; a file argument is written at the top of OUT.

Payloads are gzipped before encryption unless --no-compress is given.
A manifest recording every artifact's size and BLAKE3 digest is written
to OUT/scriptvault.manifest unless --no-manifest is given.`,
		Usage: "scriptvault pack <src>... --out <dir> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pack", pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.StringVar(&outputDir, "out", "", "output directory (default pack.output from config)")
			flagSet.BoolVar(&compress, "compress", false, "gzip payloads before encryption (default from config)")
			flagSet.BoolVar(&noCompress, "no-compress", false, "store payloads uncompressed")
			flagSet.IntVar(&level, "level", 0, "gzip level 1-9, or -1 for the library default")
			flagSet.StringVar(&manifestTo, "manifest", "", "manifest path (default OUT/"+manifest.DefaultFileName+")")
			flagSet.BoolVar(&noManifest, "no-manifest", false, "do not write a manifest")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Pack a script tree with maximum compression",
				Command:     "scriptvault pack scripts --out build --level 9 --key-file artifact.key",
			},
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("pack: at least one source is required")
			}
			if compress && noCompress {
				return fmt.Errorf("pack: --compress and --no-compress are mutually exclusive")
			}

			env, err := global.open(streams, "pack")
			if err != nil {
				return err
			}
			defer env.Close()

			settings := env.config.Pack
			if outputDir != "" {
				settings.Output = outputDir
			}
			if settings.Output == "" {
				return fmt.Errorf("pack: --out is required")
			}
			if compress {
				settings.Compress = true
			}
			if noCompress {
				settings.Compress = false
			}
			if level != 0 {
				if level < -1 || level > 9 {
					return fmt.Errorf("pack: --level must be -1 or 1-9, got %d", level)
				}
				settings.Level = level
			}
			if manifestTo != "" {
				settings.Manifest = manifestTo
			}
			if settings.Manifest == "" {
				settings.Manifest = filepath.Join(settings.Output, manifest.DefaultFileName)
			}

			key, err := global.loadKey(env, streams)
			if err != nil {
				return err
			}
			var keyBytes []byte
			if key != nil {
				defer key.Close()
				keyBytes = key.Bytes()
			} else {
				env.logger.Warn("packing with the empty key; anyone can decrypt these artifacts")
			}

			sources, err := collectSources(args, settings.Extensions)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(settings.Output, 0o755); err != nil {
				return fmt.Errorf("pack: %w", err)
			}
			if !noManifest {
				if err := os.MkdirAll(filepath.Dir(settings.Manifest), 0o755); err != nil {
					return fmt.Errorf("pack: %w", err)
				}
			}

			builder := manifest.NewBuilder(keyBytes, streams.clock())
			options := bytecode.EncodeOptions{Compress: settings.Compress, Level: settings.Level}
			for _, source := range sources {
				if err := packOne(source, settings.Output, keyBytes, options, builder); err != nil {
					return err
				}
				env.logger.Debug("packed", "source", source.hostPath, "logical", source.logical)
			}

			if !noManifest {
				if err := manifest.WriteFile(settings.Manifest, builder.Build()); err != nil {
					return fmt.Errorf("writing manifest: %w", err)
				}
			}

			env.logger.Info("pack complete",
				"artifacts", builder.Len(),
				"output", settings.Output,
				"compressed", settings.Compress,
			)
			fmt.Fprintf(streams.Stdout, "packed %d scripts into %s\n", builder.Len(), settings.Output)
			return nil
		},
	}
}

// packSource is one file to encrypt.
type packSource struct {
	hostPath string
	logical  string
}

// collectSources expands file and directory arguments into a sorted,
// duplicate-free list. Logical paths are slash-separated and relative
// to the directory argument, or the bare file name for file arguments.
func collectSources(args []string, extensions []string) ([]packSource, error) {
	byLogical := make(map[string]packSource)
	add := func(source packSource) error {
		if existing, ok := byLogical[source.logical]; ok && existing.hostPath != source.hostPath {
			return fmt.Errorf("pack: %s and %s both map to %s", existing.hostPath, source.hostPath, source.logical)
		}
		byLogical[source.logical] = source
		return nil
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("pack: %w", err)
		}

		if !info.IsDir() {
			name := filepath.Base(arg)
			if !bytecode.HasExtension(name) {
				return nil, fmt.Errorf("pack: %s has no extension, so it has no artifact path", arg)
			}
			if bytecode.IsArtifact(name) {
				return nil, fmt.Errorf("pack: %s is already an artifact", arg)
			}
			if err := add(packSource{hostPath: arg, logical: name}); err != nil {
				return nil, err
			}
			continue
		}

		err = filepath.WalkDir(arg, func(hostPath string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.Type().IsRegular() || !slices.Contains(extensions, path.Ext(entry.Name())) {
				return nil
			}
			relative, err := filepath.Rel(arg, hostPath)
			if err != nil {
				return err
			}
			return add(packSource{hostPath: hostPath, logical: filepath.ToSlash(relative)})
		})
		if err != nil {
			return nil, fmt.Errorf("pack: walking %s: %w", arg, err)
		}
	}

	sources := make([]packSource, 0, len(byLogical))
	for _, source := range byLogical {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].logical < sources[j].logical })
	return sources, nil
}

func packOne(source packSource, outputDir string, key []byte, options bytecode.EncodeOptions, builder *manifest.Builder) error {
	payload, err := os.ReadFile(source.hostPath)
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	artifact, err := bytecode.Encode(payload, key, options)
	if err != nil {
		return fmt.Errorf("pack: %s: %w", source.hostPath, err)
	}

	artifactPath, _ := bytecode.SiblingPath(source.logical)
	hostPath := filepath.Join(outputDir, filepath.FromSlash(artifactPath))
	if err := os.MkdirAll(filepath.Dir(hostPath), 0o755); err != nil {
		return fmt.Errorf("pack: %w", err)
	}
	if err := os.WriteFile(hostPath, artifact, 0o644); err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	builder.Add(source.logical, artifactPath, payload, options.Compress)
	return nil
}
