// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/scriptvault/cmd/scriptvault/cli"
	"github.com/bureau-foundation/scriptvault/lib/config"
	"github.com/bureau-foundation/scriptvault/lib/resolver"
	"github.com/bureau-foundation/scriptvault/lib/secret"
	"github.com/bureau-foundation/scriptvault/lib/storage"
)

// globalFlags locate scripts and the cipher key. Each command that
// needs them adds them to its own flag set.
type globalFlags struct {
	configPath   string
	searchPaths  []string
	archives     []string
	keyFile      string
	keyStdin     bool
	keyEnv       string
	identityFile string
	passphrase   bool
	logLevel     string
	logFormat    string
}

func (g *globalFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&g.configPath, "config", "", "config file (default $"+config.EnvironmentVariable+")")
	flagSet.StringArrayVar(&g.searchPaths, "search-path", nil, "directory to search for scripts, highest priority first (repeatable)")
	flagSet.StringArrayVar(&g.archives, "archive", nil, "zip archive to search after the search paths, as FILE or FILE@PREFIX (repeatable)")
	flagSet.StringVar(&g.keyFile, "key-file", "", "file holding the artifact key, plain or age-sealed")
	flagSet.BoolVar(&g.keyStdin, "key-stdin", false, "read the artifact key from stdin")
	flagSet.StringVar(&g.keyEnv, "key-env", "", "environment variable holding the artifact key")
	flagSet.StringVar(&g.identityFile, "identity-file", "", "age identity file for opening a sealed key file")
	flagSet.BoolVar(&g.passphrase, "passphrase", false, "prompt for the passphrase of a sealed key file")
	flagSet.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.StringVar(&g.logFormat, "log-format", "", "log format: auto, json, text")
}

// loadConfig reads the config file if one is named and applies flag
// overrides.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	path := g.configPath
	if path == "" {
		path = os.Getenv(config.EnvironmentVariable)
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if len(g.searchPaths) > 0 {
		cfg.Storage.SearchPaths = g.searchPaths
	}
	if len(g.archives) > 0 {
		cfg.Storage.Archives = nil
		for _, value := range g.archives {
			cfg.Storage.Archives = append(cfg.Storage.Archives, parseArchiveFlag(value))
		}
	}

	keyFlags := 0
	for _, set := range []bool{g.keyFile != "", g.keyStdin, g.keyEnv != ""} {
		if set {
			keyFlags++
		}
	}
	if keyFlags > 1 {
		return nil, fmt.Errorf("--key-file, --key-stdin, and --key-env are mutually exclusive")
	}
	switch {
	case g.keyFile != "":
		cfg.Key.File, cfg.Key.Env = g.keyFile, ""
	case g.keyStdin:
		cfg.Key.File, cfg.Key.Env = "-", ""
	case g.keyEnv != "":
		cfg.Key.Env, cfg.Key.File = g.keyEnv, ""
	}
	if g.identityFile != "" {
		cfg.Key.IdentityFile = g.identityFile
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parseArchiveFlag splits FILE@PREFIX.
func parseArchiveFlag(value string) config.ArchiveConfig {
	if index := strings.LastIndexByte(value, '@'); index > 0 {
		return config.ArchiveConfig{Path: value[:index], Prefix: value[index+1:]}
	}
	return config.ArchiveConfig{Path: value}
}

// environment is everything a command needs after flag parsing.
type environment struct {
	config  *config.Config
	logger  *slog.Logger
	storage *storage.Layered
	closers []io.Closer
}

// open loads configuration, builds the logger, and opens storage. The
// caller must Close the environment.
func (g *globalFlags) open(streams Streams, command string) (*environment, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	env := &environment{
		config: cfg,
		logger: cli.NewCommandLogger(streams.Stderr, cfg.SlogLevel(), cfg.Log.Format).With("command", command),
	}

	searchPaths := cfg.Storage.SearchPaths
	if len(searchPaths) == 0 && len(cfg.Storage.Archives) == 0 {
		searchPaths = []string{"."}
	}

	var layers []storage.Storage
	if len(searchPaths) > 0 {
		dir, err := storage.NewDir(searchPaths...)
		if err != nil {
			return nil, err
		}
		layers = append(layers, dir)
	}
	for _, archiveConfig := range cfg.Storage.Archives {
		archive, err := storage.OpenArchive(archiveConfig.Path, archiveConfig.Prefix)
		if err != nil {
			env.Close()
			return nil, err
		}
		env.closers = append(env.closers, archive)
		layers = append(layers, archive)
	}
	env.storage = storage.NewLayered(layers...)
	return env, nil
}

// Close releases archives.
func (e *environment) Close() error {
	var errs []error
	for _, closer := range e.closers {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

// loadKey materializes the configured key, prompting for a passphrase
// when --passphrase is set. A nil buffer means the empty key.
func (g *globalFlags) loadKey(env *environment, streams Streams) (*secret.Buffer, error) {
	source := resolver.KeySource{
		Env:          env.config.Key.Env,
		File:         env.config.Key.File,
		IdentityFile: env.config.Key.IdentityFile,
	}
	if g.passphrase {
		passphrase, err := readPassphrase(streams, "Key passphrase: ")
		if err != nil {
			return nil, err
		}
		source.Passphrase = passphrase
	}
	key, err := resolver.LoadKey(source)
	if err != nil {
		return nil, err
	}
	if key == nil {
		env.logger.Debug("using the empty artifact key")
	}
	return key, nil
}

// newResolver opens storage and the key and returns a Resolver over
// them. The caller must Close both.
func (g *globalFlags) newResolver(streams Streams, command string) (*environment, *resolver.Resolver, error) {
	env, err := g.open(streams, command)
	if err != nil {
		return nil, nil, err
	}
	key, err := g.loadKey(env, streams)
	if err != nil {
		env.Close()
		return nil, nil, err
	}
	scripts, err := resolver.New(resolver.Options{
		Storage: env.storage,
		Key:     key,
		Logger:  env.logger,
	})
	if err != nil {
		if key != nil {
			key.Close()
		}
		env.Close()
		return nil, nil, err
	}
	return env, scripts, nil
}

// readPassphrase prompts on the terminal without echo, or reads one
// line when stdin is not a terminal.
func readPassphrase(streams Streams, prompt string) (string, error) {
	if file, ok := streams.Stdin.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		fmt.Fprint(streams.Stderr, prompt)
		passphrase, err := term.ReadPassword(int(file.Fd()))
		fmt.Fprintln(streams.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return string(passphrase), nil
	}

	line, err := bufio.NewReader(streams.Stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	passphrase := strings.TrimRight(line, "\r\n")
	if passphrase == "" {
		return "", fmt.Errorf("passphrase is empty")
	}
	return passphrase, nil
}
