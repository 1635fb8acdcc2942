// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "SCRIPTVAULT_CONFIG"

// Environment selects which override section applies.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Config is the complete scriptvault configuration.
type Config struct {
	// Environment selects the override section (development, production).
	Environment Environment `yaml:"environment"`

	// Storage configures where scripts and artifacts are read from.
	Storage StorageConfig `yaml:"storage"`

	// Key configures where the artifact cipher key comes from.
	Key KeyConfig `yaml:"key"`

	// Pack configures artifact production.
	Pack PackConfig `yaml:"pack"`

	// Mount configures the FUSE view.
	Mount MountConfig `yaml:"mount"`

	// Log configures diagnostics output.
	Log LogConfig `yaml:"log"`

	Development *Overrides `yaml:"development,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides holds the fields an environment section may replace.
type Overrides struct {
	Storage *StorageConfig `yaml:"storage,omitempty"`
	Key     *KeyConfig     `yaml:"key,omitempty"`
	Pack    *PackConfig    `yaml:"pack,omitempty"`
	Log     *LogConfig     `yaml:"log,omitempty"`
}

// StorageConfig lists lookup locations, highest priority first:
// every search path, then every archive.
type StorageConfig struct {
	// SearchPaths are directories searched in order.
	SearchPaths []string `yaml:"search_paths"`

	// Archives are zip files (application packages) consulted after
	// the search paths.
	Archives []ArchiveConfig `yaml:"archives"`
}

// ArchiveConfig is one zip archive.
type ArchiveConfig struct {
	// Path is the archive file.
	Path string `yaml:"path"`

	// Prefix is the in-archive directory logical paths are relative
	// to, e.g. "assets/".
	Prefix string `yaml:"prefix"`
}

// KeyConfig says where the cipher key comes from. Passphrases are
// never read from configuration.
type KeyConfig struct {
	// Env names a variable holding the key verbatim.
	Env string `yaml:"env"`

	// File is a plain or age-sealed key file.
	File string `yaml:"file"`

	// IdentityFile holds age identities that open a sealed File.
	IdentityFile string `yaml:"identity_file"`
}

// PackConfig controls artifact production.
type PackConfig struct {
	// Output is the directory artifacts are written to.
	Output string `yaml:"output"`

	// Compress gzips payloads before encryption.
	Compress bool `yaml:"compress"`

	// Level is the gzip level: -1 (library default) or 1-9. Zero
	// means the default.
	Level int `yaml:"level"`

	// Manifest is where the pack manifest is written. Empty means
	// scriptvault.manifest inside Output.
	Manifest string `yaml:"manifest"`

	// Extensions are the source extensions pack picks up when walking
	// directories.
	Extensions []string `yaml:"extensions"`
}

// MountConfig controls the FUSE view.
type MountConfig struct {
	// AllowOther lets other users read the mount. Requires
	// user_allow_other in /etc/fuse.conf.
	AllowOther bool `yaml:"allow_other"`
}

// LogConfig controls diagnostics.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level"`

	// Format is auto (text on a terminal, JSON otherwise), json, or
	// text.
	Format string `yaml:"format"`
}

// Default returns the configuration used before a file is applied.
func Default() *Config {
	return &Config{
		Environment: Development,
		Pack: PackConfig{
			Compress:   true,
			Extensions: []string{".js"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load reads the file named by SCRIPTVAULT_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s is not set; set it to your scriptvault config file or pass --config", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile reads configuration from path on top of Default, applies
// the matching environment overrides, and expands paths.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolving config directory: %w", err)
	}
	cfg.resolvePaths(base)
	return cfg, nil
}

// Parse decodes configuration bytes. ext selects the syntax: ".json"
// and ".jsonc" are JSONC, anything else YAML. Paths are expanded but
// not made absolute.
func Parse(data []byte, ext string) (*Config, error) {
	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if overrides.Storage != nil {
		if len(overrides.Storage.SearchPaths) > 0 {
			c.Storage.SearchPaths = overrides.Storage.SearchPaths
		}
		if len(overrides.Storage.Archives) > 0 {
			c.Storage.Archives = overrides.Storage.Archives
		}
	}

	if overrides.Key != nil {
		if overrides.Key.Env != "" {
			c.Key.Env = overrides.Key.Env
			c.Key.File = ""
		}
		if overrides.Key.File != "" {
			c.Key.File = overrides.Key.File
			c.Key.Env = ""
		}
		if overrides.Key.IdentityFile != "" {
			c.Key.IdentityFile = overrides.Key.IdentityFile
		}
	}

	if overrides.Pack != nil {
		if overrides.Pack.Output != "" {
			c.Pack.Output = overrides.Pack.Output
		}
		// Compress is a bool, so an override section always sets it.
		c.Pack.Compress = overrides.Pack.Compress
		if overrides.Pack.Level != 0 {
			c.Pack.Level = overrides.Pack.Level
		}
		if overrides.Pack.Manifest != "" {
			c.Pack.Manifest = overrides.Pack.Manifest
		}
		if len(overrides.Pack.Extensions) > 0 {
			c.Pack.Extensions = overrides.Pack.Extensions
		}
	}

	if overrides.Log != nil {
		if overrides.Log.Level != "" {
			c.Log.Level = overrides.Log.Level
		}
		if overrides.Log.Format != "" {
			c.Log.Format = overrides.Log.Format
		}
	}
}

// pathFields returns pointers to every path-valued field.
func (c *Config) pathFields() []*string {
	fields := []*string{
		&c.Key.File,
		&c.Key.IdentityFile,
		&c.Pack.Output,
		&c.Pack.Manifest,
	}
	for index := range c.Storage.SearchPaths {
		fields = append(fields, &c.Storage.SearchPaths[index])
	}
	for index := range c.Storage.Archives {
		fields = append(fields, &c.Storage.Archives[index].Path)
	}
	return fields
}

func (c *Config) expandVariables() {
	vars := map[string]string{"HOME": os.Getenv("HOME")}
	for _, field := range c.pathFields() {
		*field = expandVars(*field, vars)
	}
}

// resolvePaths makes relative path fields absolute against base. The
// stdin marker "-" is left alone.
func (c *Config) resolvePaths(base string) {
	for _, field := range c.pathFields() {
		if *field == "" || *field == "-" || filepath.IsAbs(*field) {
			continue
		}
		*field = filepath.Join(base, *field)
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default}, consulting vars
// before the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name := parts[1]
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return parts[2]
	})
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"auto", "json", "text"}
)

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %q", c.Environment))
	}
	if c.Key.Env != "" && c.Key.File != "" {
		errs = append(errs, fmt.Errorf("key.env and key.file are mutually exclusive"))
	}
	for index, archive := range c.Storage.Archives {
		if archive.Path == "" {
			errs = append(errs, fmt.Errorf("storage.archives[%d].path is required", index))
		}
	}
	if c.Pack.Level < -1 || c.Pack.Level > 9 {
		errs = append(errs, fmt.Errorf("pack.level must be -1 or 0-9, got %d", c.Pack.Level))
	}
	for _, extension := range c.Pack.Extensions {
		if !strings.HasPrefix(extension, ".") || extension == ".jsc" {
			errs = append(errs, fmt.Errorf("pack.extensions: invalid extension %q", extension))
		}
	}
	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of %v", logLevels))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of %v", logFormats))
	}

	return errors.Join(errs...)
}

// SlogLevel converts Log.Level. Unknown levels map to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
