// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Environment != Development {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if !cfg.Pack.Compress {
		t.Error("Pack.Compress should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFile_YAML(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "scriptvault.yaml")
	content := `
environment: development
storage:
  search_paths:
    - scripts
    - /opt/game/scripts
  archives:
    - path: game.apk
      prefix: assets/
key:
  file: keys/artifact.key
pack:
  output: build
  level: 6
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	wantSearch := []string{filepath.Join(directory, "scripts"), "/opt/game/scripts"}
	if len(cfg.Storage.SearchPaths) != 2 {
		t.Fatalf("SearchPaths = %v", cfg.Storage.SearchPaths)
	}
	for index, want := range wantSearch {
		if cfg.Storage.SearchPaths[index] != want {
			t.Errorf("SearchPaths[%d] = %q, want %q", index, cfg.Storage.SearchPaths[index], want)
		}
	}
	if cfg.Storage.Archives[0].Path != filepath.Join(directory, "game.apk") {
		t.Errorf("archive path = %q", cfg.Storage.Archives[0].Path)
	}
	if cfg.Storage.Archives[0].Prefix != "assets/" {
		t.Errorf("archive prefix = %q", cfg.Storage.Archives[0].Prefix)
	}
	if cfg.Key.File != filepath.Join(directory, "keys/artifact.key") {
		t.Errorf("Key.File = %q", cfg.Key.File)
	}
	if cfg.Pack.Level != 6 {
		t.Errorf("Pack.Level = %d, want 6", cfg.Pack.Level)
	}
	// Unset fields keep their defaults.
	if !cfg.Pack.Compress {
		t.Error("Pack.Compress lost its default")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, want debug", cfg.SlogLevel())
	}
}

func TestLoadFile_JSONC(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "scriptvault.jsonc")
	content := `{
  // Production packaging.
  "environment": "production",
  "storage": {
    "search_paths": ["/srv/scripts"],
  },
  "key": {"env": "GAME_KEY"},
  "log": {"format": "json"},
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Environment != Production {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if cfg.Key.Env != "GAME_KEY" {
		t.Errorf("Key.Env = %q", cfg.Key.Env)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q", cfg.Log.Format)
	}
	if cfg.Storage.SearchPaths[0] != "/srv/scripts" {
		t.Errorf("SearchPaths = %v", cfg.Storage.SearchPaths)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	content := `
environment: production
storage:
  search_paths: [/dev/scripts]
key:
  file: /dev/key
pack:
  compress: true
production:
  storage:
    search_paths: [/prod/scripts]
  key:
    env: PROD_KEY
  pack:
    compress: false
  log:
    level: warn
development:
  storage:
    search_paths: [/never]
`
	cfg, err := Parse([]byte(content), ".yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := cfg.Storage.SearchPaths; len(got) != 1 || got[0] != "/prod/scripts" {
		t.Errorf("SearchPaths = %v, want [/prod/scripts]", got)
	}
	if cfg.Key.Env != "PROD_KEY" || cfg.Key.File != "" {
		t.Errorf("Key = %+v, want env override to clear file", cfg.Key)
	}
	if cfg.Pack.Compress {
		t.Error("production override should disable compression")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestExpandVariables(t *testing.T) {
	t.Setenv("SCRIPTVAULT_TEST_ROOT", "/game")
	content := `
storage:
  search_paths:
    - ${SCRIPTVAULT_TEST_ROOT}/scripts
    - ${SCRIPTVAULT_TEST_UNSET:-/fallback}/scripts
`
	cfg, err := Parse([]byte(content), ".yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"/game/scripts", "/fallback/scripts"}
	for index, path := range want {
		if cfg.Storage.SearchPaths[index] != path {
			t.Errorf("SearchPaths[%d] = %q, want %q", index, cfg.Storage.SearchPaths[index], path)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"environment", func(c *Config) { c.Environment = "staging" }, "invalid environment"},
		{"key sources", func(c *Config) { c.Key.Env = "K"; c.Key.File = "/k" }, "mutually exclusive"},
		{"archive path", func(c *Config) { c.Storage.Archives = []ArchiveConfig{{Prefix: "assets/"}} }, "archives[0].path"},
		{"level", func(c *Config) { c.Pack.Level = 11 }, "pack.level"},
		{"extension", func(c *Config) { c.Pack.Extensions = []string{"js"} }, "pack.extensions"},
		{"artifact extension", func(c *Config) { c.Pack.Extensions = []string{".jsc"} }, "pack.extensions"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error %q does not mention %q", err, test.want)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Environment = "bogus"
	cfg.Log.Level = "loud"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	message := err.Error()
	if !strings.Contains(message, "environment") || !strings.Contains(message, "log.level") {
		t.Errorf("expected both problems reported, got %q", message)
	}
}

func TestLoad_RequiresVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when SCRIPTVAULT_CONFIG is unset")
	}
}
