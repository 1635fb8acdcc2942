// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "scriptvault",
		Subcommands: []*Command{
			{
				Name: "key",
				Subcommands: []*Command{
					{
						Name: "seal",
						Run: func(args []string) error {
							called = "key seal"
							receivedArgs = args
							return nil
						},
					},
				},
			},
			{Name: "cat", Run: func(args []string) error { called = "cat"; return nil }},
		},
	}

	if err := root.Execute([]string{"key", "seal", "artifact.key"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "key seal" {
		t.Errorf("dispatched to %q, want %q", called, "key seal")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "artifact.key" {
		t.Errorf("args = %v, want [artifact.key]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var level int
	var positional []string

	command := &Command{
		Name: "pack",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pack", pflag.ContinueOnError)
			flagSet.IntVar(&level, "level", 0, "gzip level")
			return flagSet
		},
		Run: func(args []string) error {
			positional = args
			return nil
		},
	}

	if err := command.Execute([]string{"--level", "9", "src"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if level != 9 {
		t.Errorf("level = %d, want 9", level)
	}
	if len(positional) != 1 || positional[0] != "src" {
		t.Errorf("args = %v, want [src]", positional)
	}
}

func TestCommand_Execute_UnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name:        "scriptvault",
		HelpOutput:  &bytes.Buffer{},
		Subcommands: []*Command{{Name: "verify", Run: func([]string) error { return nil }}},
	}

	err := root.Execute([]string{"verfy"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "verify"`) {
		t.Errorf("error = %q, want suggestion", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "pack",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pack", pflag.ContinueOnError)
			flagSet.Bool("compress", false, "gzip payloads")
			return flagSet
		},
		Run: func([]string) error { return nil },
	}

	err := command.Execute([]string{"--compres"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --compress") {
		t.Errorf("error = %q, want suggestion", err)
	}
}

func TestCommand_Execute_HelpWritesToHelpOutput(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:       "scriptvault",
		Summary:    "Resolve encrypted scripts",
		HelpOutput: &help,
		Subcommands: []*Command{
			{Name: "cat", Summary: "Print resolved content", Run: func([]string) error { return nil }},
		},
		Examples: []Example{{Description: "Print a script", Command: "scriptvault cat main.js"}},
	}

	if err := root.Execute([]string{"--help"}); err != nil {
		t.Fatalf("Execute(--help) error: %v", err)
	}
	output := help.String()
	for _, want := range []string{"Resolve encrypted scripts", "cat", "Print resolved content", "scriptvault cat main.js"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name:        "scriptvault",
		HelpOutput:  &bytes.Buffer{},
		Subcommands: []*Command{{Name: "cat", Run: func([]string) error { return nil }}},
	}
	if err := root.Execute(nil); err == nil {
		t.Fatal("expected error when no subcommand given")
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"pack", "pack", 0},
		{"pakc", "pack", 2},
		{"mount", "mounts", 1},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestNewCommandLogger(t *testing.T) {
	var buffer bytes.Buffer
	NewCommandLogger(&buffer, slog.LevelInfo, "auto").Info("packed", "files", 3)
	if !strings.HasPrefix(buffer.String(), "{") {
		t.Errorf("non-terminal auto output should be JSON, got %q", buffer.String())
	}

	buffer.Reset()
	NewCommandLogger(&buffer, slog.LevelInfo, "text").Info("packed", "files", 3)
	if !strings.Contains(buffer.String(), "msg=packed") {
		t.Errorf("text output = %q", buffer.String())
	}

	buffer.Reset()
	NewCommandLogger(&buffer, slog.LevelWarn, "json").Info("hidden")
	if buffer.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buffer.String())
	}
}
