// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/scriptvault/cmd/scriptvault/cli"
	"github.com/bureau-foundation/scriptvault/lib/manifest"
	"github.com/bureau-foundation/scriptvault/lib/sealed"
)

func keyCommand(streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "key",
		Summary: "Manage the artifact key",
		Description: `Manage the artifact cipher key.

The key can live in a plain file, in an environment variable, or in a
file sealed with age to one or more recipients or a passphrase. Sealed
key files are opened with --identity-file or --passphrase.`,
		Subcommands: []*cli.Command{
			keySealCommand(streams),
			keyFingerprintCommand(streams),
			keyIdentityCommand(streams),
		},
	}
}

func keySealCommand(streams Streams) *cli.Command {
	var (
		global         globalFlags
		recipients     []string
		withPassphrase bool
		output         string
	)
	return &cli.Command{
		Name:    "seal",
		Summary: "Seal the key with age",
		Description: `Read the configured key and write it sealed with age, armored, so it
can be committed or shipped alongside a build. Seal to one or more
age1... recipients, or to a passphrase read from the terminal (or the
first line of stdin when stdin is not a terminal).`,
		Usage: "scriptvault key seal (--recipient <age1...>... | --seal-passphrase) [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("seal", pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.StringArrayVar(&recipients, "recipient", nil, "age recipient to seal to (repeatable)")
			flagSet.BoolVar(&withPassphrase, "seal-passphrase", false, "seal to a passphrase instead of recipients")
			flagSet.StringVarP(&output, "output", "o", "", "write the sealed key here instead of stdout")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Seal a plain key to a recipient",
				Command:     "scriptvault key seal --key-file artifact.key --recipient age1... -o artifact.key.age",
			},
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("key seal: unexpected arguments %v", args)
			}
			if (len(recipients) > 0) == withPassphrase {
				return fmt.Errorf("key seal: exactly one of --recipient or --seal-passphrase is required")
			}

			env, err := global.open(streams, "key/seal")
			if err != nil {
				return err
			}
			defer env.Close()

			key, err := global.loadKey(env, streams)
			if err != nil {
				return err
			}
			if key == nil {
				return fmt.Errorf("key seal: no key configured (use --key-file, --key-stdin, or --key-env)")
			}
			defer key.Close()

			var sealedKey []byte
			if withPassphrase {
				passphrase, err := readPassphrase(streams, "New passphrase: ")
				if err != nil {
					return err
				}
				sealedKey, err = sealed.SealKeyWithPassphrase(key.Bytes(), passphrase)
				if err != nil {
					return err
				}
			} else {
				sealedKey, err = sealed.SealKey(key.Bytes(), recipients)
				if err != nil {
					return err
				}
			}

			if output != "" {
				return os.WriteFile(output, sealedKey, 0o600)
			}
			_, err = streams.Stdout.Write(sealedKey)
			return err
		},
	}
}

func keyFingerprintCommand(streams Streams) *cli.Command {
	var global globalFlags
	return &cli.Command{
		Name:    "fingerprint",
		Summary: "Print the key's fingerprint",
		Description: `Print the fingerprint pack records in manifests, so a key can be
matched to a build without revealing it.`,
		Usage: "scriptvault key fingerprint [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("fingerprint", pflag.ContinueOnError)
			global.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			env, err := global.open(streams, "key/fingerprint")
			if err != nil {
				return err
			}
			defer env.Close()

			key, err := global.loadKey(env, streams)
			if err != nil {
				return err
			}
			var keyBytes []byte
			if key != nil {
				defer key.Close()
				keyBytes = key.Bytes()
			}
			fmt.Fprintln(streams.Stdout, manifest.KeyFingerprint(keyBytes))
			return nil
		},
	}
}

func keyIdentityCommand(streams Streams) *cli.Command {
	var output string
	return &cli.Command{
		Name:    "identity",
		Summary: "Generate an age identity for sealing keys",
		Description: `Generate an X25519 age identity. The identity is written to --output
with mode 0600 and the matching recipient is printed to stdout.`,
		Usage: "scriptvault key identity --output <file>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("identity", pflag.ContinueOnError)
			flagSet.StringVarP(&output, "output", "o", "", "identity file to create")
			return flagSet
		},
		Run: func(args []string) error {
			if output == "" {
				return fmt.Errorf("key identity: --output is required")
			}
			keypair, err := sealed.GenerateKeypair()
			if err != nil {
				return err
			}
			defer keypair.Close()

			file, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if err != nil {
				return err
			}
			fmt.Fprintf(file, "# recipient: %s\n", keypair.Recipient)
			if _, err := file.Write(keypair.Identity.Bytes()); err != nil {
				file.Close()
				return err
			}
			if _, err := file.WriteString("\n"); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintln(streams.Stdout, keypair.Recipient)
			return nil
		},
	}
}
