// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/scriptvault/cmd/scriptvault/cli"
	"github.com/bureau-foundation/scriptvault/lib/mount"
)

func mountCommand(streams Streams) *cli.Command {
	var (
		global     globalFlags
		allowOther bool
	)
	return &cli.Command{
		Name:    "mount",
		Summary: "Mount a read-only view of resolved scripts",
		Description: `Mount a FUSE filesystem in which every script appears under its
logical source name with the content the host would run: artifacts
are decrypted and inflated, and x.jsc is listed as x.js. Runs until
interrupted, then unmounts.`,
		Usage: "scriptvault mount <mountpoint> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("mount", pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.BoolVar(&allowOther, "allow-other", false, "allow other users to read the mount")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("mount: expected exactly one mountpoint")
			}
			env, scripts, err := global.newResolver(streams, "mount")
			if err != nil {
				return err
			}
			defer env.Close()
			defer scripts.Close()

			server, err := mount.Mount(mount.Options{
				Mountpoint: args[0],
				Resolver:   scripts,
				Lister:     env.storage,
				AllowOther: allowOther || env.config.Mount.AllowOther,
				Logger:     env.logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			env.logger.Info("unmounting", "mountpoint", args[0])
			return server.Unmount()
		},
	}
}
