// ABOUTME: The check subcommand: validates config and blueprint and verifies the built graph.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/patchbay/editor"
	"github.com/2389-research/patchbay/graph"
)

func checkCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the config and blueprint without opening an editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			status(w, "Config", "%s", Good.Sprint("ok"))

			bp, err := opts.blueprint()
			if err != nil {
				return err
			}
			if err := bp.Check(); err != nil {
				return err
			}

			sess := editor.NewSession("check", cfg, cfg.Layout.Pixel)
			if err := sess.Seed(func(reg *graph.Registry) error {
				_, err := bp.Apply(reg)
				return err
			}); err != nil {
				return err
			}
			if err := sess.Verify(); err != nil {
				return fmt.Errorf("verify: %w", err)
			}
			snap := sess.Snapshot()
			status(w, "Blueprint", "%s, %d nodes, %d connections", Good.Sprint("ok"), len(snap.Nodes), len(snap.Connections))
			return nil
		},
	}
}
