// ABOUTME: The tui subcommand: an interactive terminal editor over a blueprint-seeded session.
package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389-research/patchbay/editor"
	"github.com/2389-research/patchbay/graph"
	"github.com/2389-research/patchbay/render"
	"github.com/2389-research/patchbay/tui"
)

func tuiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Edit the graph in the terminal; drag node headers with the mouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			bp, err := opts.blueprint()
			if err != nil {
				return err
			}
			// Blueprints are authored in pixels; the terminal grid is one cell per unit.
			bp = bp.Scaled(1/render.CellPixels.X, 1/render.CellPixels.Y)

			sess := editor.NewSession("tui", cfg, cfg.Layout.Cell)
			if err := sess.Seed(func(reg *graph.Registry) error {
				_, err := bp.Apply(reg)
				return err
			}); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return tui.Run(ctx, sess, graphName(opts))
		},
	}
}

func graphName(opts *options) string {
	if opts.blueprintPath == "" {
		return editor.DemoBlueprint
	}
	return filepath.Base(opts.blueprintPath)
}

