// ABOUTME: The snapshot subcommand: renders a blueprint-seeded graph to PNG, DOT, or SVG.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/2389-research/patchbay/editor"
	"github.com/2389-research/patchbay/graph"
	"github.com/2389-research/patchbay/render"
)

func snapshotCmd(opts *options) *cobra.Command {
	var out, format string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the graph to a PNG image, DOT text, or graphviz SVG",
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

			sess := editor.NewSession("snapshot", cfg, cfg.Layout.Pixel)
			if err := sess.Seed(func(reg *graph.Registry) error {
				_, err := bp.Apply(reg)
				return err
			}); err != nil {
				return err
			}

			var data []byte
			if format == render.FormatPNG {
				cache := render.NewRenderCache(render.PNGRenderFunc(cfg.PNGOptions()), cfg.Server.CacheTTL)
				data, err = sess.Render(cmd.Context(), cache, format)
			} else {
				data, err = sess.Export(cmd.Context(), format)
			}
			if err != nil {
				return err
			}
			if out == "" {
				out = "patchbay." + format
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}

			snap := sess.Snapshot()
			status(cmd.OutOrStdout(), "Snapshot", "%s (%d bytes)", out, len(data))
			status(cmd.OutOrStdout(), "Graph", "%d nodes, %d connections", len(snap.Nodes), len(snap.Connections))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default: patchbay.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", render.FormatPNG, "Output format: png, dot, svg")
	return cmd
}
